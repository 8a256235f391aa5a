package predict

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mdisorderHeader = "Number\tResidue\tNORSnet\tNORS2st\tPROFbval\tbval2st\tUcon\tUcon2st\tMD_raw\tMD_rel\tMD2st\n"

func mdisorderRow(n int, call string) string {
	return strings.Join([]string{
		strconv.Itoa(n), "M", "0.47", "-", "0.55", "D", "0.58", "D", "0.61", "6", call,
	}, "\t") + "\n"
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestReadDisorder(t *testing.T) {
	input := "# MetaDisorder\n" + mdisorderHeader +
		mdisorderRow(1, "D") + mdisorderRow(2, "D") + mdisorderRow(3, "-") + mdisorderRow(4, "D")

	ann, err := ReadDisorder(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Annotation{"D", "D", "-", "D"}, ann)
}

func TestReadDisorder_TrailingBlankLine(t *testing.T) {
	input := mdisorderHeader + mdisorderRow(1, "D") + mdisorderRow(2, "-") + "\n"

	ann, err := ReadDisorder(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, ann, 2)
}

func TestReadDisorder_ColumnMismatch(t *testing.T) {
	input := mdisorderHeader +
		mdisorderRow(1, "D") +
		mdisorderRow(2, "D") +
		"3\tM\t0.47\t-\t0.55\tD\t0.58\tD\t0.61\tD\n" +
		mdisorderRow(4, "D")

	ann, err := ReadDisorder(strings.NewReader(input))
	require.Error(t, err)

	var malformed *MalformedError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 4, malformed.Line)
	assert.Contains(t, malformed.Error(), "expected 11 columns, found 10")

	// Residues read before the break are kept.
	assert.Equal(t, Annotation{"D", "D"}, ann)
}

func TestReadDisorder_MissingHeader(t *testing.T) {
	ann, err := ReadDisorder(strings.NewReader("1\tM\tD\n2\tK\tD\n"))
	var malformed *MalformedError
	require.True(t, errors.As(err, &malformed))
	assert.Contains(t, malformed.Reason, "header")
	assert.Empty(t, ann)
}

func TestReadStructure(t *testing.T) {
	input := `# RePROF output
# VALUE	PROT_NCHN	1
No	AA	PHEL	RI_S	OtH	OtE	OtL
1	M	L	5	10	5	80
2	K	H	7	80	5	10
3	R	H	7	85	5	8
4	I	E	3	10	70	20
5	S	L	6	5	5	90
`
	ann, err := ReadStructure(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Annotation{"L", "H", "H", "E", "L"}, ann)
}

func TestReadStructure_Truncated(t *testing.T) {
	input := "No\tAA\tPHEL\tRI_S\n1\tM\tL\t5\n2\tK\tH\n"
	ann, err := ReadStructure(strings.NewReader(input))

	var malformed *MalformedError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 3, malformed.Line)
	assert.Equal(t, Annotation{"L"}, ann)
}

const pronaInput = `# ProNA2020 prediction
Res_1 M 10 0 0 0 -1 0
Res_2 K 20 1 50 1 -1 1
Res_3 R 33 1 66 1 67 1
Res_4 I 34 1 67 1 100 1
Res_5 S 90 1 0 1 -1 0
`

func TestReadBinding(t *testing.T) {
	channels, err := ReadBinding(strings.NewReader(pronaInput))
	require.NoError(t, err)
	require.Len(t, channels, 3)

	assert.Equal(t, Annotation{".", "P0", "P0", "P1", "P2"}, channels[ProteinChannel])
	assert.Equal(t, Annotation{".", "D1", "D1", "D2", "D0"}, channels[DNAChannel])
	assert.Equal(t, Annotation{".", "X", "R2", "R2", "."}, channels[RNAChannel])
}

func TestReadBinding_ShortRowStops(t *testing.T) {
	input := "Res_1 M 10 1 0 0 0 0\nRes_2 K 20 1 50 1 10\nRes_3 R 90 1 0 0 0 0\n"
	channels, err := ReadBinding(strings.NewReader(input))

	var malformed *MalformedError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 2, malformed.Line)
	for _, ch := range channels {
		assert.Len(t, ch, 1)
	}
}

func TestReadBinding_InvalidIndex(t *testing.T) {
	input := "Res_1 M 10 1 0 0 0 0\nRes_2 K abc 1 0 0 0 0\n"
	channels, err := ReadBinding(strings.NewReader(input))

	var malformed *MalformedError
	require.True(t, errors.As(err, &malformed))
	assert.Contains(t, malformed.Reason, "abc")
	assert.Equal(t, Annotation{"P0"}, channels[ProteinChannel])
	assert.Len(t, channels[DNAChannel], 1)
}

func TestReadBinding_NoRows(t *testing.T) {
	_, err := ReadBinding(strings.NewReader("# nothing predicted\n"))
	var malformed *MalformedError
	assert.True(t, errors.As(err, &malformed))
}

func TestReliabilityClass(t *testing.T) {
	tests := []struct {
		ri       int
		expected int
	}{
		{-1, -1},
		{-100, -1},
		{0, 0},
		{33, 0},
		{34, 1},
		{66, 1},
		{67, 2},
		{100, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ReliabilityClass(tt.ri), "ri=%d", tt.ri)
	}
}

func TestReadTopology(t *testing.T) {
	input := `# TMSEG
# version 1.0
>P62524
MTALLRVISLVVISVVVIIIPPCGAALGRGKA
222HHHHHHHHHHHHHHHHHHHHHHHH11111
`
	ann, err := ReadTopology(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, ann, 32)
	assert.Equal(t, "2", ann[0])
	assert.Equal(t, "H", ann[3])
	assert.Equal(t, "1", ann[31])
}

func TestReadTopology_LengthMismatch(t *testing.T) {
	input := ">P1\nMKRIST\n22HH1\n"
	ann, err := ReadTopology(strings.NewReader(input))

	var malformed *MalformedError
	require.True(t, errors.As(err, &malformed))
	assert.Contains(t, malformed.Reason, "does not match")
	assert.Empty(t, ann)
}

func TestReadTopology_NonASCIISequence(t *testing.T) {
	ann, err := ReadTopology(strings.NewReader(">P1\nMÄK\nHH1\n"))
	require.NoError(t, err)
	assert.Equal(t, Annotation{"H", "H", "1"}, ann)

	path := writeFile(t, "P1.tmseg", []byte(">P1\nM\xc4K\nHH1\n"))
	ann, enc, err := ParseFile(path, ReadTopology)
	require.NoError(t, err)
	assert.Equal(t, Latin1, enc)
	assert.Equal(t, Annotation{"H", "H", "1"}, ann)
}

func TestReadTopology_MissingAnnotation(t *testing.T) {
	ann, err := ReadTopology(strings.NewReader("# header only\n>P1\nMKRIST\n"))
	var malformed *MalformedError
	require.True(t, errors.As(err, &malformed))
	assert.Empty(t, ann)
}

func TestReadTopology_NewHeaderRestartsRecord(t *testing.T) {
	input := ">P1\nMKRISTTT\n>P1 again\nMKR\nSS1\n"
	ann, err := ReadTopology(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Annotation{"S", "S", "1"}, ann)
}

func TestReadSequence(t *testing.T) {
	input := ">sp|P62524|SECE_ECOLI\nMTALLRVISL VVISVVVIII\nPPCGAALGRGKA\n"
	seq, err := ReadSequence(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "MTALLRVISLVVISVVVIIIPPCGAALGRGKA", seq)
}

func TestReadSequence_MultipleRecords(t *testing.T) {
	input := ">P1\nMKR\n>P2\nIST\n"
	_, err := ReadSequence(strings.NewReader(input))

	var seqErr *SequenceFormatError
	require.True(t, errors.As(err, &seqErr))
	assert.Equal(t, 2, seqErr.Records)
}

func TestDecode(t *testing.T) {
	text, enc, err := Decode([]byte("Number\tRésidu\n"))
	require.NoError(t, err)
	assert.Equal(t, UTF8, enc)
	assert.Equal(t, "Number\tRésidu\n", text)

	// "é" in latin-1 is the single byte 0xE9, which is invalid utf-8.
	text, enc, err = Decode([]byte{'R', 0xE9, 's'})
	require.NoError(t, err)
	assert.Equal(t, Latin1, enc)
	assert.Equal(t, "Rés", text)
}

func TestParseFile_Latin1Fallback(t *testing.T) {
	content := "# Prédiction MetaDisorder\n" + mdisorderHeader + mdisorderRow(1, "D") + mdisorderRow(2, "-")
	latin := make([]byte, 0, len(content))
	for _, r := range content {
		latin = append(latin, byte(r))
	}
	path := writeFile(t, "P1.mdisorder", latin)

	ann, enc, err := ParseFile(path, ReadDisorder)
	require.NoError(t, err)
	assert.Equal(t, Latin1, enc)
	assert.Equal(t, Annotation{"D", "-"}, ann)
}

func TestParseFile_Missing(t *testing.T) {
	_, _, err := ParseFile(filepath.Join(t.TempDir(), "absent.reprof"), ReadStructure)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
