package predict

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Binding channels in the order ReadBinding returns them.
const (
	ProteinChannel = iota
	DNAChannel
	RNAChannel
	numChannels
)

// Symbols for residues without a usable binding call.
const (
	Unbound      = "."
	Undetermined = "X"
)

const pronaColumns = 8

// channelPrefixes label the bucketed classes of each channel.
var channelPrefixes = [numChannels]string{"P", "D", "R"}

// ReadBinding parses a ProNA (.prona) file into protein, DNA and RNA
// binding channels. Residue rows start with "Res_" and carry, per channel,
// a reliability index followed by a binary call:
//
//	Res_<n>  <aa>  <proRI> <pro>  <dnaRI> <dna>  <rnaRI> <rna>
func ReadBinding(r io.Reader) ([]Annotation, error) {
	channels := make([]Annotation, numChannels)
	err := scanColumns(r, columnFormat{
		isData: func(line string) bool {
			return strings.HasPrefix(line, "Res_")
		},
		width: pronaColumns,
		extract: func(fields []string) error {
			symbols := make([]string, numChannels)
			for c := 0; c < numChannels; c++ {
				sym, err := bindingSymbol(c, fields[2+2*c], fields[3+2*c])
				if err != nil {
					return err
				}
				symbols[c] = sym
			}
			for c, sym := range symbols {
				channels[c] = append(channels[c], sym)
			}
			return nil
		},
	})
	return channels, err
}

// bindingSymbol buckets one channel of a residue row.
func bindingSymbol(channel int, ri, call string) (string, error) {
	if call == "0" {
		return Unbound, nil
	}
	v, err := strconv.Atoi(ri)
	if err != nil {
		return "", fmt.Errorf("invalid reliability index %q", ri)
	}
	class := ReliabilityClass(v)
	if class < 0 {
		return Undetermined, nil
	}
	return channelPrefixes[channel] + strconv.Itoa(class), nil
}

// ReliabilityClass buckets a 0-100 reliability index into classes
// 0 (00-33), 1 (34-66) and 2 (67-100). Negative indices are undetermined
// and return -1.
func ReliabilityClass(ri int) int {
	switch {
	case ri < 0:
		return -1
	case ri <= 33:
		return 0
	case ri <= 66:
		return 1
	default:
		return 2
	}
}
