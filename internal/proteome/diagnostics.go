package proteome

import (
	"fmt"

	"go.uber.org/zap"
)

// Diagnostic is a non-fatal problem found while reading one protein.
type Diagnostic struct {
	// Protein is empty for problems with a whole job folder.
	Protein string `json:"protein"`
	Text    string `json:"text"`
}

// Diagnostics collects the diagnostics of one batch.
// It is not safe for concurrent use; every batch owns its own sink.
type Diagnostics struct {
	messages []Diagnostic
	logger   *zap.Logger
}

// NewDiagnostics creates an empty diagnostics sink.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{logger: zap.NewNop()}
}

// SetLogger sets the logger every diagnostic is echoed to.
func (d *Diagnostics) SetLogger(l *zap.Logger) {
	d.logger = l
}

// Addf records a diagnostic for protein.
func (d *Diagnostics) Addf(protein, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	d.messages = append(d.messages, Diagnostic{Protein: protein, Text: text})
	d.logger.Warn(text, zap.String("protein", protein))
}

// Messages returns the recorded diagnostics in insertion order.
func (d *Diagnostics) Messages() []Diagnostic {
	out := make([]Diagnostic, len(d.messages))
	copy(out, d.messages)
	return out
}

// Len returns the number of recorded diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.messages)
}
