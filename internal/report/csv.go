package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/nao1215/typescore/internal/model"
)

// CSVWriter writes the score report as header-less CSV.
//
// Column order, non-verbose: package, module, score, extra columns.
// Column order, verbose: package, version, module, score, description,
// extra columns. Values containing the separator or other CSV-special
// characters are quoted by encoding/csv, so output written with a given
// separator re-parses exactly with the same separator.
type CSVWriter struct {
	output    io.Writer
	separator rune
	verbose   bool
}

// CSVOption configures a CSVWriter.
type CSVOption func(*CSVWriter)

// WithSeparator sets the column separator. Default is a comma.
func WithSeparator(sep rune) CSVOption {
	return func(w *CSVWriter) {
		if sep != 0 {
			w.separator = sep
		}
	}
}

// WithVerbose enables the extended column set (version and description).
func WithVerbose(verbose bool) CSVOption {
	return func(w *CSVWriter) {
		w.verbose = verbose
	}
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer, opts ...CSVOption) *CSVWriter {
	w := &CSVWriter{
		output:    output,
		separator: ',',
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write serializes all rows. Write errors are wrapped with ErrOutput.
func (w *CSVWriter) Write(rows []model.ReportRow) (int, error) {
	cw := &countingWriter{w: w.output}
	enc := csv.NewWriter(cw)
	enc.Comma = w.separator

	for _, row := range rows {
		if err := enc.Write(w.project(row)); err != nil {
			return cw.n, fmt.Errorf("%w: %v", ErrOutput, err)
		}
	}
	enc.Flush()
	if err := enc.Error(); err != nil {
		return cw.n, fmt.Errorf("%w: %v", ErrOutput, err)
	}
	return cw.n, nil
}

// project flattens a row into its column values for the configured
// verbosity. Extra columns always come after the required ones.
func (w *CSVWriter) project(row model.ReportRow) []string {
	fields := make([]string, 0, 5+len(row.Extra))
	fields = append(fields, row.PackageName)
	if w.verbose {
		fields = append(fields, row.Version)
	}
	fields = append(fields, row.ModuleName, row.ScoreString())
	if w.verbose {
		fields = append(fields, row.Description)
	}
	return append(fields, row.Extra...)
}
