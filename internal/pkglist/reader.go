package pkglist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nao1215/typescore/internal/model"
)

// ErrInput is returned when the package list cannot be read or parsed.
// This is one of the two fatal error classes: a broken input list aborts
// the whole run, unlike per-package failures which only zero that
// package's score.
var ErrInput = errors.New("cannot read packages file")

// Reader parses a package list file into ordered PackageRecords.
type Reader struct {
	// separator is the column separator for lines carrying extra columns.
	// The same separator is used later when writing the report.
	separator rune
}

// NewReader creates a Reader using the given column separator.
func NewReader(separator rune) *Reader {
	return &Reader{separator: separator}
}

// Read parses the file at path into one PackageRecord per non-empty line,
// preserving input order. Errors are wrapped with ErrInput.
func (r *Reader) Read(path string) ([]model.PackageRecord, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	records, err := r.parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInput, path, err)
	}
	return records, nil
}

// parse reads CSV records from rd. Using encoding/csv rather than naive
// splitting keeps quoting rules symmetric with the report writer, so a
// value containing the separator round-trips intact.
func (r *Reader) parse(rd io.Reader) ([]model.PackageRecord, error) {
	cr := csv.NewReader(rd)
	cr.Comma = r.separator
	cr.FieldsPerRecord = -1 // lines may carry any number of extra columns
	cr.TrimLeadingSpace = true

	var records []model.PackageRecord
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		for i, field := range fields {
			fields[i] = strings.TrimSpace(field)
		}
		// A lone empty field is what csv produces for a whitespace-only line.
		if len(fields) == 1 && fields[0] == "" {
			continue
		}

		rec := model.PackageRecord{Name: fields[0]}
		if len(fields) > 1 {
			rec.Extra = fields[1:]
		}
		records = append(records, rec)
	}
	return records, nil
}
