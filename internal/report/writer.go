package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/typescore/internal/model"
)

// ErrOutput is returned when the report destination cannot be created or
// written. Like a broken input list, this aborts the whole run; every
// other failure is absorbed into zero-score rows.
var ErrOutput = errors.New("cannot write report")

// Writer defines the interface for report output. Implementations write
// aggregated rows in various formats and report the number of bytes
// written, so destinations can be composed or measured.
type Writer interface {
	Write(rows []model.ReportRow) (int, error)
}

// CreateFile creates the report destination, making parent directories as
// needed. Failures are wrapped with ErrOutput. Calling this before
// scoring begins makes an unwritable destination fail fast instead of
// discarding a completed run's work.
func CreateFile(path string) (io.WriteCloser, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOutput, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutput, err)
	}
	return f, nil
}

// countingWriter wraps an io.Writer and tracks bytes written, since
// encoding/csv does not report them.
type countingWriter struct {
	w io.Writer
	n int
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += n
	return n, err
}
