package checker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/nao1215/typescore/internal/model"
)

// DefaultCheckTimeout bounds a checker invocation when no timeout option
// is given.
const DefaultCheckTimeout = 5 * time.Minute

// Pyright runs the pyright type checker (or a compatible tool) in verify
// mode against one module per invocation. Each Check spawns one external
// process; no retry is performed, a single failure is final for that
// module within the run.
type Pyright struct {
	// tool is the checker executable, resolved through PATH when relative.
	tool string

	// timeout bounds a single invocation. Expiry kills the process and
	// becomes a zero-score failure.
	timeout time.Duration

	// siteDir, when non-empty, enables the py.typed marker workaround
	// for modules that ship without one (see prepareModule).
	siteDir string

	// logger is used for per-invocation diagnostics.
	logger *slog.Logger
}

// PyrightOption configures a Pyright checker.
type PyrightOption func(*Pyright)

// WithTimeout sets the per-invocation timeout.
func WithTimeout(d time.Duration) PyrightOption {
	return func(p *Pyright) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithSiteDir enables the py.typed marker workaround inside the given
// site-packages directory. Without it, untyped modules are rejected by
// the tool and score zero.
func WithSiteDir(dir string) PyrightOption {
	return func(p *Pyright) {
		p.siteDir = dir
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) PyrightOption {
	return func(p *Pyright) {
		p.logger = logger
	}
}

// NewPyright creates a Pyright checker using the given executable.
func NewPyright(tool string, opts ...PyrightOption) *Pyright {
	p := &Pyright{
		tool:    tool,
		timeout: DefaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Check runs the tool against module and extracts the completeness score.
func (p *Pyright) Check(ctx context.Context, module string) model.ScoreResult {
	restore, err := prepareModule(p.siteDir, module)
	if err != nil {
		// The check still runs; an untyped module then fails inside the
		// tool and degrades to a zero score like any other failure.
		p.logger.Debug("py.typed preparation failed", "module", module, "error", err)
	}
	if restore != nil {
		defer restore()
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.tool, "--outputjson", "--verifytypes", module) //nolint:gosec // Tool path is operator-configured
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return model.NewFailedScore(module, fmt.Sprintf("timed out after %s", p.timeout))
	}
	if runErr != nil && !exitedWithFindings(runErr) {
		p.logger.Debug("checker process failed",
			"module", module,
			"error", runErr,
			"stderr", stderr.String(),
		)
		return model.NewFailedScore(module, fmt.Sprintf("checker failed: %v", runErr))
	}

	score, err := parseCompleteness(stdout.Bytes())
	if err != nil {
		return model.NewFailedScore(module, err.Error())
	}
	return model.ScoreResult{
		ModuleName: module,
		Score:      score,
		Succeeded:  true,
	}
}

// exitedWithFindings reports whether err is the exit status pyright uses
// for "analysis completed with findings". Exit code 1 still carries a
// full JSON report; anything else means the tool failed to run.
func exitedWithFindings(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == 1
}

// verifyOutput mirrors the part of the tool's JSON report this system
// depends on. Everything else in the report is ignored.
type verifyOutput struct {
	TypeCompleteness *typeCompleteness `json:"typeCompleteness"`
}

type typeCompleteness struct {
	PackageName       string   `json:"packageName"`
	CompletenessScore *float64 `json:"completenessScore"`
}

// parseCompleteness extracts the completeness score from the tool's JSON
// output, validating that it is a fraction in [0, 1].
func parseCompleteness(out []byte) (float64, error) {
	var report verifyOutput
	if err := json.Unmarshal(out, &report); err != nil {
		return 0, fmt.Errorf("unparseable checker output: %w", err)
	}
	if report.TypeCompleteness == nil || report.TypeCompleteness.CompletenessScore == nil {
		return 0, errors.New("checker output has no completeness score")
	}
	score := *report.TypeCompleteness.CompletenessScore
	if score < 0 || score > 1 {
		return 0, fmt.Errorf("completeness score %f out of range", score)
	}
	return score, nil
}
