package checker

import (
	"context"

	"github.com/nao1215/typescore/internal/model"
)

// Checker produces a typing completeness score for one top-level module.
type Checker interface {
	// Check invokes the type checker against module and returns the
	// result. Failures are reported inside the ScoreResult (Succeeded
	// false, Score 0), never as a panic or a batch-level error.
	Check(ctx context.Context, module string) model.ScoreResult
}

// Static is a Checker backed by a fixed score table. Modules missing from
// the table fail, which makes it convenient for exercising the zero-score
// fallback in tests.
type Static struct {
	// Scores maps module names to their completeness score.
	Scores map[string]float64
}

// Check returns the configured score for module.
func (s *Static) Check(_ context.Context, module string) model.ScoreResult {
	score, ok := s.Scores[module]
	if !ok {
		return model.NewFailedScore(module, "no score configured")
	}
	return model.ScoreResult{
		ModuleName: module,
		Score:      score,
		Succeeded:  true,
	}
}
