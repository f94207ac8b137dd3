package model

import "testing"

// TestNewFailedScore tests the failure constructor invariant.
func TestNewFailedScore(t *testing.T) {
	t.Parallel()

	res := NewFailedScore("numpy", "tool not found")

	if res.Succeeded {
		t.Error("expected Succeeded to be false")
	}
	if res.Score != 0 {
		t.Errorf("expected score 0, got %f", res.Score)
	}
	if res.ModuleName != "numpy" {
		t.Errorf("expected module numpy, got %q", res.ModuleName)
	}
	if res.FailureReason != "tool not found" {
		t.Errorf("unexpected failure reason: %q", res.FailureReason)
	}
}

// TestReportRowScoreString tests score formatting.
func TestReportRowScoreString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{name: "high score", score: 0.95, want: "0.95"},
		{name: "trailing zero kept", score: 0.1, want: "0.10"},
		{name: "zero", score: 0, want: "0.00"},
		{name: "full score", score: 1, want: "1.00"},
		{name: "rounds to two decimals", score: 0.954, want: "0.95"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			row := ReportRow{Score: tt.score}
			if got := row.ScoreString(); got != tt.want {
				t.Errorf("ScoreString() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestNewRunSummary tests aggregate counting.
func TestNewRunSummary(t *testing.T) {
	t.Parallel()

	t.Run("empty rows", func(t *testing.T) {
		t.Parallel()

		s := NewRunSummary(nil)
		if s.Packages != 0 || s.Modules != 0 || s.Failures != 0 {
			t.Errorf("expected zero summary, got %+v", s)
		}
		if s.AverageScore != 0 {
			t.Errorf("expected zero average, got %f", s.AverageScore)
		}
	})

	t.Run("mixed rows", func(t *testing.T) {
		t.Parallel()

		rows := []ReportRow{
			{PackageName: "numpy", ModuleName: "numpy", Score: 0.9, Succeeded: true},
			{PackageName: "pillow", ModuleName: "PIL", Score: 0.5, Succeeded: true},
			{PackageName: "nosuchpkg", ModuleName: "", Score: 0, Succeeded: false},
		}

		s := NewRunSummary(rows)
		if s.Packages != 3 {
			t.Errorf("expected 3 packages, got %d", s.Packages)
		}
		if s.Modules != 2 {
			t.Errorf("expected 2 modules, got %d", s.Modules)
		}
		if s.Failures != 1 {
			t.Errorf("expected 1 failure, got %d", s.Failures)
		}
		if want := 0.7; s.AverageScore != want {
			t.Errorf("expected average %f, got %f", want, s.AverageScore)
		}
	})

	t.Run("counts a package with two modules once", func(t *testing.T) {
		t.Parallel()

		rows := []ReportRow{
			{PackageName: "attrs", ModuleName: "attr", Score: 1, Succeeded: true},
			{PackageName: "attrs", ModuleName: "attrs", Score: 1, Succeeded: true},
		}

		s := NewRunSummary(rows)
		if s.Packages != 1 {
			t.Errorf("expected 1 package, got %d", s.Packages)
		}
		if s.Modules != 2 {
			t.Errorf("expected 2 modules, got %d", s.Modules)
		}
	})
}
