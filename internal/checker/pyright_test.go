package checker

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// fakeTool writes an executable shell script to a temp dir and returns
// its path. The script stands in for the external checker.
func fakeTool(t *testing.T, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake checker scripts require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "fakepyright")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0700); err != nil { //nolint:gosec // Test helper needs an executable script
		t.Fatal(err)
	}
	return path
}

// TestPyrightCheck tests checker invocation against a fake tool.
func TestPyrightCheck(t *testing.T) {
	t.Parallel()

	t.Run("extracts completeness score", func(t *testing.T) {
		t.Parallel()

		tool := fakeTool(t, `echo '{"typeCompleteness": {"packageName": "numpy", "completenessScore": 0.95}}'`)
		res := NewPyright(tool).Check(context.Background(), "numpy")

		if !res.Succeeded {
			t.Fatalf("expected success, got failure: %s", res.FailureReason)
		}
		if res.Score != 0.95 {
			t.Errorf("expected score 0.95, got %f", res.Score)
		}
		if res.ModuleName != "numpy" {
			t.Errorf("expected module numpy, got %q", res.ModuleName)
		}
	})

	t.Run("exit code 1 with report still succeeds", func(t *testing.T) {
		t.Parallel()

		tool := fakeTool(t, `echo '{"typeCompleteness": {"completenessScore": 0.10}}'; exit 1`)
		res := NewPyright(tool).Check(context.Background(), "requests")

		if !res.Succeeded {
			t.Fatalf("expected success, got failure: %s", res.FailureReason)
		}
		if res.Score != 0.10 {
			t.Errorf("expected score 0.10, got %f", res.Score)
		}
	})

	t.Run("abnormal exit code fails", func(t *testing.T) {
		t.Parallel()

		tool := fakeTool(t, `exit 2`)
		res := NewPyright(tool).Check(context.Background(), "numpy")

		if res.Succeeded {
			t.Fatal("expected failure")
		}
		if res.Score != 0 {
			t.Errorf("expected score 0, got %f", res.Score)
		}
	})

	t.Run("unparseable output fails", func(t *testing.T) {
		t.Parallel()

		tool := fakeTool(t, `echo 'not json at all'`)
		res := NewPyright(tool).Check(context.Background(), "numpy")

		if res.Succeeded {
			t.Fatal("expected failure")
		}
	})

	t.Run("missing completeness field fails", func(t *testing.T) {
		t.Parallel()

		tool := fakeTool(t, `echo '{"summary": {"errorCount": 3}}'`)
		res := NewPyright(tool).Check(context.Background(), "numpy")

		if res.Succeeded {
			t.Fatal("expected failure")
		}
	})

	t.Run("missing tool fails", func(t *testing.T) {
		t.Parallel()

		res := NewPyright(filepath.Join(t.TempDir(), "no-such-tool")).Check(context.Background(), "numpy")

		if res.Succeeded {
			t.Fatal("expected failure")
		}
		if res.Score != 0 {
			t.Errorf("expected score 0, got %f", res.Score)
		}
	})

	t.Run("timeout converts to failure", func(t *testing.T) {
		t.Parallel()

		tool := fakeTool(t, `sleep 5`)
		start := time.Now()
		res := NewPyright(tool, WithTimeout(100*time.Millisecond)).Check(context.Background(), "numpy")

		if res.Succeeded {
			t.Fatal("expected failure")
		}
		if elapsed := time.Since(start); elapsed > 3*time.Second {
			t.Errorf("timeout was not enforced, took %v", elapsed)
		}
	})
}

// TestParseCompleteness tests JSON contract parsing.
func TestParseCompleteness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{
			name:  "valid report",
			input: `{"typeCompleteness": {"completenessScore": 0.5}}`,
			want:  0.5,
		},
		{
			name:  "zero is a valid measured score",
			input: `{"typeCompleteness": {"completenessScore": 0}}`,
			want:  0,
		},
		{
			name:  "full score",
			input: `{"typeCompleteness": {"completenessScore": 1}}`,
			want:  1,
		},
		{
			name:    "score above one rejected",
			input:   `{"typeCompleteness": {"completenessScore": 95.3}}`,
			wantErr: true,
		},
		{
			name:    "negative score rejected",
			input:   `{"typeCompleteness": {"completenessScore": -0.1}}`,
			wantErr: true,
		},
		{
			name:    "missing section",
			input:   `{}`,
			wantErr: true,
		},
		{
			name:    "not json",
			input:   `Type completeness score: 95.3%`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseCompleteness([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

// TestStaticCheck tests the fixed-table checker.
func TestStaticCheck(t *testing.T) {
	t.Parallel()

	s := &Static{Scores: map[string]float64{"numpy": 0.95}}

	res := s.Check(context.Background(), "numpy")
	if !res.Succeeded || res.Score != 0.95 {
		t.Errorf("expected success with 0.95, got %+v", res)
	}

	res = s.Check(context.Background(), "unknown")
	if res.Succeeded || res.Score != 0 {
		t.Errorf("expected zero-score failure, got %+v", res)
	}
}
