package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestSummaryUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "string", in: `"short"`, want: "short"},
		{name: "list", in: `["a", "b"]`, want: "a\nb"},
		{name: "null", in: `null`, want: ""},
		{name: "number", in: `42`, wantErr: true},
		{name: "object", in: `{"a":1}`, wantErr: true},
		{name: "mixed list", in: `["a", 1]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Summary
			err := json.Unmarshal([]byte(tt.in), &s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && s.String() != tt.want {
				t.Errorf("String() = %q, want %q", s.String(), tt.want)
			}
		})
	}
}

func TestTitleOr(t *testing.T) {
	if got := (AnalysisResult{Title: "  "}).TitleOr(DefaultTitle); got != DefaultTitle {
		t.Errorf("TitleOr() = %q", got)
	}
	if got := (AnalysisResult{Title: " Sync "}).TitleOr(DefaultTitle); got != "Sync" {
		t.Errorf("TitleOr() = %q", got)
	}
}

func TestStageError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := fmt.Errorf("run: %w", NewStageError(ErrStageTranscription, KindToolError, "whisper failed", cause))

	if got := err.Error(); got != "run: transcription failed: whisper failed: exit status 1" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause not reachable through errors.Is")
	}
	if !errors.Is(err, &StageError{Kind: KindToolError}) {
		t.Errorf("errors.Is by kind failed")
	}
	if errors.Is(err, &StageError{Kind: KindParseError}) {
		t.Errorf("errors.Is matched a different kind")
	}
	if kind, ok := KindOf(err); !ok || kind != KindToolError {
		t.Errorf("KindOf() = %q, %v", kind, ok)
	}
	if _, ok := KindOf(cause); ok {
		t.Errorf("KindOf() found a kind on a plain error")
	}
}
