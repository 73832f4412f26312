package normalizer

import (
	"errors"
	"reflect"
	"testing"

	"github.com/nguyentantai21042004/voice-notes/internal/domain"
)

const analysisJSON = `{"title":"T","summary":"S","key_points":["a","b"],"hashtags":["#x"]}`

func TestStripFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"upper tag", "```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```  \n", `{"a":1}`},
		{"fence inside content kept", "```json\n{\"a\":\"```\"}\n```", "{\"a\":\"```\"}"},
		{"only opening fence", "```json\n{\"a\":1}", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFence(tt.in); got != tt.want {
				t.Errorf("StripFence() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripFenceIdempotent(t *testing.T) {
	inputs := []string{
		analysisJSON,
		"```json\n" + analysisJSON + "\n```",
		"```\n" + analysisJSON + "\n```",
	}
	for _, in := range inputs {
		once := StripFence(in)
		if twice := StripFence(once); twice != once {
			t.Errorf("StripFence not idempotent: %q -> %q", once, twice)
		}
	}
}

func TestNormalizeFencedEqualsUnfenced(t *testing.T) {
	want, err := Normalize(analysisJSON)
	if err != nil {
		t.Fatalf("Normalize(unfenced) error = %v", err)
	}

	wrapped := []string{
		"```json\n" + analysisJSON + "\n```",
		"```" + analysisJSON + "```",
		"\n\n```JSON\n" + analysisJSON + "\n```\n",
	}
	for _, in := range wrapped {
		got, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q) error = %v", in, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Normalize(%q) = %+v, want %+v", in, got, want)
		}
	}
}

func TestNormalizeFields(t *testing.T) {
	got, err := Normalize(analysisJSON)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "T" || got.Summary.String() != "S" {
		t.Errorf("got %+v", got)
	}
	if !reflect.DeepEqual(got.KeyPoints, []string{"a", "b"}) {
		t.Errorf("KeyPoints = %q", got.KeyPoints)
	}
	if !reflect.DeepEqual(got.Hashtags, []string{"#x"}) {
		t.Errorf("Hashtags = %q", got.Hashtags)
	}
}

func TestNormalizeSummaryList(t *testing.T) {
	got, err := Normalize(`{"summary":["- one","- two"]}`)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Summary.Points, []string{"- one", "- two"}) {
		t.Errorf("Summary.Points = %q", got.Summary.Points)
	}
	if got.Summary.String() != "- one\n- two" {
		t.Errorf("Summary.String() = %q", got.Summary.String())
	}
}

func TestNormalizeMissingKeys(t *testing.T) {
	got, err := Normalize(`{"summary":"only a summary"}`)
	if err != nil {
		t.Fatalf("missing keys should not fail: %v", err)
	}
	if got.TitleOr(domain.DefaultTitle) != domain.DefaultTitle {
		t.Errorf("TitleOr() = %q", got.TitleOr(domain.DefaultTitle))
	}
	if len(got.KeyPoints) != 0 || len(got.Hashtags) != 0 {
		t.Errorf("expected empty lists, got %+v", got)
	}
}

func TestNormalizeMalformed(t *testing.T) {
	inputs := []string{
		"",
		"```json\n```",
		"not json at all",
		`{"title": "T",`,
		`["a", "b"]`,
		`null`,
		`{"title": 5}`,
		`{"summary": {"nested": true}}`,
		`{"key_points": "a"}`,
		`{"title":"T"} trailing`,
		`{"title":"T"}{"title":"U"}`,
	}

	for _, in := range inputs {
		got, err := Normalize(in)
		if err == nil {
			t.Errorf("Normalize(%q) expected error", in)
			continue
		}
		var se *domain.StageError
		if !errors.As(err, &se) || se.Kind != domain.KindParseError {
			t.Errorf("Normalize(%q) error = %v, want ParseError", in, err)
			continue
		}
		if se.Raw != in {
			t.Errorf("Raw = %q, want %q", se.Raw, in)
		}
		if !reflect.DeepEqual(got, domain.AnalysisResult{}) {
			t.Errorf("Normalize(%q) returned partial record %+v", in, got)
		}
	}
}

func TestNormalizeCombined(t *testing.T) {
	raw := "```json\n" + `{"transcription":"안녕하세요","summary":["- 인사"],"hashtags":["#인사"]}` + "\n```"
	got, err := NormalizeCombined(raw)
	if err != nil {
		t.Fatalf("NormalizeCombined() error = %v", err)
	}
	if got.Transcription != "안녕하세요" {
		t.Errorf("Transcription = %q", got.Transcription)
	}

	_, err = NormalizeCombined(`{"summary":["- x"]}`)
	if !errors.Is(err, &domain.StageError{Kind: domain.KindParseError}) {
		t.Errorf("missing transcription error = %v, want ParseError", err)
	}
}
