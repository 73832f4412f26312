package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const DefaultTitle = "Untitled"

// AnalysisResult is the structured answer of the analysis model. The staged
// flow fills Title, Summary, KeyPoints and Hashtags; the combined flow fills
// Transcription, Summary (as bullets) and Hashtags.
type AnalysisResult struct {
	Title         string   `json:"title"`
	Summary       Summary  `json:"summary"`
	KeyPoints     []string `json:"key_points"`
	Hashtags      []string `json:"hashtags"`
	Transcription string   `json:"transcription"`
}

// TitleOr returns the title, or fallback when the model left it out.
func (r AnalysisResult) TitleOr(fallback string) string {
	if t := strings.TrimSpace(r.Title); t != "" {
		return t
	}
	return fallback
}

// Summary holds either prose or a list of bullet points.
type Summary struct {
	Text   string
	Points []string
}

// String renders the summary as plain text, one bullet per line.
func (s Summary) String() string {
	if len(s.Points) > 0 {
		return strings.Join(s.Points, "\n")
	}
	return s.Text
}

func (s Summary) IsZero() bool {
	return s.Text == "" && len(s.Points) == 0
}

func (s *Summary) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = Summary{}
		return nil
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = Summary{Text: text}
		return nil
	case '[':
		var points []string
		if err := json.Unmarshal(data, &points); err != nil {
			return err
		}
		*s = Summary{Points: points}
		return nil
	default:
		return fmt.Errorf("summary must be a string or an array of strings, got %s", data)
	}
}

func (s Summary) MarshalJSON() ([]byte, error) {
	if len(s.Points) > 0 {
		return json.Marshal(s.Points)
	}
	return json.Marshal(s.Text)
}
