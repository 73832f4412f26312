// Package normalizer turns raw model output into structured records.
package normalizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyentantai21042004/voice-notes/internal/domain"
)

const (
	fenceOpen = "```"
	fenceTag  = "json"
)

// StripFence removes a markdown code fence wrapped around a payload. Only a
// leading "```" (optionally tagged json) and a trailing "```" are removed;
// the content between them is returned trimmed and otherwise untouched.
func StripFence(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, fenceOpen) {
		s = s[len(fenceOpen):]
		if len(s) >= len(fenceTag) && strings.EqualFold(s[:len(fenceTag)], fenceTag) {
			s = s[len(fenceTag):]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fenceOpen)

	return strings.TrimSpace(s)
}

// Normalize parses a staged-analysis response. Missing keys are not an
// error; a malformed payload or a key of the wrong type is.
func Normalize(raw string) (domain.AnalysisResult, error) {
	var result domain.AnalysisResult
	if err := decode(raw, &result); err != nil {
		return domain.AnalysisResult{}, parseError(raw, err)
	}
	return result, nil
}

// NormalizeCombined parses a combined transcription+analysis response. The
// transcription is what gets persisted as the transcript, so it must be
// present.
func NormalizeCombined(raw string) (domain.AnalysisResult, error) {
	result, err := Normalize(raw)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	if strings.TrimSpace(result.Transcription) == "" {
		return domain.AnalysisResult{}, parseError(raw, errors.New(`missing "transcription"`))
	}
	return result, nil
}

func decode(raw string, v interface{}) error {
	body := StripFence(raw)
	if body == "" {
		return errors.New("empty response")
	}
	if !strings.HasPrefix(body, "{") {
		return errors.New("response is not a JSON object")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after JSON object")
	}
	return nil
}

func parseError(raw string, err error) *domain.StageError {
	return &domain.StageError{
		Stage:   domain.ErrStageParse,
		Kind:    domain.KindParseError,
		Message: fmt.Sprintf("model response is not valid JSON: %v", err),
		Raw:     raw,
	}
}
