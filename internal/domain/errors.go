package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	KindToolMissing     Kind = "tool_missing"
	KindToolError       Kind = "tool_error"
	KindIOError         Kind = "io_error"
	KindAPIError        Kind = "api_error"
	KindParseError      Kind = "parse_error"
	KindNotConfigured   Kind = "not_configured"
	KindPersistError    Kind = "persist_error"
	KindValidationError Kind = "validation_error"
)

// Error stage names used in StageError. They name what failed, which is
// not always the state the processor was in (JSON parsing happens while
// normalizing, for example).
const (
	ErrStageUpload        = "upload"
	ErrStageTranscription = "transcription"
	ErrStageAnalysis      = "analysis"
	ErrStageParse         = "JSON parse"
	ErrStagePersistence   = "persistence"
)

// StageError is a stage-aware pipeline failure.
type StageError struct {
	Stage   string
	Kind    Kind
	Message string
	// Raw keeps the unparsed model output or the HTTP response body.
	Raw string
	Err error
}

func (e *StageError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s failed: %s", e.Stage, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches another *StageError by Kind so callers can write
// errors.Is(err, &domain.StageError{Kind: domain.KindParseError}).
func (e *StageError) Is(target error) bool {
	t, ok := target.(*StageError)
	if !ok || e == nil {
		return false
	}
	return t.Kind == e.Kind
}

// NewStageError builds a StageError.
func NewStageError(stage string, kind Kind, message string, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Message: message, Err: err}
}

// KindOf returns the Kind of the first StageError in err's chain.
func KindOf(err error) (Kind, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return "", false
}
