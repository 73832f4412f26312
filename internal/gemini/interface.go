package gemini

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no usable API key is configured.
var ErrNotConfigured = errors.New("gemini api key is not configured")

// File is an audio file uploaded through the Files API. It remembers the
// key it was uploaded with; files are only visible to that key's project.
type File struct {
	Name     string
	URI      string
	MIMEType string
	key      int
}

// Client is the subset of the Gemini API the pipeline uses.
type Client interface {
	Upload(ctx context.Context, path string) (*File, error)
	Delete(ctx context.Context, file *File) error
	// Generate sends prompt, plus file as an attachment when non-nil, and
	// returns the concatenated text of the first candidate.
	Generate(ctx context.Context, prompt string, file *File) (string, error)
}
