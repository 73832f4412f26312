package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/nguyentantai21042004/voice-notes/internal/logger"
)

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("Error 429, Message: too many requests"), true},
		{errors.New("RESOURCE_EXHAUSTED"), true},
		{errors.New("you exceeded your current quota"), true},
		{errors.New("Error 400, Message: invalid argument"), false},
	}
	for _, tt := range tests {
		if got := IsRateLimited(tt.err); got != tt.want {
			t.Errorf("IsRateLimited(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestAudioMIMEType(t *testing.T) {
	tests := map[string]string{
		"a.wav":        "audio/wav",
		"b.MP3":        "audio/mpeg",
		"dir/c.m4a":    "audio/mp4",
		"d.unknown":    "",
		"no-extension": "",
	}
	for in, want := range tests {
		if got := AudioMIMEType(in); got != want {
			t.Errorf("AudioMIMEType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNoKeysIsNotConfigured(t *testing.T) {
	c := New(nil, "gemini-2.5-flash", logger.New("error", "text"))
	ctx := context.Background()

	if _, err := c.Generate(ctx, "hi", nil); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Generate() error = %v, want ErrNotConfigured", err)
	}
	if _, err := c.Upload(ctx, "a.wav"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Upload() error = %v, want ErrNotConfigured", err)
	}
	if err := c.Delete(ctx, nil); err != nil {
		t.Errorf("Delete(nil) error = %v", err)
	}
}

func TestRotateOnlyOnQuotaErrors(t *testing.T) {
	c := New([]string{"k1", "k2", "k3"}, "m", logger.New("error", "text")).(*implClient)
	ctx := context.Background()

	c.noteFailure(ctx, 0, errors.New("Error 500"))
	if c.currentKey != 0 {
		t.Fatalf("currentKey = %d after non-quota error, want 0", c.currentKey)
	}

	c.noteFailure(ctx, 0, errors.New("Error 429"))
	if c.currentKey != 1 {
		t.Fatalf("currentKey = %d, want 1", c.currentKey)
	}

	// A stale failure on a key that is no longer current does not skip ahead.
	c.noteFailure(ctx, 0, errors.New("Error 429"))
	if c.currentKey != 1 {
		t.Fatalf("currentKey = %d after stale failure, want 1", c.currentKey)
	}

	c.noteFailure(ctx, 1, errors.New("quota"))
	c.noteFailure(ctx, 2, errors.New("quota"))
	if c.currentKey != 0 {
		t.Fatalf("currentKey = %d after wrap-around, want 0", c.currentKey)
	}
}
