package analyzer

import (
	"context"
	"errors"
	"strings"

	"github.com/nguyentantai21042004/voice-notes/internal/domain"
	"github.com/nguyentantai21042004/voice-notes/internal/gemini"
)

// Analyze sends the transcript prompt and returns the model's raw answer.
func (a *implAnalyzer) Analyze(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", domain.NewStageError(domain.ErrStageAnalysis, domain.KindAPIError, "no transcript to analyze", nil)
	}

	a.logger.Info(ctx, "Analyzing transcript (%d chars)", len(transcript))
	raw, err := a.client.Generate(ctx, TranscriptPrompt(a.language, transcript), nil)
	if err != nil {
		return "", apiError("generate analysis", err)
	}

	a.logger.Info(ctx, "Analysis response received")
	return raw, nil
}

// AnalyzeAudio uploads audioPath, runs the combined prompt against it and
// deletes the upload before returning, whatever the outcome.
func (a *implAnalyzer) AnalyzeAudio(ctx context.Context, audioPath string) (raw string, err error) {
	a.logger.Info(ctx, "Uploading %s for combined analysis", audioPath)
	file, err := a.client.Upload(ctx, audioPath)
	if err != nil {
		return "", apiError("upload audio", err)
	}
	defer func() {
		// The request context may already be done; deletion still has to
		// happen.
		if derr := a.client.Delete(context.WithoutCancel(ctx), file); derr != nil {
			a.logger.Warn(ctx, "Failed to delete uploaded file %s: %v", file.Name, derr)
		} else {
			a.logger.Debug(ctx, "Deleted uploaded file %s", file.Name)
		}
	}()

	raw, err = a.client.Generate(ctx, AudioPrompt(a.language), file)
	if err != nil {
		return "", apiError("generate combined analysis", err)
	}
	return raw, nil
}

func apiError(op string, err error) error {
	if errors.Is(err, gemini.ErrNotConfigured) {
		return domain.NewStageError(domain.ErrStageAnalysis, domain.KindNotConfigured, "gemini api key is not set", err)
	}
	return domain.NewStageError(domain.ErrStageAnalysis, domain.KindAPIError, op, err)
}
