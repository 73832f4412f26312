package transcriber

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/voice-notes/internal/config"
	"github.com/nguyentantai21042004/voice-notes/internal/domain"
	"github.com/nguyentantai21042004/voice-notes/internal/gemini"
	"github.com/nguyentantai21042004/voice-notes/internal/logger"
)

const transcribePrompt = "Please transcribe the following audio file into %s text. Respond with the transcription only."

type geminiTranscriber struct {
	client   gemini.Client
	language string
	logger   logger.Logger
}

// NewGemini creates a Transcriber that sends the recording to Gemini.
func NewGemini(client gemini.Client, language string, log logger.Logger) Transcriber {
	return &geminiTranscriber{client: client, language: language, logger: log}
}

func (g *geminiTranscriber) Name() string { return config.BackendGemini }

// Transcribe uploads the audio, asks for a transcription and removes the
// upload on every path.
func (g *geminiTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	file, err := g.client.Upload(ctx, audioPath)
	if err != nil {
		return "", g.apiError("upload audio", err)
	}
	defer func() {
		if derr := g.client.Delete(context.WithoutCancel(ctx), file); derr != nil {
			g.logger.Warn(ctx, "Failed to delete uploaded file %s: %v", file.Name, derr)
		}
	}()

	g.logger.Info(ctx, "Transcribing %s with Gemini", audioPath)
	text, err := g.client.Generate(ctx, fmt.Sprintf(transcribePrompt, g.language), file)
	if err != nil {
		return "", g.apiError("transcribe audio", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.NewStageError(domain.ErrStageTranscription, domain.KindIOError, "empty transcript", nil)
	}
	return text, nil
}

func (g *geminiTranscriber) apiError(op string, err error) error {
	if errors.Is(err, gemini.ErrNotConfigured) {
		return domain.NewStageError(domain.ErrStageTranscription, domain.KindNotConfigured, "gemini api key is not set", err)
	}
	return domain.NewStageError(domain.ErrStageTranscription, domain.KindAPIError, op, err)
}
