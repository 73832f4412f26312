package transcriber

import (
	"context"
	"strings"

	"github.com/nguyentantai21042004/voice-notes/internal/config"
	"github.com/nguyentantai21042004/voice-notes/internal/domain"
	"github.com/nguyentantai21042004/voice-notes/internal/logger"
	"github.com/sashabaranov/go-openai"
)

type openAITranscriber struct {
	client *openai.Client
	cfg    config.OpenAIConfig
	logger logger.Logger
}

// NewOpenAI creates a Transcriber backed by the OpenAI audio API. A nil
// client means no API key is configured.
func NewOpenAI(client *openai.Client, cfg config.OpenAIConfig, log logger.Logger) Transcriber {
	return &openAITranscriber{client: client, cfg: cfg, logger: log}
}

func (o *openAITranscriber) Name() string { return config.BackendOpenAI }

func (o *openAITranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if o.client == nil {
		return "", domain.NewStageError(domain.ErrStageTranscription, domain.KindNotConfigured, "openai api key is not set", nil)
	}

	o.logger.Info(ctx, "Transcribing %s with OpenAI %s", audioPath, o.cfg.Model)
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.cfg.Model,
		FilePath: audioPath,
		Language: o.cfg.Language,
	})
	if err != nil {
		return "", domain.NewStageError(domain.ErrStageTranscription, domain.KindAPIError, "create transcription", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", domain.NewStageError(domain.ErrStageTranscription, domain.KindIOError, "empty transcript", nil)
	}
	return text, nil
}
