package transcriber

import (
	"fmt"

	"github.com/nguyentantai21042004/voice-notes/internal/config"
	"github.com/nguyentantai21042004/voice-notes/internal/gemini"
	"github.com/nguyentantai21042004/voice-notes/internal/logger"
	"github.com/nguyentantai21042004/voice-notes/pkg/executor"
	"github.com/sashabaranov/go-openai"
)

// New returns the Transcriber selected by cfg.Transcription.Backend.
func New(cfg *config.Config, exec executor.Executor, gc gemini.Client, log logger.Logger) (Transcriber, error) {
	switch cfg.Transcription.Backend {
	case config.BackendWhisper:
		return NewWhisper(cfg.Whisper, cfg.Paths.Temp, exec, log), nil
	case config.BackendGemini:
		return NewGemini(gc, cfg.Analysis.Language, log), nil
	case config.BackendOpenAI:
		var client *openai.Client
		if !config.IsPlaceholder(cfg.OpenAI.APIKey) {
			client = openai.NewClient(cfg.OpenAI.APIKey)
		}
		return NewOpenAI(client, cfg.OpenAI, log), nil
	default:
		return nil, fmt.Errorf("unknown transcription backend: %s", cfg.Transcription.Backend)
	}
}
