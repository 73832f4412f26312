package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/voice-notes/internal/config"
	"github.com/nguyentantai21042004/voice-notes/internal/domain"
	"github.com/nguyentantai21042004/voice-notes/internal/logger"
	"github.com/nguyentantai21042004/voice-notes/pkg/executor"
)

type whisperTranscriber struct {
	cfg      config.WhisperConfig
	tempRoot string
	executor executor.Executor
	logger   logger.Logger
}

// NewWhisper creates a Transcriber that runs the whisper CLI locally.
func NewWhisper(cfg config.WhisperConfig, tempRoot string, exec executor.Executor, log logger.Logger) Transcriber {
	return &whisperTranscriber{
		cfg:      cfg,
		tempRoot: tempRoot,
		executor: exec,
		logger:   log,
	}
}

func (w *whisperTranscriber) Name() string { return config.BackendWhisper }

// Transcribe runs whisper with a fixed model and language, writing a txt
// transcript into a private temp dir that is removed before returning.
func (w *whisperTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if _, err := w.executor.LookPath(w.cfg.BinaryPath); err != nil {
		return "", domain.NewStageError(domain.ErrStageTranscription, domain.KindToolMissing,
			fmt.Sprintf("whisper executable %q not found", w.cfg.BinaryPath), err)
	}

	outDir, err := os.MkdirTemp(w.tempRoot, "whisper-*")
	if err != nil {
		return "", domain.NewStageError(domain.ErrStageTranscription, domain.KindIOError, "create temp dir", err)
	}
	defer func() {
		if err := os.RemoveAll(outDir); err != nil {
			w.logger.Warn(ctx, "Failed to cleanup whisper output %s: %v", outDir, err)
		}
	}()

	w.logger.Info(ctx, "Starting whisper transcription (model %s, language %s): %s",
		w.cfg.Model, w.cfg.Language, audioPath)

	// --model: model size
	// --language: forced, skips detection
	// --output_format txt: plain text only
	// --output_dir: whisper writes <stem>.txt here
	args := []string{
		audioPath,
		"--model", w.cfg.Model,
		"--language", w.cfg.Language,
		"--output_format", "txt",
		"--output_dir", outDir,
	}

	if _, err := w.executor.Execute(ctx, w.cfg.BinaryPath, args...); err != nil {
		if executor.IsNotFound(err) {
			return "", domain.NewStageError(domain.ErrStageTranscription, domain.KindToolMissing,
				fmt.Sprintf("whisper executable %q not found", w.cfg.BinaryPath), err)
		}
		return "", domain.NewStageError(domain.ErrStageTranscription, domain.KindToolError, "whisper exited with an error", err)
	}

	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	txtPath := filepath.Join(outDir, stem+".txt")

	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", domain.NewStageError(domain.ErrStageTranscription, domain.KindIOError,
			fmt.Sprintf("read transcript %s", filepath.Base(txtPath)), err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", domain.NewStageError(domain.ErrStageTranscription, domain.KindIOError, "empty transcript", nil)
	}

	w.logger.Info(ctx, "Transcription completed: %d chars", len(text))
	return text, nil
}
