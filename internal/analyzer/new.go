package analyzer

import (
	"github.com/nguyentantai21042004/voice-notes/internal/gemini"
	"github.com/nguyentantai21042004/voice-notes/internal/logger"
)

type implAnalyzer struct {
	client   gemini.Client
	language string
	logger   logger.Logger
}

// New creates an Analyzer whose prompts ask for output in language.
func New(client gemini.Client, language string, log logger.Logger) Analyzer {
	return &implAnalyzer{
		client:   client,
		language: language,
		logger:   log,
	}
}
