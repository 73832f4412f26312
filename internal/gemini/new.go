package gemini

import (
	"sync"

	"github.com/nguyentantai21042004/voice-notes/internal/logger"
	"google.golang.org/genai"
)

type implClient struct {
	apiKeys    []string
	currentKey int
	model      string
	logger     logger.Logger

	mu      sync.Mutex
	clients map[int]*genai.Client
}

// New creates a Client that uses model and spreads requests over apiKeys,
// moving to the next key after a quota error.
func New(apiKeys []string, model string, log logger.Logger) Client {
	return &implClient{
		apiKeys: apiKeys,
		model:   model,
		logger:  log,
		clients: make(map[int]*genai.Client),
	}
}
