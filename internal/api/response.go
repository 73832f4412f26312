package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nguyentantai21042004/voice-notes/internal/logger"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of a successful upload.
type MessageResponse struct {
	Message string `json:"message"`
}

type jsonWriter struct {
	logger logger.Logger
}

func (j jsonWriter) writeSuccess(ctx context.Context, w http.ResponseWriter, data interface{}) {
	j.write(ctx, w, http.StatusOK, data)
}

func (j jsonWriter) writeError(ctx context.Context, w http.ResponseWriter, statusCode int, message string) {
	j.write(ctx, w, statusCode, ErrorResponse{Error: message})
}

func (j jsonWriter) write(ctx context.Context, w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		j.logger.Error(ctx, "Encoding response: %v", err)
	}
}
