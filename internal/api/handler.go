package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nguyentantai21042004/voice-notes/internal/domain"
	"github.com/nguyentantai21042004/voice-notes/internal/logger"
	"github.com/nguyentantai21042004/voice-notes/internal/processor"
)

const (
	readyMessage   = "Voice notes server is running."
	successMessage = "Recording processed and saved."
	uploadField    = "file"
)

// Handler serves the upload API.
type Handler struct {
	processor processor.Processor
	maxUpload int64
	logger    logger.Logger
	writer    jsonWriter
}

// NewHandler creates a Handler. maxUpload caps the request body in bytes;
// zero means no cap.
func NewHandler(p processor.Processor, maxUpload int64, log logger.Logger) *Handler {
	return &Handler{
		processor: p,
		maxUpload: maxUpload,
		logger:    log,
		writer:    jsonWriter{logger: log},
	}
}

// Routes returns the API mux wrapped in request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", h.Upload)
	mux.HandleFunc("GET /{$}", h.Ready)
	return h.withRequestLog(mux)
}

// Ready answers readiness probes.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(readyMessage))
}

// Upload runs one multipart-uploaded recording through the pipeline.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		if isTooLarge(err) {
			h.writer.writeError(ctx, w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		h.logger.Warn(ctx, "Upload without file: %v", err)
		h.writer.writeError(ctx, w, http.StatusBadRequest, "no file in request")
		return
	}
	defer file.Close()

	if strings.TrimSpace(header.Filename) == "" {
		h.writer.writeError(ctx, w, http.StatusBadRequest, "no file selected")
		return
	}

	h.logger.Info(ctx, "Upload received: %s (%d bytes)", header.Filename, header.Size)

	report, err := h.processor.Process(ctx, domain.AudioJob{Filename: header.Filename, Body: file})
	if err != nil {
		h.writer.writeError(ctx, w, statusFor(err), err.Error())
		return
	}

	h.logger.Info(ctx, "Job %s stored: %s", report.JobID, report.Result.TitleOr(domain.DefaultTitle))
	h.writer.writeSuccess(ctx, w, MessageResponse{Message: successMessage})
}

// isTooLarge reports whether err came from the MaxBytesReader. The
// multipart reader does not always keep the typed error in the chain.
func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}

func statusFor(err error) int {
	if kind, ok := domain.KindOf(err); ok && kind == domain.KindValidationError {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// withRequestLog tags the request context with an id (X-Request-ID or a
// new uuid) and logs each request once it finished.
func (h *Handler) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithRequestID(r.Context(), r.Header.Get("X-Request-ID"))
		id, _ := logger.RequestID(ctx)
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		h.logger.Info(ctx, "%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
