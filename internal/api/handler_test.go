package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/voice-notes/internal/domain"
	"github.com/nguyentantai21042004/voice-notes/internal/logger"
)

type fakeProcessor struct {
	err   error
	calls int
	job   domain.AudioJob
	body  string
}

func (f *fakeProcessor) Process(ctx context.Context, job domain.AudioJob) (domain.Report, error) {
	f.calls++
	f.job = job
	if job.Body != nil {
		b, _ := io.ReadAll(job.Body)
		f.body = string(b)
	}
	return domain.Report{JobID: "job-1"}, f.err
}

func testLogger() logger.Logger { return logger.New("error", "text") }

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(fw, content)
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func postUpload(t *testing.T, h http.Handler, field, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, field, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp.Error
}

func TestReady(t *testing.T) {
	h := NewHandler(&fakeProcessor{}, 0, testLogger()).Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != readyMessage {
		t.Errorf("GET / = %d %q", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("content type = %q", rec.Header().Get("Content-Type"))
	}
}

func TestUploadSuccess(t *testing.T) {
	p := &fakeProcessor{}
	h := NewHandler(p, 0, testLogger()).Routes()

	rec := postUpload(t, h, "file", "memo.m4a", "audio-bytes")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp MessageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || resp.Message == "" {
		t.Errorf("body = %+v, err %v", resp, err)
	}
	if p.calls != 1 || p.job.Filename != "memo.m4a" || p.body != "audio-bytes" {
		t.Errorf("processor got calls=%d job=%+v body=%q", p.calls, p.job, p.body)
	}
}

func TestUploadBadRequests(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		filename string
	}{
		{name: "wrong field", field: "audio", filename: "memo.wav"},
		{name: "empty filename", field: "file", filename: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProcessor{}
			h := NewHandler(p, 0, testLogger()).Routes()

			rec := postUpload(t, h, tt.field, tt.filename, "x")

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if msg := decodeError(t, rec); msg == "" {
				t.Errorf("empty error message")
			}
			if p.calls != 0 {
				t.Errorf("processor called %d times", p.calls)
			}
		})
	}
}

func TestUploadNotMultipart(t *testing.T) {
	p := &fakeProcessor{}
	h := NewHandler(p, 0, testLogger()).Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("{}")))

	if rec.Code != http.StatusBadRequest || p.calls != 0 {
		t.Errorf("status = %d, calls = %d", rec.Code, p.calls)
	}
}

func TestUploadTooLarge(t *testing.T) {
	p := &fakeProcessor{}
	h := NewHandler(p, 1024, testLogger()).Routes()

	rec := postUpload(t, h, "file", "memo.wav", strings.Repeat("a", 4096))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
	if p.calls != 0 {
		t.Errorf("processor called for an oversized upload")
	}
}

func TestUploadStageErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantText   string
	}{
		{
			name:       "transcription",
			err:        domain.NewStageError(domain.ErrStageTranscription, domain.KindToolMissing, "whisper not found", nil),
			wantStatus: http.StatusInternalServerError,
			wantText:   "transcription failed",
		},
		{
			name:       "analysis",
			err:        domain.NewStageError(domain.ErrStageAnalysis, domain.KindAPIError, "quota", nil),
			wantStatus: http.StatusInternalServerError,
			wantText:   "analysis failed",
		},
		{
			name:       "parse",
			err:        &domain.StageError{Stage: domain.ErrStageParse, Kind: domain.KindParseError, Message: "bad json"},
			wantStatus: http.StatusInternalServerError,
			wantText:   "JSON parse failed",
		},
		{
			name:       "persistence",
			err:        domain.NewStageError(domain.ErrStagePersistence, domain.KindNotConfigured, "no key", nil),
			wantStatus: http.StatusInternalServerError,
			wantText:   "persistence failed",
		},
		{
			name:       "validation",
			err:        domain.NewStageError(domain.ErrStageUpload, domain.KindValidationError, "empty filename", nil),
			wantStatus: http.StatusBadRequest,
			wantText:   "upload failed",
		},
		{
			name:       "plain error",
			err:        errors.New("wait for processing slot: context canceled"),
			wantStatus: http.StatusInternalServerError,
			wantText:   "context canceled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeProcessor{err: tt.err}, 0, testLogger()).Routes()

			rec := postUpload(t, h, "file", "memo.wav", "x")

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if msg := decodeError(t, rec); !strings.Contains(msg, tt.wantText) {
				t.Errorf("error = %q, want it to contain %q", msg, tt.wantText)
			}
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := NewHandler(&fakeProcessor{}, 0, testLogger()).Routes()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Errorf("no request id generated")
	}
}
