package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/voice-notes/internal/domain"
	"github.com/nguyentantai21042004/voice-notes/internal/gemini"
	"github.com/nguyentantai21042004/voice-notes/internal/logger"
)

type fakeClient struct {
	uploadErr   error
	generateErr error
	response    string

	prompts  []string
	attached []*gemini.File
	deleted  []string
}

func (f *fakeClient) Upload(ctx context.Context, path string) (*gemini.File, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &gemini.File{Name: "files/" + path, URI: "https://example/" + path, MIMEType: "audio/wav"}, nil
}

func (f *fakeClient) Delete(ctx context.Context, file *gemini.File) error {
	f.deleted = append(f.deleted, file.Name)
	return nil
}

func (f *fakeClient) Generate(ctx context.Context, prompt string, file *gemini.File) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.attached = append(f.attached, file)
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return f.response, nil
}

func newTestAnalyzer(c gemini.Client) Analyzer {
	return New(c, "Korean", logger.New("error", "text"))
}

func TestAnalyzeEmbedsTranscript(t *testing.T) {
	fc := &fakeClient{response: `{"title":"T"}`}
	raw, err := newTestAnalyzer(fc).Analyze(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if raw != `{"title":"T"}` {
		t.Errorf("raw = %q", raw)
	}
	if len(fc.prompts) != 1 {
		t.Fatalf("Generate called %d times, want 1", len(fc.prompts))
	}
	prompt := fc.prompts[0]
	for _, want := range []string{"hello world", "title", "summary", "key_points", "hashtags", "Korean"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if fc.attached[0] != nil {
		t.Error("transcript analysis should not attach a file")
	}
}

func TestAnalyzePromptIsDeterministic(t *testing.T) {
	if TranscriptPrompt("English", "x") != TranscriptPrompt("English", "x") {
		t.Error("TranscriptPrompt is not deterministic")
	}
}

func TestAnalyzeAPIErrorNotRetried(t *testing.T) {
	fc := &fakeClient{generateErr: errors.New("Error 503")}
	_, err := newTestAnalyzer(fc).Analyze(context.Background(), "hello")

	kind, ok := domain.KindOf(err)
	if !ok || kind != domain.KindAPIError {
		t.Fatalf("error = %v, want ApiError", err)
	}
	if len(fc.prompts) != 1 {
		t.Errorf("Generate called %d times, want exactly 1", len(fc.prompts))
	}
}

func TestAnalyzeNotConfigured(t *testing.T) {
	fc := &fakeClient{generateErr: gemini.ErrNotConfigured}
	_, err := newTestAnalyzer(fc).Analyze(context.Background(), "hello")
	if kind, _ := domain.KindOf(err); kind != domain.KindNotConfigured {
		t.Errorf("kind = %q, want not_configured", kind)
	}
}

func TestAnalyzeEmptyTranscript(t *testing.T) {
	fc := &fakeClient{}
	if _, err := newTestAnalyzer(fc).Analyze(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty transcript")
	}
	if len(fc.prompts) != 0 {
		t.Error("no request should be sent for an empty transcript")
	}
}

func TestAnalyzeAudioDeletesUpload(t *testing.T) {
	tests := []struct {
		name        string
		generateErr error
		wantErr     bool
	}{
		{"success", nil, false},
		{"generate fails", errors.New("Error 500"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{generateErr: tt.generateErr, response: `{"transcription":"x"}`}
			_, err := newTestAnalyzer(fc).AnalyzeAudio(context.Background(), "rec.wav")
			if (err != nil) != tt.wantErr {
				t.Fatalf("AnalyzeAudio() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(fc.deleted) != 1 || fc.deleted[0] != "files/rec.wav" {
				t.Errorf("deleted = %q, want [files/rec.wav]", fc.deleted)
			}
			if fc.attached[0] == nil {
				t.Error("combined analysis must attach the uploaded file")
			}
			if !strings.Contains(fc.prompts[0], "transcription") {
				t.Error("combined prompt should ask for a transcription")
			}
		})
	}
}

func TestAnalyzeAudioUploadFailure(t *testing.T) {
	fc := &fakeClient{uploadErr: errors.New("network down")}
	_, err := newTestAnalyzer(fc).AnalyzeAudio(context.Background(), "rec.wav")
	if kind, _ := domain.KindOf(err); kind != domain.KindAPIError {
		t.Fatalf("kind = %q, want api_error", kind)
	}
	if len(fc.deleted) != 0 || len(fc.prompts) != 0 {
		t.Error("nothing should be generated or deleted when the upload fails")
	}
}
