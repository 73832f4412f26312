package gemini

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"google.golang.org/genai"
)

var audioMIMETypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".mp4":  "audio/mp4",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg",
	".flac": "audio/flac",
	".webm": "audio/webm",
	".aiff": "audio/aiff",
}

// Upload sends the audio file at path to the Files API.
func (c *implClient) Upload(ctx context.Context, path string) (*File, error) {
	key, client, err := c.client(ctx, -1)
	if err != nil {
		return nil, err
	}

	c.logger.Debug(ctx, "Uploading %s to Gemini (key %d)", path, key+1)
	uploaded, err := client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{
		MIMEType: AudioMIMEType(path),
	})
	if err != nil {
		c.noteFailure(ctx, key, err)
		return nil, fmt.Errorf("upload file: %w", err)
	}

	return &File{
		Name:     uploaded.Name,
		URI:      uploaded.URI,
		MIMEType: uploaded.MIMEType,
		key:      key,
	}, nil
}

// Delete removes an uploaded file.
func (c *implClient) Delete(ctx context.Context, file *File) error {
	if file == nil {
		return nil
	}
	_, client, err := c.client(ctx, file.key)
	if err != nil {
		return err
	}
	if _, err := client.Files.Delete(ctx, file.Name, nil); err != nil {
		return fmt.Errorf("delete file %s: %w", file.Name, err)
	}
	return nil
}

// Generate sends one request and returns the response text. Quota errors
// advance the key for the next request; the failing request is not retried.
func (c *implClient) Generate(ctx context.Context, prompt string, file *File) (string, error) {
	want := -1
	if file != nil {
		want = file.key
	}
	key, client, err := c.client(ctx, want)
	if err != nil {
		return "", err
	}

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if file != nil {
		parts = append(parts, genai.NewPartFromURI(file.URI, file.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		c.noteFailure(ctx, key, err)
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part != nil && part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		if text.Len() > 0 {
			return text.String(), nil
		}
	}

	return "", fmt.Errorf("empty response from Gemini")
}

// client returns the SDK client for key index want, or for the current key
// when want is negative.
func (c *implClient) client(ctx context.Context, want int) (int, *genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.apiKeys) == 0 {
		return 0, nil, ErrNotConfigured
	}

	key := want
	if key < 0 || key >= len(c.apiKeys) {
		key = c.currentKey
	}
	if cl, ok := c.clients[key]; ok {
		return key, cl, nil
	}

	cl, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKeys[key],
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return 0, nil, fmt.Errorf("create client: %w", err)
	}
	c.clients[key] = cl
	return key, cl, nil
}

func (c *implClient) noteFailure(ctx context.Context, key int, err error) {
	if !IsRateLimited(err) || len(c.apiKeys) < 2 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentKey == key {
		c.currentKey = (c.currentKey + 1) % len(c.apiKeys)
		c.logger.Warn(ctx, "Key %d rate limited, next request uses key %d", key+1, c.currentKey+1)
	}
}

// IsRateLimited reports whether err looks like a quota or 429 response.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// AudioMIMEType guesses the MIME type of an audio file from its extension.
// An empty result lets the SDK detect it.
func AudioMIMEType(path string) string {
	return audioMIMETypes[strings.ToLower(filepath.Ext(path))]
}
