package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nguyentantai21042004/voice-notes/internal/config"
	"github.com/nguyentantai21042004/voice-notes/internal/domain"
	"github.com/nguyentantai21042004/voice-notes/internal/logger"
)

const maxErrorBody = 64 << 10

// Client writes analysis results as pages into a Notion database.
type Client struct {
	cfg    config.NotionConfig
	http   *http.Client
	logger logger.Logger
}

// New creates a Client. A nil httpClient uses http.DefaultClient; request
// deadlines come from the context.
func New(cfg config.NotionConfig, httpClient *http.Client, log logger.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, http: httpClient, logger: log}
}

func (c *Client) Name() string { return "notion" }

// Configured reports whether both the API key and the database id are set.
func (c *Client) Configured() bool {
	return !config.IsPlaceholder(c.cfg.APIKey) && !config.IsPlaceholder(c.cfg.DatabaseID)
}

// Persist creates one database page. It fails with NotConfigured, without
// any request, when credentials are missing.
func (c *Client) Persist(ctx context.Context, result domain.AnalysisResult, transcript string) error {
	if !c.Configured() {
		c.logger.Warn(ctx, "Notion API key or database id is not set")
		return domain.NewStageError(domain.ErrStagePersistence, domain.KindNotConfigured,
			"notion api key or database id is not set", nil)
	}

	body, err := json.Marshal(BuildPage(c.cfg, result, transcript))
	if err != nil {
		return domain.NewStageError(domain.ErrStagePersistence, domain.KindPersistError, "encode page", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/pages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.NewStageError(domain.ErrStagePersistence, domain.KindPersistError, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", c.cfg.Version)

	c.logger.Info(ctx, "Sending page to Notion")
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.NewStageError(domain.ErrStagePersistence, domain.KindPersistError, "notion request", err)
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error(ctx, "Notion API error %d: %s", resp.StatusCode, respBody)
		msg := fmt.Sprintf("notion api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		if readErr != nil {
			msg += " (response body incomplete)"
		}
		return &domain.StageError{
			Stage:   domain.ErrStagePersistence,
			Kind:    domain.KindPersistError,
			Message: msg,
			Raw:     string(respBody),
			Err:     readErr,
		}
	}
	if readErr != nil {
		c.logger.Warn(ctx, "Notion page created, reading the response failed: %v", readErr)
		return nil
	}

	var created struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(respBody, &created); err == nil && created.ID != "" {
		c.logger.Info(ctx, "Notion page created: %s %s", created.ID, created.URL)
	} else {
		c.logger.Info(ctx, "Notion page created")
	}
	return nil
}
