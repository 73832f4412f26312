package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"gopkg.in/yaml.v3"
)

const (
	BackendWhisper = "whisper"
	BackendGemini  = "gemini"
	BackendOpenAI  = "openai"

	ModeStaged   = "staged"
	ModeCombined = "combined"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Paths         PathsConfig         `yaml:"paths"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Whisper       WhisperConfig       `yaml:"whisper"`
	Gemini        GeminiConfig        `yaml:"gemini"`
	OpenAI        OpenAIConfig        `yaml:"openai"`
	Analysis      AnalysisConfig      `yaml:"analysis"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Notion        NotionConfig        `yaml:"notion"`
	Export        ExportConfig        `yaml:"export"`
	Logging       LoggingConfig       `yaml:"logging"`
	Performance   PerformanceConfig   `yaml:"performance"`
	Timeouts      TimeoutsConfig      `yaml:"timeouts"`
}

type ServerConfig struct {
	Port         string        `yaml:"port" env:"PORT"`
	MaxUploadMB  int64         `yaml:"max_upload_mb"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	WatchInbox   bool          `yaml:"watch_inbox" env:"WATCH_INBOX"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Archived string `yaml:"archived"`
	Uploads  string `yaml:"uploads"`
	Output   string `yaml:"output"`
	Temp     string `yaml:"temp"`
}

type TranscriptionConfig struct {
	Backend string `yaml:"backend" env:"TRANSCRIPTION_BACKEND"`
}

type WhisperConfig struct {
	BinaryPath string `yaml:"binary_path" env:"WHISPER_BINARY"`
	Model      string `yaml:"model"`
	Language   string `yaml:"language"`
}

type GeminiConfig struct {
	APIKeys []string `yaml:"api_keys" env:"GEMINI_API_KEY" envSeparator:","`
	Model   string   `yaml:"model" env:"GEMINI_MODEL"`
}

type OpenAIConfig struct {
	APIKey   string `yaml:"api_key" env:"OPENAI_API_KEY"`
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
}

type AnalysisConfig struct {
	Language string `yaml:"language"`
}

type PipelineConfig struct {
	Mode string `yaml:"mode" env:"PIPELINE_MODE"`
}

type NotionConfig struct {
	APIKey     string                 `yaml:"api_key" env:"NOTION_API_KEY"`
	DatabaseID string                 `yaml:"database_id" env:"NOTION_DATABASE_ID"`
	BaseURL    string                 `yaml:"base_url"`
	Version    string                 `yaml:"version"`
	Properties NotionPropertiesConfig `yaml:"properties"`
	Headings   NotionHeadingsConfig   `yaml:"headings"`
}

type NotionPropertiesConfig struct {
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
	Tags    string `yaml:"tags"`
}

type NotionHeadingsConfig struct {
	KeyPoints  string `yaml:"key_points"`
	Transcript string `yaml:"transcript"`
}

type ExportConfig struct {
	DisableDocx bool   `yaml:"disable_docx"`
	IndexFile   string `yaml:"index_file"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// TimeoutsConfig bounds every external call of a run.
type TimeoutsConfig struct {
	Transcription time.Duration `yaml:"transcription"`
	Analysis      time.Duration `yaml:"analysis"`
	Persistence   time.Duration `yaml:"persistence"`
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result. A missing file is not an error: defaults and the
// environment are enough to run.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		c.Server.Port = "5000"
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 200
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 60 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Minute
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}

	if c.Paths.Input == "" {
		c.Paths.Input = "data/inbox"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Uploads == "" {
		c.Paths.Uploads = "uploads"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/notes"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = os.TempDir()
	}

	c.Transcription.Backend = strings.ToLower(strings.TrimSpace(c.Transcription.Backend))
	if c.Transcription.Backend == "" {
		c.Transcription.Backend = BackendWhisper
	}
	switch c.Transcription.Backend {
	case BackendWhisper, BackendGemini, BackendOpenAI:
	default:
		return fmt.Errorf("transcription.backend must be one of whisper, gemini, openai (got %q)", c.Transcription.Backend)
	}

	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper"
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "base"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "Korean"
	}

	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	c.Gemini.APIKeys = compact(c.Gemini.APIKeys)

	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "whisper-1"
	}
	if c.OpenAI.Language == "" {
		c.OpenAI.Language = "ko"
	}

	if c.Analysis.Language == "" {
		c.Analysis.Language = "Korean"
	}

	c.Pipeline.Mode = strings.ToLower(strings.TrimSpace(c.Pipeline.Mode))
	if c.Pipeline.Mode == "" {
		c.Pipeline.Mode = ModeStaged
	}
	if c.Pipeline.Mode != ModeStaged && c.Pipeline.Mode != ModeCombined {
		return fmt.Errorf("pipeline.mode must be staged or combined (got %q)", c.Pipeline.Mode)
	}

	if c.Notion.BaseURL == "" {
		c.Notion.BaseURL = "https://api.notion.com"
	}
	if c.Notion.Version == "" {
		c.Notion.Version = "2022-06-28"
	}
	if c.Notion.Properties.Title == "" {
		c.Notion.Properties.Title = "Title"
	}
	if c.Notion.Properties.Summary == "" {
		c.Notion.Properties.Summary = "Summary"
	}
	if c.Notion.Properties.Tags == "" {
		c.Notion.Properties.Tags = "Tags"
	}
	if c.Notion.Headings.KeyPoints == "" {
		c.Notion.Headings.KeyPoints = "Key Points"
	}
	if c.Notion.Headings.Transcript == "" {
		c.Notion.Headings.Transcript = "Full Transcript"
	}

	if c.Export.IndexFile == "" {
		c.Export.IndexFile = "index.xlsx"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	if c.Performance.MaxConcurrent <= 0 {
		c.Performance.MaxConcurrent = 2
	}

	if c.Timeouts.Transcription == 0 {
		c.Timeouts.Transcription = 10 * time.Minute
	}
	if c.Timeouts.Analysis == 0 {
		c.Timeouts.Analysis = 3 * time.Minute
	}
	if c.Timeouts.Persistence == 0 {
		c.Timeouts.Persistence = 30 * time.Second
	}

	return nil
}

// IsPlaceholder reports whether a credential is unset or still holds a
// template value such as "YOUR_NOTION_API_KEY".
func IsPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.HasPrefix(strings.ToUpper(v), "YOUR_")
}

func compact(keys []string) []string {
	out := keys[:0]
	for _, k := range keys {
		if k = strings.TrimSpace(k); !IsPlaceholder(k) {
			out = append(out, k)
		}
	}
	return out
}
