package processor

import (
	"github.com/nguyentantai21042004/voice-notes/internal/analyzer"
	"github.com/nguyentantai21042004/voice-notes/internal/config"
	"github.com/nguyentantai21042004/voice-notes/internal/logger"
	"github.com/nguyentantai21042004/voice-notes/internal/transcriber"
)

type implProcessor struct {
	cfg         *config.Config
	mode        string
	transcriber transcriber.Transcriber
	analyzer    analyzer.Analyzer
	sinks       []Sink
	observer    Observer
	limiter     *Limiter
	logger      logger.Logger
}

// Option configures a Processor.
type Option func(*implProcessor)

// WithSinks sets the sinks a run persists to, in order. Without sinks the
// persisting stage is skipped.
func WithSinks(sinks ...Sink) Option {
	return func(p *implProcessor) { p.sinks = append(p.sinks, sinks...) }
}

// WithObserver registers a stage observer.
func WithObserver(o Observer) Option {
	return func(p *implProcessor) { p.observer = o }
}

// WithLimiter makes the processor draw run slots from l instead of a
// limiter of its own.
func WithLimiter(l *Limiter) Option {
	return func(p *implProcessor) { p.limiter = l }
}

// WithMode overrides cfg.Pipeline.Mode.
func WithMode(mode string) Option {
	return func(p *implProcessor) { p.mode = mode }
}

// New creates a Processor. tr may be nil when the processor only runs in
// combined mode.
func New(cfg *config.Config, tr transcriber.Transcriber, an analyzer.Analyzer, log logger.Logger, opts ...Option) Processor {
	p := &implProcessor{
		cfg:         cfg,
		mode:        cfg.Pipeline.Mode,
		transcriber: tr,
		analyzer:    an,
		logger:      log,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.limiter == nil {
		p.limiter = NewLimiter(cfg.Performance.MaxConcurrent)
	}

	return p
}
