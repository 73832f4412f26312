package processor

import (
	"context"

	"github.com/nguyentantai21042004/voice-notes/internal/domain"
)

// Processor runs one audio job through transcription, analysis and
// persistence.
type Processor interface {
	Process(ctx context.Context, job domain.AudioJob) (domain.Report, error)
}

// Sink stores a normalized analysis result.
type Sink interface {
	Name() string
	Persist(ctx context.Context, result domain.AnalysisResult, transcript string) error
}

// Observer is told about every stage a run enters.
type Observer func(ctx context.Context, stage domain.Stage)
