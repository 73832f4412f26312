package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/voice-notes/internal/config"
	"github.com/nguyentantai21042004/voice-notes/internal/domain"
	"github.com/nguyentantai21042004/voice-notes/internal/normalizer"
)

// Process runs the job through every stage. Each stage only starts after
// the previous one succeeded; the first failure ends the run in
// StageFailed. Resources acquired along the way are released on every
// return path.
func (p *implProcessor) Process(ctx context.Context, job domain.AudioJob) (domain.Report, error) {
	report := domain.Report{JobID: uuid.NewString()}

	if err := p.limiter.acquire(ctx); err != nil {
		return report, fmt.Errorf("wait for processing slot: %w", err)
	}
	defer p.limiter.release()

	startTime := time.Now()
	var stack releaseStack
	defer func() {
		if err := stack.release(); err != nil {
			p.logger.Warn(ctx, "Cleanup for job %s: %v", report.JobID, err)
		}
	}()

	p.enter(ctx, &report, domain.StageIdle)
	p.logger.Info(ctx, "Starting job %s (%s mode)", report.JobID, p.mode)

	p.enter(ctx, &report, domain.StageUploading)
	audioPath, err := p.stageUpload(ctx, job, &stack)
	if err != nil {
		return p.fail(ctx, report, err)
	}
	report.AudioPath = audioPath

	var result domain.AnalysisResult
	if p.mode == config.ModeCombined {
		result, err = p.runCombined(ctx, &report, audioPath)
	} else {
		result, err = p.runStaged(ctx, &report, audioPath)
	}
	if err != nil {
		return p.fail(ctx, report, err)
	}
	report.Result = result

	if len(p.sinks) > 0 {
		p.enter(ctx, &report, domain.StagePersisting)
		if err := p.persist(ctx, result, report.Transcript); err != nil {
			return p.fail(ctx, report, err)
		}
	}

	p.enter(ctx, &report, domain.StageDone)
	p.logger.Info(ctx, "Job %s done in %s: %s", report.JobID, time.Since(startTime), result.TitleOr(domain.DefaultTitle))
	return report, nil
}

// runStaged transcribes, analyzes the transcript, then normalizes the
// model output.
func (p *implProcessor) runStaged(ctx context.Context, report *domain.Report, audioPath string) (domain.AnalysisResult, error) {
	p.enter(ctx, report, domain.StageTranscribing)
	if p.transcriber == nil {
		return domain.AnalysisResult{}, domain.NewStageError(domain.ErrStageTranscription, domain.KindNotConfigured, "no transcriber configured", nil)
	}

	tctx, cancel := withTimeout(ctx, p.cfg.Timeouts.Transcription)
	transcript, err := p.transcriber.Transcribe(tctx, audioPath)
	cancel()
	if err != nil {
		return domain.AnalysisResult{}, asStageError(err, domain.ErrStageTranscription, domain.KindToolError)
	}
	report.Transcript = transcript
	p.logger.Info(ctx, "Transcribed %s with %s (%d chars)", audioPath, p.transcriber.Name(), len(transcript))

	p.enter(ctx, report, domain.StageAnalyzing)
	actx, cancel := withTimeout(ctx, p.cfg.Timeouts.Analysis)
	raw, err := p.analyzer.Analyze(actx, transcript)
	cancel()
	if err != nil {
		return domain.AnalysisResult{}, asStageError(err, domain.ErrStageAnalysis, domain.KindAPIError)
	}

	p.enter(ctx, report, domain.StageNormalizing)
	return normalizer.Normalize(raw)
}

// runCombined asks the model for transcription and analysis in one call;
// there is no separate transcribing stage.
func (p *implProcessor) runCombined(ctx context.Context, report *domain.Report, audioPath string) (domain.AnalysisResult, error) {
	p.enter(ctx, report, domain.StageAnalyzing)
	actx, cancel := withTimeout(ctx, p.cfg.Timeouts.Transcription+p.cfg.Timeouts.Analysis)
	raw, err := p.analyzer.AnalyzeAudio(actx, audioPath)
	cancel()
	if err != nil {
		return domain.AnalysisResult{}, asStageError(err, domain.ErrStageAnalysis, domain.KindAPIError)
	}

	p.enter(ctx, report, domain.StageNormalizing)
	result, err := normalizer.NormalizeCombined(raw)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	report.Transcript = result.Transcription
	return result, nil
}

// persist hands the result to each sink in order and stops at the first
// failure.
func (p *implProcessor) persist(ctx context.Context, result domain.AnalysisResult, transcript string) error {
	for _, sink := range p.sinks {
		pctx, cancel := withTimeout(ctx, p.cfg.Timeouts.Persistence)
		err := sink.Persist(pctx, result, transcript)
		cancel()
		if err != nil {
			p.logger.Error(ctx, "Sink %s failed: %v", sink.Name(), err)
			return asStageError(err, domain.ErrStagePersistence, domain.KindPersistError)
		}
		p.logger.Debug(ctx, "Sink %s stored the result", sink.Name())
	}
	return nil
}

func (p *implProcessor) enter(ctx context.Context, report *domain.Report, stage domain.Stage) {
	report.Stages = append(report.Stages, stage)
	p.logger.Debug(ctx, "Job %s: %s", report.JobID, stage)
	if p.observer != nil {
		p.observer(ctx, stage)
	}
}

func (p *implProcessor) fail(ctx context.Context, report domain.Report, err error) (domain.Report, error) {
	p.enter(ctx, &report, domain.StageFailed)
	p.logger.Error(ctx, "Job %s failed: %v", report.JobID, err)
	return report, err
}

// asStageError keeps StageErrors as they are and wraps anything else for
// the given stage.
func asStageError(err error, stage string, kind domain.Kind) error {
	var se *domain.StageError
	if errors.As(err, &se) {
		return err
	}
	return domain.NewStageError(stage, kind, "unexpected error", err)
}

// withTimeout bounds ctx by d; a zero d means no extra bound.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
