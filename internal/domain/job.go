package domain

import "io"

// Stage is one state of a single pipeline run.
type Stage string

const (
	StageIdle         Stage = "idle"
	StageUploading    Stage = "uploading"
	StageTranscribing Stage = "transcribing"
	StageAnalyzing    Stage = "analyzing"
	StageNormalizing  Stage = "normalizing"
	StagePersisting   Stage = "persisting"
	StageDone         Stage = "done"
	StageFailed       Stage = "failed"
)

// AudioJob describes the audio a run works on. Either Body (an upload that
// the processor saves and later removes) or Path (an existing file that is
// never deleted) is set.
type AudioJob struct {
	Filename string
	Body     io.Reader
	Path     string
}

// Report is what a finished run produced.
type Report struct {
	JobID      string
	AudioPath  string
	Transcript string
	Result     AnalysisResult
	Stages     []Stage
}
