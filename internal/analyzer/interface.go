package analyzer

import "context"

// Analyzer asks the generative model for a structured analysis and returns
// its raw text; parsing is left to the normalizer.
type Analyzer interface {
	// Analyze summarizes a transcript into title, summary, key_points and
	// hashtags.
	Analyze(ctx context.Context, transcript string) (string, error)
	// AnalyzeAudio uploads the recording and asks for transcription,
	// summary and hashtags in a single call.
	AnalyzeAudio(ctx context.Context, audioPath string) (string, error)
}
