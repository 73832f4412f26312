package analyzer

import "fmt"

const transcriptPrompt = `Analyze the following text and organize it into a JSON object with the fields below. Write every value in %[1]s.
- title: a short title that captures the whole content (5 words or fewer)
- summary: a 3-4 sentence summary of the whole content
- key_points: the key content as an array of bullet points (3 to 5 items)
- hashtags: an array of hashtags for the related topics (at most 5, each including #)

--- Original text ---
%[2]s
--------------------

Respond with JSON only.`

const audioPrompt = `You are a highly skilled AI assistant specialized in analyzing audio recordings. Your task is to process the attached audio file and provide a structured analysis in a single JSON object.

Perform the following three tasks:
1.  **transcription**: Accurately transcribe the entire audio into %[1]s text.
2.  **summary**: Based on the transcription, write a concise summary in %[1]s that covers the main points, discussions, and any decisions made. The summary should be presented in bullet points.
3.  **hashtags**: Generate an array of 5 to 7 relevant hashtags in %[1]s that best represent the key topics of the audio content.

Your final output MUST be a valid JSON object with the following structure and keys. Do not include any text outside of the JSON object.

{
  "transcription": "...",
  "summary": [
    "- ...",
    "- ..."
  ],
  "hashtags": ["#...", "#..."]
}`

// TranscriptPrompt builds the staged-analysis prompt for transcript.
func TranscriptPrompt(language, transcript string) string {
	return fmt.Sprintf(transcriptPrompt, language, transcript)
}

// AudioPrompt builds the combined transcription+analysis prompt.
func AudioPrompt(language string) string {
	return fmt.Sprintf(audioPrompt, language)
}
