package types

// Upload outcome labels
const (
	OutcomeSuccess          = "success"
	OutcomeTooLarge         = "too_large"
	OutcomeStagingFailed    = "staging_failed"
	OutcomeTranscribeFailed = "transcription_failed"
)

// Utterance is one contiguous speech segment attributed to a single speaker.
// Start and End are millisecond offsets into the audio.
type Utterance struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Start   int64  `json:"start"`
	End     int64  `json:"end"`
}

// TranscriptResult is the response shape of /upload and the request shape of /save-transcript
type TranscriptResult struct {
	Text       string      `json:"text"`
	Utterances []Utterance `json:"utterances"`
}
