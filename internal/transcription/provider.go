package transcription

import "context"

// Options is the fixed per-request transcription configuration.
type Options struct {
	SpeakerLabels    bool
	SpeakersExpected int
}

// DefaultOptions enables speaker labels for a two-person conversation.
var DefaultOptions = Options{
	SpeakerLabels:    true,
	SpeakersExpected: 2,
}

// Segment is an utterance as reported by the provider.
type Segment struct {
	Speaker string
	Text    string
	StartMs int64
	EndMs   int64
}

// Transcript is the provider's complete result for one audio file.
type Transcript struct {
	Text     string
	Segments []Segment
}

// Provider transcribes a local audio file. A call blocks until the provider
// returns a complete transcript or fails; partial results are never returned.
type Provider interface {
	Transcribe(ctx context.Context, audioPath string, opts Options) (*Transcript, error)

	// Name returns the provider name (e.g., "assemblyai")
	Name() string
}
