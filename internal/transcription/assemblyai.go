package transcription

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
)

// AssemblyAI transcribes audio files with the AssemblyAI API.
// It holds no per-request state and is safe for concurrent use.
type AssemblyAI struct {
	client *aai.Client
}

// NewAssemblyAI creates a provider for the given API key. baseURL is optional.
func NewAssemblyAI(apiKey, baseURL string) (*AssemblyAI, error) {
	if apiKey == "" {
		return nil, errors.New("assemblyai: API key cannot be empty")
	}

	opts := []aai.ClientOption{aai.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, aai.WithBaseURL(baseURL))
	}

	return &AssemblyAI{client: aai.NewClientWithOptions(opts...)}, nil
}

// Name returns the provider name
func (p *AssemblyAI) Name() string {
	return "assemblyai"
}

// Transcribe uploads the file and waits for the transcript to complete.
func (p *AssemblyAI) Transcribe(ctx context.Context, audioPath string, opts Options) (*Transcript, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(opts.SpeakerLabels),
	}
	if opts.SpeakersExpected > 0 {
		params.SpeakersExpected = aai.Int64(int64(opts.SpeakersExpected))
	}

	start := time.Now()
	transcript, err := p.client.Transcripts.TranscribeFromReader(ctx, f, params)
	if err != nil {
		return nil, fmt.Errorf("assemblyai request failed: %w", err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		return nil, fmt.Errorf("assemblyai transcript %s failed: %s",
			aai.ToString(transcript.ID), aai.ToString(transcript.Error))
	}

	result := fromAssemblyAI(transcript)
	log.Printf("[AssemblyAI] Transcript %s completed: %d utterances, took %v",
		aai.ToString(transcript.ID), len(result.Segments), time.Since(start).Round(time.Millisecond))
	return result, nil
}

// fromAssemblyAI keeps the provider's utterance order.
func fromAssemblyAI(t aai.Transcript) *Transcript {
	segments := make([]Segment, 0, len(t.Utterances))
	for _, u := range t.Utterances {
		segments = append(segments, Segment{
			Speaker: aai.ToString(u.Speaker),
			Text:    aai.ToString(u.Text),
			StartMs: aai.ToInt64(u.Start),
			EndMs:   aai.ToInt64(u.End),
		})
	}

	return &Transcript{
		Text:     aai.ToString(t.Text),
		Segments: segments,
	}
}
