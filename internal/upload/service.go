package upload

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/codebuildervaibhav/transcript-relay/internal/metrics"
	"github.com/codebuildervaibhav/transcript-relay/internal/staging"
	"github.com/codebuildervaibhav/transcript-relay/internal/transcription"
	"github.com/codebuildervaibhav/transcript-relay/internal/types"
)

// MaxFileSize is the largest accepted upload (100 MiB)
const MaxFileSize = 100 * 1024 * 1024

var (
	// ErrPayloadTooLarge is returned for content over the size limit
	ErrPayloadTooLarge = errors.New("file too large")
	// ErrStaging is returned when the upload cannot be written to temp storage
	ErrStaging = errors.New("failed to stage upload")
)

// Transcriber is the retrying transcription client used by the service
type Transcriber interface {
	TranscribeWithRetry(ctx context.Context, audioPath string, opts transcription.Options) (*transcription.Transcript, error)
}

// Service runs the upload → stage → transcribe → respond pipeline
type Service struct {
	stager      *staging.Stager
	transcriber Transcriber
	maxSize     int
	metrics     *metrics.Metrics
}

// NewService creates an upload service. maxSize <= 0 means MaxFileSize.
func NewService(stager *staging.Stager, transcriber Transcriber, maxSize int, m *metrics.Metrics) *Service {
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	return &Service{
		stager:      stager,
		transcriber: transcriber,
		maxSize:     maxSize,
		metrics:     m,
	}
}

// TooLargeError reports content over maxSize bytes. Whole-MiB limits read as
// MB, anything else in bytes.
func TooLargeError(maxSize int) error {
	if maxSize >= 1<<20 && maxSize%(1<<20) == 0 {
		return fmt.Errorf("%w (max %dMB)", ErrPayloadTooLarge, maxSize>>20)
	}
	return fmt.Errorf("%w (max %d bytes)", ErrPayloadTooLarge, maxSize)
}

// MaxSize returns the upload size limit in bytes
func (s *Service) MaxSize() int {
	return s.maxSize
}

// HandleUpload transcribes content and returns speaker-labeled utterances.
// The staged file is removed on every return path.
func (s *Service) HandleUpload(ctx context.Context, content []byte, filename string) (*types.TranscriptResult, error) {
	if len(content) > s.maxSize {
		s.metrics.RecordUpload(types.OutcomeTooLarge, len(content))
		return nil, TooLargeError(s.maxSize)
	}

	staged, err := s.stager.Stage(content, filename)
	if err != nil {
		log.Printf("Failed to stage upload %q: %v", filename, err)
		s.metrics.RecordUpload(types.OutcomeStagingFailed, len(content))
		return nil, fmt.Errorf("%w: %w", ErrStaging, err)
	}
	defer staged.Remove()

	log.Printf("Staged upload %q (%d bytes) at %s", filename, len(content), staged.Path)

	transcript, err := s.transcriber.TranscribeWithRetry(ctx, staged.Path, transcription.DefaultOptions)
	if err != nil {
		s.metrics.RecordUpload(types.OutcomeTranscribeFailed, len(content))
		return nil, err
	}

	s.metrics.RecordUpload(types.OutcomeSuccess, len(content))
	return toResult(transcript), nil
}

// toResult renames provider fields into the response shape, keeping order
func toResult(t *transcription.Transcript) *types.TranscriptResult {
	utterances := make([]types.Utterance, len(t.Segments))
	for i, seg := range t.Segments {
		utterances[i] = types.Utterance{
			Speaker: seg.Speaker,
			Text:    seg.Text,
			Start:   seg.StartMs,
			End:     seg.EndMs,
		}
	}

	return &types.TranscriptResult{
		Text:       t.Text,
		Utterances: utterances,
	}
}
