package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/codebuildervaibhav/transcript-relay/internal/metrics"
	"github.com/codebuildervaibhav/transcript-relay/internal/types"
)

// ErrWebhook is returned when the transcript could not be delivered
var ErrWebhook = errors.New("webhook delivery failed")

// Relay forwards formatted transcripts to a workflow-automation webhook
type Relay struct {
	webhookURL string
	client     *http.Client
	metrics    *metrics.Metrics
}

// Payload is the JSON body posted to the webhook
type Payload struct {
	Text                string            `json:"text"`
	FormattedTranscript string            `json:"formatted_transcript"`
	Utterances          []types.Utterance `json:"utterances"`
}

// NewRelay creates a relay. A zero timeout means 10 seconds.
func NewRelay(webhookURL string, timeout time.Duration, m *metrics.Metrics) *Relay {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Relay{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
		metrics:    m,
	}
}

// Enabled returns true if the webhook is configured
func (r *Relay) Enabled() bool {
	return r.webhookURL != ""
}

// Format renders utterances as "[speaker]: text" blocks separated by blank lines
func Format(utterances []types.Utterance) string {
	lines := make([]string, len(utterances))
	for i, u := range utterances {
		lines[i] = fmt.Sprintf("[%s]: %s", u.Speaker, u.Text)
	}
	return strings.Join(lines, "\n\n")
}

// ApplySpeakerNames returns a copy of utterances with speaker labels replaced
// by their display names. Unnamed speakers keep their label. A whitespace-only
// name counts as unset rather than used as-is.
func ApplySpeakerNames(utterances []types.Utterance, names map[string]string) []types.Utterance {
	renamed := make([]types.Utterance, len(utterances))
	for i, u := range utterances {
		if name := strings.TrimSpace(names[u.Speaker]); name != "" {
			u.Speaker = name
		}
		renamed[i] = u
	}
	return renamed
}

// Save posts the transcript to the webhook and waits for the response
func (r *Relay) Save(ctx context.Context, transcript types.TranscriptResult) error {
	if !r.Enabled() {
		r.metrics.RecordWebhook("disabled")
		return fmt.Errorf("%w: webhook URL not configured", ErrWebhook)
	}

	utterances := transcript.Utterances
	if utterances == nil {
		utterances = []types.Utterance{}
	}

	body, err := json.Marshal(Payload{
		Text:                transcript.Text,
		FormattedTranscript: Format(utterances),
		Utterances:          utterances,
	})
	if err != nil {
		r.metrics.RecordWebhook("error")
		return fmt.Errorf("%w: failed to marshal payload: %w", ErrWebhook, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.webhookURL, bytes.NewReader(body))
	if err != nil {
		r.metrics.RecordWebhook("error")
		return fmt.Errorf("%w: failed to create request: %w", ErrWebhook, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.metrics.RecordWebhook("error")
		return fmt.Errorf("%w: %w", ErrWebhook, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("webhook: returned status %d: %s", resp.StatusCode, string(respBody))
		r.metrics.RecordWebhook("rejected")
		return fmt.Errorf("%w: webhook returned status %d", ErrWebhook, resp.StatusCode)
	}

	r.metrics.RecordWebhook("success")
	log.Printf("webhook: transcript delivered (%d utterances)", len(utterances))
	return nil
}
