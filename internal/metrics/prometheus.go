package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the transcript relay.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Upload metrics
	Uploads     *prometheus.CounterVec
	UploadBytes prometheus.Histogram

	// Transcription metrics
	TranscriptionAttempts prometheus.Counter
	TranscriptionRetries  prometheus.Counter
	TranscriptionFailures prometheus.Counter

	// Webhook metrics
	WebhookRequests *prometheus.CounterVec

	// Staging metrics
	StagedFilesRemoved *prometheus.CounterVec
}

// New creates all metrics and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transcript_relay_uploads_total",
			Help: "Total number of uploads by outcome",
		}, []string{"outcome"}),
		UploadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "transcript_relay_upload_bytes",
			Help:    "Size of uploaded audio files in bytes",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 8), // 64KB to 1GB
		}),

		TranscriptionAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "transcript_relay_transcription_attempts_total",
			Help: "Total number of provider transcription calls",
		}),
		TranscriptionRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "transcript_relay_transcription_retries_total",
			Help: "Total number of transcription retries after a failed attempt",
		}),
		TranscriptionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "transcript_relay_transcription_failures_total",
			Help: "Total number of transcriptions that exhausted all attempts",
		}),

		WebhookRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transcript_relay_webhook_requests_total",
			Help: "Total number of webhook deliveries by outcome",
		}, []string{"outcome"}),

		StagedFilesRemoved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transcript_relay_staged_files_removed_total",
			Help: "Total number of staged audio files removed",
		}, []string{"reason"}),
	}
}

// RecordUpload records the outcome and size of one upload
func (m *Metrics) RecordUpload(outcome string, size int) {
	if m == nil {
		return
	}
	m.Uploads.WithLabelValues(outcome).Inc()
	m.UploadBytes.Observe(float64(size))
}

// RecordAttempt records one provider call; retry is true for every call after the first
func (m *Metrics) RecordAttempt(retry bool) {
	if m == nil {
		return
	}
	m.TranscriptionAttempts.Inc()
	if retry {
		m.TranscriptionRetries.Inc()
	}
}

// RecordTranscriptionFailure records an exhausted retry budget
func (m *Metrics) RecordTranscriptionFailure() {
	if m == nil {
		return
	}
	m.TranscriptionFailures.Inc()
}

// RecordWebhook records a webhook delivery outcome
func (m *Metrics) RecordWebhook(outcome string) {
	if m == nil {
		return
	}
	m.WebhookRequests.WithLabelValues(outcome).Inc()
}

// RecordStagedFileRemoved records a staged file deletion ("request" or "expired")
func (m *Metrics) RecordStagedFileRemoved(reason string) {
	if m == nil {
		return
	}
	m.StagedFilesRemoved.WithLabelValues(reason).Inc()
}
