package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codebuildervaibhav/transcript-relay/internal/types"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name       string
		utterances []types.Utterance
		want       string
	}{
		{
			name: "two speakers",
			utterances: []types.Utterance{
				{Speaker: "A", Text: "hi"},
				{Speaker: "B", Text: "bye"},
			},
			want: "[A]: hi\n\n[B]: bye",
		},
		{
			name:       "single utterance",
			utterances: []types.Utterance{{Speaker: "A", Text: "hello there"}},
			want:       "[A]: hello there",
		},
		{
			name:       "empty",
			utterances: nil,
			want:       "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.utterances); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplySpeakerNames(t *testing.T) {
	in := []types.Utterance{
		{Speaker: "A", Text: "hi", Start: 0, End: 10},
		{Speaker: "B", Text: "bye", Start: 20, End: 30},
		{Speaker: "C", Text: "hm", Start: 40, End: 50},
	}
	names := map[string]string{"A": "Alice", "B": "  "}

	got := ApplySpeakerNames(in, names)

	want := []string{"Alice", "B", "C"}
	for i, speaker := range want {
		if got[i].Speaker != speaker {
			t.Errorf("got[%d].Speaker = %q, want %q", i, got[i].Speaker, speaker)
		}
	}
	if in[0].Speaker != "A" {
		t.Errorf("ApplySpeakerNames modified its input")
	}
	if got[1].Start != 20 || got[1].End != 30 {
		t.Errorf("offsets changed: %+v", got[1])
	}
}

func TestSave_PostsPayload(t *testing.T) {
	var received Payload
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	relay := NewRelay(srv.URL, 0, nil)
	transcript := types.TranscriptResult{
		Text: "hi bye",
		Utterances: []types.Utterance{
			{Speaker: "A", Text: "hi", Start: 0, End: 400},
			{Speaker: "B", Text: "bye", Start: 500, End: 900},
		},
	}

	if err := relay.Save(context.Background(), transcript); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if contentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", contentType)
	}
	if received.Text != "hi bye" {
		t.Errorf("text = %q, want %q", received.Text, "hi bye")
	}
	if received.FormattedTranscript != "[A]: hi\n\n[B]: bye" {
		t.Errorf("formatted_transcript = %q", received.FormattedTranscript)
	}
	if len(received.Utterances) != 2 || received.Utterances[1] != transcript.Utterances[1] {
		t.Errorf("utterances = %+v, want %+v", received.Utterances, transcript.Utterances)
	}
}

func TestSave_Failures(t *testing.T) {
	rejecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "scenario disabled", http.StatusGone)
	}))
	defer rejecting.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name string
		url  string
	}{
		{"not configured", ""},
		{"error status", rejecting.URL},
		{"unreachable", closedURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay := NewRelay(tt.url, 0, nil)
			err := relay.Save(context.Background(), types.TranscriptResult{Text: "x"})
			if !errors.Is(err, ErrWebhook) {
				t.Errorf("Save() error = %v, want ErrWebhook", err)
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	if NewRelay("", 0, nil).Enabled() {
		t.Error("Enabled() = true for empty URL")
	}
	if !NewRelay("https://hook.example.com/abc", 0, nil).Enabled() {
		t.Error("Enabled() = false for configured URL")
	}
}
