package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/transcript-relay/internal/types"
	"github.com/codebuildervaibhav/transcript-relay/internal/webhook"
)

// TranscriptHandler saves and downloads formatted transcripts
type TranscriptHandler struct {
	relay *webhook.Relay
}

// NewTranscriptHandler creates a new transcript handler
func NewTranscriptHandler(relay *webhook.Relay) *TranscriptHandler {
	return &TranscriptHandler{
		relay: relay,
	}
}

// TranscriptRequest is a transcript as edited by the client.
// SpeakerNames optionally maps speaker labels to display names.
type TranscriptRequest struct {
	Text         string            `json:"text"`
	Utterances   []types.Utterance `json:"utterances"`
	SpeakerNames map[string]string `json:"speaker_names,omitempty"`
}

func (r TranscriptRequest) named() types.TranscriptResult {
	return types.TranscriptResult{
		Text:       r.Text,
		Utterances: webhook.ApplySpeakerNames(r.Utterances, r.SpeakerNames),
	}
}

// Save forwards the transcript to the webhook
func (h *TranscriptHandler) Save(c *fiber.Ctx) error {
	var req TranscriptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid request body",
		})
	}

	if err := h.relay.Save(c.UserContext(), req.named()); err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Transcript saved successfully",
	})
}

// Download returns the formatted transcript as a text attachment
func (h *TranscriptHandler) Download(c *fiber.Ctx) error {
	var req TranscriptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid request body",
		})
	}

	c.Attachment("transcript.txt")
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(webhook.Format(req.named().Utterances))
}
