package handlers

import (
	"bytes"
	"context"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/codebuildervaibhav/transcript-relay/internal/upload"
)

const (
	streamEndSignal       = "END"
	defaultStreamFilename = "stream.webm"
)

// StreamHandler accepts audio over a WebSocket and runs the upload pipeline on END.
// Text frames before END set the filename; binary frames carry audio.
type StreamHandler struct {
	service *upload.Service
	timeout time.Duration
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(service *upload.Service, timeout time.Duration) *StreamHandler {
	return &StreamHandler{
		service: service,
		timeout: timeout,
	}
}

// Handle processes WebSocket connections
func (h *StreamHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	var (
		buffer   bytes.Buffer
		filename = defaultStreamFilename
		maxSize  = h.service.MaxSize()
	)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Printf("WebSocket read error: %v", err)
			return
		}

		if messageType == websocket.TextMessage {
			msg := string(message)
			if msg == streamEndSignal {
				break
			}
			if len(msg) > 0 && len(msg) < 200 {
				filename = msg
			}
			continue
		}

		if messageType == websocket.BinaryMessage {
			if buffer.Len()+len(message) > maxSize {
				h.writeError(c, upload.TooLargeError(maxSize))
				return
			}
			buffer.Write(message)
		}
	}

	if buffer.Len() == 0 {
		h.writeError(c, fiber.NewError(fiber.StatusBadRequest, "No audio data received"))
		return
	}

	log.Printf("Stream complete: %s (%d bytes)", filename, buffer.Len())

	ctx, cancel := requestContext(context.Background(), h.timeout)
	defer cancel()

	result, err := h.service.HandleUpload(ctx, buffer.Bytes(), filename)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := c.WriteJSON(result); err != nil {
		log.Printf("WebSocket write error: %v", err)
	}
}

func (h *StreamHandler) writeError(c *websocket.Conn, err error) {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Printf("WebSocket upload failed: %v", err)
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("transport", "websocket")
			sentry.CaptureException(err)
		})
	}
	if werr := c.WriteJSON(fiber.Map{"status": status, "detail": err.Error()}); werr != nil {
		log.Printf("WebSocket write error: %v", werr)
	}
}

// RequireUpgrade rejects plain HTTP requests on WebSocket routes
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
