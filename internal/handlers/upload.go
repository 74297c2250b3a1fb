package handlers

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/transcript-relay/internal/upload"
)

// UploadHandler handles multipart audio uploads
type UploadHandler struct {
	service *upload.Service
	timeout time.Duration
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(service *upload.Service, timeout time.Duration) *UploadHandler {
	return &UploadHandler{
		service: service,
		timeout: timeout,
	}
}

// Handle transcribes the uploaded file and responds with its utterances
func (h *UploadHandler) Handle(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "No file uploaded",
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Printf("Failed to open uploaded file: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Failed to read uploaded file",
		})
	}
	content, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		log.Printf("Failed to read uploaded file: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Failed to read uploaded file",
		})
	}

	ctx, cancel := requestContext(c.UserContext(), h.timeout)
	defer cancel()

	result, err := h.service.HandleUpload(ctx, content, file.Filename)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(result)
}

// requestContext bounds a request's provider work; timeout <= 0 means no bound
func requestContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
