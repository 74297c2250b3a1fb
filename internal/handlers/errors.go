package handlers

import (
	"errors"
	"log"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/transcript-relay/internal/upload"
)

// statusFor maps a pipeline error to its HTTP status
func statusFor(err error) int {
	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, upload.ErrPayloadTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError responds with {"detail": ...}; server errors are also sent to Sentry
func writeError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
		captureError(c, err)
	}
	return c.Status(status).JSON(fiber.Map{
		"detail": err.Error(),
	})
}

// ErrorHandler renders framework errors (404, body too large, panics) in the same shape
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}

// captureError sends an error to Sentry with request context.
// It is a no-op when Sentry was not initialized.
func captureError(c *fiber.Ctx, err error) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("method", c.Method())
		scope.SetTag("path", c.Path())
		sentry.CaptureException(err)
	})
}
