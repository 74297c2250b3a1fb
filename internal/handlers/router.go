package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codebuildervaibhav/transcript-relay/internal/upload"
	"github.com/codebuildervaibhav/transcript-relay/internal/webhook"
)

// multipartOverhead is the body allowance above the file limit for multipart framing
const multipartOverhead = 1024 * 1024

// AppConfig holds everything the HTTP surface needs
type AppConfig struct {
	Upload         *upload.Service
	Relay          *webhook.Relay
	APIKey         string
	Gatherer       prometheus.Gatherer
	AllowOrigins   string
	RequestTimeout time.Duration
	AccessLog      bool
}

// NewApp builds the fiber app with middleware and routes
func NewApp(cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.Upload.MaxSize() + multipartOverhead,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: cfg.AllowOrigins != "" && cfg.AllowOrigins != "*",
	}))

	// Initialize handlers
	uploadHandler := NewUploadHandler(cfg.Upload, cfg.RequestTimeout)
	transcriptHandler := NewTranscriptHandler(cfg.Relay)
	statusHandler := NewStatusHandler(cfg.APIKey)
	streamHandler := NewStreamHandler(cfg.Upload, cfg.RequestTimeout)

	// Routes
	app.Get("/health", statusHandler.Health)
	app.Get("/test", statusHandler.Test)

	app.Post("/upload", uploadHandler.Handle)
	app.Post("/save-transcript", transcriptHandler.Save)
	app.Post("/download-transcript", transcriptHandler.Download)

	app.Use("/ws", RequireUpgrade)
	app.Get("/ws/upload", websocket.New(streamHandler.Handle))

	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	return app
}
