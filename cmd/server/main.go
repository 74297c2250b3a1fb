package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/codebuildervaibhav/transcript-relay/internal/config"
	"github.com/codebuildervaibhav/transcript-relay/internal/handlers"
	"github.com/codebuildervaibhav/transcript-relay/internal/metrics"
	"github.com/codebuildervaibhav/transcript-relay/internal/staging"
	"github.com/codebuildervaibhav/transcript-relay/internal/transcription"
	"github.com/codebuildervaibhav/transcript-relay/internal/upload"
	"github.com/codebuildervaibhav/transcript-relay/internal/webhook"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.DefaultPath
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Sentry is optional
	if cfg.Sentry.DSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		})
		if err != nil {
			log.Printf("WARNING: Sentry init failed: %v", err)
		} else {
			log.Println("Sentry error reporting enabled")
			defer sentry.Flush(2 * time.Second)
		}
	}

	if err := staging.EnsureDir(cfg.Storage.StagingDir); err != nil {
		log.Fatalf("Failed to create staging directory: %v", err)
	}

	// Initialize components
	log.Println("Initializing components...")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	provider, err := transcription.NewAssemblyAI(cfg.AssemblyAI.APIKey, cfg.AssemblyAI.BaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize transcription provider: %v", err)
	}
	retrier := transcription.NewRetrier(provider, m)
	log.Printf("Transcription provider: %s (%d attempts, %s delay)",
		retrier.ProviderName(), transcription.MaxAttempts, transcription.RetryDelay)

	stager := staging.NewStager(cfg.Storage.StagingDir, m)
	uploadService := upload.NewService(stager, retrier, cfg.MaxFileSize(), m)

	relay := webhook.NewRelay(cfg.Webhook.URL, time.Duration(cfg.Webhook.TimeoutSeconds)*time.Second, m)
	if !relay.Enabled() {
		log.Println("WARNING: WEBHOOK_URL not set - /save-transcript will fail")
	}

	// Staging sweeper
	sweeper := staging.NewSweeper(
		cfg.Storage.StagingDir,
		cfg.Cleanup.IntervalMinutes,
		cfg.Cleanup.MaxAgeHours,
		m,
	)
	sweeper.Start()
	defer sweeper.Stop()

	app := handlers.NewApp(handlers.AppConfig{
		Upload:         uploadService,
		Relay:          relay,
		APIKey:         cfg.AssemblyAI.APIKey,
		Gatherer:       registry,
		AllowOrigins:   cfg.CORS.AllowOrigins,
		RequestTimeout: time.Duration(cfg.Limits.RequestTimeoutMinutes) * time.Minute,
		AccessLog:      true,
	})

	// Start server
	addr := cfg.Addr()
	log.Printf("Server starting on %s", addr)
	log.Println("Endpoints:")
	log.Println("   POST /upload              - Transcribe an audio file")
	log.Println("   POST /save-transcript     - Forward a transcript to the webhook")
	log.Println("   POST /download-transcript - Download a formatted transcript")
	log.Println("   GET  /ws/upload           - WebSocket audio upload")
	log.Println("   GET  /test                - Liveness and API key check")
	log.Println("   GET  /health              - Health check")
	log.Println("   GET  /metrics             - Prometheus metrics")

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down gracefully...")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
