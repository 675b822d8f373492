package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/config"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/database"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/generation"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/handlers"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/middleware"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/repository"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/router"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/services"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/websocket"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/worker"
)

func main() {
	log.Println("🚀 Starting study backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 3: Initialize Generation Backend ────
	backend, err := generation.NewBackend(cfg.GenerationProvider, cfg.BaseURL(), cfg.GeminiConcurrentReqs)
	if err != nil {
		log.Fatalf("✗ Generation backend initialization failed: %v", err)
	}
	gemini, isGemini := backend.(*generation.GeminiBackend)
	if isGemini {
		defer gemini.Close()
	}
	runner := generation.NewRunner(backend, generation.RunnerConfig{
		Tiers:          cfg.Tiers,
		Credentials:    cfg.Credentials(),
		Policy:         cfg.RotationPolicy,
		TierPause:      cfg.TierPause,
		AttemptTimeout: cfg.AttemptTimeout,
	})
	if runner.Configured() {
		log.Printf("✓ %s backend ready (%d key(s), tiers: %v)", backend.Name(), len(cfg.Credentials()), generation.TierIDs(runner.Tiers()))
	} else {
		log.Printf("✗ No API key configured for %s, generation requests will fail with NOT_CONFIGURED", backend.Name())
	}

	notesPipeline := generation.NewNotesPipeline(runner)
	quizPipeline := generation.NewQuizPipeline(runner)

	// Speech-to-text always goes through Gemini, whatever the text provider.
	var transcriber services.Transcriber
	if len(cfg.GeminiAPIKeys) > 0 {
		if !isGemini {
			gemini = generation.NewGeminiBackend(cfg.GeminiConcurrentReqs)
			defer gemini.Close()
		}
		transcriber = services.NewSpeechToText(gemini, cfg.GeminiAPIKeys, cfg.TranscriptionModel)
		log.Printf("✓ Speech-to-text fallback enabled (%s)", cfg.TranscriptionModel)
	} else {
		log.Println("✗ Speech-to-text fallback disabled (no GEMINI_API_KEY)")
	}

	// ──── Initialize Repositories & Services ────
	sessionRepo := repository.NewSessionRepo(redisClients.Queue, cfg.SessionTTL)
	jobRepo := repository.NewJobRepo(redisClients.Queue, cfg.SessionTTL)
	sessionAuth := middleware.NewSessionAuth(cfg.JWTSecret, cfg.SessionTTL)
	youtubeService := services.NewYouTubeService(transcriber)
	fileExtractService := services.NewFileExtractService()

	// ──── Step 4: Start Job Worker Pool ────
	workerPool := worker.NewPool(worker.Deps{
		Redis:     redisClients.Queue,
		Videos:    youtubeService,
		Notes:     notesPipeline,
		Quiz:      quizPipeline,
		Sessions:  sessionRepo,
		Jobs:      jobRepo,
		Publisher: websocket.NewPublisher(redisClients.Queue),
	}, cfg.WorkerCount)
	workerPool.Start()
	log.Printf("✓ Worker pool started (%d goroutines)", cfg.WorkerCount)

	// ──── Step 5: Start WebSocket Hub ────
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	wsHub := websocket.NewHub(redisClients.PubSub, sessionAuth)
	go wsHub.Run(hubCtx)
	log.Println("✓ WebSocket hub started")

	// ──── Step 6: Start HTTP Server ────
	limits := router.NewLimiters()
	r := router.New(sessionAuth, router.Handlers{
		Session:  handlers.NewSessionHandler(sessionRepo, jobRepo, sessionAuth, fileExtractService, cfg.MaxUploadBytes),
		Generate: handlers.NewGenerateHandler(sessionRepo, jobRepo, notesPipeline, quizPipeline),
		Quiz:     handlers.NewQuizHandler(sessionRepo),
		Models:   handlers.NewModelsHandler(backend.Name(), runner.Tiers(), runner.Configured()),
		Health:   handlers.NewHealthHandler(redisClients),
	}, limits, wsHub, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()
		stopHub()
		limits.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Study backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
