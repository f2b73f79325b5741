package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-quiz/internal/config"
	"github.com/stemsi/exstem-quiz/internal/handler"
	"github.com/stemsi/exstem-quiz/internal/logger"
	"github.com/stemsi/exstem-quiz/internal/model"
	"github.com/stemsi/exstem-quiz/internal/repository"
	"github.com/stemsi/exstem-quiz/internal/router"
	"github.com/stemsi/exstem-quiz/internal/service"
	"github.com/stemsi/exstem-quiz/internal/validator"
	ws "github.com/stemsi/exstem-quiz/internal/websocket"
	"github.com/stemsi/exstem-quiz/internal/worker"
	"github.com/stemsi/exstem-quiz/web"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Quiz Game")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Load Question Bank ────────────────────────────────────────────
	// A missing or broken bank is not fatal: the UI shows the message and
	// the quiz runs with no questions.
	bank, loadErr := repository.LoadBank(cfg.QuestionFile)
	if loadErr != nil {
		log.Warn().Err(loadErr).Str("file", cfg.QuestionFile).Msg("Question bank not loaded")
	} else {
		log.Info().Int("questions", bank.Len()).Str("file", cfg.QuestionFile).Msg("Question bank loaded")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	hub := ws.NewHub()

	imageService := service.NewImageService(cfg, log)
	imageLoader := worker.NewImageLoader(imageService, log)
	imageLoader.OnReady(func(key string, status model.ImageStatus) {
		hub.Broadcast(ws.ImageReadyResponse{
			Event:          ws.EventImageReady,
			PresentationID: key,
			Status:         status,
		})
	})

	quizService := service.NewQuizService(bank, loadErr, imageLoader, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	closeRequested := make(chan struct{})
	handlers := &router.Handlers{
		App:  handler.NewAppHandler(web.Index(), func() { close(closeRequested) }, log),
		Quiz: handler.NewQuizHandler(quizService, log),
		WS:   handler.NewWSHandler(quizService, hub, cfg.TickInterval, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")
	case <-closeRequested:
		log.Info().Msg("Closed from UI, shutting down...")
	}

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Cancel any in-flight image load and wait for it to return.
	imageLoader.Stop()
	cancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
