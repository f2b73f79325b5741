package router

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-quiz/internal/config"
	"github.com/stemsi/exstem-quiz/internal/handler"
	"github.com/stemsi/exstem-quiz/internal/middleware"
	"github.com/stemsi/exstem-quiz/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	App  *handler.AppHandler
	Quiz *handler.QuizHandler
	WS   *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds the lifetime of background middleware state such as the rate limiter sweep.
func SetupRouter(ctx context.Context, handlers *Handlers, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the access log can carry it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", handlers.App.Health)

	// Single-page UI. It is embedded in the binary, so it only changes on redeploy.
	router.GET("/", middleware.CacheControl(300), handlers.App.Index)

	// ─── 1. Quiz Group ─────────────────────────────────────────────────
	quizAPI := router.Group("/api/v1/quiz")
	quizAPI.Use(middleware.NoStore())
	{
		quizAPI.GET("/state", handlers.Quiz.GetState)
		quizAPI.POST("/start", handlers.Quiz.StartQuiz)
		quizAPI.GET("/question", handlers.Quiz.GetQuestion)
		quizAPI.POST("/answer", handlers.Quiz.SubmitAnswer)
		quizAPI.POST("/next", handlers.Quiz.NextQuestion)
		quizAPI.POST("/quit", handlers.Quiz.QuitQuiz)
		quizAPI.GET("/results", handlers.Quiz.GetResults)
	}

	// The UI polls the image while it is pending; keep a stuck client from spinning.
	// The URL is the same for every question, so the body must never be cached.
	imageLimiter := middleware.NewRateLimiter(ctx, 120, time.Minute)
	router.GET("/api/v1/quiz/image", imageLimiter.Middleware(), middleware.NoStore(), handlers.Quiz.GetImage)

	// ─── 2. App Group ──────────────────────────────────────────────────
	appAPI := router.Group("/api/v1/app")
	{
		appAPI.POST("/close", handlers.App.Close)
	}

	// ─── 3. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/quiz/stream", handlers.WS.QuizStream)
	}

	return router
}
