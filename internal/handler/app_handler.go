package handler

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-quiz/internal/logger"
	"github.com/stemsi/exstem-quiz/internal/response"
)

// AppHandler serves the health check, the single-page UI and the close request.
type AppHandler struct {
	page     []byte
	shutdown func()
	once     sync.Once
	log      zerolog.Logger
}

// NewAppHandler creates a new AppHandler. shutdown is called at most once,
// when the user closes the app from the results screen.
func NewAppHandler(page []byte, shutdown func(), log zerolog.Logger) *AppHandler {
	return &AppHandler{
		page:     page,
		shutdown: shutdown,
		log:      logger.Component(log, "app_handler"),
	}
}

// Health godoc
// GET /health
func (h *AppHandler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": "ok"})
}

// Index godoc
// GET /
func (h *AppHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.page)
}

// Close godoc
// POST /api/v1/app/close
// Acknowledges first, then asks the process to shut down.
func (h *AppHandler) Close(c *gin.Context) {
	response.Success(c, http.StatusAccepted, gin.H{"closing": true})

	h.once.Do(func() {
		h.log.Info().Msg("Close requested from UI")
		if h.shutdown != nil {
			h.shutdown()
		}
	})
}
