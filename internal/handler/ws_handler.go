package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-quiz/internal/logger"
	"github.com/stemsi/exstem-quiz/internal/model"
	"github.com/stemsi/exstem-quiz/internal/quiz"
	"github.com/stemsi/exstem-quiz/internal/service"
	ws "github.com/stemsi/exstem-quiz/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the quiz timer and accepts quiz actions over a WebSocket.
type WSHandler struct {
	quizService  *service.QuizService
	hub          *ws.Hub
	tickInterval time.Duration
	log          zerolog.Logger
	upgrader     websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(quizService *service.QuizService, hub *ws.Hub, tickInterval time.Duration, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		quizService:  quizService,
		hub:          hub,
		tickInterval: tickInterval,
		log:          logger.Component(log, "ws_handler"),
		upgrader:     buildUpgrader(allowedOrigins),
	}
}

// QuizStream godoc
// WS /ws/v1/quiz/stream
// Pushes a tick every interval until the quiz ends, relays image_ready
// events, and applies submit/next/quit actions sent by the client.
func (h *WSHandler) QuizStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	events, leave := h.hub.Subscribe()
	defer leave()

	// Only this goroutine writes to conn; the reader hands actions over.
	actions := make(chan ws.RequestPayload)
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			var msg ws.RequestPayload
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Warn().Err(err).Msg("Unexpected close")
				} else {
					h.log.Debug().Msg("Connection closed")
				}
				return
			}
			select {
			case actions <- msg:
			case <-c.Request.Context().Done():
				return
			}
		}
	}()

	h.log.Info().Msg("Quiz stream connected")

	ticker := time.NewTicker(h.tickInterval)
	defer ticker.Stop()

	finished := false
	if h.sendTick(conn, &finished) != nil {
		return
	}

	for {
		var werr error
		select {
		case <-readerDone:
			return
		case <-ticker.C:
			if !finished {
				werr = h.sendTick(conn, &finished)
			}
		case ev := <-events:
			if ready, ok := ev.(ws.ImageReadyResponse); ok && ready.PresentationID != h.quizService.PresentationID() {
				continue
			}
			werr = ws.WriteTyped(conn, ev)
		case msg := <-actions:
			werr = h.handleAction(conn, msg, &finished)
		}
		if werr != nil {
			h.log.Debug().Err(werr).Msg("Write failed, closing stream")
			return
		}
	}
}

// sendTick pushes the running status, or the results once the quiz is over.
func (h *WSHandler) sendTick(conn *websocket.Conn, finished *bool) error {
	ctx := context.Background()
	st := h.quizService.Status(ctx)
	if st.Phase == model.PhaseResults {
		return h.sendFinished(conn, finished)
	}
	return ws.WriteTyped(conn, ws.TickResponse{Event: ws.EventTick, Status: st})
}

func (h *WSHandler) sendFinished(conn *websocket.Conn, finished *bool) error {
	if *finished {
		return nil
	}
	results, err := h.quizService.Results(context.Background())
	if err != nil {
		return ws.WriteError(conn, err.Error())
	}
	*finished = true
	return ws.WriteTyped(conn, ws.FinishedResponse{Event: ws.EventFinished, Results: results})
}

func (h *WSHandler) handleAction(conn *websocket.Conn, msg ws.RequestPayload, finished *bool) error {
	ctx := context.Background()

	switch msg.Action {
	case ws.ActionPing:
		return ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})

	case ws.ActionSubmit:
		if msg.Answer == "" {
			return ws.WriteError(conn, "answer is required")
		}
		result, err := h.quizService.Submit(ctx, msg.Answer)
		if err != nil {
			return ws.WriteError(conn, actionError(err))
		}
		return ws.WriteTyped(conn, ws.AnsweredResponse{Event: ws.EventAnswered, AnswerResult: *result})

	case ws.ActionNext:
		done, err := h.quizService.Next(ctx)
		if err != nil {
			return ws.WriteError(conn, actionError(err))
		}
		if done {
			return h.sendFinished(conn, finished)
		}
		return ws.WriteTyped(conn, ws.AdvancedResponse{Event: ws.EventAdvanced})

	case ws.ActionQuit:
		if _, err := h.quizService.Quit(ctx); err != nil {
			return ws.WriteError(conn, actionError(err))
		}
		return h.sendFinished(conn, finished)

	default:
		h.log.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
		return ws.WriteError(conn, "unknown action: "+string(msg.Action))
	}
}

// actionError renders a service error for the stream.
func actionError(err error) string {
	switch {
	case errors.Is(err, service.ErrWrongPhase):
		return "action not allowed now"
	case errors.Is(err, service.ErrNotAnswered):
		return "submit an answer first"
	case errors.Is(err, quiz.ErrAlreadyAnswered):
		return "question already answered"
	case errors.Is(err, quiz.ErrQuizOver):
		return "quiz is over"
	default:
		return "internal error"
	}
}
