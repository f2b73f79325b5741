package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-quiz/internal/logger"
	"github.com/stemsi/exstem-quiz/internal/model"
	"github.com/stemsi/exstem-quiz/internal/quiz"
	"github.com/stemsi/exstem-quiz/internal/response"
	"github.com/stemsi/exstem-quiz/internal/service"
	"github.com/stemsi/exstem-quiz/internal/validator"
)

// QuizHandler exposes the quiz flow over HTTP.
type QuizHandler struct {
	quizService *service.QuizService
	log         zerolog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, log zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		log:         logger.Component(log, "quiz_handler"),
	}
}

// GetState godoc
// GET /api/v1/quiz/state
// Returns the phase, user details, running score and any bank load message.
func (h *QuizHandler) GetState(c *gin.Context) {
	response.Success(c, http.StatusOK, h.quizService.State(c.Request.Context()))
}

// StartQuiz godoc
// POST /api/v1/quiz/start
// Validates name and age and begins the quiz.
func (h *QuizHandler) StartQuiz(c *gin.Context) {
	var req model.StartQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.quizService.Start(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// GetQuestion godoc
// GET /api/v1/quiz/question
// Returns the current question with its options in display order.
func (h *QuizHandler) GetQuestion(c *gin.Context) {
	view, err := h.quizService.Current(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// SubmitAnswer godoc
// POST /api/v1/quiz/answer
// Checks the selected option and returns feedback.
func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.quizService.Submit(c.Request.Context(), req.Answer)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// NextQuestion godoc
// POST /api/v1/quiz/next
// Moves past the answered question.
func (h *QuizHandler) NextQuestion(c *gin.Context) {
	finished, err := h.quizService.Next(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"finished": finished})
}

// QuitQuiz godoc
// POST /api/v1/quiz/quit
// Ends the quiz early and returns the results.
func (h *QuizHandler) QuitQuiz(c *gin.Context) {
	results, err := h.quizService.Quit(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, results)
}

// GetResults godoc
// GET /api/v1/quiz/results
func (h *QuizHandler) GetResults(c *gin.Context) {
	results, err := h.quizService.Results(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, results)
}

// GetImage godoc
// GET /api/v1/quiz/image
// Serves the resized PNG for the current question. 202 while the load is
// still running, 204 when there is no image to show.
func (h *QuizHandler) GetImage(c *gin.Context) {
	status, data, err := h.quizService.Image(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	switch status {
	case model.ImageStatusReady:
		c.Data(http.StatusOK, "image/png", data)
	case model.ImageStatusPending:
		c.Header("Retry-After", "1")
		c.Status(http.StatusAccepted)
	default:
		c.Status(http.StatusNoContent)
	}
}

// fail maps service errors to API error codes.
func (h *QuizHandler) fail(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, ve.Fields)
	case errors.Is(err, service.ErrWrongPhase):
		response.Fail(c, http.StatusConflict, response.ErrWrongPhase)
	case errors.Is(err, service.ErrNotAnswered):
		response.Fail(c, http.StatusConflict, response.ErrNotAnswered)
	case errors.Is(err, quiz.ErrQuizOver):
		response.Fail(c, http.StatusConflict, response.ErrQuizOver)
	case errors.Is(err, quiz.ErrAlreadyAnswered):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyAnswered)
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled quiz error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
