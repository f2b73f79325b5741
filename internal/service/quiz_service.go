package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-quiz/internal/logger"
	"github.com/stemsi/exstem-quiz/internal/model"
	"github.com/stemsi/exstem-quiz/internal/quiz"
)

// Sentinel errors for quiz flow.
var (
	ErrWrongPhase  = errors.New("action not allowed in the current phase")
	ErrNotAnswered = errors.New("current question has not been answered")
)

// ValidationError carries field-level problems from the details-entry step.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid details: " + strings.Join(parts, ", ")
}

// ImageSlot is the background image holder for the question on screen.
type ImageSlot interface {
	Load(key, ref string)
	Clear()
	Get(key string) (model.ImageStatus, []byte)
}

// QuizService drives one quiz run through Details → Active → Results.
// Every method holds the service lock, so HTTP and websocket callers are
// applied one at a time.
type QuizService struct {
	bank     model.QuestionBank
	loadErr  error
	images   ImageSlot
	log      zerolog.Logger
	sessOpts []quiz.Option

	mu             sync.Mutex
	phase          model.Phase
	user           *model.User
	session        *quiz.Session
	presentationID string
	feedback       *model.Feedback
	results        *model.Results
}

// NewQuizService creates a new QuizService. loadErr is the error, if any,
// returned when bank was loaded; it is surfaced to the user as a message.
func NewQuizService(
	bank model.QuestionBank,
	loadErr error,
	images ImageSlot,
	log zerolog.Logger,
	opts ...quiz.Option,
) *QuizService {
	return &QuizService{
		bank:     bank,
		loadErr:  loadErr,
		images:   images,
		log:      logger.Component(log, "quiz_service"),
		sessOpts: opts,
		phase:    model.PhaseDetails,
	}
}

// LoadMessage returns the user-visible question bank error, or "".
func (s *QuizService) LoadMessage() string {
	if s.loadErr == nil {
		return ""
	}
	return "Error: " + s.loadErr.Error()
}

// Start validates the user's details and begins the quiz. With an empty bank
// the quiz goes straight to results.
func (s *QuizService) Start(ctx context.Context, req model.StartQuizRequest) (*model.QuizState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != model.PhaseDetails {
		return nil, ErrWrongPhase
	}

	user, err := parseDetails(req)
	if err != nil {
		return nil, err
	}

	s.user = user
	s.session = quiz.NewSession(s.bank, s.sessOpts...)
	s.phase = model.PhaseActive

	s.log.Info().
		Str("name", user.Name).
		Int("age", user.Age).
		Int("questions", s.session.Total()).
		Msg("Quiz started")

	if s.session.IsOver() {
		s.finishLocked()
	}

	return s.stateLocked(), nil
}

func parseDetails(req model.StartQuizRequest) (*model.User, error) {
	name := strings.TrimSpace(req.Name)
	ageText := strings.TrimSpace(req.Age)
	if name == "" || ageText == "" {
		fields := map[string]string{}
		if name == "" {
			fields["name"] = "name is a required field"
		}
		if ageText == "" {
			fields["age"] = "age is a required field"
		}
		return nil, &ValidationError{Fields: fields}
	}

	age, err := strconv.Atoi(ageText)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"age": "age must be a number"}}
	}
	if age <= 0 {
		return nil, &ValidationError{Fields: map[string]string{"age": "age must be greater than 0"}}
	}

	return &model.User{Name: name, Age: age}, nil
}

// Current returns the question on screen. The first call after each advance
// fixes the option order and starts the image load.
func (s *QuizService) Current(ctx context.Context) (*model.QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case model.PhaseDetails:
		return nil, ErrWrongPhase
	case model.PhaseResults:
		return nil, quiz.ErrQuizOver
	}

	pq, ok := s.session.CurrentQuestion()
	if !ok {
		s.finishLocked()
		return nil, quiz.ErrQuizOver
	}

	if s.presentationID == "" {
		s.presentationID = uuid.New().String()
		s.images.Load(s.presentationID, pq.Image)
	}
	status, _ := s.images.Get(s.presentationID)

	return &model.QuestionView{
		PresentedQuestion: pq,
		PresentationID:    s.presentationID,
		Answered:          s.session.Answered(),
		Feedback:          s.feedback,
		ImageStatus:       status,
	}, nil
}

// Submit records the user's answer for the current question.
func (s *QuizService) Submit(ctx context.Context, answer string) (*model.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case model.PhaseDetails:
		return nil, ErrWrongPhase
	case model.PhaseResults:
		return nil, quiz.ErrQuizOver
	}

	correct, err := s.session.SubmitAnswer(answer)
	if err != nil {
		return nil, err
	}
	correctAnswer, _ := s.session.CorrectOption()

	fb := model.NewFeedback(correct, correctAnswer)
	s.feedback = &fb

	s.log.Debug().
		Int("index", s.session.Index()).
		Bool("correct", correct).
		Int("score", s.session.Score()).
		Msg("Answer submitted")

	return &model.AnswerResult{
		Feedback:      fb,
		CorrectAnswer: correctAnswer,
		Score:         s.session.Score(),
		Scored:        s.session.Index() + 1,
	}, nil
}

// Next moves past an answered question. It reports whether the quiz is now over.
func (s *QuizService) Next(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case model.PhaseDetails:
		return false, ErrWrongPhase
	case model.PhaseResults:
		return true, quiz.ErrQuizOver
	}

	if !s.session.Answered() {
		return false, ErrNotAnswered
	}

	if err := s.advanceLocked(); err != nil {
		return false, err
	}

	if s.session.IsOver() {
		s.finishLocked()
		return true, nil
	}
	return false, nil
}

// Quit ends the quiz early. An answered question counts as passed; an
// unanswered one is not counted.
func (s *QuizService) Quit(ctx context.Context) (*model.Results, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case model.PhaseDetails:
		return nil, ErrWrongPhase
	case model.PhaseResults:
		return s.results, nil
	}

	if s.session.Answered() {
		if err := s.advanceLocked(); err != nil {
			return nil, err
		}
	}

	s.log.Info().Int("index", s.session.Index()).Msg("Quiz quit by user")
	s.finishLocked()
	return s.results, nil
}

// Results returns the summary once the quiz is over.
func (s *QuizService) Results(ctx context.Context) (*model.Results, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != model.PhaseResults {
		return nil, ErrWrongPhase
	}
	return s.results, nil
}

// Image returns the current question's image state and, when ready, its PNG bytes.
func (s *QuizService) Image(ctx context.Context) (model.ImageStatus, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != model.PhaseActive {
		return model.ImageStatusNone, nil, ErrWrongPhase
	}
	if s.presentationID == "" {
		return model.ImageStatusNone, nil, nil
	}
	status, data := s.images.Get(s.presentationID)
	return status, data, nil
}

// PresentationID returns the key of the question currently on screen, or "".
func (s *QuizService) PresentationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presentationID
}

// Status is the read-only snapshot used by the timer tick.
func (s *QuizService) Status(ctx context.Context) model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// State returns everything a freshly loaded client needs.
func (s *QuizService) State(ctx context.Context) *model.QuizState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *QuizService) stateLocked() *model.QuizState {
	return &model.QuizState{
		Status:      s.statusLocked(),
		User:        s.user,
		LoadMessage: s.LoadMessage(),
	}
}

func (s *QuizService) statusLocked() model.Status {
	st := model.Status{Phase: s.phase, Total: len(s.bank)}
	switch {
	case s.results != nil:
		st.ElapsedSeconds = s.results.ElapsedSeconds
		st.Score = s.results.Score
		st.Scored = s.results.Answered
	case s.session != nil:
		st.ElapsedSeconds = wholeSeconds(s.session.ElapsedTotal())
		st.Score = s.session.Score()
		st.Scored = s.session.Index()
		if s.session.Answered() {
			st.Scored++
		}
	}
	return st
}

func (s *QuizService) advanceLocked() error {
	if err := s.session.Advance(); err != nil {
		return err
	}
	s.presentationID = ""
	s.feedback = nil
	s.images.Clear()
	return nil
}

func (s *QuizService) finishLocked() {
	s.phase = model.PhaseResults
	s.presentationID = ""
	s.feedback = nil
	s.images.Clear()

	r := &model.Results{
		Name:           s.user.Name,
		Age:            s.user.Age,
		Score:          s.session.Score(),
		Answered:       s.session.Index(),
		TotalQuestions: s.session.Total(),
		ElapsedSeconds: wholeSeconds(s.session.ElapsedTotal()),
		AverageSeconds: s.session.AverageTimePerQuestion().Seconds(),
	}
	r.FormatLines()
	s.results = r

	s.log.Info().
		Int("score", r.Score).
		Int("answered", r.Answered).
		Int("total", r.TotalQuestions).
		Int("elapsed_s", r.ElapsedSeconds).
		Dur("answer_time", s.session.AnswerTime()).
		Msg("Quiz finished")
}

func wholeSeconds(d time.Duration) int {
	return int(d / time.Second)
}
