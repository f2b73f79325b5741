// Package quiz holds the in-memory state of a single quiz run.
//
// A Session does no I/O and never blocks. It is not safe for concurrent use;
// callers serialize access.
package quiz

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/stemsi/exstem-quiz/internal/model"
)

var (
	ErrQuizOver        = errors.New("quiz is over")
	ErrAlreadyAnswered = errors.New("question already answered")
)

// Session tracks position, score and timing over a question bank.
type Session struct {
	bank model.QuestionBank
	now  func() time.Time
	rng  *rand.Rand

	index    int
	score    int
	answered bool
	// order caches the shuffled options of the current question until Advance.
	order []string

	startTime         time.Time
	questionStartTime time.Time
	answerTime        time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithRand makes option shuffling deterministic.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rng = r }
}

// NewSession starts a session over bank. The clock starts immediately.
func NewSession(bank model.QuestionBank, opts ...Option) *Session {
	s := &Session{bank: bank, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.startTime = s.now()
	s.questionStartTime = s.startTime
	return s
}

// CurrentQuestion returns the question at the current position with its
// options in shuffled order. The order is fixed until the next Advance.
// Returns false when the quiz is over.
func (s *Session) CurrentQuestion() (model.PresentedQuestion, bool) {
	if s.IsOver() {
		return model.PresentedQuestion{}, false
	}

	q := s.bank[s.index]
	if s.order == nil {
		s.order = Shuffle(q.Options, s.rng)
	}

	return model.PresentedQuestion{
		Index:   s.index,
		Number:  s.index + 1,
		Total:   len(s.bank),
		Text:    q.Text,
		Options: append([]string(nil), s.order...),
		Image:   q.Image,
	}, true
}

// CorrectOption returns the correct answer of the current question.
func (s *Session) CorrectOption() (string, bool) {
	if s.IsOver() {
		return "", false
	}
	return s.bank[s.index].Correct, true
}

// SubmitAnswer checks selected against the current question's correct option
// by exact string comparison. A match increments the score. The position is
// not advanced.
func (s *Session) SubmitAnswer(selected string) (bool, error) {
	if s.IsOver() {
		return false, ErrQuizOver
	}
	if s.answered {
		return false, ErrAlreadyAnswered
	}

	s.answered = true
	s.answerTime += s.now().Sub(s.questionStartTime)

	if selected != s.bank[s.index].Correct {
		return false, nil
	}
	s.score++
	return true, nil
}

// Advance moves to the next question. Calling it without SubmitAnswer skips
// the current question.
func (s *Session) Advance() error {
	if s.IsOver() {
		return ErrQuizOver
	}
	s.index++
	s.answered = false
	s.order = nil
	s.questionStartTime = s.now()
	return nil
}

// IsOver reports whether every question has been passed.
func (s *Session) IsOver() bool {
	return s.index >= len(s.bank)
}

// ElapsedTotal is the wall-clock time since the session started.
func (s *Session) ElapsedTotal() time.Duration {
	return s.now().Sub(s.startTime)
}

// AverageTimePerQuestion divides ElapsedTotal by the number of questions
// passed; zero before the first Advance.
func (s *Session) AverageTimePerQuestion() time.Duration {
	if s.index == 0 {
		return 0
	}
	return s.ElapsedTotal() / time.Duration(s.index)
}

func (s *Session) Score() int { return s.score }

func (s *Session) Index() int { return s.index }

func (s *Session) Total() int { return len(s.bank) }

// Answered reports whether the current question already has a submitted answer.
func (s *Session) Answered() bool { return s.answered }

// AnswerTime is the sum of the time spent on each answered question.
func (s *Session) AnswerTime() time.Duration { return s.answerTime }
