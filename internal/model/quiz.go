package model

import "fmt"

// Phase enumerates the one-way stages of a quiz run.
type Phase string

const (
	PhaseDetails Phase = "DETAILS"
	PhaseActive  Phase = "ACTIVE"
	PhaseResults Phase = "RESULTS"
)

// ImageStatus describes the state of the current question's image.
type ImageStatus string

const (
	ImageStatusNone    ImageStatus = "NONE"
	ImageStatusPending ImageStatus = "PENDING"
	ImageStatusReady   ImageStatus = "READY"
	ImageStatusFailed  ImageStatus = "FAILED"
)

// QuestionView is what the client renders for the current question.
type QuestionView struct {
	PresentedQuestion
	PresentationID string      `json:"presentation_id"`
	Answered       bool        `json:"answered"`
	Feedback       *Feedback   `json:"feedback,omitempty"`
	ImageStatus    ImageStatus `json:"image_status"`
}

// Feedback is shown under the options once an answer was submitted.
type Feedback struct {
	Correct bool   `json:"correct"`
	Message string `json:"message"`
}

// NewFeedback builds the message shown after a submit.
func NewFeedback(correct bool, correctAnswer string) Feedback {
	if correct {
		return Feedback{Correct: true, Message: "Correct!"}
	}
	return Feedback{Message: "Wrong! The correct answer was " + correctAnswer}
}

// AnswerResult is returned after submitting an answer.
type AnswerResult struct {
	Feedback
	CorrectAnswer string `json:"correct_answer"`
	Score         int    `json:"score"`
	// Scored is the denominator of the running score label, including this question.
	Scored int `json:"scored"`
}

// Status is the read-only snapshot pushed on every timer tick.
type Status struct {
	Phase          Phase `json:"phase"`
	ElapsedSeconds int   `json:"elapsed_seconds"`
	Score          int   `json:"score"`
	Scored         int   `json:"scored"`
	Total          int   `json:"total"`
}

// QuizState is the full client bootstrap payload.
type QuizState struct {
	Status
	User        *User  `json:"user,omitempty"`
	LoadMessage string `json:"load_message,omitempty"`
}

// Results is the final summary, frozen when the quiz ends.
type Results struct {
	Name           string  `json:"name"`
	Age            int     `json:"age"`
	Score          int     `json:"score"`
	Answered       int     `json:"answered"`
	TotalQuestions int     `json:"total_questions"`
	ElapsedSeconds int     `json:"elapsed_seconds"`
	AverageSeconds float64 `json:"average_seconds"`
	ScoreLine      string  `json:"score_line"`
	TimeLine       string  `json:"time_line"`
	AverageLine    string  `json:"average_line"`
}

// FormatLines fills the display strings from the numeric fields.
func (r *Results) FormatLines() {
	r.ScoreLine = fmt.Sprintf("Your Score: %d/%d", r.Score, r.Answered)
	r.TimeLine = fmt.Sprintf("Total Time: %d seconds", r.ElapsedSeconds)
	r.AverageLine = fmt.Sprintf("Average Time per Question: %.2f seconds", r.AverageSeconds)
}
