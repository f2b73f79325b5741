package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionHasOption(t *testing.T) {
	q := Question{Text: "2+2?", Options: []string{"3", "4", "5", "6"}, Correct: "4"}

	assert.True(t, q.HasOption("4"))
	assert.False(t, q.HasOption(" 4"))
	assert.False(t, q.HasOption(""))
}

func TestNewFeedback(t *testing.T) {
	assert.Equal(t, Feedback{Correct: true, Message: "Correct!"}, NewFeedback(true, "4"))
	assert.Equal(t, "Wrong! The correct answer was Paris", NewFeedback(false, "Paris").Message)
}

func TestResultsFormatLines(t *testing.T) {
	r := Results{Score: 1, Answered: 1, ElapsedSeconds: 12, AverageSeconds: 12.346}
	r.FormatLines()

	assert.Equal(t, "Your Score: 1/1", r.ScoreLine)
	assert.Equal(t, "Total Time: 12 seconds", r.TimeLine)
	assert.Equal(t, "Average Time per Question: 12.35 seconds", r.AverageLine)
}
