package handler

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stemsi/exstem-quiz/internal/quiz"
	"github.com/stemsi/exstem-quiz/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestBuildUpgraderOrigins(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{name: "empty list allows all", allowed: nil, origin: "http://evil.test", want: true},
		{name: "listed origin", allowed: []string{"http://localhost:8080"}, origin: "http://localhost:8080", want: true},
		{name: "case insensitive", allowed: []string{"http://LOCALHOST:8080"}, origin: "http://localhost:8080", want: true},
		{name: "unlisted origin", allowed: []string{"http://localhost:8080"}, origin: "http://evil.test", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := buildUpgrader(tt.allowed)
			r := httptest.NewRequest("GET", "/ws/v1/quiz/stream", nil)
			r.Header.Set("Origin", tt.origin)

			assert.Equal(t, tt.want, up.CheckOrigin(r))
		})
	}
}

func TestActionError(t *testing.T) {
	assert.Equal(t, "action not allowed now", actionError(service.ErrWrongPhase))
	assert.Equal(t, "submit an answer first", actionError(fmt.Errorf("next: %w", service.ErrNotAnswered)))
	assert.Equal(t, "question already answered", actionError(quiz.ErrAlreadyAnswered))
	assert.Equal(t, "quiz is over", actionError(quiz.ErrQuizOver))
	assert.Equal(t, "internal error", actionError(errors.New("boom")))
}
