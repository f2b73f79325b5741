package websocket

import "github.com/stemsi/exstem-quiz/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing   Action = "ping"
	ActionSubmit Action = "submit"
	ActionNext   Action = "next"
	ActionQuit   Action = "quit"
)

// RequestPayload is the single inbound message shape; Answer is only read for submit.
type RequestPayload struct {
	Action Action `json:"action"`
	Answer string `json:"answer,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError      Event = "error"
	EventPong       Event = "pong"
	EventTick       Event = "tick"
	EventAnswered   Event = "answered"
	EventAdvanced   Event = "advanced"
	EventImageReady Event = "image_ready"
	EventFinished   Event = "finished"
)

// TickResponse is pushed on every timer tick.
type TickResponse struct {
	Event Event `json:"event"`
	model.Status
}

// AnsweredResponse mirrors the REST answer result.
type AnsweredResponse struct {
	Event Event `json:"event"`
	model.AnswerResult
}

// AdvancedResponse tells the client to fetch the next question.
type AdvancedResponse struct {
	Event Event `json:"event"`
}

// ImageReadyResponse announces that the image for a presentation settled.
type ImageReadyResponse struct {
	Event          Event             `json:"event"`
	PresentationID string            `json:"presentation_id"`
	Status         model.ImageStatus `json:"status"`
}

// FinishedResponse carries the final results.
type FinishedResponse struct {
	Event   Event          `json:"event"`
	Results *model.Results `json:"results"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
