package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Quiz flow ─────────────────────────────────────────────────────
	ErrWrongPhase      ErrCode = "WRONG_PHASE"
	ErrQuizOver        ErrCode = "QUIZ_OVER"
	ErrAlreadyAnswered ErrCode = "ALREADY_ANSWERED"
	ErrNotAnswered     ErrCode = "NOT_ANSWERED"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrNoImage ErrCode = "NO_IMAGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Please enter all details."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Quiz flow ─────────────────────────────────────────────────────
	case ErrWrongPhase:
		return "This action is not available right now."
	case ErrQuizOver:
		return "The quiz is over."
	case ErrAlreadyAnswered:
		return "This question has already been answered."
	case ErrNotAnswered:
		return "Submit an answer before moving on."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrNoImage:
		return "No image is available for this question."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
