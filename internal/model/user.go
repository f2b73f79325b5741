package model

// User holds the details entered before the quiz starts. Display only.
type User struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// StartQuizRequest is the payload of the details-entry step.
// Age arrives as text; the quiz service trims and parses it.
type StartQuizRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Age  string `json:"age" binding:"required"`
}

// SubmitAnswerRequest carries the option text the user picked.
type SubmitAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}
