package model

// Question is a single multiple-choice record from the question bank.
type Question struct {
	Text    string   `json:"question" binding:"required"`
	Options []string `json:"options" binding:"required,min=2,dive,required"`
	Correct string   `json:"correct" binding:"required"`
	// Image is an absolute http(s) URL or a local filesystem path.
	Image string `json:"image,omitempty"`
}

// HasOption reports whether opt is one of the question's options (exact match).
func (q Question) HasOption(opt string) bool {
	for _, o := range q.Options {
		if o == opt {
			return true
		}
	}
	return false
}

// QuestionBank is the ordered, read-only list of questions for one session.
type QuestionBank []Question

// Len returns the number of questions in the bank.
func (b QuestionBank) Len() int { return len(b) }

// PresentedQuestion is a question paired with the display order of its options.
type PresentedQuestion struct {
	Index   int      `json:"index"`
	Number  int      `json:"number"`
	Total   int      `json:"total"`
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Image   string   `json:"-"`
}
