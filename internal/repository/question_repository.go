package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/stemsi/exstem-quiz/internal/model"
	"github.com/stemsi/exstem-quiz/internal/validator"
)

// Sentinel errors for question bank loading.
var (
	ErrBankNotFound  = errors.New("question bank not found")
	ErrBankMalformed = errors.New("question bank malformed")
)

// LoadErrorKind classifies a question bank load failure.
type LoadErrorKind int

const (
	LoadNotFound LoadErrorKind = iota + 1
	LoadMalformed
)

func (k LoadErrorKind) String() string {
	switch k {
	case LoadNotFound:
		return "NotFound"
	case LoadMalformed:
		return "Malformed"
	default:
		return "Unknown"
	}
}

// LoadError reports why a question bank could not be loaded.
type LoadError struct {
	Kind   LoadErrorKind
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case LoadNotFound:
		return fmt.Sprintf("the file %s was not found: %v", e.Source, e.Err)
	case LoadMalformed:
		return fmt.Sprintf("the file %s contains invalid questions: %v", e.Source, e.Err)
	default:
		return fmt.Sprintf("load %s: %v", e.Source, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is lets errors.Is match the kind sentinels.
func (e *LoadError) Is(target error) bool {
	switch target {
	case ErrBankNotFound:
		return e.Kind == LoadNotFound
	case ErrBankMalformed:
		return e.Kind == LoadMalformed
	}
	return false
}

// LoadBank reads a JSON array of questions from source.
// On failure it returns an empty, non-nil bank together with a *LoadError, so
// callers can carry on with a quiz that is immediately over.
func LoadBank(source string) (model.QuestionBank, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return model.QuestionBank{}, &LoadError{Kind: LoadNotFound, Source: source, Err: err}
	}

	bank, err := ParseBank(data)
	if err != nil {
		return model.QuestionBank{}, &LoadError{Kind: LoadMalformed, Source: source, Err: err}
	}
	return bank, nil
}

// ParseBank decodes and validates a question bank document.
func ParseBank(data []byte) (model.QuestionBank, error) {
	var bank model.QuestionBank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if bank == nil {
		// A literal null is not a question list.
		return nil, errors.New("decode: expected a JSON array of questions")
	}

	for i, q := range bank {
		if fields := validator.Struct(q); fields != nil {
			return nil, fmt.Errorf("question %d: %s", i, joinFields(fields))
		}
	}
	return bank, nil
}

// joinFields renders a field error map deterministically.
func joinFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}
