package questiongen

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/kotoba/internal/quiz"
)

// Validator checks one generated question.
type Validator interface {
	Name() string
	Validate(q *quiz.Question) *ValidationError
}

// ValidationError describes why a question was rejected.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator enforces the struct tags on quiz.Question: a prompt,
// four distinct non-empty options, a correct answer and an explanation.
type StructuralValidator struct {
	v *validator.Validate
}

func NewStructuralValidator() *StructuralValidator {
	return &StructuralValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (s *StructuralValidator) Name() string { return "structural" }

func (s *StructuralValidator) Validate(q *quiz.Question) *ValidationError {
	err := s.v.Struct(q)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &ValidationError{Validator: s.Name(), Message: err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return &ValidationError{Validator: s.Name(), Message: strings.Join(msgs, "; ")}
}

// AnswerValidator requires the correct answer to be exactly one option.
type AnswerValidator struct{}

func (AnswerValidator) Name() string { return "answer" }

func (a AnswerValidator) Validate(q *quiz.Question) *ValidationError {
	if q.CorrectIndex() < 0 {
		return &ValidationError{
			Validator: a.Name(),
			Message:   fmt.Sprintf("correct answer %q is not among the options", q.CorrectAnswer),
		}
	}
	return nil
}

// BlankValidator requires grammar prompts to mark the tested part with （　　）.
type BlankValidator struct{}

func (BlankValidator) Name() string { return "blank" }

func (b BlankValidator) Validate(q *quiz.Question) *ValidationError {
	for _, marker := range []string{"（", "(", "＿", "_"} {
		if strings.Contains(q.Prompt, marker) {
			return nil
		}
	}
	return &ValidationError{Validator: b.Name(), Message: "question has no blank to fill"}
}
