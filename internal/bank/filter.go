// Package bank selects questions from the revision bank.
package bank

import (
	"fmt"
	"strings"

	"github.com/abhisek/kotoba/internal/quiz"
)

// Correctness restricts a selection by the latest answer outcome.
type Correctness int

const (
	Any Correctness = iota
	OnlyCorrect
	OnlyIncorrect
)

func (c Correctness) String() string {
	switch c {
	case OnlyCorrect:
		return "correct"
	case OnlyIncorrect:
		return "incorrect"
	}
	return "any"
}

// ParseCorrectness accepts "", "any", "all", "correct" or "incorrect".
func ParseCorrectness(s string) (Correctness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "all":
		return Any, nil
	case "correct", "right":
		return OnlyCorrect, nil
	case "incorrect", "wrong":
		return OnlyIncorrect, nil
	}
	return Any, fmt.Errorf("unknown correctness filter %q", s)
}

// Filter is a conjunctive bank selection. Zero fields impose no constraint.
type Filter struct {
	Level       quiz.Level
	Section     quiz.Section
	Correctness Correctness

	// Text matches records whose prompt, options or explanation contain
	// it, ignoring case.
	Text string
}

// ParseFilter builds a Filter from its string forms. Empty strings and
// "all" leave the corresponding dimension unconstrained.
func ParseFilter(level, section, correctness string) (Filter, error) {
	var f Filter
	if v := strings.TrimSpace(level); v != "" && !strings.EqualFold(v, "all") {
		l, err := quiz.ParseLevel(v)
		if err != nil {
			return Filter{}, err
		}
		f.Level = l
	}
	if v := strings.TrimSpace(section); v != "" && !strings.EqualFold(v, "all") {
		s, err := quiz.ParseSection(v)
		if err != nil {
			return Filter{}, err
		}
		f.Section = s
	}
	c, err := ParseCorrectness(correctness)
	if err != nil {
		return Filter{}, err
	}
	f.Correctness = c
	return f, nil
}

func (f Filter) String() string {
	level, section := "all levels", "all sections"
	if f.Level != "" {
		level = f.Level.Label()
	}
	if f.Section != "" {
		section = f.Section.Label()
	}
	out := fmt.Sprintf("%s / %s / %s", level, section, f.Correctness)
	if f.Text != "" {
		out += fmt.Sprintf(" / %q", f.Text)
	}
	return out
}

// Predicate reports whether a stored record belongs to a selection.
type Predicate func(*quiz.StoredRecord) bool

// And composes predicates conjunctively. An empty And matches everything.
func And(preds ...Predicate) Predicate {
	return func(r *quiz.StoredRecord) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

func LevelIs(l quiz.Level) Predicate {
	return func(r *quiz.StoredRecord) bool { return r.Level == l }
}

func SectionIs(s quiz.Section) Predicate {
	return func(r *quiz.StoredRecord) bool { return r.Section == s }
}

// Answered matches records whose latest outcome equals correct.
func Answered(correct bool) Predicate {
	return func(r *quiz.StoredRecord) bool { return r.AnsweredCorrectly() == correct }
}

// Contains matches records mentioning text anywhere in the question.
func Contains(text string) Predicate {
	needle := strings.ToLower(text)
	return func(r *quiz.StoredRecord) bool {
		q := r.Question
		fields := append([]string{q.Prompt, q.Explanation}, q.Options...)
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), needle) {
				return true
			}
		}
		return false
	}
}

// Build translates f into a predicate.
func Build(f Filter) Predicate {
	var preds []Predicate
	if f.Level != "" {
		preds = append(preds, LevelIs(f.Level))
	}
	if f.Section != "" {
		preds = append(preds, SectionIs(f.Section))
	}
	switch f.Correctness {
	case OnlyCorrect:
		preds = append(preds, Answered(true))
	case OnlyIncorrect:
		preds = append(preds, Answered(false))
	}
	if t := strings.TrimSpace(f.Text); t != "" {
		preds = append(preds, Contains(t))
	}
	return And(preds...)
}
