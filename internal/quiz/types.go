package quiz

import (
	"fmt"
	"strings"
	"time"
)

// Level is a JLPT proficiency tier. N1 is the hardest, N5 the easiest.
type Level string

const (
	LevelN1 Level = "n1"
	LevelN2 Level = "n2"
	LevelN3 Level = "n3"
	LevelN4 Level = "n4"
	LevelN5 Level = "n5"
)

// Levels lists every level from hardest to easiest.
var Levels = []Level{LevelN1, LevelN2, LevelN3, LevelN4, LevelN5}

// ParseLevel accepts "n3", "N3" or "3".
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 {
		s = "n" + s
	}
	for _, l := range Levels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown JLPT level %q", s)
}

// Label returns the display form, e.g. "N3".
func (l Level) Label() string {
	return strings.ToUpper(string(l))
}

// Section is the content category of a question.
type Section string

const (
	SectionGrammar    Section = "grammar"
	SectionVocabulary Section = "vocabulary"
)

// Sections lists every section.
var Sections = []Section{SectionGrammar, SectionVocabulary}

// ParseSection accepts the section name in any case.
func ParseSection(s string) (Section, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", s)
}

// Label returns the Japanese display name used across the UI.
func (s Section) Label() string {
	switch s {
	case SectionGrammar:
		return "文法"
	case SectionVocabulary:
		return "語彙"
	}
	return string(s)
}

// Topic classifies a question for storage and filtering.
type Topic struct {
	Level   Level   `json:"level"`
	Section Section `json:"section"`
}

func (t Topic) String() string {
	return fmt.Sprintf("%s / %s", t.Level.Label(), t.Section.Label())
}

// Question is the immutable content of a multiple-choice question as
// produced by the question generator.
type Question struct {
	Prompt        string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"len=4,unique,dive,required"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
	Explanation   string   `json:"explanation" validate:"required"`
}

// IsCorrect reports whether the selected option value is the correct one.
func (q Question) IsCorrect(selected string) bool {
	return selected != "" && selected == q.CorrectAnswer
}

// CorrectIndex returns the position of the correct option, or -1.
func (q Question) CorrectIndex() int {
	for i, o := range q.Options {
		if o == q.CorrectAnswer {
			return i
		}
	}
	return -1
}

// Record is the durable unit of the revision bank.
type Record struct {
	Topic
	Question Question `json:"question"`

	// LastCorrectAt is set when the learner last answered this record
	// correctly, nil otherwise.
	LastCorrectAt *time.Time `json:"lastCorrectAt,omitempty"`
}

// AnsweredCorrectly reports whether the most recent outcome was correct.
func (r Record) AnsweredCorrectly() bool {
	return r.LastCorrectAt != nil
}

// Graded returns a copy of r with LastCorrectAt set to at when correct,
// or cleared otherwise.
func (r Record) Graded(correct bool, at time.Time) Record {
	if correct {
		t := at
		r.LastCorrectAt = &t
	} else {
		r.LastCorrectAt = nil
	}
	return r
}

// StoredRecord is a Record persisted in the revision bank.
type StoredRecord struct {
	Record
	ID        int       `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
