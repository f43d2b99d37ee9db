package session

// Summary holds the data displayed on the results screen.
type Summary struct {
	Total     int
	Answered  int
	Score     int
	Accuracy  float64
	Saved     int
	Incorrect []QuestionState
}

// BuildSummary totals a session. A slot counts as incorrect when it has
// been answered and its graded record carries no lastCorrectAt.
func BuildSummary(s Session) Summary {
	sum := Summary{Total: len(s.QuestionStates), Score: s.Score}
	for _, q := range s.QuestionStates {
		if q.Saved() {
			sum.Saved++
		}
		if !q.Answered() {
			continue
		}
		sum.Answered++
		if !q.QuestionData.AnsweredCorrectly() {
			sum.Incorrect = append(sum.Incorrect, q.clone())
		}
	}
	if sum.Answered > 0 {
		sum.Accuracy = float64(sum.Score) / float64(sum.Answered)
	}
	return sum
}

// Filter returns the slots to show on the results screen. With onlyIncorrect
// it keeps only slots whose graded record has no lastCorrectAt.
func Filter(s Session, onlyIncorrect bool) []QuestionState {
	out := make([]QuestionState, 0, len(s.QuestionStates))
	for _, q := range s.QuestionStates {
		if onlyIncorrect && q.QuestionData.AnsweredCorrectly() {
			continue
		}
		out = append(out, q.clone())
	}
	return out
}
