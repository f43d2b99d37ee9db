package quiz

// startedMsg is sent when the quiz questions have been fetched or selected.
type startedMsg struct {
	Count int
	Err   error
}
