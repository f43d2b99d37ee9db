package questiongen

import "time"

// Config controls the LLMSource.
type Config struct {
	// Validators run in order on every question; the first failure drops
	// the question from the batch.
	Validators []Validator

	// MaxTokens is the response budget per question; the request budget is
	// MaxTokens times the requested count.
	MaxTokens int

	Temperature float64

	// Shuffle reorders options locally so the correct position is uniform
	// regardless of the model's habits.
	Shuffle bool

	// MaxAvoid caps how many previously seen prompts go into the prompt.
	MaxAvoid int

	// Timeout bounds one Fetch including provider retries. Zero means no limit.
	Timeout time.Duration
}

// DefaultConfig returns the standard validator chain and limits.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			NewStructuralValidator(),
			AnswerValidator{},
		},
		MaxTokens:   600,
		Temperature: 0.9,
		Shuffle:     true,
		MaxAvoid:    20,
		Timeout:     time.Minute,
	}
}
