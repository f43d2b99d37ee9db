package questiongen

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand/v2"

	"github.com/abhisek/kotoba/internal/llm"
	"github.com/abhisek/kotoba/internal/quiz"
)

// LLMSource generates questions with an LLM provider.
type LLMSource struct {
	provider llm.Provider
	config   Config
	logger   *log.Logger

	// Avoid lists prompts the model should not repeat, e.g. the bank contents.
	Avoid func(ctx context.Context, topic quiz.Topic) []string
}

// NewLLMSource creates a source. logger may be nil.
func NewLLMSource(p llm.Provider, cfg Config, logger *log.Logger) *LLMSource {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LLMSource{provider: p, config: cfg, logger: logger}
}

type batchOutput struct {
	Questions []quiz.Question `json:"questions"`
}

// Fetch asks the model for req.Count questions and returns the ones that
// pass every validator, at most req.Count of them.
func (s *LLMSource) Fetch(ctx context.Context, req Request) ([]quiz.Question, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Topic.Section == "" {
		req.Topic.Section = quiz.SectionGrammar
	}

	purpose := "question-gen"
	if req.Count == 1 {
		purpose = "single-question"
	}
	ctx = llm.WithPurpose(ctx, purpose)
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	var avoid []string
	if s.Avoid != nil {
		avoid = s.Avoid(ctx, req.Topic)
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      buildSystemPrompt(req.Topic.Section),
		Prompt:      buildUserPrompt(req, avoid, s.config.MaxAvoid),
		Schema:      BatchSchema,
		MaxTokens:   s.config.MaxTokens * req.Count,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var out batchOutput
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}

	kept := make([]quiz.Question, 0, len(out.Questions))
	var lastErr *ValidationError
	for i := range out.Questions {
		q := out.Questions[i]
		if verr := s.validate(&q); verr != nil {
			s.logger.Printf("questiongen: dropping question %d: %v", i+1, verr)
			lastErr = verr
			continue
		}
		if s.config.Shuffle {
			rand.Shuffle(len(q.Options), func(a, b int) {
				q.Options[a], q.Options[b] = q.Options[b], q.Options[a]
			})
		}
		kept = append(kept, q)
		if len(kept) == req.Count {
			break
		}
	}

	if len(kept) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoQuestions, lastErr)
		}
		return nil, ErrNoQuestions
	}
	return kept, nil
}

func (s *LLMSource) validate(q *quiz.Question) *ValidationError {
	for _, v := range s.config.Validators {
		if err := v.Validate(q); err != nil {
			return err
		}
	}
	return nil
}
