package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/abhisek/kotoba/internal/llm"
	"github.com/abhisek/kotoba/internal/questiongen"
	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/store"
)

// serviceEnv points the client at a running `kotoba serve` instead of
// calling an LLM directly.
const serviceEnv = "KOTOBA_QUESTION_SERVICE"

// avoidLimit is how many recent bank prompts are offered to the model as
// questions not to repeat.
const avoidLimit = 30

// buildSource returns the question source configured by the environment.
// st may be nil, which disables request logging and the avoid list.
func buildSource(ctx context.Context, st *store.Store, logger *log.Logger) (questiongen.Source, error) {
	if url := os.Getenv(serviceEnv); url != "" {
		return questiongen.NewHTTPSource(url, nil), nil
	}
	src, err := buildLLMSource(ctx, st, logger)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// buildLLMSource always talks to the model; `kotoba serve` uses it so the
// service never calls itself.
func buildLLMSource(ctx context.Context, st *store.Store, logger *log.Logger) (*questiongen.LLMSource, error) {
	cfg, err := llm.ConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("LLM config: %w", err)
	}

	var repo store.EventRepo
	if st != nil {
		repo = st.EventRepo()
	}
	provider, err := llm.NewProvider(ctx, cfg, repo)
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}

	qcfg := questiongen.DefaultConfig()
	qcfg.Temperature = cfg.Temperature
	qcfg.Timeout = cfg.Timeout
	src := questiongen.NewLLMSource(provider, qcfg, logger)
	if st != nil {
		src.Avoid = recentPrompts(st.Questions(), logger)
	}
	return src, nil
}

// recentPrompts lists the newest bank prompts of a topic.
func recentPrompts(repo *store.QuestionRepo, logger *log.Logger) func(context.Context, quiz.Topic) []string {
	return func(ctx context.Context, topic quiz.Topic) []string {
		recs, err := repo.Query(ctx, store.QueryOpts{
			Level:   topic.Level,
			Section: topic.Section,
			Limit:   avoidLimit,
		})
		if err != nil {
			logger.Printf("avoid list: %v", err)
			return nil
		}
		prompts := make([]string, len(recs))
		for i, r := range recs {
			prompts[i] = r.Question.Prompt
		}
		return prompts
	}
}
