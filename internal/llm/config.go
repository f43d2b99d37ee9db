package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// Config selects and configures the LLM provider.
type Config struct {
	Provider string

	Gemini    ProviderConfig
	OpenAI    ProviderConfig
	Anthropic ProviderConfig

	Retry RetryConfig

	// Temperature applied to question generation.
	Temperature float64

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// ProviderConfig holds the credentials and model of one provider.
type ProviderConfig struct {
	APIKey string
	Model  string

	// BaseURL overrides the endpoint of OpenAI-compatible APIs.
	BaseURL string
}

// RetryConfig configures backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the built-in defaults. Gemini is the default
// provider; the temperature matches what keeps generated options varied.
func DefaultConfig() Config {
	return Config{
		Provider:  ProviderGemini,
		Gemini:    ProviderConfig{Model: "gemini-flash"},
		OpenAI:    ProviderConfig{Model: "gpt-4o-mini"},
		Anthropic: ProviderConfig{Model: "claude-haiku"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Temperature: 0.9,
		Timeout:     60 * time.Second,
	}
}

// envBinding maps one environment variable onto a config field.
type envBinding struct {
	name string
	set  func(c *Config, v string) error
}

func str(field func(c *Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

var envBindings = []envBinding{
	{"KOTOBA_LLM_PROVIDER", str(func(c *Config) *string { return &c.Provider })},
	{"KOTOBA_GEMINI_API_KEY", str(func(c *Config) *string { return &c.Gemini.APIKey })},
	{"KOTOBA_GEMINI_MODEL", str(func(c *Config) *string { return &c.Gemini.Model })},
	{"KOTOBA_OPENAI_API_KEY", str(func(c *Config) *string { return &c.OpenAI.APIKey })},
	{"KOTOBA_OPENAI_MODEL", str(func(c *Config) *string { return &c.OpenAI.Model })},
	{"KOTOBA_OPENAI_BASE_URL", str(func(c *Config) *string { return &c.OpenAI.BaseURL })},
	{"KOTOBA_ANTHROPIC_API_KEY", str(func(c *Config) *string { return &c.Anthropic.APIKey })},
	{"KOTOBA_ANTHROPIC_MODEL", str(func(c *Config) *string { return &c.Anthropic.Model })},
	{"KOTOBA_LLM_TEMPERATURE", func(c *Config, v string) error {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil || t < 0 || t > 1 {
			return fmt.Errorf("temperature must be a number in [0, 1], got %q", v)
		}
		c.Temperature = t
		return nil
	}},
	{"KOTOBA_LLM_TIMEOUT", func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Timeout = d
		return nil
	}},
}

// ConfigFromEnv overlays KOTOBA_* environment variables on the defaults.
// When no provider key is configured it falls back to the conventional
// GEMINI_API_KEY / GOOGLE_API_KEY / OPENAI_API_KEY / ANTHROPIC_API_KEY
// variables, in that order.
func ConfigFromEnv() (Config, error) {
	return configFrom(os.Getenv)
}

func configFrom(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()
	for _, b := range envBindings {
		v := getenv(b.name)
		if v == "" {
			continue
		}
		if err := b.set(&cfg, v); err != nil {
			return cfg, fmt.Errorf("%s: %w", b.name, err)
		}
	}

	if getenv("KOTOBA_LLM_PROVIDER") == "" && cfg.selected().APIKey == "" {
		discover(&cfg, getenv)
	}
	return cfg, nil
}

// discover picks the first provider with a conventional API key variable.
func discover(cfg *Config, getenv func(string) string) {
	candidates := []struct {
		env      string
		provider string
		target   *ProviderConfig
	}{
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini},
		{"GOOGLE_API_KEY", ProviderGemini, &cfg.Gemini},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI},
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic},
	}
	for _, c := range candidates {
		if k := getenv(c.env); k != "" {
			cfg.Provider = c.provider
			c.target.APIKey = k
			if m := getenv("GEMINI_MODEL_ID"); m != "" && c.provider == ProviderGemini {
				c.target.Model = m
			}
			return
		}
	}
}

func (c *Config) selected() *ProviderConfig {
	switch c.Provider {
	case ProviderOpenAI:
		return &c.OpenAI
	case ProviderAnthropic:
		return &c.Anthropic
	case ProviderGemini:
		return &c.Gemini
	}
	return &ProviderConfig{}
}

// Validate checks that the selected provider is usable.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		if c.selected().APIKey == "" {
			return fmt.Errorf("an API key is required for the %s provider (set KOTOBA_%s_API_KEY)",
				c.Provider, envName(c.Provider))
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider: %q", c.Provider)
}

func envName(provider string) string {
	switch provider {
	case ProviderGemini:
		return "GEMINI"
	case ProviderOpenAI:
		return "OPENAI"
	}
	return "ANTHROPIC"
}
