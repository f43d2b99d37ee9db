// Package server exposes question generation over HTTP for web clients.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"

	"github.com/abhisek/kotoba/internal/llm"
	"github.com/abhisek/kotoba/internal/questiongen"
	"github.com/abhisek/kotoba/internal/quiz"
)

// DefaultOrigin is allowed when KOTOBA_ALLOW_ORIGINS is unset.
const DefaultOrigin = "http://localhost:5173"

const invalidOutputDetail = "AI response was not valid JSON or missing fields."

// Config holds the service settings.
type Config struct {
	Addr         string
	AllowOrigins []string
	// RequestTimeout bounds one generation call. Zero means no limit.
	RequestTimeout time.Duration
}

// ConfigFromEnv reads KOTOBA_ALLOW_ORIGINS (comma separated) and
// KOTOBA_ADDR.
func ConfigFromEnv() Config {
	cfg := Config{Addr: ":8000", RequestTimeout: 2 * time.Minute}
	if addr := os.Getenv("KOTOBA_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	cfg.AllowOrigins = ParseOrigins(os.Getenv("KOTOBA_ALLOW_ORIGINS"))
	return cfg
}

// ParseOrigins splits a comma separated origin list, dropping blanks.
func ParseOrigins(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{DefaultOrigin}
	}
	return out
}

// Server serves generated questions.
type Server struct {
	app    *fiber.App
	source questiongen.Source
	cfg    Config
	logger *log.Logger
}

// New builds the fiber app. logger may be nil.
func New(source questiongen.Source, cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{DefaultOrigin}
	}
	s := &Server{source: source, cfg: cfg, logger: logger}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(s.requestLog)
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowOrigins, ","),
		AllowMethods:     "GET",
		AllowHeaders:     "*",
		AllowCredentials: !containsWildcard(cfg.AllowOrigins),
	}))

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	s.app.Get("/question", s.question)
	s.app.Get("/grammar_quiz", s.grammarQuiz)
	return s
}

// App returns the underlying fiber app, e.g. for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until ctx is cancelled.
func (s *Server) Listen(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() { errc <- s.app.Listen(s.cfg.Addr) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.app.ShutdownWithContext(shutdownCtx)
	}
}

func (s *Server) requestLog(c *fiber.Ctx) error {
	id := c.Get("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("X-Request-ID", id)

	start := time.Now()
	err := c.Next()
	if err != nil {
		// Let the error handler set the status before it is logged.
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}
	s.logger.Printf("[REQ] id=%s %s %s status=%d dur=%s",
		id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
	return nil
}

// question returns a single question for ?lv=.
func (s *Server) question(c *fiber.Ctx) error {
	req, err := parseRequest(c, false)
	if err != nil {
		return err
	}
	qs, err := s.fetch(c, req)
	if err != nil {
		return err
	}
	return c.JSON(qs[0])
}

// grammarQuiz returns ?c= questions for ?lv=, optionally narrowed by ?scp=.
func (s *Server) grammarQuiz(c *fiber.Ctx) error {
	req, err := parseRequest(c, true)
	if err != nil {
		return err
	}
	qs, err := s.fetch(c, req)
	if err != nil {
		return err
	}
	return c.JSON(qs)
}

func (s *Server) fetch(c *fiber.Ctx, req questiongen.Request) ([]quiz.Question, error) {
	ctx := c.UserContext()
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}
	qs, err := s.source.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, questiongen.ErrNoQuestions
	}
	return qs, nil
}

// paramError is a request validation failure reported as 422.
type paramError struct {
	Param string
	Msg   string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s: %s", e.Param, e.Msg)
}

func parseRequest(c *fiber.Ctx, batch bool) (questiongen.Request, error) {
	req := questiongen.Request{
		Topic: quiz.Topic{Section: quiz.SectionGrammar},
		Count: 1,
	}

	lv := c.Query("lv")
	if lv == "" {
		return req, &paramError{Param: "lv", Msg: "field required"}
	}
	level, err := quiz.ParseLevel(lv)
	if err != nil || len(strings.TrimSpace(lv)) != 2 {
		return req, &paramError{Param: "lv", Msg: "must be one of n1, n2, n3, n4, n5"}
	}
	req.Topic.Level = level

	if sec := c.Query("sec"); sec != "" {
		section, err := quiz.ParseSection(sec)
		if err != nil {
			return req, &paramError{Param: "sec", Msg: "must be grammar or vocabulary"}
		}
		req.Topic.Section = section
	}

	if !batch {
		return req, nil
	}
	if raw := c.Query("c"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, &paramError{Param: "c", Msg: "must be an integer"}
		}
		if n < questiongen.MinCount || n > questiongen.MaxCount {
			return req, &paramError{
				Param: "c",
				Msg:   fmt.Sprintf("must be between %d and %d", questiongen.MinCount, questiongen.MaxCount),
			}
		}
		req.Count = n
	}
	req.Scope = c.Query("scp")
	return req, nil
}

// handleError maps failures to {"detail": ...} bodies.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var (
		pe      *paramError
		fe      *fiber.Error
		invalid *llm.ErrInvalidResponse
	)
	switch {
	case errors.As(err, &pe):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"detail": []fiber.Map{{"loc": []string{"query", pe.Param}, "msg": pe.Msg}},
		})
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
	case errors.As(err, &invalid), errors.Is(err, questiongen.ErrNoQuestions):
		s.logger.Printf("invalid model output: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": invalidOutputDetail})
	default:
		s.logger.Printf("request failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": fmt.Sprintf("Failed with error: %v", err),
		})
	}
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
