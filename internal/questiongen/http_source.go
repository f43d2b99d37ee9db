package questiongen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/kotoba/internal/quiz"
)

// HTTPSource fetches questions from a kotoba question service.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates a client for the service at baseURL. A nil client
// uses one with a two minute timeout; generation is slow.
func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return &HTTPSource{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// ServiceError is a non-200 reply from the question service.
type ServiceError struct {
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("question service returned %d: %s", e.Status, e.Detail)
}

func (s *HTTPSource) Fetch(ctx context.Context, req Request) ([]quiz.Question, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("lv", string(req.Topic.Level))
	q.Set("c", strconv.Itoa(req.Count))
	if scope := normalizeScope(req.Scope); scope != "" {
		q.Set("scp", scope)
	}
	if req.Topic.Section != "" {
		q.Set("sec", string(req.Topic.Section))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/grammar_quiz?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Detail any `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, &ServiceError{Status: resp.StatusCode, Detail: fmt.Sprint(body.Detail)}
	}

	var qs []quiz.Question
	if err := json.NewDecoder(resp.Body).Decode(&qs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if len(qs) == 0 {
		return nil, ErrNoQuestions
	}
	return qs, nil
}
