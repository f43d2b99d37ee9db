package questiongen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kotoba/internal/quiz"
)

func TestHTTPSourceFetch(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]quiz.Question{question(), question()})
	}))
	defer srv.Close()

	req := n3Grammar(2)
	req.Scope = "助詞"
	qs, err := NewHTTPSource(srv.URL+"/", nil).Fetch(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, qs, 2)

	require.NotNil(t, got)
	assert.Equal(t, "/grammar_quiz", got.URL.Path)
	assert.Equal(t, "n3", got.URL.Query().Get("lv"))
	assert.Equal(t, "2", got.URL.Query().Get("c"))
	assert.Equal(t, "助詞", got.URL.Query().Get("scp"))
}

func TestHTTPSourceOmitsAllScope(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]quiz.Question{question()})
	}))
	defer srv.Close()

	req := n3Grammar(1)
	req.Scope = ScopeAll
	_, err := NewHTTPSource(srv.URL, srv.Client()).Fetch(context.Background(), req)
	require.NoError(t, err)
	assert.NotContains(t, query, "scp=")
}

func TestHTTPSourceServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"AI response was not valid JSON or missing fields."}`))
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, nil).Fetch(context.Background(), n3Grammar(1))
	var serr *ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusInternalServerError, serr.Status)
	assert.Contains(t, serr.Detail, "not valid JSON")
}
