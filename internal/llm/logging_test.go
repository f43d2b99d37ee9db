package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kotoba/internal/store"
)

type recordingRepo struct {
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func (r *recordingRepo) QueryLLMEvents(context.Context, store.EventQueryOpts) ([]store.LLMRequestEvent, error) {
	return nil, nil
}

func (r *recordingRepo) GetLLMEvent(context.Context, int) (*store.LLMRequestEvent, error) {
	return nil, nil
}

func TestLoggingRecordsSuccessAndFailure(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"ok":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 20}},
		MockResponse{Err: errors.New("boom")},
	)
	p := WithLogging(mock, ProviderMock, repo)
	ctx := WithPurpose(context.Background(), "question-gen")

	_, err := p.Generate(ctx, Request{System: "教師", Prompt: "N3の問題", Schema: pairSchema})
	require.Error(t, err) // content does not match pairSchema

	_, err = p.Generate(ctx, Request{Prompt: "again"})
	require.Error(t, err)

	require.Len(t, repo.events, 2)
	first := repo.events[0]
	assert.Equal(t, "question-gen", first.Purpose)
	assert.Equal(t, ProviderMock, first.Provider)
	assert.False(t, first.Success)
	assert.Contains(t, first.RequestBody, "[system]\n教師")
	assert.Contains(t, first.RequestBody, "[schema: test-pair]")
	assert.Equal(t, "boom", repo.events[1].ErrorMessage)
}

func TestLoggingSuccessCapturesUsage(t *testing.T) {
	repo := &recordingRepo{err: errors.New("db locked")}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"ok":1}`), Usage: Usage{InputTokens: 3, OutputTokens: 4}})

	resp, err := WithLogging(mock, ProviderMock, repo).Generate(context.Background(), Request{Prompt: "x"})
	require.NoError(t, err, "repo failures must not fail the request")
	assert.Equal(t, 7, resp.Usage.Total())

	require.Len(t, repo.events, 1)
	ev := repo.events[0]
	assert.True(t, ev.Success)
	assert.Equal(t, "unknown", ev.Purpose)
	assert.Equal(t, 3, ev.InputTokens)
	assert.Equal(t, `{"ok":1}`, ev.ResponseBody)
}

func TestLoggingWithSQLiteStore(t *testing.T) {
	s, err := store.Open("file:llm_logging?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	_, err = WithLogging(mock, ProviderMock, s.EventRepo()).Generate(
		WithPurpose(context.Background(), "single-question"), Request{Prompt: "x"})
	require.NoError(t, err)

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.EventQueryOpts{Purpose: "single-question"})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
