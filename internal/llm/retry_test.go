package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(p Provider) *RetryProvider {
	r := WithRetry(p, RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2,
	}).(*RetryProvider)
	r.sleep = func(context.Context, time.Duration) error { return nil }
	return r
}

func TestRetryTransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("slow down")}},
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	resp, err := fastRetry(mock).Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
	assert.Len(t, mock.Calls(), 3)
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider()
	_, err := fastRetry(mock).Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)
	assert.Len(t, mock.Calls(), 3)
}

func TestRetryInvalidResponseOnce(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
		MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad again")}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	_, err := fastRetry(mock).Generate(context.Background(), Request{})
	var invalid *ErrInvalidResponse
	require.ErrorAs(t, err, &invalid)
	assert.Len(t, mock.Calls(), 2)
}

func TestRetryDoesNotRetryRejectedRequests(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: classifyStatus(400, errors.New("bad request"))},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	_, err := fastRetry(mock).Generate(context.Background(), Request{})
	require.ErrorContains(t, err, "rejected (400)")
	assert.Len(t, mock.Calls(), 1)

	mock = NewMockProvider(MockResponse{Err: &ErrMaxTokensExceeded{}})
	_, err = fastRetry(mock).Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Len(t, mock.Calls(), 1)
}

func TestRetryStopsOnCancelledSleep(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	r := fastRetry(mock)
	r.sleep = sleepCtx
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryWaitRespectsRetryAfter(t *testing.T) {
	r := fastRetry(NewMockProvider())
	assert.Equal(t, 3*time.Second, r.wait(0, &ErrRateLimit{RetryAfter: 3 * time.Second}))

	d := r.wait(10, &ErrProviderUnavailable{})
	assert.LessOrEqual(t, d, 6*time.Millisecond)
	assert.GreaterOrEqual(t, d, 4*time.Millisecond)
}

func TestClassifyStatus(t *testing.T) {
	base := errors.New("x")
	var rl *ErrRateLimit
	assert.ErrorAs(t, classifyStatus(429, base), &rl)
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, classifyStatus(503, base), &unavail)
	assert.ErrorIs(t, classifyStatus(401, base), base)
}
