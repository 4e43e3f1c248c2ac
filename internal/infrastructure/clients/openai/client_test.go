package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/feedbackinsights/internal/domain/providers"
	"github.com/zatekoja/feedbackinsights/pkg/config"
	apperrors "github.com/zatekoja/feedbackinsights/pkg/errors"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(&config.EnrichmentConfig{
		APIKey:       "test-key",
		BaseURL:      baseURL,
		Model:        "test-model",
		Timeout:      2 * time.Second,
		RateLimitRPM: -1,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(&config.EnrichmentConfig{})
	assert.Error(t, err)

	_, err = NewClient(nil)
	assert.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(&config.EnrichmentConfig{APIKey: "k", RateLimitRPM: -1})
	require.NoError(t, err)

	assert.Equal(t, defaultBaseURL, client.baseURL)
	assert.Equal(t, defaultModel, client.Model())
	assert.Equal(t, 15*time.Second, client.httpClient.Timeout)
	assert.Nil(t, client.limiter)
}

func TestComplete_SendsChatRequest(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "SENTIMENT: positive"}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/")
	text, err := client.Complete(context.Background(), providers.CompletionRequest{
		SystemPrompt: "system",
		UserPrompt:   "user",
		Temperature:  0.2,
		MaxTokens:    120,
	})

	require.NoError(t, err)
	assert.Equal(t, "SENTIMENT: positive", text)
	assert.Equal(t, "test-model", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Content)
	assert.Equal(t, 120, captured.MaxTokens)
}

func TestPing(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Hi"}},
			},
		})
	}))
	defer server.Close()

	require.NoError(t, newTestClient(t, server.URL).Ping(context.Background()))
	assert.Equal(t, 5, captured.MaxTokens)
}

func TestPing_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	err := newTestClient(t, server.URL).Ping(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.HTTPStatus())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
	assert.ErrorIs(t, err, providers.ErrCompletionUnauthorized)
	assert.Equal(t, http.StatusBadGateway, apperrors.HTTPStatus(err))
}

func TestPing_TransportFailureIsExternal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	err := newTestClient(t, url).Ping(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}

func TestComplete_StatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, sentinel: providers.ErrCompletionUnauthorized},
		{name: "rate limited", status: http.StatusTooManyRequests, sentinel: providers.ErrCompletionRateLimited},
		{name: "server error", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":"nope"}`))
			}))
			defer server.Close()

			_, err := newTestClient(t, server.URL).Complete(context.Background(), providers.CompletionRequest{UserPrompt: "x"})
			require.Error(t, err)

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"   "}}]}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Complete(context.Background(), providers.CompletionRequest{UserPrompt: "x"})
	assert.ErrorIs(t, err, providers.ErrCompletionEmpty)
}

func TestComplete_UndecodableBodyIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body"},
		{name: "html body", body: "<html>gateway</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(t, server.URL).Complete(context.Background(), providers.CompletionRequest{UserPrompt: "x"})
			assert.ErrorIs(t, err, providers.ErrCompletionEmpty)
		})
	}
}

func TestComplete_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestClient(t, server.URL).Complete(ctx, providers.CompletionRequest{UserPrompt: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTokenBucket_WaitRespectsContext(t *testing.T) {
	bucket := newTokenBucketWithRate(1, 1)
	defer bucket.stop()
	require.NoError(t, bucket.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bucket.Wait(ctx), context.DeadlineExceeded)
}

func TestTokenBucket_StopUnblocksWaiters(t *testing.T) {
	bucket := newTokenBucketWithRate(1, 1)
	require.NoError(t, bucket.Wait(context.Background()))

	done := make(chan error, 1)
	go func() { done <- bucket.Wait(context.Background()) }()

	bucket.stop()
	bucket.stop()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, errLimiterClosed)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after stop")
	}
}

func TestClose_StopsLimiter(t *testing.T) {
	client, err := NewClient(&config.EnrichmentConfig{APIKey: "k", RateLimitRPM: 1, RateLimitBurst: 1})
	require.NoError(t, err)
	require.NotNil(t, client.limiter)

	client.Close()
	client.Close()

	select {
	case <-client.limiter.done:
	default:
		t.Fatal("limiter still running after Close")
	}
}
