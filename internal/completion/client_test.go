package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/guardian-ai/apiserver/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(t *testing.T, baseURL, apiKey string) *OpenAIClient {
	t.Helper()
	return NewOpenAIClient(config.OpenAIConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   "gpt-3.5-turbo",
		Timeout: 5 * time.Second,
	}, zap.NewNop())
}

func TestComplete_ReturnsTrimmedFirstChoice(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  1. Open the file\n\nYou can do it!  "},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, "sk-test")

	got, err := client.Complete(context.Background(), SystemPrompt, BuildUserPrompt("clean my desk"))
	require.NoError(t, err)
	assert.Equal(t, "1. Open the file\n\nYou can do it!", got)

	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Contains(t, gotReq.Messages[1].Content, "clean my desk")
	assert.Equal(t, 300, gotReq.MaxTokens)
	assert.InDelta(t, 0.7, gotReq.Temperature, 1e-9)
	assert.InDelta(t, 0.95, gotReq.TopP, 1e-9)
	assert.Zero(t, gotReq.FrequencyPenalty)
	assert.Zero(t, gotReq.PresencePenalty)
}

func TestComplete_MissingAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be sent without an API key")
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, "")

	_, err := client.Complete(context.Background(), SystemPrompt, "anything")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestComplete_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, "sk-test")

	_, err := client.Complete(context.Background(), SystemPrompt, "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestComplete_APIErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"model not found","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, "sk-test")

	_, err := client.Complete(context.Background(), SystemPrompt, "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestComplete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, "sk-test")

	_, err := client.Complete(context.Background(), SystemPrompt, "anything")
	assert.EqualError(t, err, "no completion returned")
}

func TestComplete_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := testClient(t, srv.URL, "sk-test")

	_, err := client.Complete(context.Background(), SystemPrompt, "anything")
	assert.Error(t, err)
}
