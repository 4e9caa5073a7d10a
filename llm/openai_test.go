package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeOpenAI(t *testing.T, handler http.HandlerFunc) *openai.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("sk-test", srv.URL+"/v1")
}

func TestOpenAIClient_Analyze(t *testing.T) {
	var got openai.ChatCompletionRequest
	client := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"summary\":\"ok\"}"}, "finish_reason": "stop"}]
		}`))
	})

	c, err := NewOpenAIClient(client, "", DefaultTemperature)
	require.NoError(t, err)

	out, err := c.Analyze(context.Background(), "we agreed on the premium")
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"ok"}`, out)

	assert.Equal(t, openai.GPT4oMini, got.Model)
	assert.InDelta(t, 0.1, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "we agreed on the premium")
	assert.Contains(t, got.Messages[0].Content, `"followUpItems"`)
	assert.False(t, got.Stream)
}

func TestOpenAIClient_AnalyzeNoChoices(t *testing.T) {
	client := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-2","object":"chat.completion","choices":[]}`))
	})

	c, err := NewOpenAIClient(client, "gpt-4o-mini", DefaultTemperature)
	require.NoError(t, err)

	_, err = c.Analyze(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestOpenAIClient_AnalyzeAPIError(t *testing.T) {
	client := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	})

	c, err := NewOpenAIClient(client, "gpt-4o-mini", DefaultTemperature)
	require.NoError(t, err)

	_, err = c.Analyze(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("line one\nline two")
	assert.Contains(t, p, "Here is the transcript:\nline one\nline two\n")
	assert.Contains(t, p, "2-3 sentences")
}

func TestNewOpenAIClient_RequiresClient(t *testing.T) {
	_, err := NewOpenAIClient(nil, "gpt-4o-mini", DefaultTemperature)
	assert.Error(t, err)
}
