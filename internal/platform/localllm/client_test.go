package localllm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatReply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Response{Choices: []Choice{{Message: Message{Role: "assistant", Content: content}}}})
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", "")
	assert.Equal(t, DefaultURL, c.apiURL)
	assert.Equal(t, DefaultModel, c.model)
}

func TestConvertRecipe(t *testing.T) {
	var got Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		chatReply(w, "```json\n{\"title\": \"Rice\", \"ingredients\": [{\"name\": \"rice\", \"quantity\": \"1 cup\"}]}\n```")
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-model")
	r, err := c.ConvertRecipe(context.Background(), "cook a cup of rice")
	require.NoError(t, err)

	assert.Equal(t, "Rice", r.Title)
	assert.Equal(t, "1 cup", r.Ingredients[0].Quantity)
	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Contains(t, got.Messages[0].Content, "cook a cup of rice")
}

func TestGenerateContent_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "loading model", http.StatusServiceUnavailable)
			return
		}
		chatReply(w, "ok")
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	c.MaxElapsed = 10 * time.Second
	out, err := c.GenerateContent(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.EqualValues(t, 3, calls.Load())
}

func TestGenerateContent_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad model", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").GenerateContent(context.Background(), "hi")
	assert.ErrorContains(t, err, "400")
	assert.EqualValues(t, 1, calls.Load())
}

func TestGenerateContent_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").GenerateContent(context.Background(), "hi")
	assert.ErrorContains(t, err, "no content")
}
