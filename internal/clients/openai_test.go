package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sleepstars/bayportbot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionBody(content string) map[string]interface{} {
	return map[string]interface{}{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
}

func TestOpenAIClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request method, path and credential
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req models.CompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.InDelta(t, 0.7, req.Temperature, 0.0001)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, models.RoleSystem, req.Messages[0].Role)
			assert.Equal(t, models.RoleUser, req.Messages[1].Role)
			assert.Equal(t, "test", req.Messages[1].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionBody("test response"))
	}))
	defer server.Close()

	client := NewOpenAIClient(ChatClientConfig{
		APIBase: server.URL + "/v1/",
		APIKey:  "sk-test",
	})

	resp, err := client.Complete(context.Background(), &models.CompletionRequest{
		Model: "test-model",
		Messages: []models.CompletionMessage{
			{Role: models.RoleSystem, Content: "system"},
			{Role: models.RoleUser, Content: "test"},
		},
		Temperature: 0.7,
	})

	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "test response", resp.Choices[0].Message.Content)
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
	assert.Equal(t, "chatcmpl-test", resp.ID)
}

func TestOpenAIClient_Errors(t *testing.T) {
	testCases := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "API error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "Non-JSON error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte("bad gateway"))
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "Malformed success body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"choices":`))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			client := NewOpenAIClient(ChatClientConfig{APIBase: server.URL, APIKey: "sk-test"})
			_, err := client.Complete(context.Background(), &models.CompletionRequest{
				Model:    "test-model",
				Messages: []models.CompletionMessage{{Role: models.RoleUser, Content: "hi"}},
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "create chat completion")

			if tc.wantStatus == 0 {
				return
			}
			var apiErr *openai.APIError
			var reqErr *openai.RequestError
			switch {
			case errors.As(err, &apiErr):
				assert.Equal(t, tc.wantStatus, apiErr.HTTPStatusCode)
			case errors.As(err, &reqErr):
				assert.Equal(t, tc.wantStatus, reqErr.HTTPStatusCode)
			default:
				t.Fatalf("unexpected error type %T", err)
			}
		})
	}
}

func TestOpenAIClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewOpenAIClient(ChatClientConfig{APIBase: url})
	_, err := client.Complete(context.Background(), &models.CompletionRequest{Model: "m"})
	assert.Error(t, err)
}

func TestOpenAIClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewOpenAIClient(ChatClientConfig{APIBase: server.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := client.Complete(context.Background(), &models.CompletionRequest{Model: "m"})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestOpenAIClient_ReleasesConnection(t *testing.T) {
	var opened, closed atomic.Int32

	server := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionBody("ok"))
	}))
	server.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		switch state {
		case http.StateNew:
			opened.Add(1)
		case http.StateClosed:
			closed.Add(1)
		}
	}
	server.Start()
	defer server.Close()

	client := NewOpenAIClient(ChatClientConfig{APIBase: server.URL})
	for i := 0; i < 3; i++ {
		_, err := client.Complete(context.Background(), &models.CompletionRequest{Model: "m"})
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool {
		return opened.Load() == 3 && closed.Load() == 3
	}, 2*time.Second, 10*time.Millisecond, "every call should open and close its own connection")
}

func TestNewOpenAIClient_NormalizesBase(t *testing.T) {
	client := NewOpenAIClient(ChatClientConfig{APIBase: "api.openai.com/v1/"})
	assert.Equal(t, "https://api.openai.com/v1", client.config.APIBase)

	client = NewOpenAIClient(ChatClientConfig{APIBase: "http://localhost:8001/v1"})
	assert.Equal(t, "http://localhost:8001/v1", client.config.APIBase)
}
