package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sleepstars/bayportbot/internal/models"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.CompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Bearer sk-from-dotenv", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.CompletionResponse{
			Choices: []models.CompletionChoice{{
				Message: models.CompletionMessage{
					Role:    models.RoleAssistant,
					Content: "echo: " + req.Messages[len(req.Messages)-1].Content,
				},
			}},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAskCommand(t *testing.T) {
	server := fakeAPI(t)

	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("OPENAI_API_KEY=sk-from-dotenv\n"), 0o600))
	t.Setenv("OPENAI_API_BASE", server.URL+"/v1")
	t.Setenv("OPENAI_API_KEY", "")
	os.Unsetenv("OPENAI_API_KEY")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--env-file", dotenv, "ask", "how", "do", "I", "settle?"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, "echo: how do I settle?\n", out.String())
}

func TestAskCommand_Errors(t *testing.T) {
	t.Run("Missing question", func(t *testing.T) {
		root := newRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"--env-file", "", "ask"})
		assert.Error(t, root.Execute())
	})

	t.Run("Bad config file", func(t *testing.T) {
		root := newRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"--env-file", "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "ask", "hi"})
		assert.Error(t, root.Execute())
	})
}
