package clients

import (
	"context"
	"time"

	"github.com/sleepstars/bayportbot/internal/models"
)

// ChatClient defines the interface for chat-completion API clients
type ChatClient interface {
	// Complete sends a single completion request and waits for the reply
	Complete(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResponse, error)
}

// ChatClientConfig contains configuration for chat clients
type ChatClientConfig struct {
	APIBase string
	APIKey  string
	Timeout time.Duration // zero means no client-side timeout
}
