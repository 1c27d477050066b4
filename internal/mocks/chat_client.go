package mocks

import (
	"context"

	"github.com/sleepstars/bayportbot/internal/models"
)

// MockChatClient implements clients.ChatClient for testing
type MockChatClient struct {
	CompleteFunc func(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResponse, error)
	Calls        []*models.CompletionRequest
}

func (m *MockChatClient) Complete(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResponse, error) {
	m.Calls = append(m.Calls, req)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return &models.CompletionResponse{}, nil
}

// Reply returns a CompleteFunc answering every request with content
func Reply(content string) func(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResponse, error) {
	return func(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResponse, error) {
		return &models.CompletionResponse{
			Choices: []models.CompletionChoice{
				{Message: models.CompletionMessage{Role: models.RoleAssistant, Content: content}},
			},
		}, nil
	}
}

// MockCompleter implements completion.Completer for handler tests
type MockCompleter struct {
	CompleteFunc func(ctx context.Context, message string) (string, error)
	Messages     []string
}

func (m *MockCompleter) Complete(ctx context.Context, message string) (string, error) {
	m.Messages = append(m.Messages, message)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, message)
	}
	return "", nil
}
