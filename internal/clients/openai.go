package clients

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sleepstars/bayportbot/internal/models"
)

// OpenAIClient implements ChatClient for OpenAI-compatible APIs
type OpenAIClient struct {
	config ChatClientConfig
}

// NewOpenAIClient creates a new OpenAI-compatible client
func NewOpenAIClient(config ChatClientConfig) *OpenAIClient {
	config.APIBase = strings.TrimRight(config.APIBase, "/")
	if !strings.HasPrefix(config.APIBase, "http://") && !strings.HasPrefix(config.APIBase, "https://") {
		config.APIBase = "https://" + config.APIBase
	}
	return &OpenAIClient{config: config}
}

// newHTTPClient returns a client that owns its own transport. Keep-alives are
// off so the connection is torn down as soon as the response is consumed.
func (c *OpenAIClient) newHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableKeepAlives = true
	return &http.Client{
		Transport: transport,
		Timeout:   c.config.Timeout,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResponse, error) {
	httpClient := c.newHTTPClient()
	defer httpClient.CloseIdleConnections()

	clientConfig := openai.DefaultConfig(c.config.APIKey)
	clientConfig.BaseURL = c.config.APIBase
	clientConfig.HTTPClient = httpClient
	client := openai.NewClientWithConfig(clientConfig)

	// Convert to openai request format
	openaiReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    make([]openai.ChatCompletionMessage, len(req.Messages)),
		Temperature: req.Temperature,
	}
	for i, msg := range req.Messages {
		openaiReq.Messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := client.CreateChatCompletion(ctx, openaiReq)
	if err != nil {
		return nil, fmt.Errorf("create chat completion: %w", err)
	}

	// Convert response back to our format
	result := &models.CompletionResponse{
		ID:      resp.ID,
		Object:  resp.Object,
		Created: resp.Created,
		Model:   resp.Model,
		Choices: make([]models.CompletionChoice, len(resp.Choices)),
	}
	for i, choice := range resp.Choices {
		result.Choices[i] = models.CompletionChoice{
			Index: choice.Index,
			Message: models.CompletionMessage{
				Role:    choice.Message.Role,
				Content: choice.Message.Content,
			},
			FinishReason: string(choice.FinishReason),
		}
	}
	return result, nil
}
