package completion

import (
	"context"
	"time"

	"github.com/sleepstars/bayportbot/internal/clients"
	"github.com/sleepstars/bayportbot/internal/logger"
	"github.com/sleepstars/bayportbot/internal/metrics"
	"github.com/sleepstars/bayportbot/internal/models"
)

// Options fixes the parameters shared by every completion call
type Options struct {
	Model        string
	Temperature  float32
	SystemPrompt string
}

// Completer turns a user message into the model's reply
type Completer interface {
	Complete(ctx context.Context, message string) (string, error)
}

// Proxy forwards one user message per call to the completion API. It keeps
// no history: every call sends exactly the system prompt and the message.
type Proxy struct {
	client  clients.ChatClient
	options Options
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewProxy creates a proxy over client. m may be nil.
func NewProxy(client clients.ChatClient, opts Options, m *metrics.Metrics) *Proxy {
	log := logger.GetLogger().WithComponent("completion_proxy")
	log.Info("Creating completion proxy for model %s", opts.Model)

	return &Proxy{
		client:  client,
		options: opts,
		metrics: m,
		logger:  log,
	}
}

// BuildRequest assembles the two-message transcript for message
func (p *Proxy) BuildRequest(message string) *models.CompletionRequest {
	return &models.CompletionRequest{
		Model: p.options.Model,
		Messages: []models.CompletionMessage{
			{Role: models.RoleSystem, Content: p.options.SystemPrompt},
			{Role: models.RoleUser, Content: message},
		},
		Temperature: p.options.Temperature,
	}
}

// Complete makes a single attempt and returns the first choice's content
// unmodified. Any failure is reported as *UpstreamError.
func (p *Proxy) Complete(ctx context.Context, message string) (string, error) {
	req := p.BuildRequest(message)
	p.logger.Debug("Calling completion API with %d messages", len(req.Messages))

	start := time.Now()
	resp, err := p.client.Complete(ctx, req)
	if err == nil && (resp == nil || len(resp.Choices) == 0) {
		err = ErrNoChoices
	}
	if err != nil {
		p.record(metrics.OutcomeError, start)
		upstreamErr := newUpstreamError("chat completion", err)
		p.logger.WithError(err).Error("Completion call failed after %s", time.Since(start))
		return "", upstreamErr
	}

	p.record(metrics.OutcomeSuccess, start)
	p.logger.Debug("Completion call completed in %s", time.Since(start))
	return resp.Choices[0].Message.Content, nil
}

func (p *Proxy) record(outcome string, start time.Time) {
	if p.metrics != nil {
		p.metrics.RecordUpstreamCall(outcome, time.Since(start))
	}
}
