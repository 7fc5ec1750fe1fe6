package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/pageza/healthbite/backend/internal/logger"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the body sent to the chat-completions endpoint.
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// CompletionClient issues a single blocking completion call and returns the raw text.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ClientFunc adapts a function to CompletionClient.
type ClientFunc func(ctx context.Context, req CompletionRequest) (string, error)

func (f ClientFunc) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return f(ctx, req)
}

// ChatClient talks to an OpenAI-compatible chat-completions API.
type ChatClient struct {
	client *resty.Client
}

// NewChatClient creates a client bound to cfg's base URL and bearer key.
func NewChatClient(cfg Config) *ChatClient {
	client := resty.New().
		SetBaseURL(cfg.baseURL()).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &ChatClient{client: client}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete posts req to /chat/completions and returns the first choice's content.
func (c *ChatClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		return "", &TransportError{Err: err}
	}

	if resp.IsError() {
		logger.Get().Warn("completion API returned error",
			zap.Int("status", resp.StatusCode()),
			zap.String("model", req.Model),
		)
		return "", &UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", &ParseError{Raw: resp.String(), Err: fmt.Errorf("failed to decode completion envelope: %w", err)}
	}
	if len(result.Choices) == 0 {
		return "", &ParseError{Raw: resp.String(), Err: errors.New("no choices in completion response")}
	}

	content := result.Choices[0].Message.Content
	logger.Get().Debug("completion received",
		zap.String("model", req.Model),
		zap.Int("length", len(content)),
	)
	return content, nil
}

// complete is the shared front half of every service call.
func complete(ctx context.Context, cfg Config, client CompletionClient, messages []Message, temperature float64, maxTokens int) (string, error) {
	if !cfg.hasCredential() {
		return "", ErrMissingCredential
	}
	return client.Complete(ctx, CompletionRequest{
		Model:       cfg.model(),
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
}
