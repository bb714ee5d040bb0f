package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"seekan/internal/apperr"
)

// Client relays chat-completion requests. No retry and no caching: the relay
// forwards one request and returns the upstream result as-is.
type Client struct {
	http   *resty.Client
	apiKey string
	logger *zap.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage json.RawMessage `json:"usage"`
}

func New(baseURL, apiKey string, logger *zap.Logger) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &Client{http: http, apiKey: apiKey, logger: logger}
}

func (c *Client) Configured() bool { return c.apiKey != "" }

func (c *Client) Complete(ctx context.Context, model, system, user string, maxTokens int) (string, json.RawMessage, error) {
	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(chatRequest{
			Model: model,
			Messages: []chatMessage{
				{Role: "system", Content: system},
				{Role: "user", Content: user},
			},
			MaxTokens: maxTokens,
		}).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return "", nil, apperr.Upstream("analysis request failed", err)
	}
	if resp.IsError() {
		c.logger.Warn("completion api error",
			zap.Int("status", resp.StatusCode()),
			zap.ByteString("body", resp.Body()))
		return "", nil, apperr.Upstream("analysis request failed", fmt.Errorf("upstream status %d", resp.StatusCode()))
	}
	if len(out.Choices) == 0 {
		return "", nil, apperr.Upstream("analysis request failed", fmt.Errorf("no completion returned"))
	}
	return out.Choices[0].Message.Content, out.Usage, nil
}
