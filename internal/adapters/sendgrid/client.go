package sendgrid

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"seekan/internal/apperr"
)

const defaultBaseURL = "https://api.sendgrid.com"

// Client sends one rendered message to a recipient batch through the v3 mail
// API. Outbound calls are paced by a limiter so burst sends stay polite.
type Client struct {
	http      *resty.Client
	apiKey    string
	fromEmail string
	fromName  string
	limiter   *rate.Limiter
	logger    *zap.Logger
}

type mailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type personalization struct {
	To []mailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             mailAddress       `json:"from"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
}

func New(apiKey, fromEmail, fromName string, logger *zap.Logger) *Client {
	http := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &Client{
		http:      http,
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		limiter:   rate.NewLimiter(rate.Limit(2), 4),
		logger:    logger,
	}
}

func (c *Client) Configured() bool { return c.apiKey != "" && c.fromEmail != "" }

func (c *Client) Send(ctx context.Context, to []string, subject, html, text string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	p := personalization{}
	for _, addr := range to {
		p.To = append(p.To, mailAddress{Email: addr})
	}
	req := mailRequest{
		Personalizations: []personalization{p},
		From:             mailAddress{Email: c.fromEmail, Name: c.fromName},
		Subject:          subject,
		// plain text part must precede html per the v3 API
		Content: []mailContent{
			{Type: "text/plain", Value: text},
			{Type: "text/html", Value: html},
		},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(req).
		Post("/v3/mail/send")
	if err != nil {
		return "", apperr.Upstream("send failed", err)
	}
	if resp.IsError() {
		c.logger.Warn("mail api error",
			zap.Int("status", resp.StatusCode()),
			zap.ByteString("body", resp.Body()))
		return "", apperr.Upstream("send failed", fmt.Errorf("upstream status %d", resp.StatusCode()))
	}

	messageID := resp.Header().Get("X-Message-Id")
	c.logger.Info("mail accepted", zap.Int("recipients", len(to)), zap.String("message_id", messageID))
	return messageID, nil
}
