package ports

import (
	"context"
	"encoding/json"
)

// ChatCompleter forwards prompts to a hosted chat-completion API. Usage is the
// upstream token accounting, echoed verbatim.
type ChatCompleter interface {
	Configured() bool
	Complete(ctx context.Context, model, system, user string, maxTokens int) (text string, usage json.RawMessage, err error)
}

// MailSender delivers one rendered message to a batch of recipients.
type MailSender interface {
	Configured() bool
	Send(ctx context.Context, to []string, subject, html, text string) (messageID string, err error)
}

// SendCounter reserves outbound sends against the daily cap as one atomic
// check-and-increment. Release returns a reservation after a failed send.
type SendCounter interface {
	Reserve(ctx context.Context, n int) (bool, error)
	Release(ctx context.Context, n int)
}
