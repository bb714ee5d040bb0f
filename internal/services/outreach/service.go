package outreach

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"go.uber.org/zap"

	"seekan/internal/apperr"
	"seekan/internal/domain"
	"seekan/internal/policies"
	"seekan/internal/ports"
)

//go:embed templates/outreach.txt.tmpl
var textTemplateRaw string

//go:embed templates/outreach.html.tmpl
var htmlTemplateRaw string

// Parsed once at package init; reused on every send.
var (
	textTmpl = texttemplate.Must(texttemplate.New("outreach.txt").Parse(textTemplateRaw))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("outreach.html").Parse(htmlTemplateRaw))
)

const maxRecipients = 50

type Service struct {
	mail     ports.MailSender
	caps     ports.SendCounter
	guard    *policies.Guardrails
	settings ports.SettingsRepository
	fromName string
	logger   *zap.Logger
}

func New(mail ports.MailSender, caps ports.SendCounter, guard *policies.Guardrails,
	settings ports.SettingsRepository, fromName string, logger *zap.Logger) *Service {
	return &Service{mail: mail, caps: caps, guard: guard, settings: settings, fromName: fromName, logger: logger}
}

type Request struct {
	Recipients  []string
	NameHint    string
	Condition   string
	PreviewOnly bool
}

type Result struct {
	Status     string   `json:"status"`
	To         []string `json:"to,omitempty"`
	Subject    string   `json:"subject,omitempty"`
	HTMLLength int      `json:"html_length,omitempty"`
	TextLength int      `json:"text_length,omitempty"`
	Count      int      `json:"count,omitempty"`
	Message    string   `json:"message,omitempty"`
}

type templateData struct {
	Name            string
	Condition       string
	FromName        string
	UnsubscribeText string
	LegalAddress    string
}

func (s *Service) Send(ctx context.Context, ownerID string, req Request) (Result, error) {
	recipients := normalize(req.Recipients)
	if len(recipients) == 0 {
		return Result{}, apperr.Validation("no recipients")
	}
	if len(recipients) > maxRecipients {
		return Result{}, apperr.Validation("max %d recipients", maxRecipients)
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return Result{}, err
	}
	subject, html, text, err := s.render(req.NameHint, req.Condition, settings)
	if err != nil {
		return Result{}, err
	}

	// The preview path is the only dry run in the system: no policy, no caps,
	// no outbound call.
	if req.PreviewOnly {
		return Result{
			Status:     "preview",
			To:         recipients,
			Subject:    subject,
			HTMLLength: len(html),
			TextLength: len(text),
		}, nil
	}

	if !s.mail.Configured() {
		return Result{}, apperr.Config("API key not configured")
	}
	if err := s.guard.CheckRecipients(ctx, recipients); err != nil {
		return Result{}, err
	}
	ok, err := s.caps.Reserve(ctx, len(recipients))
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, apperr.Validation("daily send cap exceeded")
	}

	if _, err := s.mail.Send(ctx, recipients, subject, html, text); err != nil {
		s.caps.Release(ctx, len(recipients))
		s.logger.Warn("outreach send failed",
			zap.String("owner", ownerID),
			zap.Int("recipients", len(recipients)),
			zap.Error(err))
		// One failed call reports the whole batch as failed.
		return Result{Status: "error", Message: err.Error()}, nil
	}

	s.logger.Info("outreach sent", zap.String("owner", ownerID), zap.Int("count", len(recipients)))
	return Result{Status: "sent", Count: len(recipients)}, nil
}

func (s *Service) render(nameHint, condition string, settings domain.Settings) (subject, html, text string, err error) {
	data := templateData{
		Name:            defaultString(nameHint, "there"),
		Condition:       defaultString(condition, "your needs"),
		FromName:        s.fromName,
		UnsubscribeText: settings.UnsubscribeText,
		LegalAddress:    settings.LegalAddress,
	}
	subject = fmt.Sprintf("Support with %s - Avicenna Acupuncture", data.Condition)

	var tbuf, hbuf bytes.Buffer
	if err = textTmpl.Execute(&tbuf, data); err != nil {
		return "", "", "", err
	}
	if err = htmlTmpl.Execute(&hbuf, data); err != nil {
		return "", "", "", err
	}
	return subject, hbuf.String(), tbuf.String(), nil
}

func normalize(recipients []string) []string {
	out := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

func defaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// Decorate appends the signature and the compliance footer to a message body,
// skipping each part that is already present.
func Decorate(body, fromName string, settings domain.Settings) string {
	out := strings.TrimRight(body, " \t\n")
	if fromName != "" && !strings.HasSuffix(out, fromName) {
		out += "\n\nBest regards,\n" + fromName
	}
	if settings.UnsubscribeText != "" && !strings.Contains(out, settings.UnsubscribeText) {
		out += "\n\n" + settings.UnsubscribeText
	}
	if settings.LegalAddress != "" && !strings.Contains(out, settings.LegalAddress) {
		out += "\n" + settings.LegalAddress
	}
	return out
}
