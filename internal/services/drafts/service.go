package drafts

import (
	"context"
	"html"
	"strings"

	"go.uber.org/zap"

	"seekan/internal/apperr"
	"seekan/internal/domain"
	"seekan/internal/ports"
	"seekan/internal/services/outreach"
)

var validStatuses = map[string]bool{
	domain.DraftPending:  true,
	domain.DraftApproved: true,
	domain.DraftSent:     true,
	domain.DraftRejected: true,
}

type Service struct {
	repo      ports.DraftRepository
	jobs      ports.JobRepository
	campaigns ports.CampaignRepository
	mail      ports.MailSender
	settings  ports.SettingsRepository
	fromName  string
	// fallback per-run cap for campaigns that carry none
	capPerRun int
	logger    *zap.Logger
}

func New(repo ports.DraftRepository, jobs ports.JobRepository, campaigns ports.CampaignRepository,
	mail ports.MailSender, settings ports.SettingsRepository, fromName string, capPerRun int,
	logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		jobs:      jobs,
		campaigns: campaigns,
		mail:      mail,
		settings:  settings,
		fromName:  fromName,
		capPerRun: capPerRun,
		logger:    logger,
	}
}

func (s *Service) List(ctx context.Context, ownerID string, f ports.DraftFilter) ([]domain.Draft, error) {
	if f.Status != "" && !validStatuses[f.Status] {
		return nil, apperr.Validation("unknown status %q", f.Status)
	}
	return s.repo.ListDrafts(ctx, ownerID, f)
}

func (s *Service) Patch(ctx context.Context, ownerID, id string, patch ports.DraftPatch) (*domain.Draft, error) {
	if patch.Status != nil && !validStatuses[*patch.Status] {
		return nil, apperr.Validation("unknown status %q", *patch.Status)
	}
	if err := s.repo.UpdateDraft(ctx, ownerID, id, patch); err != nil {
		return nil, err
	}
	return s.repo.GetDraft(ctx, ownerID, id)
}

func (s *Service) Approve(ctx context.Context, ownerID, id, reviewer string) error {
	if reviewer == "" {
		reviewer = "system"
	}
	return s.repo.SetDraftStatus(ctx, ownerID, id, domain.DraftApproved, reviewer, "")
}

func (s *Service) Reject(ctx context.Context, ownerID, id, reviewer string) error {
	if reviewer == "" {
		reviewer = "system"
	}
	return s.repo.SetDraftStatus(ctx, ownerID, id, domain.DraftRejected, reviewer, "")
}

// Send delivers a draft when a recipient is given and the mail relay is
// configured; without a recipient it records the status flip with a demo
// message id. Either way the send consumes one slot of the campaign's per-run
// cap, reserved against the owning job's sent counter.
func (s *Service) Send(ctx context.Context, ownerID, id, to string) (messageID string, err error) {
	d, err := s.repo.GetDraft(ctx, ownerID, id)
	if err != nil {
		return "", err
	}

	capPerRun := s.capPerRun
	if c, err := s.campaigns.GetCampaign(ctx, ownerID, d.CampaignID); err == nil && c.SendCapPerRun > 0 {
		capPerRun = c.SendCapPerRun
	}
	ok, err := s.jobs.ReserveJobSend(ctx, d.JobID, capPerRun)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperr.Validation("per-run send cap exceeded")
	}

	if to == "" {
		messageID = "sg_demo_" + d.ID
	} else {
		if !s.mail.Configured() {
			s.jobs.ReleaseJobSend(ctx, d.JobID)
			return "", apperr.Config("API key not configured")
		}
		settings, err := s.settings.GetSettings(ctx)
		if err != nil {
			s.jobs.ReleaseJobSend(ctx, d.JobID)
			return "", err
		}
		body := outreach.Decorate(d.Content, s.fromName, settings)
		messageID, err = s.mail.Send(ctx, []string{to}, d.Subject, textToHTML(body), body)
		if err != nil {
			s.jobs.ReleaseJobSend(ctx, d.JobID)
			return "", err
		}
	}

	if err := s.repo.SetDraftStatus(ctx, ownerID, id, domain.DraftSent, "", messageID); err != nil {
		return "", err
	}
	s.logger.Info("draft sent", zap.String("owner", ownerID), zap.String("draft", id), zap.String("message_id", messageID))
	return messageID, nil
}

// FindByMessageID resolves a delivery receipt id to its draft, for inbound
// webhook correlation.
func (s *Service) FindByMessageID(ctx context.Context, messageID string) (*domain.Draft, error) {
	if messageID == "" {
		return nil, apperr.NotFound("draft not found")
	}
	return s.repo.GetDraftByMessageID(ctx, messageID)
}

// textToHTML wraps plain paragraphs for the html part of the message.
func textToHTML(body string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, para := range strings.Split(body, "\n\n") {
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(para), "\n", "<br>"))
		b.WriteString("</p>")
	}
	b.WriteString("</body></html>")
	return b.String()
}
