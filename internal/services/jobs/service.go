package jobs

import (
	"context"

	"go.uber.org/zap"

	"seekan/internal/apperr"
	"seekan/internal/domain"
	"seekan/internal/ports"
	"seekan/internal/workers/fanout"
)

type Service struct {
	jobs      ports.JobRepository
	campaigns ports.CampaignRepository
	drafts    ports.DraftRepository
	processor *fanout.Processor
	logger    *zap.Logger
}

func New(jobs ports.JobRepository, campaigns ports.CampaignRepository, drafts ports.DraftRepository,
	processor *fanout.Processor, logger *zap.Logger) *Service {
	return &Service{jobs: jobs, campaigns: campaigns, drafts: drafts, processor: processor, logger: logger}
}

// Create accepts a job and fans it out inline, on the same claim-then-write
// path the background sweep uses. A failed fan-out leaves the job marked
// failed; the sweep never retries terminal jobs.
func (s *Service) Create(ctx context.Context, ownerID, campaignID string, plannedCount int) (*domain.Job, error) {
	if plannedCount < 0 {
		return nil, apperr.Validation("plannedCount must be >= 0")
	}
	if _, err := s.campaigns.GetCampaign(ctx, ownerID, campaignID); err != nil {
		return nil, err
	}

	id, err := s.jobs.CreateJob(ctx, &domain.Job{
		OwnerID:      ownerID,
		CampaignID:   campaignID,
		PlannedCount: plannedCount,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("job accepted",
		zap.String("owner", ownerID),
		zap.String("job", id),
		zap.Int("planned", plannedCount))

	if err := fanout.ProcessInline(ctx, s.jobs, s.processor, id); err != nil {
		return nil, err
	}
	return s.jobs.GetJob(ctx, ownerID, id)
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (*domain.Job, error) {
	return s.jobs.GetJob(ctx, ownerID, id)
}

// ListDrafts returns a job's drafts, optionally narrowed by status. Ownership
// of the job is checked first so ids can't be probed across tenants.
func (s *Service) ListDrafts(ctx context.Context, ownerID, jobID, status string) ([]domain.Draft, error) {
	if _, err := s.jobs.GetJob(ctx, ownerID, jobID); err != nil {
		return nil, err
	}
	return s.drafts.ListDrafts(ctx, ownerID, ports.DraftFilter{JobID: jobID, Status: status})
}
