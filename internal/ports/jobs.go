package ports

import (
	"context"

	"seekan/internal/domain"
)

// FanoutJob is the slice of a job the fan-out processor needs.
type FanoutJob struct {
	ID           string
	OwnerID      string
	CampaignID   string
	PlannedCount int
}

// JobRepository supports creating, claiming and completing fan-out jobs.
// Claiming is an atomic queued→running transition, so a sweep re-invocation
// of a job already running or terminal is a no-op.
type JobRepository interface {
	CreateJob(ctx context.Context, j *domain.Job) (string, error)
	GetJob(ctx context.Context, ownerID, id string) (*domain.Job, error)
	ClaimJob(ctx context.Context, jobID string) (job FanoutJob, claimed bool, err error)
	ClaimNextJob(ctx context.Context) (job FanoutJob, found bool, err error)
	RequeueJob(ctx context.Context, jobID string) error
	InsertDrafts(ctx context.Context, drafts []domain.Draft) error
	UpdateJobProgress(ctx context.Context, jobID string, progress float64) error
	MarkJobCompleted(ctx context.Context, jobID string) error
	MarkJobFailed(ctx context.Context, jobID, reason string) error

	// ReserveJobSend bumps the job's sent counter when one more send stays
	// within capPerRun, as a single conditional update. capPerRun <= 0 means
	// unlimited. ReleaseJobSend hands the slot back after a failed send.
	ReserveJobSend(ctx context.Context, jobID string, capPerRun int) (bool, error)
	ReleaseJobSend(ctx context.Context, jobID string)
}
