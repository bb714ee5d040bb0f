package fanout

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"seekan/internal/domain"
	"seekan/internal/ports"
)

// Placeholder content written for each planned draft until real lead
// enrichment exists.
const (
	placeholderSubject = "Quick introduction"
	placeholderBody    = "Hello! We came across your business and would love to connect."
)

const chunkSize = 25

// Processor expands one job into its planned set of placeholder drafts.
type Processor struct {
	Repo   ports.JobRepository
	Logger *zap.Logger
}

// Process writes the job's drafts in chunks, bumping progress between chunks.
// Safe to run again for the same job: draft rows are keyed by (job, seq).
func (p *Processor) Process(ctx context.Context, job ports.FanoutJob) error {
	total := job.PlannedCount
	for start := 0; start < total; start += chunkSize {
		end := min(start+chunkSize, total)
		batch := make([]domain.Draft, 0, end-start)
		for i := start + 1; i <= end; i++ {
			batch = append(batch, placeholderDraft(job, i))
		}
		if err := p.Repo.InsertDrafts(ctx, batch); err != nil {
			return err
		}
		if end < total {
			if err := p.Repo.UpdateJobProgress(ctx, job.ID, float64(end)/float64(total)*100); err != nil {
				p.Logger.Warn("progress update failed", zap.String("job", job.ID), zap.Error(err))
			}
		}
	}
	return nil
}

func placeholderDraft(job ports.FanoutJob, i int) domain.Draft {
	return domain.Draft{
		OwnerID:     job.OwnerID,
		JobID:       job.ID,
		CampaignID:  job.CampaignID,
		Seq:         i,
		LeadName:    fmt.Sprintf("Lead %d", i),
		LeadCompany: fmt.Sprintf("Company %d", i),
		Subject:     placeholderSubject,
		Content:     placeholderBody,
		Status:      domain.DraftPending,
	}
}

// ProcessInline claims and processes one job synchronously, using the same
// path as the sweep. A job that is already running or terminal is a no-op.
func ProcessInline(ctx context.Context, repo ports.JobRepository, p *Processor, jobID string) error {
	job, claimed, err := repo.ClaimJob(ctx, jobID)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}
	return runOne(ctx, repo, p, job)
}

func runOne(ctx context.Context, repo ports.JobRepository, p *Processor, job ports.FanoutJob) error {
	if err := p.Process(ctx, job); err != nil {
		_ = repo.MarkJobFailed(ctx, job.ID, err.Error())
		return err
	}
	return repo.MarkJobCompleted(ctx, job.ID)
}

// Run is the periodic sweep: claim queued jobs and fan them out until the
// context is done. Blocks; callers start it in a goroutine.
func Run(ctx context.Context, repo ports.JobRepository, p *Processor, concurrency int, pollInterval time.Duration) {
	if concurrency < 1 {
		return
	}
	jobsCh := make(chan ports.FanoutJob, concurrency)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobsCh)
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				for {
					job, found, err := repo.ClaimNextJob(ctx)
					if err != nil {
						p.Logger.Warn("job claim error", zap.Error(err))
						break
					}
					if !found {
						break
					}
					select {
					case jobsCh <- job:
					case <-ctx.Done():
						// Claimed but never handed to a worker: put it
						// back so the next sweep picks it up.
						requeue(repo, p, job.ID)
						return nil
					}
				}
			}
		}
	})

	for i := 0; i < concurrency; i++ {
		g.Go(func() error {
			for job := range jobsCh {
				if err := runOne(ctx, repo, p, job); err != nil {
					p.Logger.Warn("fan-out failed", zap.String("job", job.ID), zap.Error(err))
				}
			}
			return nil
		})
	}

	_ = g.Wait()
}

// requeue runs on the shutdown path, so it gets its own short-lived context.
func requeue(repo ports.JobRepository, p *Processor, jobID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := repo.RequeueJob(ctx, jobID); err != nil {
		p.Logger.Warn("job requeue failed", zap.String("job", jobID), zap.Error(err))
	}
}
