package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"seekan/internal/apperr"
	"seekan/internal/domain"
	"seekan/internal/ports"
)

func (db *DB) CreateJob(ctx context.Context, j *domain.Job) (string, error) {
	var id string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO jobs (owner_id, campaign_id, planned_count, status, progress)
		VALUES ($1, $2, $3, 'queued', 0)
		RETURNING id
	`, j.OwnerID, j.CampaignID, j.PlannedCount).Scan(&id)
	return id, err
}

func (db *DB) GetJob(ctx context.Context, ownerID, id string) (*domain.Job, error) {
	var j domain.Job
	err := db.Pool.QueryRow(ctx, `
		SELECT id, owner_id, campaign_id, planned_count, sent_count, cost_usd,
		       status, progress, attempts, created_at, updated_at
		FROM jobs
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID).Scan(&j.ID, &j.OwnerID, &j.CampaignID, &j.PlannedCount, &j.SentCount,
		&j.CostUSD, &j.Status, &j.Progress, &j.Attempts, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("job not found")
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// ClaimJob transitions a specific job from queued to running as one conditional
// update. A job already running or terminal is not claimed, which makes
// re-invoked fan-out a no-op.
func (db *DB) ClaimJob(ctx context.Context, jobID string) (ports.FanoutJob, bool, error) {
	var job ports.FanoutJob
	err := db.Pool.QueryRow(ctx, `
		UPDATE jobs
		SET status='running', attempts=attempts+1, updated_at=now()
		WHERE id=$1 AND status='queued'
		RETURNING id, owner_id, campaign_id, planned_count
	`, jobID).Scan(&job.ID, &job.OwnerID, &job.CampaignID, &job.PlannedCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return job, false, nil
	}
	if err != nil {
		return job, false, err
	}
	return job, true, nil
}

// ClaimNextJob picks the oldest queued job using SKIP LOCKED so concurrent
// sweepers never double-claim.
func (db *DB) ClaimNextJob(ctx context.Context) (job ports.FanoutJob, found bool, err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return job, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
		SELECT id, owner_id, campaign_id, planned_count FROM jobs
		WHERE status = 'queued'
		ORDER BY created_at
		FOR UPDATE SKIP LOCKED
		LIMIT 1
	`).Scan(&job.ID, &job.OwnerID, &job.CampaignID, &job.PlannedCount)
	if errors.Is(err, pgx.ErrNoRows) {
		err = nil
		return job, false, nil
	}
	if err != nil {
		return job, false, err
	}

	if _, err = tx.Exec(ctx, `
		UPDATE jobs SET status='running', attempts=attempts+1, updated_at=now() WHERE id=$1
	`, job.ID); err != nil {
		return job, false, err
	}
	return job, true, nil
}

// InsertDrafts writes a batch of fan-out drafts. The (job_id, seq) key makes
// the write idempotent: rows that already exist are skipped.
func (db *DB) InsertDrafts(ctx context.Context, drafts []domain.Draft) error {
	if len(drafts) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, d := range drafts {
		b.Queue(`
			INSERT INTO drafts (owner_id, job_id, campaign_id, seq, lead_name, lead_company, subject, content, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'draft')
			ON CONFLICT (job_id, seq) DO NOTHING
		`, d.OwnerID, d.JobID, d.CampaignID, d.Seq, d.LeadName, d.LeadCompany, d.Subject, d.Content)
	}
	br := db.Pool.SendBatch(ctx, b)
	defer br.Close()
	for range drafts {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return br.Close()
}

// RequeueJob returns a claimed-but-unprocessed job to the queue, typically on
// shutdown. Terminal jobs are left alone.
func (db *DB) RequeueJob(ctx context.Context, jobID string) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE jobs SET status='queued', updated_at=now() WHERE id=$1 AND status='running'
	`, jobID)
	return err
}

// ReserveJobSend is the per-run counterpart of the daily cap: one conditional
// increment, so concurrent sends near the cap cannot both slip under it.
func (db *DB) ReserveJobSend(ctx context.Context, jobID string, capPerRun int) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE jobs
		SET sent_count = sent_count + 1, updated_at = now()
		WHERE id=$1 AND ($2 <= 0 OR sent_count + 1 <= $2)
	`, jobID, capPerRun)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (db *DB) ReleaseJobSend(ctx context.Context, jobID string) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, _ = db.Pool.Exec(ctx, `
		UPDATE jobs SET sent_count = GREATEST(sent_count - 1, 0), updated_at = now() WHERE id=$1
	`, jobID)
}

func (db *DB) UpdateJobProgress(ctx context.Context, jobID string, progress float64) error {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	_, err := db.Pool.Exec(ctx, `UPDATE jobs SET progress=$2, updated_at=now() WHERE id=$1`, jobID, progress)
	return err
}

func (db *DB) MarkJobCompleted(ctx context.Context, jobID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := db.Pool.Exec(ctx, `
		UPDATE jobs SET status='completed', progress=100, updated_at=now() WHERE id=$1
	`, jobID)
	return err
}

func (db *DB) MarkJobFailed(ctx context.Context, jobID, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := db.Pool.Exec(ctx, `
		UPDATE jobs SET status='failed', failure_reason=$2, updated_at=now() WHERE id=$1
	`, jobID, reason)
	return err
}
