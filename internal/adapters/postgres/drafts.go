package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"seekan/internal/apperr"
	"seekan/internal/domain"
	"seekan/internal/ports"
)

const draftColumns = `id, owner_id, job_id, campaign_id, seq, lead_name, lead_company,
	subject, content, status, reviewer, message_id, created_at, updated_at`

func scanDraft(row pgx.Row) (*domain.Draft, error) {
	var d domain.Draft
	err := row.Scan(&d.ID, &d.OwnerID, &d.JobID, &d.CampaignID, &d.Seq, &d.LeadName, &d.LeadCompany,
		&d.Subject, &d.Content, &d.Status, &d.Reviewer, &d.MessageID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (db *DB) ListDrafts(ctx context.Context, ownerID string, f ports.DraftFilter) ([]domain.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE owner_id = $1`
	args := []any{ownerID}
	if f.JobID != "" {
		args = append(args, f.JobID)
		query += fmt.Sprintf(" AND job_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at, seq"

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Draft{}
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (db *DB) GetDraft(ctx context.Context, ownerID, id string) (*domain.Draft, error) {
	d, err := scanDraft(db.Pool.QueryRow(ctx,
		`SELECT `+draftColumns+` FROM drafts WHERE id = $1 AND owner_id = $2`, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("draft not found")
	}
	return d, err
}

func (db *DB) GetDraftByMessageID(ctx context.Context, messageID string) (*domain.Draft, error) {
	d, err := scanDraft(db.Pool.QueryRow(ctx,
		`SELECT `+draftColumns+` FROM drafts WHERE message_id = $1 AND message_id <> ''`, messageID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("draft not found")
	}
	return d, err
}

// UpdateDraft applies a partial update; nil patch fields keep the stored value.
func (db *DB) UpdateDraft(ctx context.Context, ownerID, id string, patch ports.DraftPatch) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE drafts
		SET lead_name    = COALESCE($3, lead_name),
		    lead_company = COALESCE($4, lead_company),
		    subject      = COALESCE($5, subject),
		    content      = COALESCE($6, content),
		    status       = COALESCE($7, status),
		    updated_at   = now()
		WHERE id=$1 AND owner_id=$2
	`, id, ownerID, patch.LeadName, patch.LeadCompany, patch.Subject, patch.Content, patch.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("draft not found")
	}
	return nil
}

func (db *DB) SetDraftStatus(ctx context.Context, ownerID, id, status, reviewer, messageID string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE drafts
		SET status=$3,
		    reviewer   = CASE WHEN $4 <> '' THEN $4 ELSE reviewer END,
		    message_id = CASE WHEN $5 <> '' THEN $5 ELSE message_id END,
		    updated_at = now()
		WHERE id=$1 AND owner_id=$2
	`, id, ownerID, status, reviewer, messageID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("draft not found")
	}
	return nil
}
