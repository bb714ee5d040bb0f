package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"seekan/internal/apperr"
	"seekan/internal/domain"
)

// ProfileRepository

func (db *DB) CreateProfile(ctx context.Context, p *domain.BusinessProfile) (string, error) {
	var id string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO business_profiles
			(owner_id, company_name, industry, services, target_customers, geography, value_proposition, offers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, p.OwnerID, p.CompanyName, p.Industry, p.Services, p.TargetCustomers, p.Geography, p.ValueProposition, p.Offers).Scan(&id)
	return id, err
}

func (db *DB) ListProfiles(ctx context.Context, ownerID string) ([]domain.BusinessProfile, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, owner_id, company_name, industry, services, target_customers,
		       geography, value_proposition, offers, created_at, updated_at
		FROM business_profiles
		WHERE owner_id = $1
		ORDER BY created_at, id
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.BusinessProfile{}
	for rows.Next() {
		var p domain.BusinessProfile
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.CompanyName, &p.Industry, &p.Services,
			&p.TargetCustomers, &p.Geography, &p.ValueProposition, &p.Offers, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (db *DB) UpdateProfile(ctx context.Context, ownerID string, p *domain.BusinessProfile) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE business_profiles
		SET company_name=$3, industry=$4, services=$5, target_customers=$6,
		    geography=$7, value_proposition=$8, offers=$9, updated_at=now()
		WHERE id=$1 AND owner_id=$2
	`, p.ID, ownerID, p.CompanyName, p.Industry, p.Services, p.TargetCustomers, p.Geography, p.ValueProposition, p.Offers)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("profile not found")
	}
	return nil
}

func (db *DB) DeleteProfile(ctx context.Context, ownerID, id string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM business_profiles WHERE id=$1 AND owner_id=$2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("profile not found")
	}
	return nil
}

// CampaignRepository

func (db *DB) CreateCampaign(ctx context.Context, c *domain.Campaign) (string, error) {
	geo, err := json.Marshal(c.Geo)
	if err != nil {
		return "", err
	}
	var id string
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO campaigns
			(owner_id, name, preset, industry, geo, keywords, model, send_cap_per_run, daily_send_cap, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, c.OwnerID, c.Name, c.Preset, c.Industry, geo, c.Keywords, c.Model, c.SendCapPerRun, c.DailySendCap, c.Status).Scan(&id)
	return id, err
}

func (db *DB) ListCampaigns(ctx context.Context, ownerID string) ([]domain.Campaign, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, owner_id, name, preset, industry, geo, keywords, model,
		       send_cap_per_run, daily_send_cap, status, created_at, updated_at
		FROM campaigns
		WHERE owner_id = $1
		ORDER BY created_at, id
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (db *DB) GetCampaign(ctx context.Context, ownerID, id string) (*domain.Campaign, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT id, owner_id, name, preset, industry, geo, keywords, model,
		       send_cap_per_run, daily_send_cap, status, created_at, updated_at
		FROM campaigns
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	c, err := scanCampaign(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("campaign not found")
	}
	return c, err
}

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var c domain.Campaign
	var geo []byte
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Preset, &c.Industry, &geo, &c.Keywords,
		&c.Model, &c.SendCapPerRun, &c.DailySendCap, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(geo) > 0 {
		if err := json.Unmarshal(geo, &c.Geo); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// LeadRepository

func (db *DB) CreateLeadProfile(ctx context.Context, lp *domain.LeadProfile) (string, error) {
	var id string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO lead_profiles (owner_id, name, lead_data, analysis, analysis_type, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, lp.OwnerID, lp.Name, lp.LeadData, lp.Analysis, lp.AnalysisType, lp.Tags).Scan(&id)
	return id, err
}

func (db *DB) ListLeadProfiles(ctx context.Context, ownerID string) ([]domain.LeadProfile, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, owner_id, name, lead_data, analysis, analysis_type, tags, created_at
		FROM lead_profiles
		WHERE owner_id = $1
		ORDER BY created_at, id
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.LeadProfile{}
	for rows.Next() {
		var lp domain.LeadProfile
		if err := rows.Scan(&lp.ID, &lp.OwnerID, &lp.Name, &lp.LeadData, &lp.Analysis,
			&lp.AnalysisType, &lp.Tags, &lp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, lp)
	}
	return out, rows.Err()
}

func (db *DB) DeleteLeadProfile(ctx context.Context, ownerID, id string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM lead_profiles WHERE id=$1 AND owner_id=$2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead profile not found")
	}
	return nil
}
