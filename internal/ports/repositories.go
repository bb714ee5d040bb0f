package ports

import (
	"context"
	"encoding/json"

	"seekan/internal/domain"
)

// All repository operations are scoped to an owner. Update and delete match on
// owner_id as well as id, so a mismatched owner surfaces as not-found and never
// mutates another tenant's record.

type ProfileRepository interface {
	CreateProfile(ctx context.Context, p *domain.BusinessProfile) (string, error)
	ListProfiles(ctx context.Context, ownerID string) ([]domain.BusinessProfile, error)
	UpdateProfile(ctx context.Context, ownerID string, p *domain.BusinessProfile) error
	DeleteProfile(ctx context.Context, ownerID, id string) error
}

type CampaignRepository interface {
	CreateCampaign(ctx context.Context, c *domain.Campaign) (string, error)
	ListCampaigns(ctx context.Context, ownerID string) ([]domain.Campaign, error)
	GetCampaign(ctx context.Context, ownerID, id string) (*domain.Campaign, error)
}

type LeadRepository interface {
	CreateLeadProfile(ctx context.Context, lp *domain.LeadProfile) (string, error)
	ListLeadProfiles(ctx context.Context, ownerID string) ([]domain.LeadProfile, error)
	DeleteLeadProfile(ctx context.Context, ownerID, id string) error
}

// DraftFilter narrows draft listings. Zero values mean no constraint.
type DraftFilter struct {
	JobID  string
	Status string
}

// DraftPatch carries partial updates; nil fields are left untouched.
type DraftPatch struct {
	LeadName    *string
	LeadCompany *string
	Subject     *string
	Content     *string
	Status      *string
}

type DraftRepository interface {
	ListDrafts(ctx context.Context, ownerID string, f DraftFilter) ([]domain.Draft, error)
	GetDraft(ctx context.Context, ownerID, id string) (*domain.Draft, error)
	// GetDraftByMessageID looks a sent draft up by its delivery receipt id.
	// Unscoped: inbound webhook events carry no operator identity.
	GetDraftByMessageID(ctx context.Context, messageID string) (*domain.Draft, error)
	UpdateDraft(ctx context.Context, ownerID, id string, patch DraftPatch) error
	SetDraftStatus(ctx context.Context, ownerID, id, status, reviewer, messageID string) error
}

// SettingsRepository persists the single global configuration row.
type SettingsRepository interface {
	GetSettingsRaw(ctx context.Context) (json.RawMessage, error)
	PutSettingsRaw(ctx context.Context, payload json.RawMessage) error
	GetSettings(ctx context.Context) (domain.Settings, error)
}

// TokenRepository resolves bearer tokens to operator accounts.
type TokenRepository interface {
	ResolveToken(ctx context.Context, token string) (operatorID string, err error)
	EnsureToken(ctx context.Context, token, operatorName string) (operatorID string, err error)
}
