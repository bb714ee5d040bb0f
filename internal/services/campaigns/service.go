package campaigns

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"seekan/internal/apperr"
	"seekan/internal/domain"
	"seekan/internal/ports"
	"seekan/internal/presets"
)

type Service struct {
	repo    ports.CampaignRepository
	presets *presets.Loader
	logger  *zap.Logger
}

func New(repo ports.CampaignRepository, loader *presets.Loader, logger *zap.Logger) *Service {
	return &Service{repo: repo, presets: loader, logger: logger}
}

type CreateRequest struct {
	Name          string
	Preset        string
	Model         string
	Keywords      []string
	SendCapPerRun int
	DailySendCap  int
}

// Create builds a campaign from its preset's defaults; request fields override
// the preset. Campaigns start active with zeroed stats.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateRequest) (*domain.Campaign, error) {
	if strings.TrimSpace(req.Preset) == "" {
		return nil, apperr.Validation("preset is required")
	}
	p, err := s.presets.Load(req.Preset)
	if err != nil {
		return nil, err
	}

	c := domain.Campaign{
		OwnerID:  ownerID,
		Name:     req.Name,
		Preset:   req.Preset,
		Industry: p.Industry,
		Geo: map[string]any{
			"radius_km":   p.Geo.RadiusKM,
			"center_city": p.Geo.CenterCity,
			"state":       p.Geo.State,
		},
		Keywords:      p.Keywords,
		Model:         p.Model,
		SendCapPerRun: p.SendCapPerRun,
		DailySendCap:  p.DailySendCap,
		Status:        domain.CampaignActive,
	}
	if c.Name == "" {
		c.Name = p.Name
	}
	if req.Model != "" {
		c.Model = req.Model
	}
	if len(req.Keywords) > 0 {
		c.Keywords = req.Keywords
	}
	if req.SendCapPerRun > 0 {
		c.SendCapPerRun = req.SendCapPerRun
	}
	if req.DailySendCap > 0 {
		c.DailySendCap = req.DailySendCap
	}

	id, err := s.repo.CreateCampaign(ctx, &c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	s.logger.Info("campaign created",
		zap.String("owner", ownerID),
		zap.String("id", id),
		zap.String("preset", req.Preset))
	return &c, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]domain.Campaign, error) {
	return s.repo.ListCampaigns(ctx, ownerID)
}

func (s *Service) AvailablePresets() (map[string]string, error) {
	return s.presets.Available()
}
