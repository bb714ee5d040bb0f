package profiles

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"seekan/internal/apperr"
	"seekan/internal/domain"
	"seekan/internal/ports"
)

type Service struct {
	repo   ports.ProfileRepository
	logger *zap.Logger
}

func New(repo ports.ProfileRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, ownerID string, p domain.BusinessProfile) (*domain.BusinessProfile, error) {
	if err := validate(&p); err != nil {
		return nil, err
	}
	p.OwnerID = ownerID
	id, err := s.repo.CreateProfile(ctx, &p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	s.logger.Info("profile created", zap.String("owner", ownerID), zap.String("id", id))
	return &p, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]domain.BusinessProfile, error) {
	return s.repo.ListProfiles(ctx, ownerID)
}

func (s *Service) Update(ctx context.Context, ownerID, id string, p domain.BusinessProfile) error {
	if err := validate(&p); err != nil {
		return err
	}
	p.ID = id
	return s.repo.UpdateProfile(ctx, ownerID, &p)
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	return s.repo.DeleteProfile(ctx, ownerID, id)
}

// validate trims list entries and enforces the one non-negotiable field rule:
// a profile has at least one non-empty service after save.
func validate(p *domain.BusinessProfile) error {
	if strings.TrimSpace(p.CompanyName) == "" {
		return apperr.Validation("companyName is required")
	}
	services := make([]string, 0, len(p.Services))
	for _, svc := range p.Services {
		if svc = strings.TrimSpace(svc); svc != "" {
			services = append(services, svc)
		}
	}
	if len(services) == 0 {
		return apperr.Validation("at least one service is required")
	}
	p.Services = services

	offers := make([]string, 0, len(p.Offers))
	for _, o := range p.Offers {
		if o = strings.TrimSpace(o); o != "" {
			offers = append(offers, o)
		}
	}
	p.Offers = offers
	return nil
}
