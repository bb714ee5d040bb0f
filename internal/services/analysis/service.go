package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"seekan/internal/apperr"
	"seekan/internal/domain"
	"seekan/internal/ports"
)

const maxTokens = 1000

// Analysis types are prompt labels, not distinct algorithms: the model output
// is relayed verbatim.
var promptLabels = map[string]string{
	"qualification": "lead qualification",
	"scoring":       "lead scoring",
	"intent":        "buying intent",
	"followup":      "follow-up planning",
}

type Service struct {
	llm    ports.ChatCompleter
	leads  ports.LeadRepository
	model  string
	logger *zap.Logger
}

func New(llm ports.ChatCompleter, leads ports.LeadRepository, defaultModel string, logger *zap.Logger) *Service {
	return &Service{llm: llm, leads: leads, model: defaultModel, logger: logger}
}

type Request struct {
	Text         string
	AnalysisType string
	// Save persists the result as a LeadProfile owned by the caller.
	Save bool
	Name string
	Tags []string
}

type Result struct {
	Analysis      string
	Usage         json.RawMessage
	LeadProfileID string
}

func (s *Service) Analyze(ctx context.Context, ownerID string, req Request) (Result, error) {
	// The missing-key answer comes first, for any input.
	if !s.llm.Configured() {
		return Result{}, apperr.Config("API key not configured")
	}
	if strings.TrimSpace(req.Text) == "" {
		return Result{}, apperr.Validation("text is required")
	}
	if req.AnalysisType == "" {
		req.AnalysisType = "qualification"
	}

	label := promptLabels[req.AnalysisType]
	if label == "" {
		label = req.AnalysisType
	}
	system := fmt.Sprintf(
		"You are an expert lead analyst for small clinics. Perform a %s analysis of the lead information provided by the user and reply with your findings.",
		label)

	text, usage, err := s.llm.Complete(ctx, s.model, system, req.Text, maxTokens)
	if err != nil {
		return Result{}, err
	}
	s.logger.Info("analysis relayed",
		zap.String("owner", ownerID),
		zap.String("type", req.AnalysisType),
		zap.Int("input_len", len(req.Text)))

	res := Result{Analysis: text, Usage: usage}
	if req.Save {
		id, err := s.leads.CreateLeadProfile(ctx, &domain.LeadProfile{
			OwnerID:      ownerID,
			Name:         req.Name,
			LeadData:     req.Text,
			Analysis:     text,
			AnalysisType: req.AnalysisType,
			Tags:         req.Tags,
		})
		if err != nil {
			return Result{}, fmt.Errorf("save lead profile: %w", err)
		}
		res.LeadProfileID = id
	}
	return res, nil
}

func (s *Service) ListSaved(ctx context.Context, ownerID string) ([]domain.LeadProfile, error) {
	return s.leads.ListLeadProfiles(ctx, ownerID)
}

func (s *Service) DeleteSaved(ctx context.Context, ownerID, id string) error {
	return s.leads.DeleteLeadProfile(ctx, ownerID, id)
}
