package httpadapter

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"seekan/internal/ports"
	analysissvc "seekan/internal/services/analysis"
	campaignsvc "seekan/internal/services/campaigns"
	draftsvc "seekan/internal/services/drafts"
	jobsvc "seekan/internal/services/jobs"
	outreachsvc "seekan/internal/services/outreach"
	profsvc "seekan/internal/services/profiles"
)

const serviceName = "seekan"

type Server struct {
	analysis      *analysissvc.Service
	outreach      *outreachsvc.Service
	profiles      *profsvc.Service
	campaigns     *campaignsvc.Service
	jobs          *jobsvc.Service
	drafts        *draftsvc.Service
	settings      ports.SettingsRepository
	tokens        ports.TokenRepository
	respectRobots bool
	logger        *zap.Logger
}

type Deps struct {
	Analysis      *analysissvc.Service
	Outreach      *outreachsvc.Service
	Profiles      *profsvc.Service
	Campaigns     *campaignsvc.Service
	Jobs          *jobsvc.Service
	Drafts        *draftsvc.Service
	Settings      ports.SettingsRepository
	Tokens        ports.TokenRepository
	RespectRobots bool
	Logger        *zap.Logger
}

func New(d Deps) *Server {
	return &Server{
		analysis:      d.Analysis,
		outreach:      d.Outreach,
		profiles:      d.Profiles,
		campaigns:     d.Campaigns,
		jobs:          d.Jobs,
		drafts:        d.Drafts,
		settings:      d.Settings,
		tokens:        d.Tokens,
		respectRobots: d.RespectRobots,
		logger:        d.Logger,
	}
}

// Routes returns the chi router for the whole API surface. Health and the
// inbound webhook are the only unauthenticated paths.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)

	r.Get("/api/health", s.handleHealth)
	r.Post("/webhooks/sendgrid", s.handleSendGridWebhook)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Post("/api/analyze", s.handleAnalyze)
		r.Post("/api/outreach", s.handleOutreach)
		r.Get("/api/config", s.handleGetConfig)
		r.Put("/api/config", s.handlePutConfig)

		r.Route("/business-profiles", func(r chi.Router) {
			r.Post("/", s.handleCreateProfile)
			r.Get("/", s.handleListProfiles)
			r.Put("/{id}", s.handleUpdateProfile)
			r.Delete("/{id}", s.handleDeleteProfile)
		})

		r.Route("/lead-profiles", func(r chi.Router) {
			r.Get("/", s.handleListLeadProfiles)
			r.Delete("/{id}", s.handleDeleteLeadProfile)
		})

		r.Get("/presets", s.handleListPresets)
		r.Route("/campaigns", func(r chi.Router) {
			r.Post("/", s.handleCreateCampaign)
			r.Get("/", s.handleListCampaigns)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Post("/", s.handleCreateJob)
			r.Get("/{id}", s.handleGetJob)
			r.Get("/{id}/drafts", s.handleListJobDrafts)
		})

		r.Route("/drafts", func(r chi.Router) {
			r.Get("/", s.handleListDrafts)
			r.Patch("/{id}", s.handlePatchDraft)
			r.Post("/{id}/approve", s.handleApproveDraft)
			r.Post("/{id}/reject", s.handleRejectDraft)
			r.Post("/{id}/send", s.handleSendDraft)
		})
	})

	return r
}
