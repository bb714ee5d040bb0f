package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	campaignsvc "seekan/internal/services/campaigns"

	"seekan/internal/domain"
)

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.BusinessProfile
	if !decodeBody(w, r, &p) {
		return
	}
	created, err := s.profiles.Create(r.Context(), ownerFrom(r.Context()), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	out, err := s.profiles.List(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.BusinessProfile
	if !decodeBody(w, r, &p) {
		return
	}
	if err := s.profiles.Update(r.Context(), ownerFrom(r.Context()), chi.URLParam(r, "id"), p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.profiles.Delete(r.Context(), ownerFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleListLeadProfiles(w http.ResponseWriter, r *http.Request) {
	out, err := s.analysis.ListSaved(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteLeadProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.analysis.DeleteSaved(r.Context(), ownerFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type createCampaignRequest struct {
	Name          string   `json:"name"`
	Preset        string   `json:"preset"`
	Model         string   `json:"model"`
	Keywords      []string `json:"keywords"`
	SendCapPerRun int      `json:"sendCapPerRun"`
	DailySendCap  int      `json:"dailySendCap"`
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := s.campaigns.Create(r.Context(), ownerFrom(r.Context()), campaignsvc.CreateRequest{
		Name:          req.Name,
		Preset:        req.Preset,
		Model:         req.Model,
		Keywords:      req.Keywords,
		SendCapPerRun: req.SendCapPerRun,
		DailySendCap:  req.DailySendCap,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	out, err := s.campaigns.List(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	out, err := s.campaigns.AvailablePresets()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
