package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"seekan/internal/ports"
)

type createJobRequest struct {
	CampaignID   string `json:"campaignId"`
	PlannedCount int    `json:"plannedCount"`
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if !decodeBody(w, r, &req) {
		return
	}
	job, err := s.jobs.Create(r.Context(), ownerFrom(r.Context()), req.CampaignID, req.PlannedCount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.Get(r.Context(), ownerFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleListJobDrafts(w http.ResponseWriter, r *http.Request) {
	out, err := s.jobs.ListDrafts(r.Context(), ownerFrom(r.Context()),
		chi.URLParam(r, "id"), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	out, err := s.drafts.List(r.Context(), ownerFrom(r.Context()), ports.DraftFilter{
		JobID:  r.URL.Query().Get("jobId"),
		Status: r.URL.Query().Get("status"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type patchDraftRequest struct {
	LeadName    *string `json:"leadName"`
	LeadCompany *string `json:"leadCompany"`
	Subject     *string `json:"subject"`
	Content     *string `json:"content"`
	Status      *string `json:"status"`
}

func (s *Server) handlePatchDraft(w http.ResponseWriter, r *http.Request) {
	var req patchDraftRequest
	if !decodeBody(w, r, &req) {
		return
	}
	d, err := s.drafts.Patch(r.Context(), ownerFrom(r.Context()), chi.URLParam(r, "id"), ports.DraftPatch{
		LeadName:    req.LeadName,
		LeadCompany: req.LeadCompany,
		Subject:     req.Subject,
		Content:     req.Content,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type reviewDraftRequest struct {
	Reviewer string `json:"reviewer"`
}

func (s *Server) handleApproveDraft(w http.ResponseWriter, r *http.Request) {
	var req reviewDraftRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.drafts.Approve(r.Context(), ownerFrom(r.Context()), id, req.Reviewer); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "draftId": id})
}

func (s *Server) handleRejectDraft(w http.ResponseWriter, r *http.Request) {
	var req reviewDraftRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.drafts.Reject(r.Context(), ownerFrom(r.Context()), id, req.Reviewer); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "draftId": id})
}

type sendDraftRequest struct {
	To string `json:"to"`
}

func (s *Server) handleSendDraft(w http.ResponseWriter, r *http.Request) {
	var req sendDraftRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	messageID, err := s.drafts.Send(r.Context(), ownerFrom(r.Context()), id, req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sent": true, "messageId": messageID, "draftId": id})
}
