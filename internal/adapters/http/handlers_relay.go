package httpadapter

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"seekan/internal/apperr"
	analysissvc "seekan/internal/services/analysis"
	outreachsvc "seekan/internal/services/outreach"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":            true,
		"service":       serviceName,
		"time":          time.Now().UTC().Format(time.RFC3339),
		"robotsRespect": s.respectRobots,
	})
}

type analyzeRequest struct {
	Text         string   `json:"text"`
	AnalysisType string   `json:"analysisType"`
	Save         bool     `json:"save"`
	Name         string   `json:"name"`
	Tags         []string `json:"tags"`
}

type analyzeResponse struct {
	Analysis      string          `json:"analysis"`
	Usage         json.RawMessage `json:"usage,omitempty"`
	LeadProfileID string          `json:"leadProfileId,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.analysis.Analyze(r.Context(), ownerFrom(r.Context()), analysissvc.Request{
		Text:         req.Text,
		AnalysisType: req.AnalysisType,
		Save:         req.Save,
		Name:         req.Name,
		Tags:         req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{
		Analysis:      res.Analysis,
		Usage:         res.Usage,
		LeadProfileID: res.LeadProfileID,
	})
}

type outreachRequest struct {
	// Recipients accepts a single address or an array.
	Recipients  json.RawMessage `json:"recipients"`
	NameHint    string          `json:"name_hint"`
	Condition   string          `json:"condition"`
	PreviewOnly bool            `json:"preview_only"`
}

func (s *Server) handleOutreach(w http.ResponseWriter, r *http.Request) {
	var req outreachRequest
	if !decodeBody(w, r, &req) {
		return
	}
	recipients, err := parseRecipients(req.Recipients)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.outreach.Send(r.Context(), ownerFrom(r.Context()), outreachsvc.Request{
		Recipients:  recipients,
		NameHint:    req.NameHint,
		Condition:   req.Condition,
		PreviewOnly: req.PreviewOnly,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func parseRecipients(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return []string{one}, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many, nil
	}
	return nil, apperr.Validation("recipients must be a string or an array of strings")
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	payload, err := s.settings.GetSettingsRaw(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, apperr.Validation("invalid request body"))
		return
	}
	if !json.Valid(body) {
		writeError(w, apperr.Validation("payload must be valid JSON"))
		return
	}
	if err := s.settings.PutSettingsRaw(r.Context(), body); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleSendGridWebhook acknowledges inbound delivery events. Events carrying
// a known message id are recorded against their draft; bounce-class events at
// Warn, the rest at Debug. Statuses are not changed from here.
func (s *Server) handleSendGridWebhook(w http.ResponseWriter, r *http.Request) {
	var events []map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&events); err != nil {
		writeError(w, apperr.Validation("expected an array of events"))
		return
	}
	for _, ev := range events {
		kind, _ := ev["event"].(string)
		messageID, _ := ev["sg_message_id"].(string)

		fields := []zap.Field{zap.String("event", kind), zap.String("message_id", messageID)}
		if d, err := s.drafts.FindByMessageID(r.Context(), messageID); err == nil {
			fields = append(fields,
				zap.String("draft_id", d.ID),
				zap.String("job_id", d.JobID),
				zap.String("owner", d.OwnerID))
		}

		switch kind {
		case "bounce", "dropped", "spamreport":
			s.logger.Warn("delivery event", fields...)
		default:
			s.logger.Debug("delivery event", fields...)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"received": true, "count": len(events)})
}
