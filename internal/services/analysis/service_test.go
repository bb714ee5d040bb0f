package analysis_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"seekan/internal/apperr"
	"seekan/internal/domain"
	analysissvc "seekan/internal/services/analysis"
)

type fakeCompleter struct {
	configured bool
	text       string
	usage      json.RawMessage
	err        error

	calls      int
	lastModel  string
	lastSystem string
	lastUser   string
}

func (f *fakeCompleter) Configured() bool { return f.configured }

func (f *fakeCompleter) Complete(_ context.Context, model, system, user string, _ int) (string, json.RawMessage, error) {
	f.calls++
	f.lastModel, f.lastSystem, f.lastUser = model, system, user
	return f.text, f.usage, f.err
}

type fakeLeads struct {
	created []*domain.LeadProfile
}

func (f *fakeLeads) CreateLeadProfile(_ context.Context, lp *domain.LeadProfile) (string, error) {
	f.created = append(f.created, lp)
	return "lp-1", nil
}

func (f *fakeLeads) ListLeadProfiles(context.Context, string) ([]domain.LeadProfile, error) {
	return nil, nil
}

func (f *fakeLeads) DeleteLeadProfile(context.Context, string, string) error { return nil }

func TestAnalyze_RequiresText(t *testing.T) {
	svc := analysissvc.New(&fakeCompleter{configured: true}, &fakeLeads{}, "gpt-4o", zap.NewNop())
	_, err := svc.Analyze(context.Background(), "op-1", analysissvc.Request{Text: "   "})
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestAnalyze_MissingKeyNeverCallsUpstream(t *testing.T) {
	llm := &fakeCompleter{configured: false}
	svc := analysissvc.New(llm, &fakeLeads{}, "gpt-4o", zap.NewNop())

	_, err := svc.Analyze(context.Background(), "op-1", analysissvc.Request{Text: "some lead"})
	require.True(t, apperr.IsKind(err, apperr.KindConfig))
	require.Zero(t, llm.calls)
}

func TestAnalyze_MissingKeyWinsOverEmptyText(t *testing.T) {
	// Without a key, every input is a configuration error, including ones
	// that would otherwise fail validation.
	llm := &fakeCompleter{configured: false}
	svc := analysissvc.New(llm, &fakeLeads{}, "gpt-4o", zap.NewNop())

	_, err := svc.Analyze(context.Background(), "op-1", analysissvc.Request{Text: ""})
	require.True(t, apperr.IsKind(err, apperr.KindConfig))
	require.Zero(t, llm.calls)
}

func TestAnalyze_RelaysResult(t *testing.T) {
	llm := &fakeCompleter{
		configured: true,
		text:       "Strong fit.",
		usage:      json.RawMessage(`{"total_tokens":42}`),
	}
	svc := analysissvc.New(llm, &fakeLeads{}, "gpt-4o", zap.NewNop())

	res, err := svc.Analyze(context.Background(), "op-1", analysissvc.Request{
		Text:         "Dr. Smith, Denver, asked for pricing twice",
		AnalysisType: "scoring",
	})
	require.NoError(t, err)
	require.Equal(t, "Strong fit.", res.Analysis)
	require.JSONEq(t, `{"total_tokens":42}`, string(res.Usage))
	require.Empty(t, res.LeadProfileID)

	require.Equal(t, 1, llm.calls)
	require.Equal(t, "gpt-4o", llm.lastModel)
	require.Contains(t, llm.lastSystem, "lead scoring")
	require.Equal(t, "Dr. Smith, Denver, asked for pricing twice", llm.lastUser)
}

func TestAnalyze_DefaultsToQualification(t *testing.T) {
	llm := &fakeCompleter{configured: true, text: "ok"}
	svc := analysissvc.New(llm, &fakeLeads{}, "gpt-4o", zap.NewNop())

	_, err := svc.Analyze(context.Background(), "op-1", analysissvc.Request{Text: "lead"})
	require.NoError(t, err)
	require.Contains(t, llm.lastSystem, "lead qualification")
}

func TestAnalyze_UnknownTypePassedVerbatim(t *testing.T) {
	llm := &fakeCompleter{configured: true, text: "ok"}
	svc := analysissvc.New(llm, &fakeLeads{}, "gpt-4o", zap.NewNop())

	_, err := svc.Analyze(context.Background(), "op-1", analysissvc.Request{
		Text:         "lead",
		AnalysisType: "competitor",
	})
	require.NoError(t, err)
	require.Contains(t, llm.lastSystem, "competitor")
}

func TestAnalyze_SavePersistsLeadProfile(t *testing.T) {
	llm := &fakeCompleter{configured: true, text: "Strong fit."}
	leads := &fakeLeads{}
	svc := analysissvc.New(llm, leads, "gpt-4o", zap.NewNop())

	res, err := svc.Analyze(context.Background(), "op-1", analysissvc.Request{
		Text: "lead text",
		Save: true,
		Name: "Dr. Smith",
		Tags: []string{"denver"},
	})
	require.NoError(t, err)
	require.Equal(t, "lp-1", res.LeadProfileID)

	require.Len(t, leads.created, 1)
	lp := leads.created[0]
	require.Equal(t, "op-1", lp.OwnerID)
	require.Equal(t, "Dr. Smith", lp.Name)
	require.Equal(t, "lead text", lp.LeadData)
	require.Equal(t, "Strong fit.", lp.Analysis)
	require.Equal(t, []string{"denver"}, lp.Tags)
}
