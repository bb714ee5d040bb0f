package drafts_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"seekan/internal/apperr"
	"seekan/internal/domain"
	"seekan/internal/ports"
	draftsvc "seekan/internal/services/drafts"
)

type fakeDraftRepo struct {
	drafts map[string]*domain.Draft

	lastPatch     ports.DraftPatch
	lastStatus    string
	lastReviewer  string
	lastMessageID string
}

func newFakeDraftRepo(ds ...*domain.Draft) *fakeDraftRepo {
	repo := &fakeDraftRepo{drafts: map[string]*domain.Draft{}}
	for _, d := range ds {
		repo.drafts[d.ID] = d
	}
	return repo
}

func (f *fakeDraftRepo) ListDrafts(_ context.Context, ownerID string, filter ports.DraftFilter) ([]domain.Draft, error) {
	var out []domain.Draft
	for _, d := range f.drafts {
		if d.OwnerID != ownerID {
			continue
		}
		if filter.JobID != "" && d.JobID != filter.JobID {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeDraftRepo) GetDraft(_ context.Context, ownerID, id string) (*domain.Draft, error) {
	d, ok := f.drafts[id]
	if !ok || d.OwnerID != ownerID {
		return nil, apperr.NotFound("draft not found")
	}
	copied := *d
	return &copied, nil
}

func (f *fakeDraftRepo) GetDraftByMessageID(_ context.Context, messageID string) (*domain.Draft, error) {
	for _, d := range f.drafts {
		if d.MessageID != "" && d.MessageID == messageID {
			copied := *d
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("draft not found")
}

func (f *fakeDraftRepo) UpdateDraft(_ context.Context, ownerID, id string, patch ports.DraftPatch) error {
	d, ok := f.drafts[id]
	if !ok || d.OwnerID != ownerID {
		return apperr.NotFound("draft not found")
	}
	f.lastPatch = patch
	if patch.Subject != nil {
		d.Subject = *patch.Subject
	}
	if patch.Content != nil {
		d.Content = *patch.Content
	}
	if patch.Status != nil {
		d.Status = *patch.Status
	}
	return nil
}

func (f *fakeDraftRepo) SetDraftStatus(_ context.Context, ownerID, id, status, reviewer, messageID string) error {
	d, ok := f.drafts[id]
	if !ok || d.OwnerID != ownerID {
		return apperr.NotFound("draft not found")
	}
	d.Status = status
	if messageID != "" {
		d.MessageID = messageID
	}
	f.lastStatus, f.lastReviewer, f.lastMessageID = status, reviewer, messageID
	return nil
}

// fakeJobCounter only tracks the per-run reservation; the rest of the job
// lifecycle is irrelevant to draft review.
type fakeJobCounter struct {
	sent     int
	released int
}

func (f *fakeJobCounter) CreateJob(context.Context, *domain.Job) (string, error) { return "", nil }
func (f *fakeJobCounter) GetJob(context.Context, string, string) (*domain.Job, error) {
	return nil, apperr.NotFound("job not found")
}
func (f *fakeJobCounter) ClaimJob(context.Context, string) (ports.FanoutJob, bool, error) {
	return ports.FanoutJob{}, false, nil
}
func (f *fakeJobCounter) ClaimNextJob(context.Context) (ports.FanoutJob, bool, error) {
	return ports.FanoutJob{}, false, nil
}
func (f *fakeJobCounter) RequeueJob(context.Context, string) error            { return nil }
func (f *fakeJobCounter) InsertDrafts(context.Context, []domain.Draft) error  { return nil }
func (f *fakeJobCounter) UpdateJobProgress(context.Context, string, float64) error {
	return nil
}
func (f *fakeJobCounter) MarkJobCompleted(context.Context, string) error      { return nil }
func (f *fakeJobCounter) MarkJobFailed(context.Context, string, string) error { return nil }

func (f *fakeJobCounter) ReserveJobSend(_ context.Context, _ string, capPerRun int) (bool, error) {
	if capPerRun > 0 && f.sent+1 > capPerRun {
		return false, nil
	}
	f.sent++
	return true, nil
}

func (f *fakeJobCounter) ReleaseJobSend(context.Context, string) {
	f.released++
	if f.sent > 0 {
		f.sent--
	}
}

type fakeCampaigns struct {
	campaign *domain.Campaign
}

func (f *fakeCampaigns) CreateCampaign(context.Context, *domain.Campaign) (string, error) {
	return "", nil
}

func (f *fakeCampaigns) ListCampaigns(context.Context, string) ([]domain.Campaign, error) {
	return nil, nil
}

func (f *fakeCampaigns) GetCampaign(_ context.Context, ownerID, id string) (*domain.Campaign, error) {
	if f.campaign == nil || f.campaign.ID != id || f.campaign.OwnerID != ownerID {
		return nil, apperr.NotFound("campaign not found")
	}
	return f.campaign, nil
}

type fakeMail struct {
	configured bool
	calls      int
	lastTo     []string
	lastText   string
}

func (f *fakeMail) Configured() bool { return f.configured }

func (f *fakeMail) Send(_ context.Context, to []string, _, _, text string) (string, error) {
	f.calls++
	f.lastTo = to
	f.lastText = text
	return "real-msg-1", nil
}

type fakeSettings struct{}

func (fakeSettings) GetSettingsRaw(context.Context) (json.RawMessage, error) { return nil, nil }
func (fakeSettings) PutSettingsRaw(context.Context, json.RawMessage) error   { return nil }
func (fakeSettings) GetSettings(context.Context) (domain.Settings, error) {
	return domain.DefaultSettings(), nil
}

func pending(id, owner string) *domain.Draft {
	return &domain.Draft{
		ID: id, OwnerID: owner, JobID: "job-1", CampaignID: "c-1", Seq: 1,
		Subject: "Quick introduction", Content: "Hello!", Status: domain.DraftPending,
	}
}

type deps struct {
	repo      *fakeDraftRepo
	jobs      *fakeJobCounter
	campaigns *fakeCampaigns
	mail      *fakeMail
}

func newService(repo *fakeDraftRepo, mail *fakeMail) (*draftsvc.Service, deps) {
	d := deps{
		repo:      repo,
		jobs:      &fakeJobCounter{},
		campaigns: &fakeCampaigns{},
		mail:      mail,
	}
	svc := draftsvc.New(d.repo, d.jobs, d.campaigns, d.mail, fakeSettings{}, "NOFA BC", 20, zap.NewNop())
	return svc, d
}

func TestList_RejectsUnknownStatus(t *testing.T) {
	svc, _ := newService(newFakeDraftRepo(), &fakeMail{})
	_, err := svc.List(context.Background(), "op-1", ports.DraftFilter{Status: "limbo"})
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestPatch_ReturnsUpdatedDraft(t *testing.T) {
	repo := newFakeDraftRepo(pending("d-1", "op-1"))
	svc, _ := newService(repo, &fakeMail{})

	subject := "Better subject"
	d, err := svc.Patch(context.Background(), "op-1", "d-1", ports.DraftPatch{Subject: &subject})
	require.NoError(t, err)
	require.Equal(t, "Better subject", d.Subject)
	require.Equal(t, domain.DraftPending, d.Status)
}

func TestPatch_RejectsUnknownStatus(t *testing.T) {
	svc, _ := newService(newFakeDraftRepo(pending("d-1", "op-1")), &fakeMail{})
	bad := "limbo"
	_, err := svc.Patch(context.Background(), "op-1", "d-1", ports.DraftPatch{Status: &bad})
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestPatch_OtherOwnerSeesNotFound(t *testing.T) {
	svc, _ := newService(newFakeDraftRepo(pending("d-1", "op-1")), &fakeMail{})
	subject := "hijack"
	_, err := svc.Patch(context.Background(), "op-2", "d-1", ports.DraftPatch{Subject: &subject})
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestApprove_DefaultsReviewer(t *testing.T) {
	repo := newFakeDraftRepo(pending("d-1", "op-1"))
	svc, _ := newService(repo, &fakeMail{})

	require.NoError(t, svc.Approve(context.Background(), "op-1", "d-1", ""))
	require.Equal(t, domain.DraftApproved, repo.lastStatus)
	require.Equal(t, "system", repo.lastReviewer)
}

func TestReject_RecordsReviewer(t *testing.T) {
	repo := newFakeDraftRepo(pending("d-1", "op-1"))
	svc, _ := newService(repo, &fakeMail{})

	require.NoError(t, svc.Reject(context.Background(), "op-1", "d-1", "alice"))
	require.Equal(t, domain.DraftRejected, repo.lastStatus)
	require.Equal(t, "alice", repo.lastReviewer)
}

func TestSend_WithoutRecipientSimulates(t *testing.T) {
	repo := newFakeDraftRepo(pending("d-1", "op-1"))
	mail := &fakeMail{configured: false}
	svc, d := newService(repo, mail)

	messageID, err := svc.Send(context.Background(), "op-1", "d-1", "")
	require.NoError(t, err)
	require.Equal(t, "sg_demo_d-1", messageID)
	require.Equal(t, domain.DraftSent, repo.lastStatus)
	require.Zero(t, mail.calls)
	// simulated sends still consume a per-run slot
	require.Equal(t, 1, d.jobs.sent)
}

func TestSend_WithRecipientDelivers(t *testing.T) {
	repo := newFakeDraftRepo(pending("d-1", "op-1"))
	mail := &fakeMail{configured: true}
	svc, d := newService(repo, mail)

	messageID, err := svc.Send(context.Background(), "op-1", "d-1", "owner@denverclinic.com")
	require.NoError(t, err)
	require.Equal(t, "real-msg-1", messageID)
	require.Equal(t, []string{"owner@denverclinic.com"}, mail.lastTo)
	// decorated body carries the signature and compliance footer
	require.Contains(t, mail.lastText, "Best regards,\nNOFA BC")
	require.Contains(t, mail.lastText, domain.DefaultSettings().LegalAddress)
	require.Equal(t, "real-msg-1", repo.lastMessageID)
	require.Equal(t, 1, d.jobs.sent)
}

func TestSend_WithRecipientRequiresKey(t *testing.T) {
	repo := newFakeDraftRepo(pending("d-1", "op-1"))
	mail := &fakeMail{configured: false}
	svc, d := newService(repo, mail)

	_, err := svc.Send(context.Background(), "op-1", "d-1", "owner@denverclinic.com")
	require.True(t, apperr.IsKind(err, apperr.KindConfig))
	require.NotEqual(t, domain.DraftSent, repo.drafts["d-1"].Status)
	// the reserved slot is returned
	require.Equal(t, 1, d.jobs.released)
	require.Zero(t, d.jobs.sent)
}

func TestSend_EnforcesCampaignPerRunCap(t *testing.T) {
	d1, d2 := pending("d-1", "op-1"), pending("d-2", "op-1")
	d2.Seq = 2
	repo := newFakeDraftRepo(d1, d2)
	svc, d := newService(repo, &fakeMail{})
	d.campaigns.campaign = &domain.Campaign{ID: "c-1", OwnerID: "op-1", SendCapPerRun: 1}

	_, err := svc.Send(context.Background(), "op-1", "d-1", "")
	require.NoError(t, err)

	_, err = svc.Send(context.Background(), "op-1", "d-2", "")
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
	require.Equal(t, "per-run send cap exceeded", apperr.Message(err))
	require.NotEqual(t, domain.DraftSent, repo.drafts["d-2"].Status)
	require.Equal(t, 1, d.jobs.sent)
}

func TestSend_FallsBackToDefaultCap(t *testing.T) {
	// no campaign on record: the configured default cap applies
	repo := newFakeDraftRepo(pending("d-1", "op-1"))
	d := deps{repo: repo, jobs: &fakeJobCounter{}, campaigns: &fakeCampaigns{}, mail: &fakeMail{}}
	svc := draftsvc.New(d.repo, d.jobs, d.campaigns, d.mail, fakeSettings{}, "NOFA BC", 1, zap.NewNop())

	_, err := svc.Send(context.Background(), "op-1", "d-1", "")
	require.NoError(t, err)

	d2 := pending("d-2", "op-1")
	d2.Seq = 2
	repo.drafts["d-2"] = d2
	_, err = svc.Send(context.Background(), "op-1", "d-2", "")
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestFindByMessageID(t *testing.T) {
	sent := pending("d-1", "op-1")
	sent.Status = domain.DraftSent
	sent.MessageID = "msg-42"
	svc, _ := newService(newFakeDraftRepo(sent), &fakeMail{})

	d, err := svc.FindByMessageID(context.Background(), "msg-42")
	require.NoError(t, err)
	require.Equal(t, "d-1", d.ID)

	_, err = svc.FindByMessageID(context.Background(), "msg-unknown")
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = svc.FindByMessageID(context.Background(), "")
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
