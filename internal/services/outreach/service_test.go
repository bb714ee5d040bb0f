package outreach_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"seekan/internal/apperr"
	"seekan/internal/domain"
	"seekan/internal/policies"
	outreachsvc "seekan/internal/services/outreach"
)

type fakeMail struct {
	configured bool
	err        error

	calls    int
	lastTo   []string
	lastSubj string
	lastHTML string
	lastText string
}

func (f *fakeMail) Configured() bool { return f.configured }

func (f *fakeMail) Send(_ context.Context, to []string, subject, html, text string) (string, error) {
	f.calls++
	f.lastTo, f.lastSubj, f.lastHTML, f.lastText = to, subject, html, text
	if f.err != nil {
		return "", f.err
	}
	return "msg-1", nil
}

type fakeCaps struct {
	allow    bool
	reserved int
	released int
}

func (f *fakeCaps) Reserve(_ context.Context, n int) (bool, error) {
	if !f.allow {
		return false, nil
	}
	f.reserved += n
	return true, nil
}

func (f *fakeCaps) Release(_ context.Context, n int) { f.released += n }

type fakeSettings struct {
	settings domain.Settings
}

func (f *fakeSettings) GetSettingsRaw(context.Context) (json.RawMessage, error) { return nil, nil }
func (f *fakeSettings) PutSettingsRaw(context.Context, json.RawMessage) error   { return nil }
func (f *fakeSettings) GetSettings(context.Context) (domain.Settings, error) {
	return f.settings, nil
}

func newService(mail *fakeMail, caps *fakeCaps) *outreachsvc.Service {
	settings := &fakeSettings{settings: domain.DefaultSettings()}
	return outreachsvc.New(mail, caps, policies.New(settings), settings, "NOFA BC", zap.NewNop())
}

func TestSend_NoRecipients(t *testing.T) {
	svc := newService(&fakeMail{configured: true}, &fakeCaps{allow: true})
	for _, recipients := range [][]string{nil, {}, {"  ", ""}} {
		_, err := svc.Send(context.Background(), "op-1", outreachsvc.Request{Recipients: recipients})
		require.True(t, apperr.IsKind(err, apperr.KindValidation))
	}
}

func TestSend_TooManyRecipients(t *testing.T) {
	recipients := make([]string, 51)
	for i := range recipients {
		recipients[i] = "a@denverclinic.com"
	}
	svc := newService(&fakeMail{configured: true}, &fakeCaps{allow: true})
	_, err := svc.Send(context.Background(), "op-1", outreachsvc.Request{Recipients: recipients})
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
	require.Equal(t, "max 50 recipients", apperr.Message(err))
}

func TestSend_PreviewSkipsDelivery(t *testing.T) {
	mail := &fakeMail{configured: false} // preview works without credentials
	svc := newService(mail, &fakeCaps{})

	res, err := svc.Send(context.Background(), "op-1", outreachsvc.Request{
		Recipients:  []string{"owner@gmail.com"}, // and without policy checks
		NameHint:    "Dr. Smith",
		Condition:   "back pain",
		PreviewOnly: true,
	})
	require.NoError(t, err)
	require.Equal(t, "preview", res.Status)
	require.Equal(t, []string{"owner@gmail.com"}, res.To)
	require.Contains(t, res.Subject, "back pain")
	require.Positive(t, res.HTMLLength)
	require.Positive(t, res.TextLength)
	require.Zero(t, mail.calls)
}

func TestSend_MissingKey(t *testing.T) {
	svc := newService(&fakeMail{configured: false}, &fakeCaps{allow: true})
	_, err := svc.Send(context.Background(), "op-1", outreachsvc.Request{
		Recipients: []string{"owner@denverclinic.com"},
	})
	require.True(t, apperr.IsKind(err, apperr.KindConfig))
}

func TestSend_PolicyRejection(t *testing.T) {
	mail := &fakeMail{configured: true}
	caps := &fakeCaps{allow: true}
	svc := newService(mail, caps)

	_, err := svc.Send(context.Background(), "op-1", outreachsvc.Request{
		Recipients: []string{"personal@gmail.com"},
	})
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
	require.Zero(t, mail.calls)
	require.Zero(t, caps.reserved)
}

func TestSend_CapExceeded(t *testing.T) {
	mail := &fakeMail{configured: true}
	svc := newService(mail, &fakeCaps{allow: false})

	_, err := svc.Send(context.Background(), "op-1", outreachsvc.Request{
		Recipients: []string{"owner@denverclinic.com"},
	})
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
	require.Equal(t, "daily send cap exceeded", apperr.Message(err))
	require.Zero(t, mail.calls)
}

func TestSend_Success(t *testing.T) {
	mail := &fakeMail{configured: true}
	caps := &fakeCaps{allow: true}
	svc := newService(mail, caps)

	res, err := svc.Send(context.Background(), "op-1", outreachsvc.Request{
		Recipients: []string{"owner@denverclinic.com", " frontdesk@denverclinic.com "},
		NameHint:   "Dr. Smith",
		Condition:  "back pain",
	})
	require.NoError(t, err)
	require.Equal(t, "sent", res.Status)
	require.Equal(t, 2, res.Count)

	require.Equal(t, 1, mail.calls)
	require.Equal(t, []string{"owner@denverclinic.com", "frontdesk@denverclinic.com"}, mail.lastTo)
	require.Contains(t, mail.lastSubj, "back pain")
	require.Contains(t, mail.lastText, "Dr. Smith")
	require.Equal(t, 2, caps.reserved)
	require.Zero(t, caps.released)
}

func TestSend_FailureReleasesCapAndReportsInBody(t *testing.T) {
	mail := &fakeMail{configured: true, err: errors.New("upstream status 502")}
	caps := &fakeCaps{allow: true}
	svc := newService(mail, caps)

	res, err := svc.Send(context.Background(), "op-1", outreachsvc.Request{
		Recipients: []string{"owner@denverclinic.com"},
	})
	require.NoError(t, err) // delivery failure is a result, not a transport error
	require.Equal(t, "error", res.Status)
	require.NotEmpty(t, res.Message)
	require.Equal(t, 1, caps.released)
}

func TestDecorate(t *testing.T) {
	settings := domain.Settings{
		UnsubscribeText: "Reply 'unsubscribe' to opt out.",
		LegalAddress:    "NOFA Business Consulting, LLC",
	}

	out := outreachsvc.Decorate("Hello!", "NOFA BC", settings)
	require.Contains(t, out, "Best regards,\nNOFA BC")
	require.Contains(t, out, settings.UnsubscribeText)
	require.Contains(t, out, settings.LegalAddress)

	// decorating twice never duplicates the footer
	again := outreachsvc.Decorate(out, "NOFA BC", settings)
	require.Equal(t, 1, strings.Count(again, settings.UnsubscribeText))
	require.Equal(t, 1, strings.Count(again, settings.LegalAddress))
}
