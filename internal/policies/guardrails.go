package policies

import (
	"context"
	"strings"

	"golang.org/x/net/publicsuffix"

	"seekan/internal/apperr"
	"seekan/internal/ports"
)

// Domains that are always refused: outreach targets businesses, not personal
// inboxes.
var personalDomains = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"hotmail.com": true,
	"outlook.com": true,
	"aol.com":     true,
}

// Guardrails checks recipient domains against the global allow/block lists.
type Guardrails struct {
	settings ports.SettingsRepository
}

func New(settings ports.SettingsRepository) *Guardrails {
	return &Guardrails{settings: settings}
}

// CheckRecipients rejects the whole batch when any recipient's registrable
// domain is blocked, off the allow list, or a personal mail provider.
func (g *Guardrails) CheckRecipients(ctx context.Context, recipients []string) error {
	settings, err := g.settings.GetSettings(ctx)
	if err != nil {
		return err
	}

	blocked := map[string]bool{}
	for _, d := range settings.BlockDomains {
		blocked[strings.ToLower(d)] = true
	}
	allowed := map[string]bool{}
	for _, d := range settings.AllowDomains {
		allowed[strings.ToLower(d)] = true
	}

	for _, addr := range recipients {
		domain := registrableDomain(addr)
		if domain == "" {
			return apperr.Validation("invalid recipient %q", addr)
		}
		if blocked[domain] {
			return apperr.Validation("domain %s is blocked", domain)
		}
		if len(allowed) > 0 && !allowed[domain] {
			return apperr.Validation("domain %s is not on the allow list", domain)
		}
		if personalDomains[domain] {
			return apperr.Validation("domain %s is a personal email domain", domain)
		}
	}
	return nil
}

func registrableDomain(addr string) string {
	at := strings.LastIndex(addr, "@")
	if at < 1 || at == len(addr)-1 {
		return ""
	}
	host := strings.ToLower(addr[at+1:])
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return registrable
}
