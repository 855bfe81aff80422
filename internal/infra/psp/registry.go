// Package psp holds the redirect-style payment provider integrations and
// the registry the usecase layer resolves them through.
package psp

import (
	"log/slog"
	"strings"

	"storefront-api/internal/pkg/config"
	"storefront-api/internal/pkg/errs"
	"storefront-api/internal/usecase/commands"
)

type registry struct {
	providers map[string]commands.PaymentProvider
}

// NewRegistry wires every known provider. A provider with no shared secret
// is still registered so intents can be created against it; it degrades to
// the fallback return URL at redirect time.
func NewRegistry(cfg config.Config) commands.ProviderRegistry {
	reg := &registry{providers: make(map[string]commands.PaymentProvider)}

	for _, p := range []commands.PaymentProvider{
		NewVNPayProvider(cfg.Payment),
		NewMomoProvider(cfg.Payment),
	} {
		reg.providers[p.Name()] = p
	}

	for name, p := range reg.providers {
		if !configured(p) {
			slog.Warn("payment provider has no secret configured, redirects will fall back", "provider", name)
		}
	}
	return reg
}

func (r *registry) Get(name string) (commands.PaymentProvider, error) {
	p, ok := r.providers[strings.ToLower(name)]
	if !ok {
		return nil, errs.ErrUnknownProvider
	}
	return p, nil
}

type secretChecker interface {
	hasSecret() bool
}

func configured(p commands.PaymentProvider) bool {
	c, ok := p.(secretChecker)
	return !ok || c.hasSecret()
}
