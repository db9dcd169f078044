// Package bank decodes provider-specific statement payloads into external
// transactions. Each provider registers a typed decoder at startup; the
// import path never probes raw payload keys itself.
package bank

import (
	"sort"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

// ProviderDecoder decodes one provider's raw statement payload.
type ProviderDecoder interface {
	// Provider returns the provider key the decoder is registered under.
	Provider() string

	// Decode parses the raw payload into external transactions.
	Decode(payload []byte) ([]entity.ExternalTransaction, error)
}

// Registry implements the adapter.BankStatementDecoder interface by
// dispatching to the decoder registered for the named provider.
type Registry struct {
	decoders map[string]ProviderDecoder
}

// NewRegistry creates a registry with all built-in provider decoders.
func NewRegistry() *Registry {
	registry := &Registry{
		decoders: make(map[string]ProviderDecoder),
	}
	registry.Register(NewPlaidDecoder())
	registry.Register(NewGoCardlessDecoder())
	return registry
}

// Register adds a provider decoder, replacing any previous registration for
// the same provider key.
func (r *Registry) Register(decoder ProviderDecoder) {
	r.decoders[decoder.Provider()] = decoder
}

// Decode parses a raw statement payload for the named provider.
func (r *Registry) Decode(provider string, payload []byte) ([]entity.ExternalTransaction, error) {
	decoder, ok := r.decoders[provider]
	if !ok {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeUnknownBankProvider,
			"no decoder registered for provider: "+provider,
			domainerror.ErrUnknownBankProvider,
		)
	}
	return decoder.Decode(payload)
}

// Providers lists the provider names with a registered decoder.
func (r *Registry) Providers() []string {
	providers := make([]string, 0, len(r.decoders))
	for provider := range r.decoders {
		providers = append(providers, provider)
	}
	sort.Strings(providers)
	return providers
}

// Ensure the implementation satisfies the interface.
var _ adapter.BankStatementDecoder = (*Registry)(nil)
