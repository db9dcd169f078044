// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"github.com/ledgerline/backend/internal/domain/entity"
)

// BankStatementDecoder decodes raw bank statement payloads into external
// transactions. Implementations are keyed by provider name; the integration
// layer holds the registry.
type BankStatementDecoder interface {
	// Decode parses a raw statement payload for the named provider.
	Decode(provider string, payload []byte) ([]entity.ExternalTransaction, error)

	// Providers lists the provider names with a registered decoder.
	Providers() []string
}
