// File: internal/infra/adapters/minter/noop_minter.go
package minter

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"nft-drop-redemption/internal/domain/ports/adapter"
)

var _ adapter.Minter = (*NoopMinter)(nil)

// NoopMinter is a dev/test stand-in that fabricates a transaction reference
// without touching any chain. Only selectable in dev mode.
type NoopMinter struct{}

func NewNoopMinter() *NoopMinter { return &NoopMinter{} }

func (m *NoopMinter) Name() string { return "noop" }

func (m *NoopMinter) Mint(ctx context.Context, destAddr string) (string, error) {
	return fmt.Sprintf("noop-tx-%s", uuid.NewString()), nil
}
