// File: internal/infra/adapters/minter/instrumented.go
package minter

import (
	"context"
	"time"

	"nft-drop-redemption/internal/domain/ports/adapter"
	"nft-drop-redemption/internal/infra/metrics"
)

var _ adapter.Minter = (*Instrumented)(nil)

// Instrumented wraps any Minter with a submission latency histogram.
type Instrumented struct {
	inner adapter.Minter
}

func WithMetrics(inner adapter.Minter) *Instrumented {
	return &Instrumented{inner: inner}
}

func (m *Instrumented) Name() string { return m.inner.Name() }

func (m *Instrumented) Mint(ctx context.Context, destAddr string) (string, error) {
	start := time.Now()
	ref, err := m.inner.Mint(ctx, destAddr)
	metrics.ObserveMint(m.inner.Name(), err == nil, float64(time.Since(start).Milliseconds()))
	return ref, err
}
