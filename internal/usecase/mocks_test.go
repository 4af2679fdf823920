//go:build !integration

package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"nft-drop-redemption/internal/domain"
	"nft-drop-redemption/internal/domain/model"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memCodeRepo is a small in-memory implementation used by unit tests. Its
// MarkUsed holds the mutex across check and set, mirroring the atomic
// conditional UPDATE of the real store.
type memCodeRepo struct {
	mu    sync.Mutex
	store map[string]*model.RedemptionCode

	createErr error // simulate store failures
	findErr   error
	listErr   error
	markErr   error

	forceMarkResult *bool // force MarkUsed outcome without touching state
}

func newMemCodeRepo() *memCodeRepo {
	return &memCodeRepo{store: make(map[string]*model.RedemptionCode)}
}

func (m *memCodeRepo) Create(ctx context.Context, id string, createdAt time.Time) (bool, error) {
	if m.createErr != nil {
		return false, m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; ok {
		return false, nil
	}
	m.store[id] = &model.RedemptionCode{ID: id, CreatedAt: createdAt}
	return true, nil
}

func (m *memCodeRepo) FindByID(ctx context.Context, id string) (*model.RedemptionCode, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rc, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rc
	return &cp, nil
}

func (m *memCodeRepo) List(ctx context.Context, limit int) ([]*model.RedemptionCode, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.RedemptionCode, 0, len(m.store))
	for _, rc := range m.store {
		cp := *rc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memCodeRepo) MarkUsed(ctx context.Context, id string, usedAt time.Time, usedBy, settlementRef string) (bool, error) {
	if m.markErr != nil {
		return false, m.markErr
	}
	if m.forceMarkResult != nil {
		return *m.forceMarkResult, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rc, ok := m.store[id]
	if !ok || rc.UsedAt != nil {
		return false, nil
	}
	at := usedAt
	by := usedBy
	ref := settlementRef
	rc.UsedAt = &at
	rc.UsedBy = &by
	rc.SettlementRef = &ref
	return true, nil
}

// mockMinter is a configurable stand-in for the minting back-end.
type mockMinter struct {
	mu       sync.Mutex
	calls    int
	MintFunc func(ctx context.Context, destAddr string) (string, error)
}

func (m *mockMinter) Name() string { return "mock" }

func (m *mockMinter) Mint(ctx context.Context, destAddr string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.MintFunc != nil {
		return m.MintFunc(ctx, destAddr)
	}
	return "tx_abc", nil
}

func (m *mockMinter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
