//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"nft-drop-redemption/internal/domain"
	"nft-drop-redemption/internal/usecase"
)

func TestCodeAdminUseCase_CreateBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the requested number of unique codes", func(t *testing.T) {
		repo := newMemCodeRepo()
		uc := usecase.NewCodeAdminUseCase(repo, 200, 500, newTestLogger())

		ids, err := uc.CreateBatch(ctx, 3)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(ids) != 3 {
			t.Fatalf("expected 3 ids, got %d", len(ids))
		}
		seen := map[string]bool{}
		for _, id := range ids {
			if seen[id] {
				t.Errorf("duplicate id %q", id)
			}
			seen[id] = true
			if _, err := repo.FindByID(ctx, id); err != nil {
				t.Errorf("created id %q not found in store: %v", id, err)
			}
		}
	})

	t.Run("clamps oversized batches to the maximum", func(t *testing.T) {
		repo := newMemCodeRepo()
		uc := usecase.NewCodeAdminUseCase(repo, 200, 500, newTestLogger())

		ids, err := uc.CreateBatch(ctx, 10000)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(ids) != 200 {
			t.Fatalf("expected batch clamped to 200, got %d", len(ids))
		}
	})

	t.Run("clamps zero and negative counts to one", func(t *testing.T) {
		repo := newMemCodeRepo()
		uc := usecase.NewCodeAdminUseCase(repo, 200, 500, newTestLogger())

		for _, count := range []int{0, -5} {
			ids, err := uc.CreateBatch(ctx, count)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(ids) != 1 {
				t.Fatalf("count %d: expected 1 id, got %d", count, len(ids))
			}
		}
	})

	t.Run("surfaces store failures", func(t *testing.T) {
		repo := newMemCodeRepo()
		repo.createErr = errors.New("connection refused")
		uc := usecase.NewCodeAdminUseCase(repo, 200, 500, newTestLogger())

		if _, err := uc.CreateBatch(ctx, 2); err == nil {
			t.Fatal("expected an error, got nil")
		}
	})
}

func TestRepoCreate_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := newMemCodeRepo()

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	inserted, err := repo.Create(ctx, "code1", created)
	if err != nil || !inserted {
		t.Fatalf("first create: inserted=%v err=%v", inserted, err)
	}

	inserted, err = repo.Create(ctx, "code1", created.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if inserted {
		t.Fatal("second create with the same id must be a no-op")
	}

	rc, err := repo.FindByID(ctx, "code1")
	if err != nil {
		t.Fatal(err)
	}
	if !rc.CreatedAt.Equal(created) {
		t.Errorf("expected original created_at %v preserved, got %v", created, rc.CreatedAt)
	}
}

func TestCodeAdminUseCase_List(t *testing.T) {
	ctx := context.Background()
	repo := newMemCodeRepo()
	uc := usecase.NewCodeAdminUseCase(repo, 200, 500, newTestLogger())

	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		if _, err := repo.Create(ctx, id, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		list, err := uc.List(ctx, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 3 {
			t.Fatalf("expected 3 codes, got %d", len(list))
		}
		want := []string{"new", "mid", "old"}
		for i, rc := range list {
			if rc.ID != want[i] {
				t.Errorf("position %d: expected %q, got %q", i, want[i], rc.ID)
			}
		}
	})

	t.Run("bounded by limit", func(t *testing.T) {
		list, err := uc.List(ctx, 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 2 {
			t.Fatalf("expected 2 codes, got %d", len(list))
		}
	})

	t.Run("clamps nonpositive limit", func(t *testing.T) {
		list, err := uc.List(ctx, -1)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 1 {
			t.Fatalf("expected limit clamped to 1, got %d codes", len(list))
		}
	})
}

// TestEndToEndScenario walks the whole lifecycle against the in-memory store
// and a stub minter: create a batch, list it, claim one code, observe the
// audit fields, and watch the second claim bounce.
func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	repo := newMemCodeRepo()
	mint := &mockMinter{}
	codeUC := usecase.NewCodeAdminUseCase(repo, 200, 500, newTestLogger())
	claimUC := usecase.NewClaimUseCase(repo, mint, newTestLogger())

	ids, err := codeUC.CreateBatch(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %d", len(ids))
	}

	list, err := codeUC.List(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 listed codes, got %d", len(list))
	}

	txRef, err := claimUC.Claim(ctx, ids[0], validAddr)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if txRef != "tx_abc" {
		t.Errorf("expected tx_abc, got %q", txRef)
	}

	rc, err := codeUC.Get(ctx, ids[0])
	if err != nil {
		t.Fatal(err)
	}
	if rc.UsedBy == nil || *rc.UsedBy != validAddr {
		t.Errorf("expected used_by %q, got %v", validAddr, rc.UsedBy)
	}
	if rc.SettlementRef == nil || *rc.SettlementRef != "tx_abc" {
		t.Errorf("expected settlement_ref tx_abc, got %v", rc.SettlementRef)
	}

	_, err = claimUC.Claim(ctx, ids[0], "0x2222222222222222222222222222222222222222")
	if !errors.Is(err, domain.ErrCodeAlreadyUsed) {
		t.Fatalf("expected ErrCodeAlreadyUsed on second claim, got %v", err)
	}
}
