package repository

import (
	"context"
	"time"

	"nft-drop-redemption/internal/domain/model"
)

// RedemptionCodeRepository is the port for the durable code store. It owns
// the one-time-use invariant: MarkUsed is the only mutation and must be a
// single atomic conditional write at the storage layer.
type RedemptionCodeRepository interface {
	// Create inserts a new unused code. It is idempotent: if the id already
	// exists it returns false and leaves the existing row untouched.
	Create(ctx context.Context, id string, createdAt time.Time) (bool, error)
	// FindByID loads a code by id. Returns domain.ErrNotFound if missing.
	FindByID(ctx context.Context, id string) (*model.RedemptionCode, error)
	// List returns up to limit codes, newest created_at first.
	List(ctx context.Context, limit int) ([]*model.RedemptionCode, error)
	// MarkUsed records consumption of a code. It returns true only if the
	// row exists and was still unused; exactly one concurrent caller per
	// code ever observes true.
	MarkUsed(ctx context.Context, id string, usedAt time.Time, usedBy, settlementRef string) (bool, error)
}
