package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"nft-drop-redemption/internal/domain"
	"nft-drop-redemption/internal/domain/model"
	"nft-drop-redemption/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.RedemptionCodeRepository = (*RedemptionCodeRepo)(nil)

// RedemptionCodeRepo implements repository.RedemptionCodeRepository using
// Postgres. All coordination between concurrent claims goes through the
// conditional UPDATE in MarkUsed, so the repo is safe to share across
// server processes pointing at one database.
type RedemptionCodeRepo struct {
	pool *pgxpool.Pool
}

func NewRedemptionCodeRepo(pool *pgxpool.Pool) *RedemptionCodeRepo {
	return &RedemptionCodeRepo{pool: pool}
}

// Create inserts a new unused code. ON CONFLICT DO NOTHING makes retried
// inserts of the same id a no-op; the bool reports whether a row was added.
func (r *RedemptionCodeRepo) Create(ctx context.Context, id string, createdAt time.Time) (bool, error) {
	const q = `
INSERT INTO redemption_codes (id, created_at)
VALUES ($1, $2)
ON CONFLICT (id) DO NOTHING;
`
	tag, err := r.pool.Exec(ctx, q, id, createdAt)
	if err != nil {
		return false, fmt.Errorf("postgres create code: %w", describe(err))
	}
	return tag.RowsAffected() == 1, nil
}

// FindByID loads a code by id. Returns domain.ErrNotFound if missing.
func (r *RedemptionCodeRepo) FindByID(ctx context.Context, id string) (*model.RedemptionCode, error) {
	const q = `
SELECT id, created_at, used_at, used_by, settlement_ref
FROM redemption_codes
WHERE id = $1;
`
	var rc model.RedemptionCode
	row := r.pool.QueryRow(ctx, q, id)
	if err := row.Scan(&rc.ID, &rc.CreatedAt, &rc.UsedAt, &rc.UsedBy, &rc.SettlementRef); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("postgres find code scan: %w", describe(err))
	}
	return &rc, nil
}

// List returns up to limit codes ordered newest-first.
func (r *RedemptionCodeRepo) List(ctx context.Context, limit int) ([]*model.RedemptionCode, error) {
	const q = `
SELECT id, created_at, used_at, used_by, settlement_ref
FROM redemption_codes
ORDER BY created_at DESC, id DESC
LIMIT $1;
`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres list codes: %w", describe(err))
	}
	defer rows.Close()

	out := make([]*model.RedemptionCode, 0, limit)
	for rows.Next() {
		var rc model.RedemptionCode
		if err := rows.Scan(&rc.ID, &rc.CreatedAt, &rc.UsedAt, &rc.UsedBy, &rc.SettlementRef); err != nil {
			return nil, fmt.Errorf("postgres list codes scan: %w", err)
		}
		out = append(out, &rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres list codes rows: %w", err)
	}
	return out, nil
}

// MarkUsed is the single atomic check-and-set behind the one-time-use
// guarantee: the WHERE clause re-checks the precondition it is changing, so
// exactly one concurrent caller per code sees RowsAffected == 1.
func (r *RedemptionCodeRepo) MarkUsed(ctx context.Context, id string, usedAt time.Time, usedBy, settlementRef string) (bool, error) {
	const q = `
UPDATE redemption_codes
SET used_at = $2, used_by = $3, settlement_ref = $4
WHERE id = $1 AND used_at IS NULL;
`
	tag, err := r.pool.Exec(ctx, q, id, usedAt, usedBy, settlementRef)
	if err != nil {
		return false, fmt.Errorf("postgres mark used: %w", describe(err))
	}
	return tag.RowsAffected() == 1, nil
}

// describe annotates server-side errors with their SQLSTATE for operational
// logs while keeping the original error in the chain.
func describe(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("sqlstate %s: %w", pgErr.Code, err)
	}
	return err
}
