// File: internal/usecase/code_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"nft-drop-redemption/internal/domain/model"
	"nft-drop-redemption/internal/domain/ports/repository"
	"nft-drop-redemption/internal/infra/metrics"
)

// Compile-time check
var _ CodeAdminUseCase = (*codeAdminUC)(nil)

type CodeAdminUseCase interface {
	// CreateBatch creates count new codes (count clamped to [1, batch max])
	// and returns their ids.
	CreateBatch(ctx context.Context, count int) ([]string, error)
	// List returns codes newest-first, limit clamped to [1, list max].
	List(ctx context.Context, limit int) ([]*model.RedemptionCode, error)
	// Get loads one code by id.
	Get(ctx context.Context, id string) (*model.RedemptionCode, error)
}

type codeAdminUC struct {
	codes    repository.RedemptionCodeRepository
	batchMax int
	listMax  int
	log      *zerolog.Logger
}

func NewCodeAdminUseCase(codes repository.RedemptionCodeRepository, batchMax, listMax int, logger *zerolog.Logger) *codeAdminUC {
	return &codeAdminUC{codes: codes, batchMax: batchMax, listMax: listMax, log: logger}
}

func (u *codeAdminUC) CreateBatch(ctx context.Context, count int) ([]string, error) {
	if count < 1 {
		count = 1
	}
	if count > u.batchMax {
		count = u.batchMax
	}

	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		// Create is idempotent on id, so a duplicate insert is a no-op and
		// we simply draw a fresh id.
		for attempt := 0; attempt < 3; attempt++ {
			id := uuid.NewString()
			inserted, err := u.codes.Create(ctx, id, time.Now().UTC())
			if err != nil {
				return nil, fmt.Errorf("create code: %w", err)
			}
			if inserted {
				ids = append(ids, id)
				break
			}
		}
	}

	metrics.AddCodesCreated(len(ids))
	u.log.Info().Int("count", len(ids)).Msg("codes created")
	return ids, nil
}

func (u *codeAdminUC) List(ctx context.Context, limit int) ([]*model.RedemptionCode, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > u.listMax {
		limit = u.listMax
	}
	return u.codes.List(ctx, limit)
}

func (u *codeAdminUC) Get(ctx context.Context, id string) (*model.RedemptionCode, error) {
	return u.codes.FindByID(ctx, id)
}
