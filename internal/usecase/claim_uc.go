// File: internal/usecase/claim_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"nft-drop-redemption/internal/domain"
	"nft-drop-redemption/internal/domain/ports/adapter"
	"nft-drop-redemption/internal/domain/ports/repository"
	"nft-drop-redemption/internal/infra/logging"
)

// Compile-time check
var _ ClaimUseCase = (*claimUC)(nil)

// addressRe matches a 0x-prefixed 20-byte hex wallet address.
var addressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

type ClaimUseCase interface {
	// Claim redeems a code for one mint to destAddr and returns the
	// settlement reference. Domain outcomes: domain.ErrInvalidArgument,
	// domain.ErrCodeNotFound, domain.ErrCodeAlreadyUsed,
	// domain.ErrClaimConflict, domain.ErrMintFailed.
	Claim(ctx context.Context, code, destAddr string) (string, error)
}

type claimUC struct {
	codes  repository.RedemptionCodeRepository
	minter adapter.Minter
	log    *zerolog.Logger
}

func NewClaimUseCase(codes repository.RedemptionCodeRepository, minter adapter.Minter, logger *zerolog.Logger) *claimUC {
	return &claimUC{codes: codes, minter: minter, log: logger}
}

// Claim mints first and marks the code used after: a failed mint must leave
// the code claimable. The conditional MarkUsed write decides the winner when
// concurrent claims race past the advisory check.
func (u *claimUC) Claim(ctx context.Context, code, destAddr string) (string, error) {
	defer logging.TraceDuration(u.log, "ClaimUC.Claim")()

	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("%w: code is required", domain.ErrInvalidArgument)
	}
	if !addressRe.MatchString(destAddr) {
		return "", fmt.Errorf("%w: destination address must be 0x followed by 40 hex characters", domain.ErrInvalidArgument)
	}

	ctx = logging.WithCodeID(ctx, code)
	log := logging.With(ctx, u.log)

	rc, err := u.codes.FindByID(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrCodeNotFound
		}
		return "", fmt.Errorf("load code: %w", err)
	}
	// Advisory fast path; the MarkUsed write below is the authoritative check.
	if rc.Used() {
		return "", domain.ErrCodeAlreadyUsed
	}

	txRef, err := u.minter.Mint(ctx, destAddr)
	if err != nil {
		log.Error().Err(err).Str("backend", u.minter.Name()).Msg("mint submission failed")
		return "", fmt.Errorf("%w (%s): %v", domain.ErrMintFailed, u.minter.Name(), err)
	}

	changed, err := u.codes.MarkUsed(ctx, code, time.Now().UTC(), destAddr, txRef)
	if err != nil {
		// The mint already happened; this divergence is reconciled out of
		// band by cross-referencing minter logs against unused rows.
		log.Error().Err(err).Str("tx_ref", txRef).Msg("mark used failed after successful mint")
		return "", fmt.Errorf("record claim: %w", err)
	}
	if !changed {
		log.Warn().Str("tx_ref", txRef).Msg("lost claim race after successful mint")
		return "", domain.ErrClaimConflict
	}

	log.Info().Str("tx_ref", txRef).Str("wallet", logging.Redact(destAddr, false)).Msg("code claimed")
	return txRef, nil
}
