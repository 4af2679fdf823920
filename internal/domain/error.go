package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")

	// Claim flow outcomes. Expected results callers branch on, not faults.
	ErrCodeNotFound    = errors.New("redemption code not found")
	ErrCodeAlreadyUsed = errors.New("redemption code already used")
	// ErrClaimConflict means the conditional mark-used write lost the race
	// after the mint had already been submitted.
	ErrClaimConflict = errors.New("redemption code claimed concurrently")
	// ErrMintFailed wraps any error from the minting back-end.
	ErrMintFailed = errors.New("mint submission failed")
)
