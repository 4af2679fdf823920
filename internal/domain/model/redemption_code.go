package model

import (
	"time"
)

// RedemptionCode represents a single-use code that can be claimed for one
// on-chain mint. The three consumption fields are either all nil (unused)
// or all set (used); they are written exactly once.
type RedemptionCode struct {
	ID            string
	CreatedAt     time.Time
	UsedAt        *time.Time // Pointer to allow for NULL
	UsedBy        *string    // Pointer to allow for NULL
	SettlementRef *string    // Pointer to allow for NULL
}

// Used reports whether the code has already been consumed.
func (c *RedemptionCode) Used() bool {
	return c.UsedAt != nil
}
