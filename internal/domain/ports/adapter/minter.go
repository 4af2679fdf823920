package adapter

import "context"

// Minter is the port for the external minting capability. It submits a mint
// of exactly one unit to the destination address and returns an opaque
// transaction reference for audit. Implementations do not retry and do not
// wait for confirmation depth; any submission error is surfaced as-is.
type Minter interface {
	// Name identifies the back-end (e.g. "eth", "relay") for logs/metrics.
	Name() string
	// Mint submits the operation. It may block for as long as the network
	// and chain take; callers apply their own timeout via ctx.
	Mint(ctx context.Context, destAddr string) (string, error)
}
