// File: internal/infra/adapters/minter/relay_minter.go
package minter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"nft-drop-redemption/internal/domain/ports/adapter"
)

var _ adapter.Minter = (*RelayMinter)(nil)

// RelayMinter submits mints through a custodial relay API that holds the
// signing key server-side. The relay returns an opaque transaction
// reference once the operation is accepted on-chain.
type RelayMinter struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRelayMinter(baseURL, apiKey string) (*RelayMinter, error) {
	if baseURL == "" {
		return nil, errors.New("relay base url empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid relay base url: %w", err)
	}
	if apiKey == "" {
		return nil, errors.New("relay api key empty")
	}
	return &RelayMinter{
		baseURL: baseURL,
		apiKey:  apiKey,
		// No client-side timeout: chain confirmation latency is unbounded
		// and the caller controls cancellation via ctx.
		client: &http.Client{},
	}, nil
}

func (m *RelayMinter) Name() string { return "relay" }

// Mint POSTs a single-unit mint request and returns the relay's tx_ref.
func (m *RelayMinter) Mint(ctx context.Context, destAddr string) (string, error) {
	payload := map[string]any{
		"destination": destAddr,
		"quantity":    1,
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v1/mints", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("relay mint http %d", resp.StatusCode)
	}
	var out struct {
		TxRef  string `json:"tx_ref"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.TxRef == "" {
		return "", errors.New("relay mint returned no tx_ref")
	}
	return out.TxRef, nil
}

const relayProbeTimeout = 5 * time.Second

// Ping checks relay reachability for readiness reporting.
func (m *RelayMinter) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, relayProbeTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/v1/health", nil)
	if err != nil {
		return err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("relay health http %d", resp.StatusCode)
	}
	return nil
}
