// File: internal/infra/adapters/minter/eth_minter.go
package minter

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"nft-drop-redemption/internal/domain/ports/adapter"
)

var _ adapter.Minter = (*EthMinter)(nil)

// EthMinter submits mint(address) calls to an ERC-721 drop contract over
// JSON-RPC. It signs locally and returns the transaction hash as the
// settlement reference. No retry and no confirmation tracking here; a
// submitted hash is enough for the audit trail.
type EthMinter struct {
	client   *ethclient.Client
	key      *ecdsa.PrivateKey
	from     common.Address
	contract common.Address
	chainID  *big.Int
	selector []byte // first 4 bytes of keccak256("mint(address)")
}

func NewEthMinter(ctx context.Context, rpcURL, privateKeyHex, contractAddr string) (*EthMinter, error) {
	if rpcURL == "" {
		return nil, errors.New("chain rpc url empty")
	}
	if !common.IsHexAddress(contractAddr) {
		return nil, fmt.Errorf("invalid contract address %q", contractAddr)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial chain rpc: %w", err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("query chain id: %w", err)
	}
	return &EthMinter{
		client:   client,
		key:      key,
		from:     crypto.PubkeyToAddress(key.PublicKey),
		contract: common.HexToAddress(contractAddr),
		chainID:  chainID,
		selector: crypto.Keccak256([]byte("mint(address)"))[:4],
	}, nil
}

func (m *EthMinter) Name() string { return "eth" }

func (m *EthMinter) Close() { m.client.Close() }

// Mint builds, signs and sends one mint transaction to destAddr.
func (m *EthMinter) Mint(ctx context.Context, destAddr string) (string, error) {
	if !common.IsHexAddress(destAddr) {
		return "", fmt.Errorf("invalid destination address %q", destAddr)
	}
	dest := common.HexToAddress(destAddr)

	nonce, err := m.client.PendingNonceAt(ctx, m.from)
	if err != nil {
		return "", fmt.Errorf("pending nonce: %w", err)
	}
	gasPrice, err := m.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("suggest gas price: %w", err)
	}

	data := make([]byte, 0, 36)
	data = append(data, m.selector...)
	data = append(data, common.LeftPadBytes(dest.Bytes(), 32)...)

	gasLimit, err := m.client.EstimateGas(ctx, ethereum.CallMsg{
		From: m.from,
		To:   &m.contract,
		Data: data,
	})
	if err != nil {
		return "", fmt.Errorf("estimate gas: %w", err)
	}

	tx := types.NewTransaction(nonce, m.contract, big.NewInt(0), gasLimit, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(m.chainID), m.key)
	if err != nil {
		return "", fmt.Errorf("sign tx: %w", err)
	}
	if err := m.client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("send tx: %w", err)
	}
	return signed.Hash().Hex(), nil
}
