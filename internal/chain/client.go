// Package chain reads and claims thirdweb-style NFT drops on EVM chains.
//
// It is the storefront's blockchain SDK: a Client hands out Drop handles bound
// to a contract address, and each Drop exposes the claim conditions, the
// claimed and unclaimed token lists, the total supply and the claim call.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Errors returned by drop handles.
var (
	ErrInvalidAddress   = errors.New("chain: invalid contract address")
	ErrNoClaimCondition = errors.New("chain: drop has no claim condition")
	ErrClaimReverted    = errors.New("chain: claim transaction reverted")
	ErrNoClaimEvent     = errors.New("chain: claim receipt has no TokensClaimed event")
)

// Backend is everything a drop handle needs from a node connection:
// contract calls, transactions and receipts. *ethclient.Client implements it.
type Backend interface {
	bind.ContractBackend
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Config tunes a Client
type Config struct {
	// NativeSymbol is shown next to prices paid in the native token
	NativeSymbol string

	// IPFSGateway replaces ipfs:// in token URIs
	IPFSGateway string

	HTTPClient *http.Client
}

// Client hands out drop handles over a shared backend
type Client struct {
	backend  Backend
	config   Config
	metadata *MetadataFetcher
}

// NewClient creates a client over a connected backend
func NewClient(backend Backend, config Config) *Client {
	if config.NativeSymbol == "" {
		config.NativeSymbol = "ETH"
	}
	return &Client{
		backend:  backend,
		config:   config,
		metadata: NewMetadataFetcher(config.IPFSGateway, config.HTTPClient),
	}
}

// Dial connects to an Ethereum JSON-RPC endpoint and checks it answers
func Dial(ctx context.Context, rawURL string) (*ethclient.Client, *big.Int, error) {
	client, err := ethclient.DialContext(ctx, rawURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial %s: %w", rawURL, err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to get chain id from %s: %w", rawURL, err)
	}

	return client, chainID, nil
}

// Drop returns a handle bound to the drop contract at address
func (c *Client) Drop(address string) (*Drop, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return newDrop(common.HexToAddress(address), c.backend, c.backend, c.config.NativeSymbol, c.metadata), nil
}
