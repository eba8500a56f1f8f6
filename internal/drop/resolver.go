package drop

import (
	"context"
	"math/big"

	"storefront/internal/chain"
	"storefront/internal/models"
)

// ChainResolver hands out drop handles from a chain client
type ChainResolver struct {
	client *chain.Client
}

// NewChainResolver wraps a chain client as a Resolver
func NewChainResolver(client *chain.Client) *ChainResolver {
	return &ChainResolver{client: client}
}

// Drop returns the handle for the contract at address
func (r *ChainResolver) Drop(address string) (Contract, error) {
	d, err := r.client.Drop(address)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// UnclaimedNFTs lists up to limit unclaimed tokens of the drop at address
func (r *ChainResolver) UnclaimedNFTs(ctx context.Context, address string, limit int) ([]models.NFT, *big.Int, error) {
	d, err := r.client.Drop(address)
	if err != nil {
		return nil, nil, err
	}
	return d.UnclaimedNFTs(ctx, limit)
}
