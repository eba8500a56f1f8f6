package chain

import (
	"context"
	"log/slog"
	"math/big"

	"golang.org/x/sync/errgroup"

	"storefront/internal/models"
)

// metadataWorkers bounds concurrent metadata downloads for one listing
const metadataWorkers = 8

// UnclaimedNFTs lists up to limit unclaimed tokens, lowest id first, with
// their name and gateway-resolved image. It also returns the number of
// unclaimed tokens. A token whose metadata cannot be fetched is listed by id
// only.
func (d *Drop) UnclaimedNFTs(ctx context.Context, limit int) ([]models.NFT, *big.Int, error) {
	claimed, err := d.uint256(ctx, "nextTokenIdToClaim")
	if err != nil {
		return nil, nil, err
	}
	minted, err := d.uint256(ctx, "nextTokenIdToMint")
	if err != nil {
		return nil, nil, err
	}

	remaining := new(big.Int).Sub(minted, claimed)
	if remaining.Sign() < 0 {
		remaining.SetInt64(0)
	}

	end := minted
	if limit > 0 && remaining.Cmp(big.NewInt(int64(limit))) > 0 {
		end = new(big.Int).Add(claimed, big.NewInt(int64(limit)))
	}
	tokens := d.tokenRange(claimed, end)

	nfts := make([]models.NFT, len(tokens))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(metadataWorkers)
	for i, token := range tokens {
		i, token := i, token
		nfts[i] = models.NFT{ID: token.ID.String()}
		g.Go(func() error {
			metadata, err := token.Metadata(gctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.Debug("Token metadata unavailable", "contract", d.address.Hex(), "token", token.ID, "error", err)
				return nil
			}
			nfts[i].Name = metadata.Name
			nfts[i].Description = metadata.Description
			nfts[i].Image = metadata.Image
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return nfts, remaining, nil
}
