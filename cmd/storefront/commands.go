package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/content"
	"storefront/internal/models"
	"storefront/internal/storage"
)

// printCollection prints the collection document for slug as JSON
func printCollection(ctx context.Context, cfg *config.Config, slug string) error {
	loader, closeContent, err := openContent(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeContent()

	collection, err := loader.Collection(ctx, slug)
	if err != nil {
		return fmt.Errorf("failed to load collection %q: %w", slug, err)
	}

	images := content.NewImageResolver(cfg.SanityProjectID, cfg.SanityDataset)
	return printJSON(api.BuildCollectionResponse(*collection, images))
}

// listCollections prints slug, title and contract address per collection
func listCollections(ctx context.Context, cfg *config.Config) error {
	loader, closeContent, err := openContent(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeContent()

	collections, err := loader.Collections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	for _, c := range collections {
		fmt.Printf("%-30s %-42s %s\n", c.Slug.Current, c.Address, c.Title)
	}
	return nil
}

// printSupply reads the supply counters and active price of a drop
func printSupply(ctx context.Context, cfg *config.Config, address string) error {
	backend, client, _, err := dialChain(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	d, err := client.Drop(address)
	if err != nil {
		return err
	}

	claimed, err := d.Claimed(ctx)
	if err != nil {
		return fmt.Errorf("failed to read claimed tokens: %w", err)
	}
	unclaimed, err := d.Unclaimed(ctx)
	if err != nil {
		return fmt.Errorf("failed to read unclaimed tokens: %w", err)
	}
	total, err := d.TotalSupply(ctx)
	if err != nil {
		return fmt.Errorf("failed to read total supply: %w", err)
	}

	fmt.Printf("Contract:     %s\n", d.Address().Hex())
	fmt.Printf("Claimed:      %d\n", len(claimed))
	fmt.Printf("Unclaimed:    %d\n", len(unclaimed))
	fmt.Printf("Total supply: %s\n", total)

	condition, err := d.ActiveClaimCondition(ctx)
	if err != nil {
		fmt.Printf("Price:        unavailable (%v)\n", err)
		return nil
	}
	fmt.Printf("Price:        %s %s\n", condition.DisplayValue, condition.Currency.Symbol)
	return nil
}

// importDocuments loads an NDJSON dataset export into the documents table
func importDocuments(ctx context.Context, cfg *config.Config, path string, ensureSchema bool) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required to import documents")
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	docs, err := storage.ParseDocuments(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	repository, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer repository.Close()

	if ensureSchema {
		if err := repository.EnsureSchema(ctx); err != nil {
			return err
		}
	}
	if err := repository.SaveDocuments(ctx, docs); err != nil {
		return err
	}

	fmt.Printf("✅ Imported %d documents from %s\n", len(docs), path)
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printUnclaimed lists unclaimed tokens of a drop with their metadata
func printUnclaimed(ctx context.Context, cfg *config.Config, address string, limit int) error {
	backend, client, _, err := dialChain(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	d, err := client.Drop(address)
	if err != nil {
		return err
	}

	nfts, remaining, err := d.UnclaimedNFTs(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list unclaimed tokens: %w", err)
	}
	return printJSON(models.UnclaimedResponse{
		Address:   d.Address().Hex(),
		Unclaimed: remaining.String(),
		NFTs:      nfts,
	})
}
