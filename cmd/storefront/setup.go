package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"

	"storefront/internal/chain"
	"storefront/internal/config"
	"storefront/internal/content"
	"storefront/internal/retry"
	"storefront/internal/storage"
)

const httpTimeout = 30 * time.Second

// openRepository connects to Postgres, retrying while the database comes up
func openRepository(ctx context.Context, cfg *config.Config) (*storage.PostgresRepository, error) {
	var repository *storage.PostgresRepository
	err := retry.NewStrategy(cfg.Retry).Execute(ctx, "connect database", func(ctx context.Context) error {
		var err error
		repository, err = storage.NewPostgresRepository(ctx, cfg.DatabaseURL)
		return err
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Database connected successfully")
	return repository, nil
}

// openContent builds the collection loader for the configured backend.
// The returned close func releases the backend.
func openContent(ctx context.Context, cfg *config.Config) (*content.Loader, func(), error) {
	switch cfg.ContentBackend {
	case config.ContentPostgres:
		repository, err := openRepository(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := repository.EnsureSchema(ctx); err != nil {
			repository.Close()
			return nil, nil, fmt.Errorf("failed to ensure schema: %w", err)
		}
		closeFn := func() {
			if err := repository.Close(); err != nil {
				slog.Error("Error closing database", "error", err)
			}
		}
		return content.NewLoader(content.NewPostgresSource(repository)), closeFn, nil

	default:
		source := content.NewSanitySource(content.SanityConfig{
			ProjectID:  cfg.SanityProjectID,
			Dataset:    cfg.SanityDataset,
			APIVersion: cfg.SanityAPIVersion,
			Token:      cfg.SanityToken,
			UseCDN:     cfg.SanityUseCDN,
		}, &http.Client{Timeout: httpTimeout})
		return content.NewLoader(source), func() {}, nil
	}
}

// dialChain connects to the JSON-RPC node, retrying while it is unreachable
func dialChain(ctx context.Context, cfg *config.Config) (*ethclient.Client, *chain.Client, *big.Int, error) {
	var (
		backend *ethclient.Client
		chainID *big.Int
	)
	err := retry.NewStrategy(cfg.Retry).Execute(ctx, "dial rpc", func(ctx context.Context) error {
		var err error
		backend, chainID, err = chain.Dial(ctx, cfg.RPCURL)
		return err
	})
	if err != nil {
		return nil, nil, nil, err
	}

	slog.Info("Connected to chain", "rpc", cfg.RPCURL, "chain_id", chainID)

	client := chain.NewClient(backend, chain.Config{
		NativeSymbol: cfg.NativeSymbol,
		IPFSGateway:  cfg.IPFSGateway,
		HTTPClient:   &http.Client{Timeout: httpTimeout},
	})
	return backend, client, chainID, nil
}
