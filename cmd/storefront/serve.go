package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/content"
	"storefront/internal/drop"
	"storefront/internal/wallet"
)

func serve(ctx context.Context, cfg *config.Config) error {
	fmt.Println("🌟 Starting NFT Drop Storefront...")

	slog.Info("Configuration loaded",
		"content_backend", cfg.ContentBackend,
		"sanity_project", cfg.SanityProjectID,
		"dataset", cfg.SanityDataset,
		"rpc", cfg.RPCURL,
		"log_level", cfg.LogLevel,
	)

	// 1. Content store
	loader, closeContent, err := openContent(ctx, cfg)
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}
	defer closeContent()

	// 2. Chain client
	backend, client, chainID, err := dialChain(ctx, cfg)
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to RPC: %w", err)
	}
	defer backend.Close()

	// 3. Wallet session
	session, err := wallet.NewKeystore(wallet.Config{
		KeystoreDir: cfg.KeystoreDir,
		Account:     cfg.WalletAccount,
		Passphrase:  cfg.WalletPassphrase,
		ChainID:     chainID,
		LightKDF:    cfg.KeystoreLightKDF,
	})
	if err != nil {
		return fmt.Errorf("❌ Failed to open wallet keystore: %w", err)
	}

	// 4. HTTP server
	if !isLoopback(cfg.ListenHost) {
		slog.Warn("Listening beyond localhost: every visitor shares the wallet session and can mint with it",
			"host", cfg.ListenHost,
			"account", cfg.WalletAccount,
		)
	}

	resolver := drop.NewChainResolver(client)
	server := api.NewServer(cfg.ListenHost, cfg.Port, api.Dependencies{
		Loader:      loader,
		Images:      content.NewImageResolver(cfg.SanityProjectID, cfg.SanityDataset),
		Resolver:    resolver,
		Wallet:      session,
		Gallery:     resolver,
		ViewOptions: drop.Options{RefreshAfterMint: cfg.RefreshAfterMint},
		ViewTTL:     cfg.ViewTTL,
		MaxViews:    cfg.MaxViews,
		Brand:       cfg.Brand,
	})
	if err := server.Start(); err != nil {
		return fmt.Errorf("❌ Failed to start HTTP server: %w", err)
	}

	// 5. Wait for shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		slog.Warn("Interrupt received, shutting down...")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error shutting down HTTP server", "error", err)
	}
	if err := session.Disconnect(shutdownCtx); err != nil {
		slog.Error("Error locking wallet", "error", err)
	}

	slog.Info("Storefront stopped")
	return nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
