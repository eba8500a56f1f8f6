// Package wallet provides the wallet session used by drop views. The session
// is an account in a go-ethereum keystore: connecting unlocks it, disconnecting
// locks it again.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"

	"storefront/internal/metrics"
)

var (
	ErrNotConnected = errors.New("wallet: not connected")
	ErrNoAccount    = errors.New("wallet: no account in keystore")
)

// Config selects the keystore account backing the session
type Config struct {
	KeystoreDir string
	// Account is the hex address to use. Empty selects the first account.
	Account    string
	Passphrase string
	ChainID    *big.Int

	// LightKDF uses the light scrypt parameters for new keys
	LightKDF bool
}

// Keystore is a wallet session over one keystore account
type Keystore struct {
	ks         *keystore.KeyStore
	account    accounts.Account
	passphrase string
	chainID    *big.Int

	mu        sync.RWMutex
	connected bool
}

// NewKeystore opens the keystore directory and selects the session account
func NewKeystore(config Config) (*Keystore, error) {
	if config.KeystoreDir == "" {
		return nil, fmt.Errorf("wallet: keystore directory is required")
	}
	if config.ChainID == nil {
		return nil, fmt.Errorf("wallet: chain id is required")
	}
	if err := os.MkdirAll(config.KeystoreDir, 0700); err != nil {
		return nil, fmt.Errorf("wallet: failed to create keystore dir: %w", err)
	}

	scryptN, scryptP := keystore.StandardScryptN, keystore.StandardScryptP
	if config.LightKDF {
		scryptN, scryptP = keystore.LightScryptN, keystore.LightScryptP
	}
	ks := keystore.NewKeyStore(config.KeystoreDir, scryptN, scryptP)

	account, err := selectAccount(ks, config.Account)
	if err != nil {
		return nil, err
	}

	slog.Info("Wallet keystore opened", "dir", config.KeystoreDir, "account", account.Address.Hex())

	return &Keystore{
		ks:         ks,
		account:    account,
		passphrase: config.Passphrase,
		chainID:    config.ChainID,
	}, nil
}

func selectAccount(ks *keystore.KeyStore, address string) (accounts.Account, error) {
	if address == "" {
		all := ks.Accounts()
		if len(all) == 0 {
			return accounts.Account{}, ErrNoAccount
		}
		return all[0], nil
	}
	if !common.IsHexAddress(address) {
		return accounts.Account{}, fmt.Errorf("wallet: invalid account address %q", address)
	}
	account, err := ks.Find(accounts.Account{Address: common.HexToAddress(address)})
	if err != nil {
		return accounts.Account{}, fmt.Errorf("%w: %s", ErrNoAccount, address)
	}
	return account, nil
}

// Address returns the session address while connected
func (w *Keystore) Address() (common.Address, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.connected {
		return common.Address{}, false
	}
	return w.account.Address, true
}

// Connect unlocks the session account
func (w *Keystore) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.connected {
		return nil
	}
	if err := w.ks.Unlock(w.account, w.passphrase); err != nil {
		metrics.ErrorsTotal.WithLabelValues("wallet").Inc()
		return fmt.Errorf("wallet: failed to unlock %s: %w", w.account.Address.Hex(), err)
	}
	w.connected = true
	metrics.WalletConnected.Set(1)

	slog.Info("Wallet connected", "address", w.account.Address.Hex())
	return nil
}

// Disconnect locks the session account. Disconnecting twice is a no-op.
func (w *Keystore) Disconnect(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.connected {
		return nil
	}
	if err := w.ks.Lock(w.account.Address); err != nil {
		return fmt.Errorf("wallet: failed to lock %s: %w", w.account.Address.Hex(), err)
	}
	w.connected = false
	metrics.WalletConnected.Set(0)

	slog.Info("Wallet disconnected", "address", w.account.Address.Hex())
	return nil
}

// TransactOpts returns signing options for the connected account
func (w *Keystore) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if !w.connected {
		return nil, ErrNotConnected
	}
	opts, err := bind.NewKeyStoreTransactorWithChainID(w.ks, w.account, w.chainID)
	if err != nil {
		return nil, fmt.Errorf("wallet: failed to build transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}
