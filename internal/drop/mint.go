package drop

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"storefront/internal/chain"
	"storefront/internal/metrics"
	"storefront/internal/models"
)

// ErrMintUnavailable is returned when the gate does not allow a mint
var ErrMintUnavailable = errors.New("drop: mint unavailable")

const mintQuantity = 1

// Mint claims one token for the connected wallet. It is a no-op returning
// ErrMintUnavailable unless a contract handle and a wallet address are
// present and the gate is Ready. Failures are reported through the notifier
// and returned; the caller is not expected to classify them. The mint is
// cancelled when either ctx is done or the view is closed.
func (v *View) Mint(ctx context.Context) error {
	address, toastID, err := v.beginMint()
	if err != nil {
		return err
	}
	return v.runMint(ctx, address, toastID)
}

// StartMint checks the gate and shows the loading notification before
// returning, then runs the claim in the background. The returned error is
// ErrMintUnavailable or nil; the claim outcome only reaches the notifier.
func (v *View) StartMint(ctx context.Context) error {
	address, toastID, err := v.beginMint()
	if err != nil {
		return err
	}
	go v.runMint(ctx, address, toastID)
	return nil
}

func (v *View) beginMint() (common.Address, string, error) {
	address, connected := v.wallet.Address()

	v.mu.Lock()
	if v.contract == nil || !connected || Gate(v.stateLocked(address, connected)) != Ready {
		v.mu.Unlock()
		metrics.Mints.WithLabelValues("skipped").Inc()
		return common.Address{}, "", ErrMintUnavailable
	}
	v.minting = true
	v.mu.Unlock()

	return address, v.notifier.Loading(MsgMinting), nil
}

func (v *View) runMint(ctx context.Context, address common.Address, toastID string) error {
	defer func() {
		v.mu.Lock()
		v.minting = false
		v.mu.Unlock()
		v.notifier.Dismiss(toastID)
	}()

	// closing the view abandons the mint
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(v.ctx, cancel)
	defer stop()

	start := time.Now()
	results, err := v.claim(ctx, address)
	metrics.MintDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.Mints.WithLabelValues("failure").Inc()
		slog.Error("Mint failed", "view", v.ID, "address", v.collection.Address, "error", err)
		v.notifier.Error(MsgFailure, 0)
		return err
	}

	metrics.Mints.WithLabelValues("success").Inc()
	v.logOutcome(ctx, results)
	v.notifier.Success(MsgMintSuccess, SuccessDuration)

	if v.options.RefreshAfterMint {
		v.refreshSupply(ctx)
	}
	return nil
}

func (v *View) claim(ctx context.Context, receiver common.Address) ([]chain.ClaimResult, error) {
	opts, err := v.wallet.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	return v.contract.ClaimTo(ctx, opts, receiver, mintQuantity)
}

// logOutcome records the first claimed token for diagnostics. Nothing of it
// is displayed.
func (v *View) logOutcome(ctx context.Context, results []chain.ClaimResult) {
	if len(results) == 0 {
		return
	}
	first := results[0]

	outcome := models.MintOutcome{TokenID: first.ID}
	if first.Receipt != nil {
		outcome.TxHash = first.Receipt.TxHash.Hex()
		outcome.Status = first.Receipt.Status
		if first.Receipt.BlockNumber != nil {
			outcome.BlockNumber = first.Receipt.BlockNumber.Uint64()
		}
	}
	if metadata, err := first.Metadata(ctx); err == nil {
		outcome.Metadata = metadata
	} else {
		slog.Debug("Minted token metadata unavailable", "token_id", first.ID, "error", err)
	}

	slog.Debug("Minted token",
		"view", v.ID,
		"tx", outcome.TxHash,
		"block", outcome.BlockNumber,
		"status", outcome.Status,
		"token_id", outcome.TokenID,
		"metadata", outcome.Metadata,
	)
}

func (v *View) refreshSupply(ctx context.Context) {
	v.mu.Lock()
	v.supplyPending = true
	v.mu.Unlock()

	if err := v.readSupply(ctx); err != nil {
		if ctx.Err() != nil {
			v.mu.Lock()
			v.supplyPending = false
			v.mu.Unlock()
			return
		}
		slog.Error("Supply refresh failed", "view", v.ID, "error", err)
		v.notifier.Error(MsgFailure, 0)
	}
}
