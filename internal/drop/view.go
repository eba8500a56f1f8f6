// Package drop implements the drop page view model: supply and price reads,
// the wallet session, the mint action and the eligibility gate.
package drop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"storefront/internal/chain"
	"storefront/internal/metrics"
	"storefront/internal/models"
)

// Notification texts shown by a view
const (
	MsgMinting      = "Minting NFT..."
	MsgMintSuccess  = "Hooray.. You Successfully Minted!"
	MsgFailure      = "Whoops.. Something went Wrong!"
	SuccessDuration = 8 * time.Second
)

// Contract is the drop handle a view reads from and claims against.
// *chain.Drop implements it.
type Contract interface {
	ClaimConditions(ctx context.Context) ([]chain.ClaimCondition, error)
	Unclaimed(ctx context.Context) ([]chain.Token, error)
	Claimed(ctx context.Context) ([]chain.Token, error)
	TotalSupply(ctx context.Context) (*big.Int, error)
	ClaimTo(ctx context.Context, opts *bind.TransactOpts, receiver common.Address, quantity int64) ([]chain.ClaimResult, error)
}

// Resolver turns a contract address into a drop handle
type Resolver interface {
	Drop(address string) (Contract, error)
}

// Wallet is the session provider. The view reads the address from it on every
// render and keeps no session state of its own.
type Wallet interface {
	Address() (common.Address, bool)
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	TransactOpts(ctx context.Context) (*bind.TransactOpts, error)
}

// Notifier shows transient notifications
type Notifier interface {
	Loading(message string) string
	Success(message string, d time.Duration) string
	Error(message string, d time.Duration) string
	Dismiss(id string)
}

// Options tune a view
type Options struct {
	// RefreshAfterMint re-reads the supply after a successful mint
	RefreshAfterMint bool
}

// View is one mounted drop page
type View struct {
	ID         string
	collection models.Collection
	contract   Contract
	resolveErr error
	wallet     Wallet
	notifier   Notifier
	options    Options
	mountedAt  time.Time

	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	once      sync.Once
	closeOnce sync.Once

	mu            sync.RWMutex
	supply        models.SupplySnapshot
	pricePending  bool
	supplyPending bool
	minting       bool
	priceFailed   bool
	supplyFailed  bool
}

// NewView builds a view for a collection. The contract handle is resolved
// from the collection address; a resolution failure surfaces as a failed read
// once the view is mounted.
func NewView(parent context.Context, collection models.Collection, resolver Resolver, wallet Wallet, notifier Notifier, options Options) *View {
	ctx, cancel := context.WithCancel(parent)
	v := &View{
		ID:         uuid.NewString(),
		collection: collection,
		wallet:     wallet,
		notifier:   notifier,
		options:    options,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}

	contract, err := resolver.Drop(collection.Address)
	if err != nil {
		v.resolveErr = fmt.Errorf("failed to resolve drop %q: %w", collection.Address, err)
	} else {
		v.contract = contract
	}

	return v
}

// Mount starts the price and supply reads. Calling it again does nothing.
func (v *View) Mount() {
	v.once.Do(func() {
		v.mu.Lock()
		v.mountedAt = time.Now()
		v.pricePending = true
		v.supplyPending = true
		v.mu.Unlock()

		metrics.ActiveViews.Inc()
		go v.read()
	})
}

// Wait blocks until both mount reads have finished
func (v *View) Wait(ctx context.Context) error {
	select {
	case <-v.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels pending reads and mints. Their results are discarded.
func (v *View) Close() {
	v.closeOnce.Do(func() {
		v.cancel()
		v.mu.RLock()
		mounted := !v.mountedAt.IsZero()
		v.mu.RUnlock()
		if mounted {
			metrics.ActiveViews.Dec()
		}
	})
}

// Collection returns the collection the view was built for
func (v *View) Collection() models.Collection {
	return v.collection
}

// MountedAt returns when reads started
func (v *View) MountedAt() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.mountedAt
}

// State snapshots the view for rendering. The wallet address is read fresh.
func (v *View) State() State {
	address, connected := v.wallet.Address()

	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.stateLocked(address, connected)
}

func (v *View) stateLocked(address common.Address, connected bool) State {
	return State{
		Collection:    v.collection,
		Supply:        v.supply,
		Address:       address,
		Connected:     connected,
		PricePending:  v.pricePending,
		SupplyPending: v.supplyPending,
		Minting:       v.minting,
		PriceFailed:   v.priceFailed,
		SupplyFailed:  v.supplyFailed,
	}
}

// Address returns the wallet address, if connected
func (v *View) Address() (common.Address, bool) {
	return v.wallet.Address()
}

// Connect delegates to the wallet provider
func (v *View) Connect(ctx context.Context) error {
	return v.wallet.Connect(ctx)
}

// Disconnect delegates to the wallet provider
func (v *View) Disconnect(ctx context.Context) error {
	return v.wallet.Disconnect(ctx)
}

func (v *View) read() {
	defer close(v.done)

	if v.contract == nil {
		v.mu.Lock()
		v.pricePending, v.supplyPending = false, false
		v.priceFailed, v.supplyFailed = true, true
		v.mu.Unlock()

		slog.Error("Drop view has no contract handle", "view", v.ID, "error", v.resolveErr)
		metrics.ErrorsTotal.WithLabelValues("drop").Inc()
		v.notifier.Error(MsgFailure, 0)
		return
	}

	var g errgroup.Group
	g.Go(func() error { return v.readPrice(v.ctx) })
	g.Go(func() error { return v.readSupply(v.ctx) })

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || v.ctx.Err() != nil {
			return
		}
		slog.Error("Drop view read failed", "view", v.ID, "address", v.collection.Address, "error", err)
		metrics.ErrorsTotal.WithLabelValues("drop").Inc()
		v.notifier.Error(MsgFailure, 0)
	}
}

// readPrice takes the display price of the first claim condition
func (v *View) readPrice(ctx context.Context) error {
	start := time.Now()
	conditions, err := v.contract.ClaimConditions(ctx)
	if err == nil && len(conditions) == 0 {
		err = chain.ErrNoClaimCondition
	}
	observeRead("price", start, err)

	v.mu.Lock()
	defer v.mu.Unlock()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	v.pricePending = false
	if err != nil {
		v.priceFailed = true
		return fmt.Errorf("price read: %w", err)
	}
	v.priceFailed = false
	v.supply.Price = conditions[0].DisplayValue
	v.supply.CurrencySymbol = conditions[0].Currency.Symbol
	return nil
}

// readSupply counts unclaimed and claimed tokens and reads the total supply
func (v *View) readSupply(ctx context.Context) error {
	start := time.Now()
	unclaimed, claimed, total, err := v.fetchSupply(ctx)
	observeRead("supply", start, err)

	v.mu.Lock()
	defer v.mu.Unlock()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	v.supplyPending = false
	if err != nil {
		v.supplyFailed = true
		return fmt.Errorf("supply read: %w", err)
	}
	v.supplyFailed = false
	v.supply.Unclaimed = big.NewInt(int64(len(unclaimed)))
	v.supply.Claimed = big.NewInt(int64(len(claimed)))
	v.supply.TotalSupply = total
	return nil
}

func (v *View) fetchSupply(ctx context.Context) ([]chain.Token, []chain.Token, *big.Int, error) {
	unclaimed, err := v.contract.Unclaimed(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	claimed, err := v.contract.Claimed(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	total, err := v.contract.TotalSupply(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return unclaimed, claimed, total, nil
}

func observeRead(read string, start time.Time, err error) {
	metrics.ChainReadDuration.WithLabelValues(read).Observe(time.Since(start).Seconds())
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.ChainReads.WithLabelValues(read, outcome).Inc()
}
