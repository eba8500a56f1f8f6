package drop

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"storefront/internal/chain"
	"storefront/internal/models"
)

var (
	testDropAddress = "0xABC0000000000000000000000000000000000001"
	testWallet      = common.HexToAddress("0x9aB7d0C3b1e2F4a5C6d7E8f9A0b1C2d3E4f5A6b7")
)

func apeDrop() models.Collection {
	return models.Collection{
		ID:          "collection-ape",
		Title:       "Ape Drop",
		Description: "Cloned apes",
		Address:     testDropAddress,
		Slug:        models.Slug{Current: "bored-ape-clone"},
	}
}

func tokens(n int) []chain.Token {
	out := make([]chain.Token, n)
	for i := range out {
		out[i] = chain.Token{ID: big.NewInt(int64(i))}
	}
	return out
}

// fakeContract serves canned reads. A non-nil gate channel blocks the
// matching read until it is closed.
type fakeContract struct {
	mu sync.Mutex

	claimed, total int
	price          string
	symbol         string

	priceErr  error
	supplyErr error
	claimErr  error

	priceGate  chan struct{}
	supplyGate chan struct{}
	claimGate  chan struct{}

	claims      int
	receivers   []common.Address
	supplyReads int
}

func newFakeContract(claimed, total int) *fakeContract {
	return &fakeContract{claimed: claimed, total: total, price: "0.01", symbol: "ETH"}
}

func wait(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeContract) ClaimConditions(ctx context.Context) ([]chain.ClaimCondition, error) {
	if err := wait(ctx, f.priceGate); err != nil {
		return nil, err
	}
	if f.priceErr != nil {
		return nil, f.priceErr
	}
	return []chain.ClaimCondition{{
		DisplayValue: f.price,
		Currency:     chain.Currency{Address: chain.NativeTokenAddress, Symbol: f.symbol, Decimals: 18},
	}}, nil
}

func (f *fakeContract) Unclaimed(ctx context.Context) ([]chain.Token, error) {
	if err := wait(ctx, f.supplyGate); err != nil {
		return nil, err
	}
	if f.supplyErr != nil {
		return nil, f.supplyErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.supplyReads++
	return tokens(f.total - f.claimed), nil
}

func (f *fakeContract) Claimed(ctx context.Context) ([]chain.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return tokens(f.claimed), nil
}

func (f *fakeContract) TotalSupply(ctx context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return big.NewInt(int64(f.total)), nil
}

func (f *fakeContract) ClaimTo(ctx context.Context, opts *bind.TransactOpts, receiver common.Address, quantity int64) ([]chain.ClaimResult, error) {
	if err := wait(ctx, f.claimGate); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.claims++
	f.receivers = append(f.receivers, receiver)
	if f.claimErr != nil {
		return nil, f.claimErr
	}

	id := big.NewInt(int64(f.claimed))
	f.claimed++
	return []chain.ClaimResult{{
		Receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(100)},
		ID:      id,
		Token:   chain.Token{ID: id},
	}}, nil
}

func (f *fakeContract) claimCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.claims
}

type fakeResolver struct {
	contract Contract
	err      error
}

func (r fakeResolver) Drop(address string) (Contract, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.contract, nil
}

type fakeWallet struct {
	mu        sync.Mutex
	address   common.Address
	connected bool
	optsErr   error
}

func (w *fakeWallet) Address() (common.Address, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.address, w.connected
}

func (w *fakeWallet) Connect(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.address, w.connected = testWallet, true
	return nil
}

func (w *fakeWallet) Disconnect(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.connected = false
	return nil
}

func (w *fakeWallet) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	if w.optsErr != nil {
		return nil, w.optsErr
	}
	addr, ok := w.Address()
	if !ok {
		return nil, errors.New("not connected")
	}
	return &bind.TransactOpts{From: addr, Context: ctx}, nil
}

type toast struct {
	id        string
	kind      models.NotificationKind
	message   string
	duration  time.Duration
	dismissed bool
}

// recordingNotifier keeps every notification ever shown
type recordingNotifier struct {
	mu     sync.Mutex
	toasts []*toast
}

func (n *recordingNotifier) add(kind models.NotificationKind, message string, d time.Duration) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	t := &toast{id: fmt.Sprintf("t%d", len(n.toasts)), kind: kind, message: message, duration: d}
	n.toasts = append(n.toasts, t)
	return t.id
}

func (n *recordingNotifier) Loading(message string) string {
	return n.add(models.NotificationLoading, message, 0)
}

func (n *recordingNotifier) Success(message string, d time.Duration) string {
	return n.add(models.NotificationSuccess, message, d)
}

func (n *recordingNotifier) Error(message string, d time.Duration) string {
	return n.add(models.NotificationError, message, d)
}

func (n *recordingNotifier) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, t := range n.toasts {
		if t.id == id {
			t.dismissed = true
		}
	}
}

func (n *recordingNotifier) visible() []toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []toast
	for _, t := range n.toasts {
		if !t.dismissed {
			out = append(out, *t)
		}
	}
	return out
}

func (n *recordingNotifier) all() []toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]toast, len(n.toasts))
	for i, t := range n.toasts {
		out[i] = *t
	}
	return out
}
