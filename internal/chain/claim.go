package chain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"storefront/internal/models"
)

// ClaimResult is one token obtained by a claim transaction
type ClaimResult struct {
	Receipt *types.Receipt
	ID      *big.Int
	Token   Token
}

// Metadata fetches the claimed token's metadata
func (r ClaimResult) Metadata(ctx context.Context) (*models.TokenMetadata, error) {
	return r.Token.Metadata(ctx)
}

// tokensClaimed mirrors the TokensClaimed event for UnpackLog
type tokensClaimed struct {
	ClaimConditionIndex *big.Int
	Claimer             common.Address
	Receiver            common.Address
	StartTokenId        *big.Int
	QuantityClaimed     *big.Int
}

// ClaimTo claims quantity tokens for receiver under the active claim
// condition, paying from opts.From. It waits for the transaction to be mined
// and returns one result per claimed token.
func (d *Drop) ClaimTo(ctx context.Context, opts *bind.TransactOpts, receiver common.Address, quantity int64) ([]ClaimResult, error) {
	if d.backend == nil {
		return nil, fmt.Errorf("chain: drop %s has no transaction backend", d.address.Hex())
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("chain: invalid claim quantity %d", quantity)
	}

	condition, err := d.ActiveClaimCondition(ctx)
	if err != nil {
		return nil, err
	}

	qty := big.NewInt(quantity)
	total := new(big.Int).Mul(condition.Price, qty)

	txOpts := *opts
	txOpts.Context = ctx
	txOpts.Value = nil
	if condition.Currency.IsNative() {
		txOpts.Value = total
	} else if total.Sign() > 0 {
		if err := d.ensureAllowance(ctx, opts, condition.Currency.Address, total); err != nil {
			return nil, err
		}
	}

	tx, err := d.contract.Transact(&txOpts, "claim",
		receiver,
		qty,
		condition.rawCurrency,
		condition.Price,
		[][32]byte{},
		big.NewInt(0),
	)
	if err != nil {
		return nil, fmt.Errorf("claim transaction failed: %w", err)
	}

	slog.Info("Claim submitted",
		"drop", d.address.Hex(),
		"receiver", receiver.Hex(),
		"quantity", quantity,
		"tx", tx.Hash().Hex(),
	)

	receipt, err := bind.WaitMined(ctx, d.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for claim %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s", ErrClaimReverted, tx.Hash().Hex())
	}

	return d.claimResults(receipt)
}

// claimResults expands the TokensClaimed event of a receipt into one result
// per token
func (d *Drop) claimResults(receipt *types.Receipt) ([]ClaimResult, error) {
	eventID := dropABI.Events["TokensClaimed"].ID

	for _, log := range receipt.Logs {
		if log.Address != d.address || len(log.Topics) == 0 || log.Topics[0] != eventID {
			continue
		}

		var event tokensClaimed
		if err := d.contract.UnpackLog(&event, "TokensClaimed", *log); err != nil {
			return nil, fmt.Errorf("failed to decode TokensClaimed: %w", err)
		}

		n := event.QuantityClaimed.Int64()
		results := make([]ClaimResult, 0, n)
		for i := int64(0); i < n; i++ {
			id := new(big.Int).Add(event.StartTokenId, big.NewInt(i))
			results = append(results, ClaimResult{
				Receipt: receipt,
				ID:      id,
				Token:   Token{ID: id, drop: d},
			})
		}
		return results, nil
	}

	return nil, ErrNoClaimEvent
}

// ensureAllowance approves the drop to pull amount of an ERC-20 currency
func (d *Drop) ensureAllowance(ctx context.Context, opts *bind.TransactOpts, currency common.Address, amount *big.Int) error {
	token := bind.NewBoundContract(currency, erc20ABI, d.backend, d.backend, d.backend)

	var out []interface{}
	if err := token.Call(&bind.CallOpts{Context: ctx}, &out, "allowance", opts.From, d.address); err != nil {
		return fmt.Errorf("failed to read allowance: %w", err)
	}
	if out[0].(*big.Int).Cmp(amount) >= 0 {
		return nil
	}

	approveOpts := *opts
	approveOpts.Context = ctx
	approveOpts.Value = nil
	tx, err := token.Transact(&approveOpts, "approve", d.address, amount)
	if err != nil {
		return fmt.Errorf("approve transaction failed: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, d.backend, tx)
	if err != nil {
		return fmt.Errorf("failed waiting for approval %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("approval %s reverted", tx.Hash().Hex())
	}

	slog.Debug("Currency allowance approved", "currency", currency.Hex(), "amount", amount)
	return nil
}
