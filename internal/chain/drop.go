package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// claimConditionData mirrors the IDropClaimCondition.ClaimCondition tuple.
// Field order and types must match the ABI for abi.ConvertType.
type claimConditionData struct {
	StartTimestamp                 *big.Int
	MaxClaimableSupply             *big.Int
	SupplyClaimed                  *big.Int
	QuantityLimitPerTransaction    *big.Int
	WaitTimeInSecondsBetweenClaims *big.Int
	MerkleRoot                     [32]byte
	PricePerToken                  *big.Int
	Currency                       common.Address
}

// ClaimCondition is one claim phase of a drop with its price resolved
type ClaimCondition struct {
	ID                          *big.Int
	StartTime                   time.Time
	MaxClaimableSupply          *big.Int
	SupplyClaimed               *big.Int
	QuantityLimitPerTransaction *big.Int
	WaitInSeconds               *big.Int
	MerkleRoot                  common.Hash

	// Price per token in the currency's smallest unit
	Price    *big.Int
	Currency Currency

	// DisplayValue is Price formatted with the currency decimals ("0.01")
	DisplayValue string

	// raw currency address as stored on chain, passed back to claim
	rawCurrency common.Address
}

// Drop is a handle on one DropERC721 contract
type Drop struct {
	address      common.Address
	contract     *bind.BoundContract
	caller       bind.ContractCaller
	backend      Backend
	nativeSymbol string
	metadata     *MetadataFetcher
}

func newDrop(address common.Address, caller bind.ContractCaller, backend Backend, nativeSymbol string, metadata *MetadataFetcher) *Drop {
	var (
		transactor bind.ContractTransactor
		filterer   bind.ContractFilterer
	)
	if backend != nil {
		transactor, filterer = backend, backend
	}
	return &Drop{
		address:      address,
		contract:     bind.NewBoundContract(address, dropABI, caller, transactor, filterer),
		caller:       caller,
		backend:      backend,
		nativeSymbol: nativeSymbol,
		metadata:     metadata,
	}
}

// Address returns the contract address of the drop
func (d *Drop) Address() common.Address {
	return d.address
}

// ClaimConditions returns every claim condition of the drop in phase order
func (d *Drop) ClaimConditions(ctx context.Context) ([]ClaimCondition, error) {
	var out []interface{}
	if err := d.contract.Call(&bind.CallOpts{Context: ctx}, &out, "claimCondition"); err != nil {
		return nil, fmt.Errorf("failed to read claim condition range: %w", err)
	}
	startID := out[0].(*big.Int)
	count := out[1].(*big.Int)

	conditions := make([]ClaimCondition, 0, count.Int64())
	for i := int64(0); i < count.Int64(); i++ {
		id := new(big.Int).Add(startID, big.NewInt(i))
		condition, err := d.claimConditionByID(ctx, id)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, *condition)
	}

	return conditions, nil
}

// ActiveClaimCondition returns the claim condition currently in force
func (d *Drop) ActiveClaimCondition(ctx context.Context) (*ClaimCondition, error) {
	var out []interface{}
	if err := d.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getActiveClaimConditionId"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoClaimCondition, err)
	}
	return d.claimConditionByID(ctx, out[0].(*big.Int))
}

func (d *Drop) claimConditionByID(ctx context.Context, id *big.Int) (*ClaimCondition, error) {
	var out []interface{}
	if err := d.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getClaimConditionById", id); err != nil {
		return nil, fmt.Errorf("failed to read claim condition %s: %w", id, err)
	}
	data := *abi.ConvertType(out[0], new(claimConditionData)).(*claimConditionData)

	currency, err := d.currency(ctx, data.Currency)
	if err != nil {
		return nil, err
	}

	return &ClaimCondition{
		ID:                          new(big.Int).Set(id),
		StartTime:                   time.Unix(data.StartTimestamp.Int64(), 0).UTC(),
		MaxClaimableSupply:          data.MaxClaimableSupply,
		SupplyClaimed:               data.SupplyClaimed,
		QuantityLimitPerTransaction: data.QuantityLimitPerTransaction,
		WaitInSeconds:               data.WaitTimeInSecondsBetweenClaims,
		MerkleRoot:                  common.Hash(data.MerkleRoot),
		Price:                       data.PricePerToken,
		Currency:                    currency,
		DisplayValue:                currency.DisplayValue(data.PricePerToken),
		rawCurrency:                 data.Currency,
	}, nil
}

// TotalSupply returns the number of lazy-minted tokens (nextTokenIdToMint)
func (d *Drop) TotalSupply(ctx context.Context) (*big.Int, error) {
	return d.uint256(ctx, "nextTokenIdToMint")
}

// Claimed returns the tokens already claimed: ids [0, nextTokenIdToClaim)
func (d *Drop) Claimed(ctx context.Context) ([]Token, error) {
	claimed, err := d.uint256(ctx, "nextTokenIdToClaim")
	if err != nil {
		return nil, err
	}
	return d.tokenRange(new(big.Int), claimed), nil
}

// Unclaimed returns the tokens still claimable: ids [nextTokenIdToClaim, nextTokenIdToMint)
func (d *Drop) Unclaimed(ctx context.Context) ([]Token, error) {
	claimed, err := d.uint256(ctx, "nextTokenIdToClaim")
	if err != nil {
		return nil, err
	}
	minted, err := d.uint256(ctx, "nextTokenIdToMint")
	if err != nil {
		return nil, err
	}
	return d.tokenRange(claimed, minted), nil
}

// TokenURI returns the metadata URI of a token
func (d *Drop) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	var out []interface{}
	if err := d.contract.Call(&bind.CallOpts{Context: ctx}, &out, "tokenURI", tokenID); err != nil {
		return "", fmt.Errorf("failed to read tokenURI(%s): %w", tokenID, err)
	}
	return out[0].(string), nil
}

func (d *Drop) uint256(ctx context.Context, method string) (*big.Int, error) {
	var out []interface{}
	if err := d.contract.Call(&bind.CallOpts{Context: ctx}, &out, method); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", method, err)
	}
	return out[0].(*big.Int), nil
}

// tokenRange builds lazy tokens for ids [from, to)
func (d *Drop) tokenRange(from, to *big.Int) []Token {
	if to.Cmp(from) <= 0 {
		return []Token{}
	}
	n := new(big.Int).Sub(to, from).Int64()
	tokens := make([]Token, 0, n)
	for i := int64(0); i < n; i++ {
		tokens = append(tokens, Token{
			ID:   new(big.Int).Add(from, big.NewInt(i)),
			drop: d,
		})
	}
	return tokens
}
