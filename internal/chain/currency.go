package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// NativeTokenAddress is the sentinel currency address for the chain's native token
var NativeTokenAddress = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

const nativeDecimals = 18

// Currency describes how a claim price is denominated
type Currency struct {
	Address  common.Address
	Symbol   string
	Decimals uint8
}

// IsNative reports whether the price is paid in the native token
func (c Currency) IsNative() bool {
	return c.Address == NativeTokenAddress
}

// DisplayValue formats an amount in the currency's smallest unit
func (c Currency) DisplayValue(amount *big.Int) string {
	return FormatUnits(amount, c.Decimals)
}

// FormatUnits renders amount / 10^decimals without trailing zeros ("0.01")
func FormatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return ""
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}

// currency resolves the metadata of a claim currency. The native token needs
// no call; ERC-20 tokens are asked for decimals and symbol.
func (d *Drop) currency(ctx context.Context, address common.Address) (Currency, error) {
	if address == NativeTokenAddress || address == (common.Address{}) {
		return Currency{Address: NativeTokenAddress, Symbol: d.nativeSymbol, Decimals: nativeDecimals}, nil
	}

	token := bind.NewBoundContract(address, erc20ABI, d.caller, nil, nil)
	opts := &bind.CallOpts{Context: ctx}

	var out []interface{}
	if err := token.Call(opts, &out, "decimals"); err != nil {
		return Currency{}, fmt.Errorf("failed to read decimals of %s: %w", address.Hex(), err)
	}
	decimals := out[0].(uint8)

	out = nil
	if err := token.Call(opts, &out, "symbol"); err != nil {
		return Currency{}, fmt.Errorf("failed to read symbol of %s: %w", address.Hex(), err)
	}
	symbol := out[0].(string)

	return Currency{Address: address, Symbol: symbol, Decimals: decimals}, nil
}
