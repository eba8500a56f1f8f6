package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// fakeCaller answers eth_call for a set of contracts from canned handlers.
// Contracts must be registered before the first call.
type fakeCaller struct {
	contracts map[common.Address]*fakeContract
}

type fakeContract struct {
	abi      abi.ABI
	handlers map[string]func(args []interface{}) ([]interface{}, error)
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{contracts: make(map[common.Address]*fakeContract)}
}

func (f *fakeCaller) contract(address common.Address, parsed abi.ABI) *fakeContract {
	c, ok := f.contracts[address]
	if !ok {
		c = &fakeContract{abi: parsed, handlers: make(map[string]func([]interface{}) ([]interface{}, error))}
		f.contracts[address] = c
	}
	return c
}

func (c *fakeContract) returns(method string, values ...interface{}) *fakeContract {
	c.handlers[method] = func([]interface{}) ([]interface{}, error) { return values, nil }
	return c
}

func (c *fakeContract) handle(method string, fn func(args []interface{}) ([]interface{}, error)) *fakeContract {
	c.handlers[method] = fn
	return c
}

func (f *fakeCaller) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	if _, ok := f.contracts[contract]; ok {
		return []byte{0x60}, nil
	}
	return nil, nil
}

func (f *fakeCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	c, ok := f.contracts[*call.To]
	if !ok {
		return nil, fmt.Errorf("no contract at %s", call.To.Hex())
	}
	if len(call.Data) < 4 {
		return nil, fmt.Errorf("short call data")
	}
	method, err := c.abi.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}

	handler, ok := c.handlers[method.Name]
	if !ok {
		return nil, fmt.Errorf("execution reverted: %s not stubbed", method.Name)
	}
	args, err := method.Inputs.Unpack(call.Data[4:])
	if err != nil {
		return nil, err
	}
	values, err := handler(args)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(values...)
}

func ether(fraction string) *big.Int {
	v, ok := new(big.Int).SetString(fraction, 10)
	if !ok {
		panic("bad amount " + fraction)
	}
	return v
}

// stubDrop wires a drop contract with one native-priced claim condition
func stubDrop(caller *fakeCaller, address common.Address, claimed, minted int64, price *big.Int) *fakeContract {
	return caller.contract(address, dropABI).
		returns("nextTokenIdToClaim", big.NewInt(claimed)).
		returns("nextTokenIdToMint", big.NewInt(minted)).
		returns("claimCondition", big.NewInt(0), big.NewInt(1)).
		returns("getActiveClaimConditionId", big.NewInt(0)).
		returns("getClaimConditionById", claimConditionData{
			StartTimestamp:                 big.NewInt(1650000000),
			MaxClaimableSupply:             big.NewInt(minted),
			SupplyClaimed:                  big.NewInt(claimed),
			QuantityLimitPerTransaction:    big.NewInt(1),
			WaitTimeInSecondsBetweenClaims: big.NewInt(0),
			PricePerToken:                  price,
			Currency:                       NativeTokenAddress,
		})
}
