package chain

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

func tokensClaimedLog(t *testing.T, address, claimer, receiver common.Address, start, quantity int64) *types.Log {
	t.Helper()

	event := dropABI.Events["TokensClaimed"]
	data, err := event.Inputs.NonIndexed().Pack(big.NewInt(start), big.NewInt(quantity))
	require.NoError(t, err)

	return &types.Log{
		Address: address,
		Topics: []common.Hash{
			event.ID,
			common.BigToHash(big.NewInt(0)),
			common.BytesToHash(claimer.Bytes()),
			common.BytesToHash(receiver.Bytes()),
		},
		Data: data,
	}
}

func TestClaimResults(t *testing.T) {
	receiver := common.HexToAddress("0x9aB7d0C3b1e2F4a5C6d7E8f9A0b1C2d3E4f5A6b7")
	drop := newDrop(dropAddress, newFakeCaller(), nil, "ETH", nil)

	receipt := &types.Receipt{
		Status: types.ReceiptStatusSuccessful,
		Logs: []*types.Log{
			// Transfer from some other contract must be ignored
			{Address: common.HexToAddress("0x01"), Topics: []common.Hash{{0x01}}},
			tokensClaimedLog(t, dropAddress, receiver, receiver, 4, 2),
		},
	}

	results, err := drop.claimResults(receipt)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, int64(4), results[0].ID.Int64())
	require.Equal(t, int64(5), results[1].ID.Int64())
	require.Same(t, receipt, results[0].Receipt)
	require.Equal(t, results[1].ID, results[1].Token.ID)
}

func TestClaimResults_NoEvent(t *testing.T) {
	drop := newDrop(dropAddress, newFakeCaller(), nil, "ETH", nil)

	_, err := drop.claimResults(&types.Receipt{Status: types.ReceiptStatusSuccessful})
	require.ErrorIs(t, err, ErrNoClaimEvent)
}

func TestClaimTo_RequiresBackend(t *testing.T) {
	drop := newDrop(dropAddress, newFakeCaller(), nil, "ETH", nil)

	_, err := drop.ClaimTo(context.Background(), nil, common.Address{}, 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no transaction backend")
}
