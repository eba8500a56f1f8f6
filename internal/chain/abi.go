package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// DropERC721ABI is the subset of the thirdweb DropERC721 ABI the storefront uses.
const DropERC721ABI = `[
	{
		"inputs": [],
		"name": "claimCondition",
		"outputs": [
			{"internalType": "uint256", "name": "currentStartId", "type": "uint256"},
			{"internalType": "uint256", "name": "count", "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "getActiveClaimConditionId",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"internalType": "uint256", "name": "_conditionId", "type": "uint256"}],
		"name": "getClaimConditionById",
		"outputs": [
			{
				"components": [
					{"internalType": "uint256", "name": "startTimestamp", "type": "uint256"},
					{"internalType": "uint256", "name": "maxClaimableSupply", "type": "uint256"},
					{"internalType": "uint256", "name": "supplyClaimed", "type": "uint256"},
					{"internalType": "uint256", "name": "quantityLimitPerTransaction", "type": "uint256"},
					{"internalType": "uint256", "name": "waitTimeInSecondsBetweenClaims", "type": "uint256"},
					{"internalType": "bytes32", "name": "merkleRoot", "type": "bytes32"},
					{"internalType": "uint256", "name": "pricePerToken", "type": "uint256"},
					{"internalType": "address", "name": "currency", "type": "address"}
				],
				"internalType": "struct IDropClaimCondition.ClaimCondition",
				"name": "condition",
				"type": "tuple"
			}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "nextTokenIdToMint",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "nextTokenIdToClaim",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"internalType": "uint256", "name": "_tokenId", "type": "uint256"}],
		"name": "tokenURI",
		"outputs": [{"internalType": "string", "name": "", "type": "string"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "address", "name": "_receiver", "type": "address"},
			{"internalType": "uint256", "name": "_quantity", "type": "uint256"},
			{"internalType": "address", "name": "_currency", "type": "address"},
			{"internalType": "uint256", "name": "_pricePerToken", "type": "uint256"},
			{"internalType": "bytes32[]", "name": "_proofs", "type": "bytes32[]"},
			{"internalType": "uint256", "name": "_proofMaxQuantityPerTransaction", "type": "uint256"}
		],
		"name": "claim",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "internalType": "uint256", "name": "claimConditionIndex", "type": "uint256"},
			{"indexed": true, "internalType": "address", "name": "claimer", "type": "address"},
			{"indexed": true, "internalType": "address", "name": "receiver", "type": "address"},
			{"indexed": false, "internalType": "uint256", "name": "startTokenId", "type": "uint256"},
			{"indexed": false, "internalType": "uint256", "name": "quantityClaimed", "type": "uint256"}
		],
		"name": "TokensClaimed",
		"type": "event"
	}
]`

// ERC20ABI covers the currency reads and the approval needed to pay in ERC-20.
const ERC20ABI = `[
	{
		"inputs": [],
		"name": "decimals",
		"outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "symbol",
		"outputs": [{"internalType": "string", "name": "", "type": "string"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "address", "name": "owner", "type": "address"},
			{"internalType": "address", "name": "spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "address", "name": "spender", "type": "address"},
			{"internalType": "uint256", "name": "amount", "type": "uint256"}
		],
		"name": "approve",
		"outputs": [{"internalType": "bool", "name": "", "type": "bool"}],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

var (
	dropABI  = mustParseABI(DropERC721ABI)
	erc20ABI = mustParseABI(ERC20ABI)
)

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(err)
	}
	return parsed
}
