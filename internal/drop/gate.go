package drop

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"storefront/internal/models"
)

// Eligibility is the derived state of the mint button
type Eligibility string

const (
	Loading     Eligibility = "loading"
	Unavailable Eligibility = "unavailable"
	SoldOut     Eligibility = "sold-out"
	SignedOut   Eligibility = "signed-out"
	Ready       Eligibility = "ready"
)

// State is everything the gate and the page need from one view at one instant
type State struct {
	Collection models.Collection
	Supply     models.SupplySnapshot

	Address   common.Address
	Connected bool

	PricePending  bool
	SupplyPending bool
	Minting       bool

	// Set when a read finished with an error and its values stayed absent
	PriceFailed  bool
	SupplyFailed bool
}

// Loading reports whether any read or the mint is in flight
func (s State) Loading() bool {
	return s.PricePending || s.SupplyPending || s.Minting
}

// Gate derives the mint eligibility. Checks run in priority order and absent
// supply degrades to Loading, or Unavailable once its read has failed. A failed
// price read does not block minting: the claim reads the active condition again.
func Gate(s State) Eligibility {
	if s.Loading() {
		return Loading
	}
	if s.Supply.Claimed == nil || s.Supply.TotalSupply == nil {
		if s.SupplyFailed {
			return Unavailable
		}
		return Loading
	}
	if s.Supply.SoldOut() {
		return SoldOut
	}
	if !s.Connected {
		return SignedOut
	}
	if s.Supply.Price == "" && !s.PriceFailed {
		return Loading
	}
	return Ready
}

// ButtonLabel is the mint button text for a state
func ButtonLabel(s State) string {
	switch Gate(s) {
	case Loading:
		return "Loading..."
	case Unavailable:
		return "Unavailable"
	case SoldOut:
		return "SOLD OUT"
	case SignedOut:
		return "Sign In to Mint"
	default:
		if s.Supply.Price == "" {
			return "Mint NFT"
		}
		return fmt.Sprintf("Mint NFT (%s %s)", s.Supply.Price, s.Supply.CurrencySymbol)
	}
}

// CanMint reports whether the mint button is enabled
func CanMint(s State) bool {
	return Gate(s) == Ready
}
