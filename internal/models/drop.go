package models

import (
	"math/big"
	"time"
)

// SupplySnapshot holds the counters and price read from the drop contract.
// Every field is reported independently and may be absent (nil / "").
// Claimed+Unclaimed is not required to equal TotalSupply.
type SupplySnapshot struct {
	Claimed     *big.Int `json:"claimed,omitempty"`
	Unclaimed   *big.Int `json:"unclaimed,omitempty"`
	TotalSupply *big.Int `json:"total_supply,omitempty"`

	// Price of the first claim condition, already formatted ("0.01")
	Price          string `json:"price,omitempty"`
	CurrencySymbol string `json:"currency_symbol,omitempty"`
}

// SoldOut reports whether claimed equals total supply. False while either
// counter is absent.
func (s SupplySnapshot) SoldOut() bool {
	if s.Claimed == nil || s.TotalSupply == nil {
		return false
	}
	return s.Claimed.Cmp(s.TotalSupply) == 0
}

// MintOutcome is the result of one claimed token. It is only logged.
type MintOutcome struct {
	TxHash      string         `json:"tx_hash"`
	BlockNumber uint64         `json:"block_number"`
	Status      uint64         `json:"status"`
	TokenID     *big.Int       `json:"token_id"`
	Metadata    *TokenMetadata `json:"metadata,omitempty"`
}

// NFT is one token of a drop with its display metadata
type NFT struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// TokenMetadata is the ERC-721 metadata JSON behind tokenURI
type TokenMetadata struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Image       string                   `json:"image,omitempty"`
	Attributes  []map[string]interface{} `json:"attributes,omitempty"`
}

// NotificationKind is the flavour of a transient notification
type NotificationKind string

const (
	NotificationLoading NotificationKind = "loading"
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is one toast shown on the drop page
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
	Duration  time.Duration    `json:"duration"` // 0 means until dismissed
}

// Expired reports whether the notification should no longer be shown
func (n Notification) Expired(now time.Time) bool {
	if n.Duration <= 0 {
		return false
	}
	return !now.Before(n.CreatedAt.Add(n.Duration))
}
