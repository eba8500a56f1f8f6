package models

import (
	"time"
)

// CollectionResponse represents a collection with resolved image URLs for API responses
type CollectionResponse struct {
	ID                string `json:"id"`
	Slug              string `json:"slug"`
	Title             string `json:"title"`
	Description       string `json:"description,omitempty"`
	NFTCollectionName string `json:"nft_collection_name,omitempty"`

	// Images (resolved from asset references)
	MainImageURL    string `json:"main_image_url,omitempty"`
	PreviewImageURL string `json:"preview_image_url,omitempty"`

	// Drop contract
	Address string `json:"address"`

	Creator CreatorResponse `json:"creator"`
}

// CreatorResponse represents the creator of a collection
type CreatorResponse struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	Slug    string `json:"slug,omitempty"`
}

// SupplyResponse represents the supply counters formatted for UI
type SupplyResponse struct {
	Claimed     string `json:"claimed,omitempty"`
	Unclaimed   string `json:"unclaimed,omitempty"`
	TotalSupply string `json:"total_supply,omitempty"`
	Price       string `json:"price,omitempty"`
	Currency    string `json:"currency,omitempty"`
}

// ViewResponse represents the state of one mounted drop view
type ViewResponse struct {
	ViewID     string             `json:"view_id"`
	Collection CollectionResponse `json:"collection"`
	Supply     SupplyResponse     `json:"supply"`

	// Wallet
	Address      string `json:"address,omitempty"`
	ShortAddress string `json:"short_address,omitempty"`

	// Mint gate
	Loading     bool   `json:"loading"`
	Eligibility string `json:"eligibility"` // loading, unavailable, sold-out, signed-out, ready
	ButtonLabel string `json:"button_label"`
	CanMint     bool   `json:"can_mint"`

	Notifications []NotificationResponse `json:"notifications"`
	MountedAt     time.Time              `json:"mounted_at"`
}

// UnclaimedResponse lists the unclaimed tokens of a drop
type UnclaimedResponse struct {
	Address   string `json:"address"`
	Unclaimed string `json:"unclaimed"`
	NFTs      []NFT  `json:"nfts"`
}

// NotificationResponse represents an active toast
type NotificationResponse struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
