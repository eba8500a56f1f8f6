package models

// Slug is the content store's slug object ({"current": "..."})
type Slug struct {
	Current string `json:"current"`
}

// Reference points at another document or asset in the content store
type Reference struct {
	Ref  string `json:"_ref"`
	Type string `json:"_type,omitempty"`
}

// Image is an image field; Asset.Ref is opaque and resolved to a URL
// by the image resolver
type Image struct {
	Asset Reference `json:"asset"`
}

// Creator is the expanded creator reference of a collection
type Creator struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Address string `json:"address"` // Creator wallet
	Slug    Slug   `json:"slug"`
}

// Collection describes one NFT drop as stored in the content store
type Collection struct {
	// Identification
	ID   string `json:"_id"`
	Slug Slug   `json:"slug"`

	// Display
	Title             string `json:"title"`
	Description       string `json:"description"`
	NFTCollectionName string `json:"nftCollectionName"`
	MainImage         Image  `json:"mainImage"`
	PreviewImage      Image  `json:"previewImage"`

	// On-chain drop contract
	Address string `json:"address"`

	Creator Creator `json:"creator"`
}
