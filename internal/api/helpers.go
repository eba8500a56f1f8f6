package api

import (
	"math/big"
	"time"

	"storefront/internal/content"
	"storefront/internal/drop"
	"storefront/internal/models"
)

// ShortAddress abbreviates a wallet address to its first and last five
// characters ("0x9aB...5A6b7")
func ShortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:5] + "..." + address[len(address)-5:]
}

// formatCount renders an optional counter, "" when absent
func formatCount(n *big.Int) string {
	if n == nil {
		return ""
	}
	return n.String()
}

// BuildCollectionResponse resolves image references for display
func BuildCollectionResponse(collection models.Collection, images *content.ImageResolver) models.CollectionResponse {
	return models.CollectionResponse{
		ID:                collection.ID,
		Slug:              collection.Slug.Current,
		Title:             collection.Title,
		Description:       collection.Description,
		NFTCollectionName: collection.NFTCollectionName,
		MainImageURL:      images.URL(collection.MainImage),
		PreviewImageURL:   images.URL(collection.PreviewImage),
		Address:           collection.Address,
		Creator: models.CreatorResponse{
			ID:      collection.Creator.ID,
			Name:    collection.Creator.Name,
			Address: collection.Creator.Address,
			Slug:    collection.Creator.Slug.Current,
		},
	}
}

// BuildSupplyResponse formats the supply counters
func BuildSupplyResponse(supply models.SupplySnapshot) models.SupplyResponse {
	return models.SupplyResponse{
		Claimed:     formatCount(supply.Claimed),
		Unclaimed:   formatCount(supply.Unclaimed),
		TotalSupply: formatCount(supply.TotalSupply),
		Price:       supply.Price,
		Currency:    supply.CurrencySymbol,
	}
}

// BuildViewResponse creates the full state of one mounted view
func BuildViewResponse(
	id string,
	state drop.State,
	notifications []models.Notification,
	images *content.ImageResolver,
	mountedAt time.Time,
) models.ViewResponse {
	response := models.ViewResponse{
		ViewID:        id,
		Collection:    BuildCollectionResponse(state.Collection, images),
		Supply:        BuildSupplyResponse(state.Supply),
		Loading:       state.Loading(),
		Eligibility:   string(drop.Gate(state)),
		ButtonLabel:   drop.ButtonLabel(state),
		CanMint:       drop.CanMint(state),
		Notifications: make([]models.NotificationResponse, len(notifications)),
		MountedAt:     mountedAt,
	}

	if state.Connected {
		response.Address = state.Address.Hex()
		response.ShortAddress = ShortAddress(response.Address)
	}

	for i, n := range notifications {
		response.Notifications[i] = models.NotificationResponse{
			ID:      n.ID,
			Kind:    string(n.Kind),
			Message: n.Message,
		}
	}

	return response
}
