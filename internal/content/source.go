// Package content loads drop collections from the headless content store.
package content

import (
	"context"
	"errors"

	"storefront/internal/models"
)

// ErrNotFound is returned when no collection document matches a slug
var ErrNotFound = errors.New("collection not found")

// Source is a content store backend able to answer the collection queries
type Source interface {
	// Collection returns the single collection document with the given slug,
	// creator expanded inline. Returns ErrNotFound when there is none.
	Collection(ctx context.Context, slug string) (*models.Collection, error)

	// Collections lists all collection documents (slug and title at least)
	Collections(ctx context.Context) ([]models.Collection, error)

	// Name returns the backend name for logging
	Name() string
}

// Pinger is implemented by sources that can report their health
type Pinger interface {
	Ping(ctx context.Context) error
}
