package storage

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when no document matches
var ErrNotFound = errors.New("document not found")

// Document is one content document as stored in the documents table.
// Body is the full JSON document, references kept as {"_ref": id}.
type Document struct {
	ID   string          `json:"_id"`
	Type string          `json:"_type"`
	Slug string          `json:"slug,omitempty"`
	Body json.RawMessage `json:"body"`
}

// Repository defines the interface for all storage operations
type Repository interface {
	// Collections
	GetCollectionDocument(ctx context.Context, slug string) (collection, creator json.RawMessage, err error)
	ListCollectionDocuments(ctx context.Context) ([]CollectionDocument, error)

	// Documents
	SaveDocuments(ctx context.Context, docs []Document) error

	// Health & Maintenance
	EnsureSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// CollectionDocument pairs a collection body with its expanded creator body
type CollectionDocument struct {
	Collection json.RawMessage
	Creator    json.RawMessage // nil when the reference is dangling
}
