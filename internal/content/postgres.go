package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/storage"
)

// PostgresSource serves collections from the documents table
type PostgresSource struct {
	repository storage.Repository
}

// NewPostgresSource creates a source over a storage repository
func NewPostgresSource(repository storage.Repository) *PostgresSource {
	return &PostgresSource{repository: repository}
}

// Collection returns the collection with the given slug
func (s *PostgresSource) Collection(ctx context.Context, slug string) (*models.Collection, error) {
	collectionJSON, creatorJSON, err := s.repository.GetCollectionDocument(ctx, slug)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return decodeCollection(collectionJSON, creatorJSON)
}

// Collections lists every collection
func (s *PostgresSource) Collections(ctx context.Context) ([]models.Collection, error) {
	docs, err := s.repository.ListCollectionDocuments(ctx)
	if err != nil {
		return nil, err
	}

	collections := make([]models.Collection, 0, len(docs))
	for _, doc := range docs {
		collection, err := decodeCollection(doc.Collection, doc.Creator)
		if err != nil {
			return nil, err
		}
		collections = append(collections, *collection)
	}
	return collections, nil
}

// Ping checks the database
func (s *PostgresSource) Ping(ctx context.Context) error {
	return s.repository.Ping(ctx)
}

// Name returns the backend name
func (s *PostgresSource) Name() string {
	return "postgres"
}

// decodeCollection decodes a stored collection body and replaces its creator
// reference with the expanded creator document
func decodeCollection(collectionJSON, creatorJSON json.RawMessage) (*models.Collection, error) {
	var collection models.Collection
	if err := json.Unmarshal(collectionJSON, &collection); err != nil {
		return nil, fmt.Errorf("failed to decode collection document: %w", err)
	}

	collection.Creator = models.Creator{}
	if len(creatorJSON) > 0 && !isNull(creatorJSON) {
		if err := json.Unmarshal(creatorJSON, &collection.Creator); err != nil {
			return nil, fmt.Errorf("failed to decode creator of %s: %w", collection.ID, err)
		}
	}

	return &collection, nil
}
