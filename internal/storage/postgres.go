package storage

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{
		pool: pool,
	}, nil
}

// EnsureSchema creates the documents table when missing
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// GetCollectionDocument returns the collection with the given slug and its
// creator document, resolved from the creator reference in one statement
func (r *PostgresRepository) GetCollectionDocument(ctx context.Context, slug string) (json.RawMessage, json.RawMessage, error) {
	query := `
		SELECT c.body, cr.body
		FROM documents c
		LEFT JOIN documents cr ON cr.id = c.body->'creator'->>'_ref'
		WHERE c.type = 'collection' AND c.slug = $1
		LIMIT 1
	`

	var collectionJSON, creatorJSON []byte
	err := r.pool.QueryRow(ctx, query, slug).Scan(&collectionJSON, &creatorJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get collection document: %w", err)
	}

	return collectionJSON, creatorJSON, nil
}

// ListCollectionDocuments lists all collections ordered by slug
func (r *PostgresRepository) ListCollectionDocuments(ctx context.Context) ([]CollectionDocument, error) {
	query := `
		SELECT c.body, cr.body
		FROM documents c
		LEFT JOIN documents cr ON cr.id = c.body->'creator'->>'_ref'
		WHERE c.type = 'collection'
		ORDER BY c.slug ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection documents: %w", err)
	}
	defer rows.Close()

	var docs []CollectionDocument
	for rows.Next() {
		var collectionJSON, creatorJSON []byte
		if err := rows.Scan(&collectionJSON, &creatorJSON); err != nil {
			return nil, fmt.Errorf("failed to scan collection document: %w", err)
		}
		docs = append(docs, CollectionDocument{
			Collection: collectionJSON,
			Creator:    creatorJSON,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collection documents: %w", err)
	}

	return docs, nil
}

// SaveDocuments upserts multiple documents in a transaction
func (r *PostgresRepository) SaveDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO documents (id, type, slug, body)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET type = EXCLUDED.type, slug = EXCLUDED.slug, body = EXCLUDED.body, updated_at = now()
	`

	for _, doc := range docs {
		if _, err := tx.Exec(ctx, query, doc.ID, doc.Type, nullIfEmpty(doc.Slug), []byte(doc.Body)); err != nil {
			return fmt.Errorf("failed to save document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Debug("Documents saved", "count", len(docs))
	return nil
}

// Ping checks if the database connection is alive
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
