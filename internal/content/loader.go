package content

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"storefront/internal/metrics"
	"storefront/internal/models"
)

// Loader fetches one collection per request. No cache, no retry.
type Loader struct {
	source Source
}

// NewLoader creates a loader over a content source
func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// Collection loads the collection with the given slug.
// Returns ErrNotFound when the store has no matching document.
func (l *Loader) Collection(ctx context.Context, slug string) (*models.Collection, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		metrics.CollectionLoads.WithLabelValues("not_found").Inc()
		return nil, ErrNotFound
	}

	start := time.Now()
	collection, err := l.source.Collection(ctx, slug)
	metrics.CollectionLoadDuration.Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, ErrNotFound):
		metrics.CollectionLoads.WithLabelValues("not_found").Inc()
		slog.Debug("Collection not found", "slug", slug, "source", l.source.Name())
		return nil, ErrNotFound
	case err != nil:
		metrics.CollectionLoads.WithLabelValues("error").Inc()
		metrics.ErrorsTotal.WithLabelValues("content").Inc()
		return nil, err
	case collection == nil:
		metrics.CollectionLoads.WithLabelValues("not_found").Inc()
		return nil, ErrNotFound
	}

	metrics.CollectionLoads.WithLabelValues("found").Inc()
	slog.Debug("Collection loaded",
		"slug", slug,
		"title", collection.Title,
		"address", collection.Address,
		"source", l.source.Name(),
	)
	return collection, nil
}

// Collections lists all collections known to the store
func (l *Loader) Collections(ctx context.Context) ([]models.Collection, error) {
	return l.source.Collections(ctx)
}

// Ping checks the source when it supports health checks
func (l *Loader) Ping(ctx context.Context) error {
	if p, ok := l.source.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// SourceName returns the configured backend name
func (l *Loader) SourceName() string {
	return l.source.Name()
}
