package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"storefront/internal/drop"
	"storefront/internal/notify"
)

// viewEntry is one mounted page: its view model and its notifications
type viewEntry struct {
	slug    string
	view    *drop.View
	toaster *notify.Toaster
}

// ViewRegistry holds mounted views until they go unused for the ttl.
// Evicted views are closed, which cancels their pending reads and mints.
type ViewRegistry struct {
	cache *ttlcache.Cache[string, *viewEntry]
}

// NewViewRegistry creates a registry and starts its expiry loop. Past
// maxViews mounted views the least recently used one is evicted; zero means
// no limit.
func NewViewRegistry(ttl time.Duration, maxViews int) *ViewRegistry {
	options := []ttlcache.Option[string, *viewEntry]{
		ttlcache.WithTTL[string, *viewEntry](ttl),
	}
	if maxViews > 0 {
		options = append(options, ttlcache.WithCapacity[string, *viewEntry](uint64(maxViews)))
	}
	cache := ttlcache.New[string, *viewEntry](options...)

	cache.OnEviction(func(ctx context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, *viewEntry]) {
		entry := item.Value()
		entry.view.Close()
		slog.Debug("Drop view closed", "view", item.Key(), "slug", entry.slug, "reason", reason)
	})

	go cache.Start()

	return &ViewRegistry{cache: cache}
}

func (r *ViewRegistry) add(entry *viewEntry) {
	r.cache.Set(entry.view.ID, entry, ttlcache.DefaultTTL)
}

// get returns a live view and extends its ttl
func (r *ViewRegistry) get(id string) (*viewEntry, bool) {
	item := r.cache.Get(id)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

// Len returns the number of mounted views
func (r *ViewRegistry) Len() int {
	return r.cache.Len()
}

// Close closes every view and stops the expiry loop
func (r *ViewRegistry) Close() {
	r.cache.DeleteAll()
	r.cache.Stop()
}
