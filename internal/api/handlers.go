package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/content"
	"storefront/internal/drop"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/notify"
)

const refreshSeconds = 1

const (
	defaultGalleryLimit = 24
	maxGalleryLimit     = 100
)

// handleIndex returns basic service information
// GET / - Returns service info and available endpoints
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	info := map[string]interface{}{
		"service":     "NFT Drop Storefront",
		"version":     "1.0.0",
		"description": "Storefront for fixed-supply NFT drops",
		"content":     s.deps.Loader.SourceName(),
		"endpoints": map[string]string{
			"GET /":                                  "This page - Service information",
			"GET /health":                            "Health check endpoint",
			"GET /metrics":                           "Prometheus metrics for monitoring",
			"GET /nft/{slug}":                        "Mount a drop page for a collection",
			"GET /nft/{slug}/views/{id}":             "Render a mounted drop page",
			"POST /nft/{slug}/views/{id}/connect":    "Connect the wallet",
			"POST /nft/{slug}/views/{id}/disconnect": "Disconnect the wallet",
			"POST /nft/{slug}/views/{id}/mint":       "Mint one token",
			"GET /api/collections/{slug}":            "Collection document with resolved images",
			"GET /api/views/{id}":                    "State of a mounted drop page",
			"GET /api/drops/{address}/unclaimed":     "Unclaimed NFTs of a drop with name and image",
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

// handleHealth returns health status
// GET /health - Health check for monitoring systems
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if err := s.deps.Loader.Ping(r.Context()); err != nil {
		slog.Error("Content source unhealthy", "source", s.deps.Loader.SourceName(), "error", err)
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	health := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"service":   "drop-storefront",
		"views":     s.views.Len(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(health)
}

// handleMetrics returns Prometheus metrics
// GET /metrics - Prometheus scraping endpoint
func (s *Server) handleMetrics() http.Handler {
	return promhttp.Handler()
}

// =============================================================================
// DROP PAGES
// =============================================================================

// handleMountView loads the collection and mounts a new view for it
// GET /nft/{slug}
func (s *Server) handleMountView(w http.ResponseWriter, r *http.Request, slug string) {
	collection, err := s.deps.Loader.Collection(r.Context(), slug)
	if errors.Is(err, content.ErrNotFound) {
		s.renderNotFound(w)
		return
	}
	if err != nil {
		slog.Error("Failed to load collection", "slug", slug, "error", err)
		s.sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	toaster := notify.NewToaster()
	view := drop.NewView(s.baseCtx, *collection, s.deps.Resolver, s.deps.Wallet, toaster, s.deps.ViewOptions)
	entry := &viewEntry{slug: slug, view: view, toaster: toaster}
	s.views.add(entry)
	view.Mount()

	slog.Debug("Drop view mounted", "view", view.ID, "slug", slug, "address", collection.Address)

	s.renderView(w, entry)
}

// handleRenderView re-renders a mounted view
// GET /nft/{slug}/views/{id}
func (s *Server) handleRenderView(w http.ResponseWriter, r *http.Request, slug, viewID string) {
	entry, ok := s.lookupView(slug, viewID)
	if !ok {
		s.renderNotFound(w)
		return
	}
	s.renderView(w, entry)
}

// handleViewAction runs a wallet or mint action and redirects back to the view
// POST /nft/{slug}/views/{id}/{connect|disconnect|mint}
func (s *Server) handleViewAction(w http.ResponseWriter, r *http.Request, slug, viewID, action string) {
	entry, ok := s.lookupView(slug, viewID)
	if !ok {
		s.renderNotFound(w)
		return
	}

	switch action {
	case "connect":
		if err := entry.view.Connect(r.Context()); err != nil {
			slog.Error("Wallet connect failed", "view", viewID, "error", err)
			entry.toaster.Error(drop.MsgFailure, 0)
		}
	case "disconnect":
		if err := entry.view.Disconnect(r.Context()); err != nil {
			slog.Error("Wallet disconnect failed", "view", viewID, "error", err)
			entry.toaster.Error(drop.MsgFailure, 0)
		}
	case "mint":
		// the claim outlives the request; closing the view cancels it
		if err := entry.view.StartMint(context.WithoutCancel(r.Context())); err != nil {
			slog.Debug("Mint not started", "view", viewID, "error", err)
		}
	default:
		s.sendError(w, "Unknown action", http.StatusNotFound)
		return
	}

	http.Redirect(w, r, viewPath(slug, viewID), http.StatusSeeOther)
}

func (s *Server) lookupView(slug, viewID string) (*viewEntry, bool) {
	entry, ok := s.views.get(viewID)
	if !ok || entry.slug != slug {
		return nil, false
	}
	return entry, true
}

// pageData feeds the drop template
type pageData struct {
	View           models.ViewResponse
	ViewPath       string
	Brand          string
	Refresh        bool
	RefreshSeconds int
}

func (s *Server) viewResponse(entry *viewEntry) models.ViewResponse {
	return BuildViewResponse(
		entry.view.ID,
		entry.view.State(),
		entry.toaster.Active(time.Now()),
		s.deps.Images,
		entry.view.MountedAt(),
	)
}

func (s *Server) renderView(w http.ResponseWriter, entry *viewEntry) {
	response := s.viewResponse(entry)
	data := pageData{
		View:     response,
		ViewPath: viewPath(entry.slug, entry.view.ID),
		Brand:    s.deps.Brand,
		// keep polling while something can still change on its own
		Refresh:        response.Loading || len(response.Notifications) > 0,
		RefreshSeconds: refreshSeconds,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "drop", data); err != nil {
		slog.Error("Failed to render drop page", "view", entry.view.ID, "error", err)
	}
}

func (s *Server) renderNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := pageTemplates.ExecuteTemplate(w, "not_found", nil); err != nil {
		slog.Error("Failed to render not found page", "error", err)
	}
}

func viewPath(slug, viewID string) string {
	return fmt.Sprintf("/nft/%s/views/%s", slug, viewID)
}

// =============================================================================
// JSON ENDPOINTS
// =============================================================================

// handleGetCollection returns a collection with resolved image URLs
// GET /api/collections/{slug}
func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/collections/"), "/")
	if slug == "" {
		s.sendError(w, "Collection slug required", http.StatusBadRequest)
		return
	}

	collection, err := s.deps.Loader.Collection(r.Context(), slug)
	if errors.Is(err, content.ErrNotFound) {
		s.sendError(w, "Collection not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("Failed to load collection", "slug", slug, "error", err)
		s.sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(BuildCollectionResponse(*collection, s.deps.Images))
}

// handleGetView returns the state of a mounted view
// GET /api/views/{id}
func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	viewID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/views/"), "/")
	entry, ok := s.views.get(viewID)
	if !ok {
		s.sendError(w, "View not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.viewResponse(entry))
}

// handleUnclaimed lists the unclaimed NFTs of a drop contract
// GET /api/drops/{address}/unclaimed?limit=N
func (s *Server) handleUnclaimed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/drops/"), "/"), "/")
	if len(parts) != 2 || parts[1] != "unclaimed" {
		s.sendError(w, "Not found", http.StatusNotFound)
		return
	}
	address := parts[0]
	if !common.IsHexAddress(address) {
		s.sendError(w, "Invalid contract address", http.StatusBadRequest)
		return
	}
	if s.deps.Gallery == nil {
		s.sendError(w, "Gallery not configured", http.StatusServiceUnavailable)
		return
	}

	limit := defaultGalleryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.sendError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxGalleryLimit)
	}

	nfts, remaining, err := s.deps.Gallery.UnclaimedNFTs(r.Context(), address, limit)
	if err != nil {
		slog.Error("Failed to list unclaimed NFTs", "address", address, "error", err)
		s.sendError(w, "Failed to read drop", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.UnclaimedResponse{
		Address:   common.HexToAddress(address).Hex(),
		Unclaimed: formatCount(remaining),
		NFTs:      nfts,
	})
}

// sendError sends a JSON error response
func (s *Server) sendError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		metrics.ErrorsTotal.WithLabelValues("api").Inc()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	})
}
