package api

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"math/big"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront/internal/content"
	"storefront/internal/drop"
	"storefront/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Gallery lists the unclaimed tokens of a drop contract
type Gallery interface {
	UnclaimedNFTs(ctx context.Context, address string, limit int) ([]models.NFT, *big.Int, error)
}

// Dependencies are the collaborators the handlers need
type Dependencies struct {
	Loader   *content.Loader
	Images   *content.ImageResolver
	Resolver drop.Resolver
	Wallet   drop.Wallet
	Gallery  Gallery

	ViewOptions drop.Options
	ViewTTL     time.Duration
	// MaxViews caps mounted views; zero means no limit
	MaxViews int

	// Brand is shown in the page header
	Brand string
}

// Server represents the HTTP server
// Serves drop pages, their JSON state, health checks and Prometheus metrics
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	deps       Dependencies
	views      *ViewRegistry

	// views outlive the request that mounted them
	baseCtx    context.Context
	cancelBase context.CancelFunc
}

// NewServer creates a new server instance listening on host:port.
// An empty host listens on every interface.
func NewServer(host string, port int, deps Dependencies) *Server {
	mux := http.NewServeMux()

	if deps.ViewTTL <= 0 {
		deps.ViewTTL = 10 * time.Minute
	}
	if deps.Brand == "" {
		deps.Brand = "PAPAFAM"
	}

	baseCtx, cancel := context.WithCancel(context.Background())

	s := &Server{
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(host, strconv.Itoa(port)),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		mux:        mux,
		deps:       deps,
		views:      NewViewRegistry(deps.ViewTTL, deps.MaxViews),
		baseCtx:    baseCtx,
		cancelBase: cancel,
	}

	// Register all HTTP routes
	s.registerRoutes()

	return s
}

// Handler exposes the routes for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.mux
}

// registerRoutes sets up all HTTP routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/metrics", s.handleMetrics())

	// Drop pages
	s.mux.HandleFunc("/nft/", s.handleDropRoutes)

	// JSON endpoints
	s.mux.HandleFunc("/api/collections/", s.handleGetCollection)
	s.mux.HandleFunc("/api/views/", s.handleGetView)
	s.mux.HandleFunc("/api/drops/", s.handleUnclaimed)
}

// handleDropRoutes routes drop page sub-endpoints
func (s *Server) handleDropRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/nft/"), "/")
	parts := strings.Split(path, "/")

	// GET /nft/{slug}
	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleMountView(w, r, parts[0])
		return
	}

	if len(parts) < 3 || parts[1] != "views" {
		s.renderNotFound(w)
		return
	}
	slug, viewID := parts[0], parts[2]

	// GET /nft/{slug}/views/{id}
	if len(parts) == 3 {
		if r.Method != http.MethodGet {
			s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleRenderView(w, r, slug, viewID)
		return
	}

	// POST /nft/{slug}/views/{id}/{action}
	if len(parts) == 4 {
		if r.Method != http.MethodPost {
			s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleViewAction(w, r, slug, viewID, parts[3])
		return
	}

	s.renderNotFound(w)
}

// Start starts the HTTP server in a goroutine
// Returns immediately after starting the server
func (s *Server) Start() error {
	go func() {
		slog.Info("HTTP server starting",
			"addr", s.httpServer.Addr,
			"endpoints", []string{"/", "/health", "/metrics", "/nft/{slug}", "/api/collections/{slug}", "/api/views/{id}", "/api/drops/{address}/unclaimed"},
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Give the server a moment to start
	time.Sleep(100 * time.Millisecond)

	return nil
}

// Shutdown gracefully shuts down the HTTP server and closes mounted views
// Waits for active connections to close or context to timeout
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("HTTP server shutting down...", "views", s.views.Len())
	err := s.httpServer.Shutdown(ctx)
	s.Close()
	return err
}

// Close cancels every mounted view without touching the listener
func (s *Server) Close() {
	s.cancelBase()
	s.views.Close()
}
