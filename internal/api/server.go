// Package api serves the catalog, the order feed and order submission over
// HTTP, and streams feed snapshots over a websocket.
package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"orderbuilder/internal/logging"
	"orderbuilder/internal/models"
	"orderbuilder/internal/monitoring"
)

const defaultHistoryLimit = 50

// CatalogStore lists the catalog.
type CatalogStore interface {
	List(ctx context.Context) ([]models.CatalogItem, error)
}

// OrderStore persists and queries submitted orders.
type OrderStore interface {
	Create(ctx context.Context, ingredientIDs []string) (*models.Order, error)
	Recent(ctx context.Context, limit int) (models.FeedSnapshot, error)
	FindByNumber(ctx context.Context, number int) (*models.Order, error)
	UpdateStatus(ctx context.Context, number int, status models.OrderStatus) (*models.Order, error)
}

// Server is the order backend.
type Server struct {
	router       *gin.Engine
	catalog      CatalogStore
	orders       OrderStore
	monitor      *monitoring.Monitor
	logger       *zap.Logger
	historyLimit int
	hub          *Hub
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logging.OrNop(logger)
	}
}

// WithMonitor replaces the stats monitor.
func WithMonitor(m *monitoring.Monitor) Option {
	return func(s *Server) {
		if m != nil {
			s.monitor = m
		}
	}
}

// WithHistoryLimit caps how many orders the feed returns.
func WithHistoryLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// NewServer creates a server backed by the given stores.
func NewServer(catalog CatalogStore, orders OrderStore, opts ...Option) *Server {
	s := &Server{
		router:       gin.Default(),
		catalog:      catalog,
		orders:       orders,
		monitor:      monitoring.NewMonitor(),
		logger:       zap.NewNop(),
		historyLimit: defaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = NewHub(s.logger)

	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.GET("/ingredients", s.handleListIngredients)
		api.GET("/stats", s.handleStats)

		api.POST("/orders", s.handleCreateOrder)
		api.GET("/orders/all", s.handleListOrders)
		api.GET("/orders/ws", s.handleFeedSocket)
		api.GET("/orders/:number", s.handleGetOrder)
		api.PUT("/orders/:number/status", s.handleUpdateStatus)
	}
}

// Router returns the Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Hub returns the feed websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Close disconnects every feed subscriber.
func (s *Server) Close() {
	s.hub.Close()
}

// broadcastFeed pushes the latest snapshot to every feed subscriber.
func (s *Server) broadcastFeed(ctx context.Context) {
	snapshot, err := s.orders.Recent(ctx, s.historyLimit)
	if err != nil {
		s.logger.Warn("feed snapshot for broadcast", zap.Error(err))
		return
	}
	s.hub.Broadcast(feedResponse{Success: true, FeedSnapshot: snapshot})
}
