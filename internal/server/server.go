package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"bistro-pos/internal/cart"
	"bistro-pos/internal/catalog"
	"bistro-pos/internal/config"
	"bistro-pos/internal/database"
	"bistro-pos/internal/domain"
	"bistro-pos/internal/events"
	custommiddleware "bistro-pos/internal/middleware"
	"bistro-pos/internal/repository"
	"bistro-pos/internal/service"
	"bistro-pos/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const requestTimeout = 20 * time.Second

type Server struct {
	*http.Server
	config    *config.Config
	logger    *zap.Logger
	db        *sql.DB
	redis     *redis.Client
	publisher events.Publisher
	registry  *cart.Registry
}

// NewServer wires the register API. redisClient and publisher may be nil;
// without Redis the catalog is read uncached and requests are not rate
// limited.
func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client, publisher events.Publisher) *Server {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	s := &Server{
		config:    cfg,
		logger:    logger,
		db:        db,
		redis:     redisClient,
		publisher: publisher,
		registry: cart.NewRegistry(logger, cart.WithAddListener(func(line domain.OrderLine) {
			logger.Debug("Item added to order",
				zap.String("item", line.Item.Name),
				zap.Int("quantity", line.Quantity),
			)
		})),
	}

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      s.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	cfg := s.config
	router := chi.NewRouter()

	router.Use(custommiddleware.ErrorHandlingMiddleware(s.logger))
	router.Use(custommiddleware.DefaultMiddlewareStack(requestTimeout)...)
	router.Use(custommiddleware.LoggingMiddleware(s.logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.Env == "development"))

	router.Get("/health", s.health)

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(s.db)
	orderRepo := repository.NewBreakerOrderRepository(
		repository.NewOrderRepository(s.db),
		repository.BreakerSettings{
			Name:                "order-store",
			ConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
			OpenTimeout:         cfg.Breaker.OpenTimeout,
		},
		s.logger,
	)

	// Initialize services
	catalogService := service.NewCatalogService(catalogRepo, s.catalogProvider(catalogRepo), s.logger)
	checkoutService := service.NewCheckoutService(orderRepo, s.publisher, cfg.Checkout, s.logger)
	paymentService := service.NewPaymentService(orderRepo)
	reportService := service.NewReportService(orderRepo)

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(catalogService, s.logger)
	cartHandler := transport.NewCartHandler(s.registry, catalogService, checkoutService, s.logger)
	paymentHandler := transport.NewPaymentHandler(paymentService, s.logger)
	reportHandler := transport.NewReportHandler(reportService, s.logger)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, cfg.JWT.Issuer, s.logger)
	backOffice := custommiddleware.RequireRole(custommiddleware.BackOfficeRoles, s.logger)

	router.Group(func(api chi.Router) {
		if s.redis != nil {
			api.Use(custommiddleware.RateLimitMiddleware(s.redis, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.Requests,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         "ratelimit",
			}, s.logger))
		}

		catalogHandler.RegisterRoutes(api, authMiddleware, backOffice)
		cartHandler.RegisterRoutes(api)
		paymentHandler.RegisterRoutes(api)
		reportHandler.RegisterRoutes(api, authMiddleware, backOffice)
	})

	return router
}

func (s *Server) catalogProvider(repo repository.CatalogRepository) catalog.Provider {
	if s.config.Catalog.Source == "static" {
		s.logger.Info("Serving the built-in sample menu")
		return catalog.NewStaticProvider(catalog.SampleMenu())
	}

	var cache catalog.Cache
	if s.redis != nil {
		cache = catalog.NewRedisCache(s.redis, s.config.Redis.CatalogCacheTTL)
	}
	return catalog.NewStoreProvider(repo, cache, s.logger)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"database": "ok"}
	status := http.StatusOK

	if s.db == nil {
		checks["database"] = "down"
		status = http.StatusServiceUnavailable
	} else if err := database.Health(r.Context(), s.db); err != nil {
		s.logger.Warn("Database health check failed", zap.Error(err))
		checks["database"] = "down"
		status = http.StatusServiceUnavailable
	}

	if s.redis != nil {
		checks["redis"] = "ok"
		if err := s.redis.Ping(r.Context()).Err(); err != nil {
			// the register keeps working without Redis
			s.logger.Warn("Redis health check failed", zap.Error(err))
			checks["redis"] = "degraded"
		}
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "unavailable"
	}
	custommiddleware.RespondWithJSON(w, status, map[string]interface{}{
		"status": overall,
		"checks": checks,
	})
}

// RunBackground starts the cart session reaper; it stops when ctx is done
func (s *Server) RunBackground(ctx context.Context) {
	go s.registry.RunReaper(ctx, s.config.Session.SweepInterval, s.config.Session.IdleTimeout)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if err := s.publisher.Close(); err != nil {
		s.logger.Error("Failed to close event publisher", zap.Error(err))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
