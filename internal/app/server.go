package app

import (
	"context"
	"fmt"
	"log"

	"mentorhub/cfg"
	"mentorhub/internal/service/booking"
	"mentorhub/internal/service/dashboard"
	"mentorhub/internal/service/offering"
	"mentorhub/internal/service/review"
	"mentorhub/internal/service/user"
	"mentorhub/pkg/cache"
	"mentorhub/pkg/db"
	"mentorhub/pkg/logger"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// Server holds all application dependencies
type Server struct {
	config   *cfg.Config
	router   *gin.Engine
	logger   *logger.AppLogger
	db       *db.SQLClient
	cache    cache.Cache
	shutdown func(context.Context) error

	// internal services
	userService      *user.Service
	offeringService  *offering.Service
	bookingService   *booking.Service
	reviewService    *review.Service
	dashboardService *dashboard.Service
}

// NewServer creates and initializes a new server instance
func NewServer(ctx context.Context, config *cfg.Config) (*Server, error) {
	s := &Server{
		config: config,
	}

	shutdown, err := setupObservability(ctx, &config.Observability)
	if err != nil {
		return nil, fmt.Errorf("observability setup: %w", err)
	}
	s.shutdown = shutdown

	s.logger = logger.NewLogger(config.AppEnv)
	s.logger.Info(ctx, "Initializing server...")

	if err := s.initDatabase(); err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}

	if err := s.initCache(); err != nil {
		return nil, fmt.Errorf("cache init: %w", err)
	}

	if err := s.initServicesAndRoutes(); err != nil {
		return nil, fmt.Errorf("services init: %w", err)
	}

	s.logger.Info(ctx, "Server initialized successfully")
	return s, nil
}

func (s *Server) initDatabase() error {
	pg := s.config.Postgres
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		pg.User, pg.Password, pg.Host, pg.Port, pg.DBName, pg.SSLMode,
	)

	dbClient, err := db.NewSQLClient("postgres", dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	s.db = dbClient

	if err := runMigrations(dsn); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	return nil
}

func (s *Server) initCache() error {
	addr := s.config.Redis.Host + ":" + s.config.Redis.Port
	s.cache = cache.NewRedisCache(addr)
	return nil
}

func (s *Server) initServicesAndRoutes() error {
	refNode, err := snowflake.NewNode(1)
	if err != nil {
		return fmt.Errorf("snowflake node: %w", err)
	}

	userRepo := user.NewRepository(s.db)
	s.userService = user.NewService(userRepo, s.cache, s.logger)

	offeringRepo := offering.NewRepository(s.db)
	s.offeringService = offering.NewService(offeringRepo, s.cache, s.logger)

	bookingRepo := booking.NewRepository(s.db)
	s.bookingService = booking.NewService(bookingRepo, refNode, s.config.Booking.OverlapBufferMinutes, s.logger)

	reviewRepo := review.NewRepository(s.db)
	s.reviewService = review.NewService(reviewRepo, s.logger)

	dashboardRepo := dashboard.NewRepository(s.db)
	s.dashboardService = dashboard.NewService(dashboardRepo, s.logger)

	r := gin.New()
	r.Use(gin.Recovery())
	routes := NewRoutes(r)
	routes.setupInfraRoutes()
	routes.setupUserRoutes(s.userService)
	routes.setupOfferingRoutes(s.offeringService)
	routes.setupBookingRoutes(s.bookingService)
	routes.setupReviewRoutes(s.reviewService)
	routes.setupDashboardRoutes(s.dashboardService)

	s.router = r
	return nil
}

// Run starts the HTTP server
func (s *Server) Run(addr string) error {
	log.Printf("Server listening on %s", addr)
	return s.router.Run(addr)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("database shutdown: %w", err)
		}
	}
	if s.shutdown != nil {
		if err := s.shutdown(ctx); err != nil {
			return fmt.Errorf("observability shutdown: %w", err)
		}
	}
	return nil
}
