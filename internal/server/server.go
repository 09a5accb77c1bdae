package server

import (
	"context"
	"fmt"
	"log"
	"net"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/handlers"
	"inventory/internal/middleware"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/internal/validation"
	"inventory/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Server owns every process-wide resource: the store, the optional event
// publisher and the Fiber app.
type Server struct {
	App            *fiber.App
	ProductService *services.ProductService

	cfg      *config.Config
	db       *gorm.DB
	mqClient *rabbitmq.Client
}

// New opens the store, connects the event publisher when configured, seeds the
// catalog and registers the routes. The returned server is not listening yet.
func New(cfg *config.Config) (*Server, error) {
	s := &Server{cfg: cfg}

	validator, err := validation.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize validator: %w", err)
	}

	// --- Repository ---
	var productRepo repositories.ProductRepository
	if cfg.DatabaseDriver == database.DriverMemory {
		productRepo = repositories.NewMockProductRepository()
		log.Println("Using in-memory product repository")
	} else {
		db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		s.db = db
		productRepo = repositories.NewGORMProductRepository(db)
	}

	// --- Event publisher ---
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			_ = s.Shutdown()
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		s.mqClient = mqClient
		events = mqClient
	} else {
		log.Println("RABBITMQ_URL is not set. Product events are disabled.")
	}

	s.ProductService = services.NewProductService(productRepo, validator, events)

	// --- Seed ---
	if cfg.SeedOnStartup {
		s.seed(context.Background())
	}

	// --- Fiber app ---
	s.App = fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})
	s.App.Use(recover.New())
	s.App.Use(logger.New())
	s.App.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	handlers.NewHomeHandler(s.ping).RegisterRoutes(s.App)
	handlers.NewProductHandler(s.ProductService, validator).RegisterRoutes(s.App)

	return s, nil
}

// seed fills an empty catalog. Failures are logged and do not stop startup.
func (s *Server) seed(ctx context.Context) {
	inserted, err := s.ProductService.SeedProducts(ctx, s.cfg.SeedProducts)
	switch {
	case err != nil:
		log.Printf("Error seeding products: %v", err)
	case inserted == 0:
		log.Println("Database already has data. Skipping seed.")
	default:
		log.Printf("Seeded %d products", inserted)
	}
}

func (s *Server) ping() error {
	if s.db == nil {
		return nil
	}
	return database.Ping(s.db)
}

// Listen serves HTTP on the configured port until Shutdown.
func (s *Server) Listen() error {
	log.Printf("Starting server on port %s", s.cfg.AppPort)
	return s.App.Listen(s.cfg.AppPort)
}

// Serve serves HTTP on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	log.Printf("Starting server on %s", ln.Addr())
	return s.App.Listener(ln)
}

// Shutdown stops the HTTP server and releases the publisher and the store.
func (s *Server) Shutdown() error {
	var errs []error
	if s.App != nil {
		if err := s.App.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("fiber shutdown: %w", err))
		}
	}
	if s.mqClient != nil {
		if err := s.mqClient.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.db != nil {
		if err := database.Close(s.db); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}
	return nil
}
