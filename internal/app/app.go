package app

import (
	"errors"
	"fmt"
	"time"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/handlers"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// App is the wired catalog service.
type App struct {
	Fiber    *fiber.App
	db       *gorm.DB
	mqClient *rabbitmq.Client
}

// New opens the configured store, connects to RabbitMQ when a URL is set and
// registers all routes.
func New(cfg *config.Config) (*App, error) {
	a := &App{}

	productRepo, err := a.openProductRepository(cfg)
	if err != nil {
		return nil, err
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		a.mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			a.Close()
			return nil, err
		}
		publisher = a.mqClient
	} else {
		log.Info().Msg("RABBITMQ_URL not set, product events will not be published")
	}

	productService := services.NewProductService(productRepo, publisher)
	productHandler := handlers.NewProductHandler(productService, cfg.RequestTimeout)

	a.Fiber = fiber.New()
	a.Fiber.Use(recover.New())
	a.Fiber.Use(logger.New())

	api := a.Fiber.Group("/api")
	productHandler.RegisterRoutes(api)

	a.Fiber.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"time":      time.Now().Format(time.RFC3339),
			"database":  cfg.DatabaseDriver,
			"publisher": a.mqClient != nil,
		})
	})

	return a, nil
}

func (a *App) openProductRepository(cfg *config.Config) (repositories.ProductRepository, error) {
	if cfg.DatabaseDriver == config.DriverMemory {
		log.Warn().Msg("using in-memory product store, data is lost on shutdown")
		return repositories.NewMemoryProductRepository(), nil
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	a.db = db
	log.Info().Str("driver", cfg.DatabaseDriver).Msg("database connected")
	return repositories.NewGORMProductRepository(db), nil
}

// Close releases the database and RabbitMQ connections.
func (a *App) Close() error {
	var errs []error
	if a.mqClient != nil {
		if err := a.mqClient.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
