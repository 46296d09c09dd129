package main

import (
	"fmt"
	"log"
	"time"

	"gudang/internal/config"
	"gudang/internal/handlers"
	"gudang/internal/inventory"
	"gudang/internal/middleware"
	"gudang/internal/models"
	"gudang/internal/repositories"
	"gudang/internal/services"
	"gudang/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/afero"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// App bundles the HTTP server with the resources it owns.
type App struct {
	Fiber     *fiber.App
	Inventory *services.InventoryService
	Auth      *services.AuthService

	mq *rabbitmq.Client
	db *gorm.DB
}

// newApp wires repositories, services and handlers from cfg.
func newApp(cfg *config.Config) (*App, error) {
	a := &App{}

	repo, err := a.openSnapshotRepository(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		a.mq, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		publisher = a.mq
	} else {
		log.Println("RABBITMQ_URL is empty. Inventory events will not be published.")
	}

	a.Inventory = services.NewInventoryService(inventory.New(), repo, publisher)
	if cfg.AdminPasswordHash == "" {
		log.Println("ADMIN_PASSWORD_HASH is empty. Operator login is disabled.")
	}
	a.Auth = services.NewAuthService(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.JWTSecret, cfg.TokenTTL)

	if cfg.LoadOnStart {
		if err := a.loadOnStart(cfg, repo); err != nil {
			a.Close()
			return nil, err
		}
	}
	if cfg.SeedDemo {
		seedProducts(a.Inventory)
	}

	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"time":      time.Now().Format(time.RFC3339),
			"store":     cfg.StoreDriver,
			"products":  len(a.Inventory.Products()),
			"publisher": a.mq != nil,
		})
	})

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(a.Auth).RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(a.Auth))
	handlers.NewProductHandler(a.Inventory).RegisterRoutes(protected)
	handlers.NewInventoryHandler(a.Inventory).RegisterRoutes(protected)

	a.Fiber = app
	return a, nil
}

func (a *App) openSnapshotRepository(cfg *config.Config) (repositories.SnapshotRepository, error) {
	var dialector gorm.Dialector
	switch cfg.StoreDriver {
	case config.DriverJSON:
		return repositories.NewJSONFileRepository(afero.NewOsFs(), cfg.DataFile), nil
	case config.DriverMemory:
		return repositories.NewMemorySnapshotRepository(), nil
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseDSN)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.db = db

	repo := repositories.NewGORMSnapshotRepository(db)
	if err := repo.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return repo, nil
}

// loadOnStart loads the stored snapshot. A JSON file that does not exist yet is
// not an error: the inventory simply starts empty.
func (a *App) loadOnStart(cfg *config.Config, repo repositories.SnapshotRepository) error {
	if fileRepo, ok := repo.(*repositories.JSONFileRepository); ok {
		exists, err := fileRepo.Exists()
		if err != nil {
			return err
		}
		if !exists {
			log.Printf("No snapshot at %s yet. Starting with an empty inventory.", fileRepo.Path())
			return nil
		}
	}

	loaded, err := a.Inventory.Load()
	if err != nil {
		return err
	}
	log.Printf("Loaded %d products from the %s store", loaded, cfg.StoreDriver)
	return nil
}

// Close releases the message broker and database connections.
func (a *App) Close() {
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			log.Printf("Error closing RabbitMQ client: %v", err)
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			}
		}
	}
}

// seedProducts populates the inventory with the demonstration products.
func seedProducts(service *services.InventoryService) {
	laptop, err := models.NewElectronicProduct("Laptop", 1200.0, 10, 2)
	if err != nil {
		log.Printf("Error seeding product Laptop: %v", err)
		return
	}
	apple, err := models.NewPerishableProduct("Apple", 0.5, 100, "2024-09-01")
	if err != nil {
		log.Printf("Error seeding product Apple: %v", err)
		return
	}

	for _, p := range []models.Product{laptop, apple} {
		service.AddProduct(p)
		log.Printf("Seeded product: %s", p.Describe())
	}
}
