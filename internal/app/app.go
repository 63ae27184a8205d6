// Package app wires repositories, services and handlers into a Fiber app.
package app

import (
	"encoding/json"
	"fmt"
	"time"

	"teslo/internal/config"
	"teslo/internal/handlers"
	"teslo/internal/presence"
	"teslo/internal/repositories"
	"teslo/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// New builds the HTTP and WebSocket application. publisher may be nil, in
// which case no catalog events are sent.
func New(cfg *config.Config, db *gorm.DB, publisher services.EventPublisher) (*fiber.App, *presence.Registry) {
	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpires)
	productService := services.NewProductService(productRepo, publisher)
	filesService := services.NewFilesService(cfg.StaticDir, cfg.HostAPI)
	seedService := services.NewSeedService(productService)
	registry := presence.NewRegistry()

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// --- API Routes ---
	api := app.Group("/api")
	handlers.NewAuthHandler(authService).RegisterRoutes(api)
	handlers.NewProductHandler(productService, authService).RegisterRoutes(api)
	handlers.NewFilesHandler(filesService).RegisterRoutes(api)
	handlers.NewSeedHandler(seedService, authService).RegisterRoutes(api)

	// --- WebSocket ---
	handlers.NewMessagesWsHandler(authService, registry).RegisterRoutes(app)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app, registry
}

// CatalogRelay returns a consumer handler that forwards catalog events to
// every WebSocket client as catalog-updated.
func CatalogRelay(registry *presence.Registry) func(routingKey string, body []byte) error {
	return func(routingKey string, body []byte) error {
		if !json.Valid(body) {
			return fmt.Errorf("catalog event %q is not valid JSON", routingKey)
		}
		registry.Broadcast(presence.EventCatalogUpdated, json.RawMessage(body))
		return nil
	}
}
