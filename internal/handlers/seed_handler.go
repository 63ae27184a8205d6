package handlers

import (
	"teslo/internal/middleware"
	"teslo/internal/models"
	"teslo/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SeedHandler resets the catalog.
type SeedHandler struct {
	service     *services.SeedService
	authService *services.AuthService
}

// NewSeedHandler creates a new SeedHandler.
func NewSeedHandler(service *services.SeedService, authService *services.AuthService) *SeedHandler {
	return &SeedHandler{service: service, authService: authService}
}

// RegisterRoutes registers the seed route with the Fiber app. Only admins
// may run it.
func (h *SeedHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/seed", middleware.Auth(h.authService, models.RoleAdmin), h.HandleRunSeed)
}

// HandleRunSeed replaces every product with the seed set.
func (h *SeedHandler) HandleRunSeed(c *fiber.Ctx) error {
	user := middleware.UserFrom(c)
	inserted, err := h.service.RunSeed(user)
	if err != nil {
		return err
	}
	zap.L().Info("seed executed", zap.String("user_id", user.ID), zap.Int("products", inserted))
	return c.SendString("SEED EXECUTED")
}
