package handlers

import (
	"teslo/internal/apperrors"
	"teslo/internal/middleware"
	"teslo/internal/models"
	"teslo/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/check-auth-status", middleware.Auth(h.authService), h.HandleCheckAuthStatus)
	authRoutes.Get("/private", middleware.Auth(h.authService), h.HandlePrivate)
	authRoutes.Get("/private2", middleware.Auth(h.authService, models.RoleSuperUser, models.RoleAdmin), h.HandlePrivate2)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		zap.L().Debug("error parsing register request body", zap.Error(err))
		return apperrors.BadRequest("Invalid request body")
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	resp, err := h.authService.RegisterUser(req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginUserRequest
	if err := c.BodyParser(&req); err != nil {
		zap.L().Debug("error parsing login request body", zap.Error(err))
		return apperrors.BadRequest("Invalid request body")
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	resp, err := h.authService.LoginUser(req)
	if err != nil {
		zap.L().Info("login failed", zap.String("email", req.Email), zap.Error(err))
		return err
	}
	return c.JSON(resp)
}

// HandleCheckAuthStatus returns the caller with a fresh token.
func (h *AuthHandler) HandleCheckAuthStatus(c *fiber.Ctx) error {
	resp, err := h.authService.CheckAuthStatus(middleware.UserFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// HandlePrivate echoes the caller and the request headers.
func (h *AuthHandler) HandlePrivate(c *fiber.Ctx) error {
	user := middleware.UserFrom(c)
	return c.JSON(fiber.Map{
		"ok":      true,
		"message": "Hola Mundo Private",
		"user":    user,
		"email":   user.Email,
		"headers": c.GetReqHeaders(),
	})
}

// HandlePrivate2 is reachable by super users and admins only.
func (h *AuthHandler) HandlePrivate2(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok":   true,
		"user": middleware.UserFrom(c),
	})
}
