package handlers

import (
	"fmt"
	"net/url"

	"teslo/internal/apperrors"
	"teslo/internal/middleware"
	"teslo/internal/models"
	"teslo/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service     *services.ProductService
	authService *services.AuthService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, authService *services.AuthService) *ProductHandler {
	return &ProductHandler{
		service:     service,
		authService: authService,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:term", h.HandleGetProduct)
	productRoutes.Post("/", middleware.Auth(h.authService), h.HandleCreateProduct)
	productRoutes.Patch("/:id", middleware.Auth(h.authService), h.HandleUpdateProduct)
	productRoutes.Delete("/:id", middleware.Auth(h.authService, models.RoleAdmin), h.HandleDeleteProduct)
}

// HandleGetProducts returns one page of the catalog.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	var query models.PaginationQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.BadRequest("Invalid query parameters")
	}
	if err := validateStruct(query); err != nil {
		return err
	}

	page, err := h.service.GetAllProducts(query)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// HandleGetProduct looks a product up by id, title or slug.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	term := c.Params("term")
	if unescaped, err := url.PathUnescape(term); err == nil {
		term = unescaped
	}
	product, err := h.service.FindOnePlain(term)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a product owned by the caller.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		zap.L().Debug("error parsing product request body", zap.Error(err))
		return apperrors.BadRequest("Invalid request body")
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	product, err := h.service.CreateProduct(req, middleware.UserFrom(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct applies a partial update to a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		zap.L().Debug("error parsing product request body", zap.Error(err))
		return apperrors.BadRequest("Invalid request body")
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	product, err := h.service.UpdateProduct(id, req, middleware.UserFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a product and its images.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteProduct(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product with id: %s deleted successfully", id),
	})
}

func uuidParam(c *fiber.Ctx, name string) (string, error) {
	value := c.Params(name)
	if _, err := uuid.Parse(value); err != nil {
		return "", apperrors.BadRequest("Validation failed (uuid is expected)")
	}
	return value, nil
}
