package handlers

import (
	"teslo/internal/apperrors"
	"teslo/internal/services"

	"github.com/gofiber/fiber/v2"
)

// FilesHandler handles uploads and downloads of product images.
type FilesHandler struct {
	service *services.FilesService
}

// NewFilesHandler creates a new FilesHandler.
func NewFilesHandler(service *services.FilesService) *FilesHandler {
	return &FilesHandler{service: service}
}

// RegisterRoutes registers the file routes with the Fiber app.
func (h *FilesHandler) RegisterRoutes(router fiber.Router) {
	fileRoutes := router.Group("/files")
	fileRoutes.Get("/product/:imageName", h.HandleGetProductImage)
	fileRoutes.Post("/product", h.HandleUploadProductImage)
}

// HandleGetProductImage serves a stored image.
func (h *FilesHandler) HandleGetProductImage(c *fiber.Ctx) error {
	path, err := h.service.GetStaticProductImage(c.Params("imageName"))
	if err != nil {
		return err
	}
	return c.SendFile(path)
}

// HandleUploadProductImage stores the multipart field "file".
func (h *FilesHandler) HandleUploadProductImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.BadRequest("Make sure that the file is an image")
	}

	secureURL, err := h.service.SaveProductImage(fileHeader)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"secureUrl": secureURL})
}
