package repositories

import (
	"teslo/internal/models"
)

// ProductFilter selects a page of products.
type ProductFilter struct {
	Limit  int
	Offset int
	Gender string
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// Create inserts the product together with its images.
	Create(product *models.Product) error
	// List returns one page of products, images loaded, and the total number
	// of rows matching the filter.
	List(filter ProductFilter) ([]models.Product, int64, error)
	// GetByID returns the product with its images and owner.
	GetByID(id string) (*models.Product, error)
	// GetByTitleOrSlug matches title case-insensitively or slug exactly.
	GetByTitleOrSlug(term string) (*models.Product, error)
	// GetForUpdate returns the bare product row, without relations.
	GetForUpdate(id string) (*models.Product, error)
	// Update saves the product in one transaction. A non-nil imageURLs
	// replaces every image of the product; nil keeps the current set.
	Update(product *models.Product, imageURLs []string) error
	Delete(product *models.Product) error
	DeleteAll() (int64, error)
}
