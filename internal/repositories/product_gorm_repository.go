package repositories

import (
	"fmt"
	"strings"

	"teslo/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

func imagesInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("product_images.id ASC")
}

func genderScope(gender string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if gender == "" {
			return db
		}
		return db.Where("gender = ? OR gender = ?", gender, models.GenderUnisex)
	}
}

// Create inserts the product and its images.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Omit("User").Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", translateError(err))
	}
	return nil
}

// List retrieves one page of products ordered by id.
func (r *GORMProductRepository) List(filter ProductFilter) ([]models.Product, int64, error) {
	var total int64
	if err := r.db.Model(&models.Product{}).Scopes(genderScope(filter.Gender)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", translateError(err))
	}

	var products []models.Product
	err := r.db.Scopes(genderScope(filter.Gender)).
		Preload("Images", imagesInOrder).
		Preload("User").
		Order("id ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", translateError(err))
	}
	return products, total, nil
}

// GetByID retrieves a single product by its ID, images and owner included.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Images", imagesInOrder).Preload("User").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, translateError(err))
	}
	return &product, nil
}

// GetByTitleOrSlug retrieves a product whose upper-cased title equals the
// upper-cased term or whose slug equals the lower-cased term.
func (r *GORMProductRepository) GetByTitleOrSlug(term string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Images", imagesInOrder).Preload("User").
		Where("UPPER(title) = ? OR slug = ?", strings.ToUpper(term), strings.ToLower(term)).
		First(&product).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get product by term %s: %w", term, translateError(err))
	}
	return &product, nil
}

// GetForUpdate retrieves the product row alone.
func (r *GORMProductRepository) GetForUpdate(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, translateError(err))
	}
	return &product, nil
}

// Update saves the product and, when imageURLs is not nil, swaps its image
// set, all inside one transaction. Any failure rolls back every statement,
// so a failed save never leaves the images half replaced.
func (r *GORMProductRepository) Update(product *models.Product, imageURLs []string) (err error) {
	tx := r.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	committed := false
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if !committed {
			tx.Rollback()
		}
	}()

	if imageURLs != nil {
		if err = tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete images of product %s: %w", product.ID, translateError(err))
		}
		product.Images = models.NewProductImages(imageURLs)
	} else {
		var current []models.ProductImage
		if err = imagesInOrder(tx).Where("product_id = ?", product.ID).Find(&current).Error; err != nil {
			return fmt.Errorf("failed to load images of product %s: %w", product.ID, translateError(err))
		}
		product.Images = current
	}

	if err = tx.Omit(clause.Associations).Save(product).Error; err != nil {
		return fmt.Errorf("failed to update product: %w", translateError(err))
	}

	if imageURLs != nil && len(product.Images) > 0 {
		for i := range product.Images {
			product.Images[i].ProductID = product.ID
		}
		if err = tx.Create(&product.Images).Error; err != nil {
			return fmt.Errorf("failed to create images of product %s: %w", product.ID, translateError(err))
		}
	}

	if err = tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit product update: %w", translateError(err))
	}
	committed = true
	return nil
}

// Delete removes a product. Its images go with it through the foreign key.
func (r *GORMProductRepository) Delete(product *models.Product) error {
	res := r.db.Delete(&models.Product{}, "id = ?", product.ID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for deletion: %w", product.ID, ErrRecordNotFound)
	}
	return nil
}

// DeleteAll removes every product and returns how many rows went away.
func (r *GORMProductRepository) DeleteAll() (int64, error) {
	res := r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Product{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete all products: %w", translateError(res.Error))
	}
	return res.RowsAffected, nil
}
