package services

import (
	"errors"
	"fmt"

	"teslo/internal/apperrors"
	"teslo/internal/models"
	"teslo/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPageLimit = 10

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
}

// ProductPage is one page of the catalog listing.
type ProductPage struct {
	Count    int64                  `json:"count"`
	Pages    int64                  `json:"pages"`
	Products []*models.PlainProduct `json:"products"`
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

// CreateProduct saves a product with its images, owned by owner.
func (s *ProductService) CreateProduct(req models.CreateProductRequest, owner *models.User) (*models.PlainProduct, error) {
	product := req.Product()
	product.Images = models.NewProductImages(req.Images)
	product.UserID = owner.ID
	product.User = owner
	product.NormalizeSlug()

	if err := s.repo.Create(product); err != nil {
		return nil, s.handleDBExceptions(err)
	}

	publishEvent(s.publisher, CatalogEvent{Event: EventProductCreated, ProductID: product.ID, UserID: owner.ID})
	return product.Plain(), nil
}

// GetAllProducts returns one page of products. A gender filter also matches
// unisex products.
func (s *ProductService) GetAllProducts(query models.PaginationQuery) (*ProductPage, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	products, total, err := s.repo.List(repositories.ProductFilter{Limit: limit, Offset: offset, Gender: query.Gender})
	if err != nil {
		return nil, s.handleDBExceptions(err)
	}

	page := &ProductPage{
		Count:    total,
		Pages:    (total + int64(limit) - 1) / int64(limit),
		Products: make([]*models.PlainProduct, 0, len(products)),
	}
	for i := range products {
		page.Products = append(page.Products, products[i].Plain())
	}
	return page, nil
}

// FindOne looks a product up by id when term is a UUID, else by title or slug.
func (s *ProductService) FindOne(term string) (*models.Product, error) {
	var (
		product *models.Product
		err     error
	)
	if _, parseErr := uuid.Parse(term); parseErr == nil {
		product, err = s.repo.GetByID(term)
	} else {
		product, err = s.repo.GetByTitleOrSlug(term)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("Product with id: %s not found", term))
		}
		return nil, s.handleDBExceptions(err)
	}
	return product, nil
}

// FindOnePlain is FindOne with the images flattened to URLs.
func (s *ProductService) FindOnePlain(term string) (*models.PlainProduct, error) {
	product, err := s.FindOne(term)
	if err != nil {
		return nil, err
	}
	return product.Plain(), nil
}

// UpdateProduct merges req onto the product and saves it in one
// transaction, replacing the images when req carries a list. The acting
// user becomes the owner of the product.
func (s *ProductService) UpdateProduct(id string, req models.UpdateProductRequest, user *models.User) (*models.PlainProduct, error) {
	product, err := s.repo.GetForUpdate(id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("Product with id: %s not found", id))
		}
		return nil, s.handleDBExceptions(err)
	}

	req.ApplyTo(product)
	product.NormalizeSlug()
	product.UserID = user.ID
	product.User = user

	if err := s.repo.Update(product, req.Images); err != nil {
		return nil, s.handleDBExceptions(err)
	}

	publishEvent(s.publisher, CatalogEvent{Event: EventProductUpdated, ProductID: id, UserID: user.ID})
	return s.FindOnePlain(id)
}

// DeleteProduct removes the product identified by id.
func (s *ProductService) DeleteProduct(id string) error {
	product, err := s.FindOne(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(product); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return apperrors.NotFound(fmt.Sprintf("Product with id: %s not found", id))
		}
		return s.handleDBExceptions(err)
	}

	publishEvent(s.publisher, CatalogEvent{Event: EventProductDeleted, ProductID: product.ID})
	return nil
}

// DeleteAllProducts removes every product. It is meant for administrative
// resets only.
func (s *ProductService) DeleteAllProducts() (int64, error) {
	deleted, err := s.repo.DeleteAll()
	if err != nil {
		return 0, s.handleDBExceptions(err)
	}

	publishEvent(s.publisher, CatalogEvent{Event: EventProductsPurged, Count: deleted})
	return deleted, nil
}

func (s *ProductService) handleDBExceptions(err error) error {
	var dupErr *repositories.DuplicateKeyError
	if errors.As(err, &dupErr) {
		return apperrors.DuplicateKey(dupErr.Detail, err)
	}
	zap.L().Error("catalog persistence failure", zap.Error(err))
	return apperrors.Internal("Unexpected error, check logs", err)
}
