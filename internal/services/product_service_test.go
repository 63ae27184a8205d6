package services_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"teslo/internal/apperrors"
	"teslo/internal/models"
	"teslo/internal/repositories"
	"teslo/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) List(filter repositories.ProductFilter) ([]models.Product, int64, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByTitleOrSlug(term string) (*models.Product, error) {
	args := m.Called(term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetForUpdate(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(product *models.Product, imageURLs []string) error {
	args := m.Called(product, imageURLs)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteAll() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockPublisher records published catalog events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

const productID = "0792600c-9370-48a7-887c-47bcf4618c8c"

var notFound = fmt.Errorf("lookup: %w", repositories.ErrRecordNotFound)

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := services.NewProductService(mockRepo, publisher)
	owner := &models.User{ID: "owner-1", FullName: "Owner"}

	mockRepo.On("Create", mock.MatchedBy(func(p *models.Product) bool {
		return p.Slug == "my_cool_shirt" && p.UserID == "owner-1" && len(p.Images) == 2
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Product).ID = productID
	}).Return(nil).Once()
	publisher.On("Publish", services.EventProductCreated, mock.MatchedBy(func(body []byte) bool {
		var ev services.CatalogEvent
		return json.Unmarshal(body, &ev) == nil && ev.ProductID == productID && ev.UserID == "owner-1"
	})).Return(nil).Once()

	product, err := service.CreateProduct(models.CreateProductRequest{
		Title:  "My Cool Shirt",
		Sizes:  []string{"M"},
		Gender: models.GenderMen,
		Images: []string{"a.jpg", "b.jpg"},
	}, owner)
	require.NoError(t, err)
	assert.Equal(t, productID, product.ID)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, product.Images)
	assert.Same(t, owner, product.User)

	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestProductService_CreateProductFailures(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	owner := &models.User{ID: "owner-1"}
	req := models.CreateProductRequest{Title: "Cap", Sizes: []string{}, Gender: models.GenderUnisex}

	mockRepo.On("Create", mock.Anything).
		Return(&repositories.DuplicateKeyError{Detail: "Key (title)=(Cap) already exists."}).Once()
	_, err := service.CreateProduct(req, owner)
	assert.Equal(t, apperrors.KindDuplicateKey, apperrors.KindOf(err))
	assert.EqualError(t, err, "Key (title)=(Cap) already exists.")

	mockRepo.On("Create", mock.Anything).Return(errors.New("database error")).Once()
	_, err = service.CreateProduct(req, owner)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
	assert.EqualError(t, err, "Unexpected error, check logs")

	mockRepo.AssertExpectations(t)
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	page := []models.Product{
		{ID: "1", Title: "A", Images: models.NewProductImages([]string{"a.jpg"})},
		{ID: "2", Title: "B"},
	}
	mockRepo.On("List", repositories.ProductFilter{Limit: 10, Offset: 20, Gender: "men"}).
		Return(page, int64(22), nil).Once()

	result, err := service.GetAllProducts(models.PaginationQuery{Limit: 10, Offset: 20, Gender: "men"})
	require.NoError(t, err)
	assert.Equal(t, int64(22), result.Count)
	assert.Equal(t, int64(3), result.Pages)
	require.Len(t, result.Products, 2)
	assert.Equal(t, []string{"a.jpg"}, result.Products[0].Images)
	assert.Equal(t, []string{}, result.Products[1].Images)

	// Defaults apply when nothing is supplied
	mockRepo.On("List", repositories.ProductFilter{Limit: 10, Offset: 0}).
		Return([]models.Product{}, int64(0), nil).Once()
	result, err = service.GetAllProducts(models.PaginationQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Pages)
	assert.NotNil(t, result.Products)

	mockRepo.AssertExpectations(t)
}

func TestProductService_FindOne(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	expected := &models.Product{ID: productID, Title: "Shirt", Images: models.NewProductImages([]string{"a.jpg"})}

	// UUID terms go by id
	mockRepo.On("GetByID", productID).Return(expected, nil).Once()
	product, err := service.FindOne(productID)
	require.NoError(t, err)
	assert.Equal(t, expected, product)

	// Anything else goes by title or slug
	mockRepo.On("GetByTitleOrSlug", "shirt").Return(expected, nil).Once()
	plain, err := service.FindOnePlain("shirt")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, plain.Images)

	mockRepo.On("GetByTitleOrSlug", "nope").Return(nil, notFound).Once()
	_, err = service.FindOne("nope")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.EqualError(t, err, "Product with id: nope not found")

	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := services.NewProductService(mockRepo, publisher)
	editor := &models.User{ID: "editor-1", FullName: "Editor"}

	existing := &models.Product{ID: productID, Title: "Old Title", Slug: "old_title", UserID: "owner-1"}
	title := "New Title"
	mockRepo.On("GetForUpdate", productID).Return(existing, nil).Once()
	mockRepo.On("Update", mock.MatchedBy(func(p *models.Product) bool {
		return p.Title == "New Title" && p.Slug == "old_title" && p.UserID == "editor-1"
	}), []string{"new.jpg"}).Return(nil).Once()
	mockRepo.On("GetByID", productID).Return(&models.Product{
		ID: productID, Title: "New Title", Images: models.NewProductImages([]string{"new.jpg"}),
	}, nil).Once()
	publisher.On("Publish", services.EventProductUpdated, mock.Anything).Return(nil).Once()

	updated, err := service.UpdateProduct(productID, models.UpdateProductRequest{
		Title:  &title,
		Images: []string{"new.jpg"},
	}, editor)
	require.NoError(t, err)
	assert.Equal(t, []string{"new.jpg"}, updated.Images)

	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestProductService_UpdateProductFailures(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	editor := &models.User{ID: "editor-1"}

	// Missing product fails before any transaction
	mockRepo.On("GetForUpdate", "abc").Return(nil, notFound).Once()
	_, err := service.UpdateProduct("abc", models.UpdateProductRequest{}, editor)
	assert.EqualError(t, err, "Product with id: abc not found")
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)

	// A failed transaction is translated
	mockRepo.On("GetForUpdate", productID).Return(&models.Product{ID: productID, Title: "T"}, nil).Once()
	mockRepo.On("Update", mock.Anything, []string(nil)).
		Return(&repositories.DuplicateKeyError{Detail: "Key (title)=(T) already exists."}).Once()
	_, err = service.UpdateProduct(productID, models.UpdateProductRequest{}, editor)
	assert.Equal(t, apperrors.KindDuplicateKey, apperrors.KindOf(err))

	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	product := &models.Product{ID: productID}

	// Test successful deletion
	mockRepo.On("GetByID", productID).Return(product, nil).Once()
	mockRepo.On("Delete", product).Return(nil).Once()
	assert.NoError(t, service.DeleteProduct(productID))

	// Test deletion of a missing product
	mockRepo.On("GetByTitleOrSlug", "99").Return(nil, notFound).Once()
	err := service.DeleteProduct("99")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := services.NewProductService(mockRepo, publisher)

	mockRepo.On("DeleteAll").Return(int64(4), nil).Once()
	publisher.On("Publish", services.EventProductsPurged, mock.Anything).Return(errors.New("broker down")).Once()
	deleted, err := service.DeleteAllProducts()
	require.NoError(t, err, "a broker failure never fails the catalog")
	assert.Equal(t, int64(4), deleted)

	mockRepo.On("DeleteAll").Return(int64(0), errors.New("database error")).Once()
	_, err = service.DeleteAllProducts()
	assert.EqualError(t, err, "Unexpected error, check logs")

	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}
