package repositories

import (
	"fmt"

	"teslo/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translateError(err))
	}
	return nil
}

// GetByEmailForLogin retrieves the credentials of the user with the given email.
func (r *GORMUserRepository) GetByEmailForLogin(email string) (*models.User, error) {
	var user models.User
	err := r.db.Select("id", "email", "password").First(&user, "email = ?", email).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, translateError(err))
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, translateError(err))
	}
	return &user, nil
}
