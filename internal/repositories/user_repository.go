package repositories

import "teslo/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	// GetByEmailForLogin returns only the id, email and password hash.
	GetByEmailForLogin(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
