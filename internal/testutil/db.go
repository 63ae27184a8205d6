// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"fmt"
	"testing"

	"teslo/internal/database"
	"teslo/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory SQLite database with foreign keys on.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.New().String())
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts an active user whose password is password.
func CreateUser(t *testing.T, db *gorm.DB, email, password string, roles ...string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	if len(roles) == 0 {
		roles = []string{models.RoleUser}
	}
	user := &models.User{
		ID:       uuid.New().String(),
		Email:    email,
		Password: string(hash),
		FullName: "Test User",
		IsActive: true,
		Roles:    models.StringArray(roles),
	}
	user.Normalize()
	require.NoError(t, db.Create(user).Error)
	return user
}
