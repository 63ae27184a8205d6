package models

import (
	"strings"
	"time"
)

// Valid roles a user can hold.
const (
	RoleAdmin     = "admin"
	RoleSuperUser = "super-user"
	RoleUser      = "user"
)

// User represents a user of the store.
type User struct {
	ID        string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string      `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string      `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	FullName  string      `json:"fullName" gorm:"type:text;not null"`
	IsActive  bool        `json:"isActive" gorm:"not null;default:true"`
	Roles     StringArray `json:"roles" gorm:"not null"`
	CreatedAt time.Time   `json:"-"`
	UpdatedAt time.Time   `json:"-"`
}

// Normalize lower-cases and trims the email and fills in the default role.
// It must run before every insert or update of a user.
func (u *User) Normalize() {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if len(u.Roles) == 0 {
		u.Roles = StringArray{RoleUser}
	}
}

// HasAnyRole reports whether the user holds at least one of roles.
func (u *User) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if u.Roles.Contains(r) {
			return true
		}
	}
	return false
}
