package middleware

import (
	"fmt"
	"strings"

	"teslo/internal/apperrors"
	"teslo/internal/models"
)

// CheckRoles allows user when required is empty or when user holds at least
// one of the required roles.
func CheckRoles(required []string, user *models.User) error {
	if len(required) == 0 {
		return nil
	}
	if user == nil {
		return apperrors.BadRequest("User not found")
	}
	if user.HasAnyRole(required...) {
		return nil
	}
	return apperrors.Forbidden(fmt.Sprintf("User %s need a valid role: %s", user.FullName, strings.Join(required, ",")))
}
