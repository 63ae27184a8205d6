package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"teslo/internal/apperrors"

	"github.com/go-playground/validator/v10"
)

const passwordRuleMessage = "The password must have a Uppercase, lowercase letter and a number"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "query"} {
			if name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]; name != "" && name != "-" {
				return name
			}
		}
		return ""
	})
	// Registration only fails for a duplicate tag name.
	if err := v.RegisterValidation("password", validatePassword); err != nil {
		panic(err)
	}
	return v
}

// validatePassword requires an upper-case letter, a lower-case letter and a
// digit.
func validatePassword(fl validator.FieldLevel) bool {
	var upper, lower, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// validateStruct runs the struct tags of s and turns failures into a
// validation error listing one message per field.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.BadRequest(err.Error())
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		if e.Tag() == "password" {
			messages = append(messages, passwordRuleMessage)
			continue
		}
		messages = append(messages, fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
	}
	return apperrors.Validation(messages)
}
