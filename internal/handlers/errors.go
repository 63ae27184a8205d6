package handlers

import (
	"errors"

	"teslo/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	StatusCode int         `json:"statusCode"`
	Message    interface{} `json:"message"`
	Error      string      `json:"error"`
}

// ErrorHandler renders errors returned by handlers and middleware. Causes of
// internal errors are logged and never sent to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var message interface{} = "Internal server error"

	var appErr *apperrors.Error
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		code = appErr.StatusCode()
		message = appErr.Message
		if len(appErr.Details) > 0 {
			message = appErr.Details
		}
		if appErr.Kind == apperrors.KindInternal {
			zap.L().Error("request failed",
				zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(appErr.Err))
		}
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	default:
		zap.L().Error("unhandled error",
			zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
	}

	return c.Status(code).JSON(ErrorResponse{
		StatusCode: code,
		Message:    message,
		Error:      utils.StatusMessage(code),
	})
}
