package utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"videoquiz/ai-services/internal/apperror"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Status  string   `json:"status"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// RespondWithError sends a JSON error response.
func RespondWithError(c *fiber.Ctx, statusCode int, code, message string) error {
	return c.Status(statusCode).JSON(ErrorResponse{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

// RespondWithAppError maps err onto the error taxonomy. Anything unclassified
// is reported as a processing error.
func RespondWithAppError(c *fiber.Ctx, err error) error {
	if appErr, ok := apperror.As(err); ok {
		return RespondWithError(c, appErr.HTTPStatus(), string(appErr.Kind), appErr.Message)
	}
	return RespondWithError(c, fiber.StatusInternalServerError, string(apperror.KindProcessing), err.Error())
}

// RespondWithValidationError reports request validation failures as an input error.
func RespondWithValidationError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Status:  "error",
		Code:    string(apperror.KindInput),
		Message: "Validation failed",
		Details: FormatValidationErrors(err),
	})
}

// FormatValidationErrors formats validation errors from validator/v10.
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		if err == nil {
			return nil
		}
		return []string{err.Error()}
	}

	out := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		element := fmt.Sprintf("Field '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			element = fmt.Sprintf("%s (value: %s)", element, fe.Param())
		}
		out = append(out, element)
	}
	return out
}

// ErrorHandler is the fiber error handler: taxonomy errors keep their status,
// fiber errors keep theirs, everything else becomes a 500.
func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := string(apperror.KindProcessing)
			if fe.Code < fiber.StatusInternalServerError {
				code = string(apperror.KindInput)
			}
			return RespondWithError(c, fe.Code, code, fe.Message)
		}
		if _, ok := apperror.As(err); !ok {
			log.WithError(err).Error("Unhandled error")
		}
		return RespondWithAppError(c, err)
	}
}
