package presenter

import (
	"errors"

	"github.com/brickco/brickco-api/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

// InternalErrorMessage is the only detail a client sees for a 500.
const InternalErrorMessage = "Something broke!"

// Status maps an error to its HTTP status code.
func Status(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict:
		return fiber.StatusBadRequest
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// ErrorBody shapes the JSON body sent for err.
func ErrorBody(err error) fiber.Map {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fiber.Map{"error": fe.Message}
	}
	e, ok := apperr.As(err)
	if !ok || e.Kind == apperr.KindInternal {
		return fiber.Map{"error": InternalErrorMessage}
	}
	if len(e.Fields) > 0 {
		return fiber.Map{"errors": e.Fields}
	}
	body := fiber.Map{"error": e.Message}
	for k, v := range e.Details {
		body[k] = v
	}
	return body
}
