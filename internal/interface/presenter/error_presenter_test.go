package presenter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/brickco/brickco-api/internal/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Validation("Invalid status"), fiber.StatusBadRequest},
		{apperr.Conflict("Order is already cancelled"), fiber.StatusBadRequest},
		{fmt.Errorf("get: %w", apperr.NotFound("Order not found")), fiber.StatusNotFound},
		{fiber.ErrUnauthorized, fiber.StatusUnauthorized},
		{errors.New("connection reset"), fiber.StatusInternalServerError},
		{apperr.Wrap(errors.New("x"), "save"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestErrorBody(t *testing.T) {
	assert.Equal(t, fiber.Map{"error": InternalErrorMessage}, ErrorBody(errors.New("pq: relation missing")))
	assert.Equal(t, fiber.Map{"errors": []string{"Name is required"}}, ErrorBody(apperr.Invalid([]string{"Name is required"})))

	body := ErrorBody(apperr.Validation("Insufficient stock").WithDetails(map[string]any{"available": 2}))
	assert.Equal(t, "Insufficient stock", body["error"])
	assert.Equal(t, 2, body["available"])
}
