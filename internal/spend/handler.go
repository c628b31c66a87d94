package spend

import (
	"github.com/brickco/brickco-api/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/api/spends", h.getSpends)
	r.Post("/api/spends", h.saveSpend)
	r.Get("/api/spends/:year/:month", h.getSpend)
}

func (h *Handler) getSpends(c *fiber.Ctx) error {
	spends, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(spends)
}

func (h *Handler) saveSpend(c *fiber.Ctx) error {
	var in Input
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	sp, err := h.service.Save(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(sp)
}

func (h *Handler) getSpend(c *fiber.Ctx) error {
	year, err := c.ParamsInt("year")
	if err != nil {
		return errSpendNotFound
	}
	month, err := c.ParamsInt("month")
	if err != nil {
		return errSpendNotFound
	}
	sp, err := h.service.Get(c.UserContext(), year, month)
	if err != nil {
		return err
	}
	return c.JSON(sp)
}
