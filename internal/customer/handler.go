package customer

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
	r.Get("/api/customers", h.getCustomers)
	r.Get("/api/customers/:id", h.getCustomer)
	r.Post("/api/customers", h.createCustomer)
	r.Patch("/api/customers/:id", h.updateCustomer)
	r.Delete("/api/customers/:id", h.deleteCustomer)
}

func (h *Handler) getCustomers(c *fiber.Ctx) error {
	customers, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(customers)
}

func (h *Handler) getCustomer(c *fiber.Ctx) error {
	d, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(d)
}

func (h *Handler) createCustomer(c *fiber.Ctx) error {
	var in Input
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	customers, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(customers)
}

func (h *Handler) updateCustomer(c *fiber.Ctx) error {
	var in Input
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	d, err := h.service.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(d)
}

func (h *Handler) deleteCustomer(c *fiber.Ctx) error {
	customers, err := h.service.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(customers)
}
