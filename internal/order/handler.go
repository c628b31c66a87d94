package order

import (
	"strconv"

	"github.com/brickco/brickco-api/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

// Handler delegates order operations to the order service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/api/orders", h.getOrders)
	r.Get("/api/orders/customer/:id", h.getCustomerOrders)
	r.Get("/api/orders/:id", h.getOrder)
	r.Post("/api/orders", h.createOrder)
	r.Patch("/api/orders/:id/cancel", h.cancelOrder)
	r.Patch("/api/orders/:id", h.updateStatus)
	r.Delete("/api/orders/:id", h.deleteOrder)
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	orders, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

func (h *Handler) getCustomerOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListByCustomer(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	o, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(o)
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	var in CreateInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	orders, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(orders)
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("Invalid status")
	}
	orders, err := h.service.SetStatus(c.UserContext(), c.Params("id"), body.Status)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

func (h *Handler) cancelOrder(c *fiber.Ctx) error {
	restore, err := restoreStockFlag(c)
	if err != nil {
		return err
	}
	orders, err := h.service.Cancel(c.UserContext(), c.Params("id"), restore)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

func (h *Handler) deleteOrder(c *fiber.Ctx) error {
	restore, err := restoreStockFlag(c)
	if err != nil {
		return err
	}
	orders, err := h.service.Delete(c.UserContext(), c.Params("id"), restore)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

// restoreStockFlag reads restoreStock from the query string or, failing
// that, from an optional JSON body.
func restoreStockFlag(c *fiber.Ctx) (bool, error) {
	if q := c.Query("restoreStock"); q != "" {
		v, err := strconv.ParseBool(q)
		if err != nil {
			return false, apperr.Validation("Invalid restoreStock")
		}
		return v, nil
	}
	if len(c.Body()) == 0 {
		return false, nil
	}
	var body struct {
		RestoreStock bool `json:"restoreStock"`
	}
	if err := c.BodyParser(&body); err != nil {
		return false, apperr.Validation("Invalid request body")
	}
	return body.RestoreStock, nil
}
