package cart

import (
	"github.com/brickco/brickco-api/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

// Handler delegates cart operations to the cart service.
// Carts are keyed by the storefront's user id, so the routes stay public.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Get("/api/cart/:userId", h.getCart)
	r.Post("/api/cart/add", h.addToCart)
	r.Delete("/api/cart/remove", h.removeFromCart)
	r.Post("/api/cart/checkout", h.checkout)
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	cart, err := h.service.Get(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(cart)
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	var in AddInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	cart, err := h.service.Add(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(cart)
}

func (h *Handler) removeFromCart(c *fiber.Ctx) error {
	var in RemoveInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	cart, err := h.service.Remove(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(cart)
}

func (h *Handler) checkout(c *fiber.Ctx) error {
	var in CheckoutInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	receipt, err := h.service.Checkout(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(receipt)
}
