package brick

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

// RegisterPublicRoutes mounts the storefront reads and the stock check used
// before checkout.
func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Get("/api/bricks", h.getBricks)
	r.Get("/api/bricks/:id", h.getBrick)
	r.Post("/api/bricks/validate-stock", h.validateStock)
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Post("/api/bricks", h.createBrick)
	r.Post("/api/bricks/update-stock", h.updateStock)
	r.Patch("/api/bricks/:id", h.updateBrick)
	r.Delete("/api/bricks/:id", h.deleteBrick)
}

func (h *Handler) getBricks(c *fiber.Ctx) error {
	bricks, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(bricks)
}

func (h *Handler) getBrick(c *fiber.Ctx) error {
	b, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(b)
}

func (h *Handler) createBrick(c *fiber.Ctx) error {
	var in Input
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	bricks, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(bricks)
}

func (h *Handler) updateBrick(c *fiber.Ctx) error {
	var in Input
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	bricks, err := h.service.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(bricks)
}

func (h *Handler) deleteBrick(c *fiber.Ctx) error {
	bricks, err := h.service.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(bricks)
}

func (h *Handler) validateStock(c *fiber.Ctx) error {
	var body struct {
		Items []StockItem `json:"items"`
	}
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("Invalid request body")
	}
	invalid, err := h.service.ValidateStock(c.UserContext(), body.Items)
	if err != nil {
		return err
	}
	if len(invalid) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":        "Insufficient stock",
			"invalidItems": invalid,
		})
	}
	return c.JSON(fiber.Map{"message": "Stock available"})
}

func (h *Handler) updateStock(c *fiber.Ctx) error {
	var body struct {
		Updates []StockUpdate `json:"updates"`
	}
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("Invalid request body")
	}
	bricks, err := h.service.UpdateStock(c.UserContext(), body.Updates)
	if err != nil {
		return err
	}
	return c.JSON(bricks)
}
