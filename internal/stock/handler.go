package stock

import (
	"github.com/brickco/brickco-api/internal/apperr"
	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/api/stock-history", h.list)
	r.Post("/api/stock-history", h.record)
	r.Get("/api/stock-history/reconciliation", h.reconcile)
}

func (h *Handler) list(c *fiber.Ctx) error {
	f := entity.StockFilter{
		Source:  c.Query("source"),
		BrickID: c.Query("brickId"),
	}
	if t := c.Query("type"); t != "" {
		dir, err := entity.ParseDirection(t)
		if err != nil {
			return apperr.Validation("Invalid type")
		}
		f.Direction = dir
	}
	entries, err := h.service.List(c.UserContext(), f)
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

func (h *Handler) record(c *fiber.Ctx) error {
	var in RecordInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	entry, err := h.service.Record(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *Handler) reconcile(c *fiber.Ctx) error {
	rep, err := h.service.Reconcile(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(rep)
}
