package auth

import (
	"github.com/brickco/brickco-api/internal/apperr"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Post("/api/auth/sign-in", h.signIn)
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/api/auth/me", h.me)
}

func (h *Handler) signIn(c *fiber.Ctx) error {
	var payload signInRequest
	if err := c.BodyParser(&payload); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if payload.Email == "" || payload.Password == "" {
		return apperr.Validation("Missing required fields")
	}

	token, err := h.service.SignIn(payload.Email, payload.Password)
	if err != nil {
		h.log.Warn("sign-in rejected", zap.String("email", payload.Email))
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}

func (h *Handler) me(c *fiber.Ctx) error {
	email, err := EmailFromCtx(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"email": email, "role": "admin"})
}
