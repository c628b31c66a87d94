package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 72 * time.Hour

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service signs in the single back-office admin configured through the
// environment.
type Service struct {
	email  string
	hash   []byte
	secret []byte
	now    func() time.Time
}

func NewService(adminEmail, adminPasswordHash, secret string) *Service {
	return &Service{
		email:  adminEmail,
		hash:   []byte(adminPasswordHash),
		secret: []byte(secret),
		now:    time.Now,
	}
}

// SignIn checks the credentials and returns a signed HS256 token.
func (s *Service) SignIn(email, password string) (string, error) {
	if s.email == "" || len(s.hash) == 0 || len(s.secret) == 0 {
		return "", ErrInvalidCredentials
	}
	if !strings.EqualFold(strings.TrimSpace(email), s.email) {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"email": s.email,
		"role":  "admin",
		"exp":   s.now().Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Middleware rejects requests without a valid bearer token. The parsed
// token is stored in the "user" local.
func Middleware(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    []byte(secret),
		SigningMethod: "HS256",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		},
	})
}

// EmailFromCtx returns the e-mail claim of the authenticated admin.
func EmailFromCtx(c *fiber.Ctx) (string, error) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", fiber.ErrUnauthorized
	}
	return email, nil
}
