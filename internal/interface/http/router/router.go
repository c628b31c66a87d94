package router

import (
	"github.com/brickco/brickco-api/internal/auth"
	"github.com/brickco/brickco-api/internal/brick"
	"github.com/brickco/brickco-api/internal/cart"
	"github.com/brickco/brickco-api/internal/customer"
	"github.com/brickco/brickco-api/internal/interface/http/middleware"
	"github.com/brickco/brickco-api/internal/order"
	"github.com/brickco/brickco-api/internal/report"
	"github.com/brickco/brickco-api/internal/spend"
	"github.com/brickco/brickco-api/internal/stock"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Handlers groups every HTTP handler the API mounts.
type Handlers struct {
	Auth      *auth.Handler
	Bricks    *brick.Handler
	Cart      *cart.Handler
	Orders    *order.Handler
	Customers *customer.Handler
	Spends    *spend.Handler
	Stock     *stock.Handler
	Reports   *report.Handler
}

type Options struct {
	// JWTSecret enables bearer-token protection of the back-office routes
	// when set.
	JWTSecret   string
	CORSOrigins string
}

// New builds the Fiber app. Public routes are registered before the JWT
// middleware so they never reach it.
func New(log *zap.Logger, opts Options, h Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "brickco-api",
		ErrorHandler: middleware.ErrorHandler(log),
	})

	app.Use(middleware.RequestLogger(log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSOrigins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	h.Auth.RegisterPublicRoutes(app)
	h.Bricks.RegisterPublicRoutes(app)
	h.Cart.RegisterPublicRoutes(app)

	if opts.JWTSecret != "" {
		app.Use(auth.Middleware(opts.JWTSecret))
	} else {
		log.Warn("JWT_SECRET is not set, back-office routes are unprotected")
	}

	h.Auth.RegisterProtectedRoutes(app)
	h.Bricks.RegisterProtectedRoutes(app)
	h.Orders.RegisterProtectedRoutes(app)
	h.Customers.RegisterProtectedRoutes(app)
	h.Spends.RegisterProtectedRoutes(app)
	h.Stock.RegisterProtectedRoutes(app)
	h.Reports.RegisterProtectedRoutes(app)

	return app
}
