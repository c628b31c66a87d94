package router

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brickco/brickco-api/internal/auth"
	"github.com/brickco/brickco-api/internal/brick"
	"github.com/brickco/brickco-api/internal/cart"
	"github.com/brickco/brickco-api/internal/customer"
	"github.com/brickco/brickco-api/internal/infrastructure/database/inmemory"
	"github.com/brickco/brickco-api/internal/infrastructure/metrics"
	"github.com/brickco/brickco-api/internal/order"
	"github.com/brickco/brickco-api/internal/report"
	"github.com/brickco/brickco-api/internal/spend"
	"github.com/brickco/brickco-api/internal/stock"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "router-secret"

func makeApp(t *testing.T, secret string) *fiber.App {
	t.Helper()
	log := zap.NewNop()
	store := inmemory.NewStore()
	rec := metrics.Nop{}
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return New(log, Options{JWTSecret: secret, CORSOrigins: "*"}, Handlers{
		Auth:      auth.NewHandler(auth.NewService("admin@brickco.test", string(hash), secret), log),
		Bricks:    brick.NewHandler(brick.NewService(store, log)),
		Cart:      cart.NewHandler(cart.NewService(store, log, rec)),
		Orders:    order.NewHandler(order.NewService(store, log, rec)),
		Customers: customer.NewHandler(customer.NewService(store, log)),
		Spends:    spend.NewHandler(spend.NewService(store, log)),
		Stock:     stock.NewHandler(stock.NewService(store, log, rec)),
		Reports:   report.NewHandler(report.NewService(store)),
	})
}

func status(t *testing.T, app *fiber.App, method, target, body, token string) int {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	return res.StatusCode
}

func TestHealth(t *testing.T) {
	app := makeApp(t, testSecret)
	res, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != fiber.StatusOK || string(body) != `{"status":"ok"}` {
		t.Fatalf("unexpected health response %d %s", res.StatusCode, body)
	}
	if res.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := makeApp(t, testSecret)

	for _, target := range []string{"/api/bricks", "/api/cart/u1"} {
		if got := status(t, app, "GET", target, "", ""); got != fiber.StatusOK {
			t.Fatalf("GET %s should be public, got %d", target, got)
		}
	}
	for _, target := range []string{"/api/orders", "/api/customers", "/api/spends", "/api/stock-history", "/api/dashboard/metrics", "/api/analytics/orders"} {
		if got := status(t, app, "GET", target, "", ""); got != fiber.StatusUnauthorized {
			t.Fatalf("GET %s should need a token, got %d", target, got)
		}
	}
	if got := status(t, app, "POST", "/api/bricks", `{"name":"Red"}`, ""); got != fiber.StatusUnauthorized {
		t.Fatalf("creating a brick should need a token, got %d", got)
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	token, err := auth.NewService("admin@brickco.test", string(hash), testSecret).SignIn("admin@brickco.test", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if got := status(t, app, "GET", "/api/orders", "", token); got != fiber.StatusOK {
		t.Fatalf("expected 200 with token, got %d", got)
	}
}

func TestOpenWithoutSecret(t *testing.T) {
	app := makeApp(t, "")
	if got := status(t, app, "GET", "/api/orders", "", ""); got != fiber.StatusOK {
		t.Fatalf("expected open API without JWT_SECRET, got %d", got)
	}
}

func TestPanicsRenderAsInternalError(t *testing.T) {
	app := makeApp(t, "")
	app.Get("/boom", func(*fiber.Ctx) error { panic("kaboom") })

	res, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != fiber.StatusInternalServerError || string(body) != `{"error":"Something broke!"}` {
		t.Fatalf("expected generic 500, got %d %s", res.StatusCode, body)
	}
}
