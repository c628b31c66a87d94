package customer

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brickco/brickco-api/internal/interface/http/middleware"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func makeAppWithCustomerHandler() *fiber.App {
	svc, _ := newTestService()
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(zap.NewNop())})
	NewHandler(svc).RegisterProtectedRoutes(app)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestCustomerEndpoints(t *testing.T) {
	app := makeAppWithCustomerHandler()

	status, body := doRequest(t, app, "GET", "/api/customers", "")
	if status != fiber.StatusOK || body != "[]" {
		t.Fatalf("expected empty list, got %d %s", status, body)
	}

	status, body = doRequest(t, app, "POST", "/api/customers", `{"name":"Ann Builder","email":"ann@example.com"}`)
	if status != fiber.StatusCreated || !strings.Contains(body, `"email":"ann@example.com"`) {
		t.Fatalf("expected 201 with list, got %d %s", status, body)
	}

	status, body = doRequest(t, app, "POST", "/api/customers", `{"name":"A","email":"bad","phone":"1"}`)
	want := `{"errors":["Name must be at least 2 characters long","Valid email address is required","Phone number format is invalid"]}`
	if status != fiber.StatusBadRequest || body != want {
		t.Fatalf("expected field errors, got %d %s", status, body)
	}

	status, body = doRequest(t, app, "POST", "/api/customers", `{"name":"Ann Two","email":"ANN@example.com"}`)
	if status != fiber.StatusBadRequest || body != `{"error":"Email address already exists"}` {
		t.Fatalf("expected duplicate email, got %d %s", status, body)
	}

	status, _ = doRequest(t, app, "GET", "/api/customers/nope", "")
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}
