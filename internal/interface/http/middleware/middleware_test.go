package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/brickco/brickco-api/internal/apperr"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func makeApp(t *testing.T) (*fiber.App, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	app.Use(RequestLogger(log))
	app.Get("/missing", func(c *fiber.Ctx) error { return apperr.NotFound("Brick not found") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("pq: connection refused") })
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString(RequestID(c)) })
	return app, logs
}

func TestRequestLogger_LogsRenderedStatus(t *testing.T) {
	app, logs := makeApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["error"] != "Brick not found" {
		t.Fatalf("unexpected body %v", body)
	}

	entries := logs.FilterMessage("Request completed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["status"]; got != int64(fiber.StatusNotFound) {
		t.Fatalf("expected logged status 404, got %v", got)
	}
}

func TestErrorHandler_HidesInternalErrors(t *testing.T) {
	app, logs := makeApp(t)

	resp, _ := app.Test(httptest.NewRequest("GET", "/boom", nil))
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	if string(raw) != `{"error":"Something broke!"}` {
		t.Fatalf("unexpected body %s", raw)
	}
	if logs.FilterMessage("request failed").Len() != 1 {
		t.Fatalf("expected the cause to be logged")
	}
}

func TestRequestLogger_PropagatesRequestID(t *testing.T) {
	app, _ := makeApp(t)

	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, _ := app.Test(req)
	raw, _ := io.ReadAll(resp.Body)
	if string(raw) != "abc-123" || resp.Header.Get("X-Request-ID") != "abc-123" {
		t.Fatalf("request id not propagated: body=%s header=%s", raw, resp.Header.Get("X-Request-ID"))
	}
}
