package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/api/dashboard/metrics", h.getDashboard)
	r.Get("/api/analytics/trends", h.getTrends)
	r.Get("/api/analytics/orders", h.getOrders)
	r.Get("/api/analytics/customers", h.getCustomers)
	r.Get("/api/analytics/revenue", h.getRevenue)
	r.Get("/api/analytics/spends", h.getSpends)
	r.Get("/api/analytics/stock-history", h.getStockHistory)
}

func wantsCSV(c *fiber.Ctx) bool {
	return c.Query("format") == "csv"
}

// sendCSV writes rows as an attachment named <name>-report.csv.
func sendCSV[T any](c *fiber.Ctx, name string, header []string, rows []T, record func(T) []string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(record(r)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s-report.csv", name))
	return c.Send(buf.Bytes())
}

func (h *Handler) getDashboard(c *fiber.Ctx) error {
	d, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(d)
}

func (h *Handler) getTrends(c *fiber.Ctx) error {
	if wantsCSV(c) {
		ms, err := h.service.Revenue(c.UserContext())
		if err != nil {
			return err
		}
		return sendCSV(c, "trends", trendHeader, ms, func(m Month) []string {
			return []string{m.Month, money(m.NetRevenue), fmt.Sprint(m.OrderCount)}
		})
	}
	t, err := h.service.Trends(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(t)
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	rows, err := h.service.Orders(c.UserContext())
	if err != nil {
		return err
	}
	if wantsCSV(c) {
		return sendCSV(c, "orders", orderHeader, rows, orderRecord)
	}
	return c.JSON(rows)
}

func (h *Handler) getCustomers(c *fiber.Ctx) error {
	rows, err := h.service.Customers(c.UserContext())
	if err != nil {
		return err
	}
	if wantsCSV(c) {
		return sendCSV(c, "customers", customerHeader, rows, customerRecord)
	}
	return c.JSON(rows)
}

func (h *Handler) getRevenue(c *fiber.Ctx) error {
	ms, err := h.service.Revenue(c.UserContext())
	if err != nil {
		return err
	}
	if wantsCSV(c) {
		return sendCSV(c, "revenue", revenueHeader, ms, revenueRecord)
	}
	return c.JSON(ms)
}

func (h *Handler) getSpends(c *fiber.Ctx) error {
	spends, err := h.service.Spends(c.UserContext())
	if err != nil {
		return err
	}
	if wantsCSV(c) {
		return sendCSV(c, "spends", spendHeader, spends, spendRecord)
	}
	return c.JSON(spends)
}

func (h *Handler) getStockHistory(c *fiber.Ctx) error {
	entries, err := h.service.StockHistory(c.UserContext())
	if err != nil {
		return err
	}
	if wantsCSV(c) {
		return sendCSV(c, "stock-history", stockHeader, entries, stockRecord)
	}
	return c.JSON(entries)
}
