package report

import (
	"encoding/csv"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func makeAppWithReportHandler(t *testing.T) *fiber.App {
	app := fiber.New()
	NewHandler(seededService(t)).RegisterProtectedRoutes(app)
	return app
}

func TestAnalyticsCSV(t *testing.T) {
	app := makeAppWithReportHandler(t)

	for _, name := range []string{"trends", "orders", "customers", "revenue", "spends", "stock-history"} {
		res, err := app.Test(httptest.NewRequest("GET", "/api/analytics/"+name+"?format=csv", nil))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if res.StatusCode != fiber.StatusOK {
			t.Fatalf("%s: expected 200, got %d", name, res.StatusCode)
		}
		if ct := res.Header.Get("Content-Type"); ct != "text/csv" {
			t.Fatalf("%s: unexpected content type %q", name, ct)
		}
		want := "attachment; filename=" + name + "-report.csv"
		if cd := res.Header.Get("Content-Disposition"); cd != want {
			t.Fatalf("%s: expected %q, got %q", name, want, cd)
		}
	}
}

func TestRevenueCSVRows(t *testing.T) {
	app := makeAppWithReportHandler(t)
	res, err := app.Test(httptest.NewRequest("GET", "/api/analytics/revenue?format=csv", nil))
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(res.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header and 3 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != "month,revenue,expenses,netRevenue,orderCount,averageOrderValue" {
		t.Fatalf("unexpected header %v", records[0])
	}
	if got := strings.Join(records[3], ","); got != "2024-05,60.50,20.00,40.50,2,30.25" {
		t.Fatalf("unexpected row %s", got)
	}
}

func TestDashboardJSON(t *testing.T) {
	app := makeAppWithReportHandler(t)
	res, err := app.Test(httptest.NewRequest("GET", "/api/dashboard/metrics", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(res.Body)
	for _, want := range []string{`"totalStock":55`, `"lowStockCount":1`, `"totalOrders":3`, `"totalRevenue":155.5`} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("expected %s in %s", want, body)
		}
	}
}
