package reporting

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/shopreports/internal/domain/models"
)

// testNow is a Thursday; its ISO week starts on 2026-10-12.
var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func datedOrder(at time.Time, total float64, items ...models.LineItem) models.Order {
	return models.Order{Date: at, HasDate: true, Total: total, Items: items}
}

func lineItem(id, category string, qty int, revenue float64) models.LineItem {
	return models.LineItem{ProductID: id, Name: "product " + id, Category: category, Quantity: qty, Revenue: revenue}
}

func TestBuildSnapshotFromLegacyDocuments(t *testing.T) {
	docs := []models.Document{
		{
			"fecha":   time.Date(2026, 10, 2, 10, 0, 0, 0, time.UTC),
			"resumen": bson.M{"totales": bson.M{"total": 100.00}},
		},
		{
			"createdAt": primitive.NewDateTimeFromTime(time.Date(2026, 10, 14, 16, 0, 0, 0, time.UTC)),
			"total":     "50,50",
		},
	}

	report := BuildSnapshot(NormalizeOrders(docs, Catalog{}, time.UTC), testNow)

	assert.Equal(t, 150.5, report.Sales.Month)
	assert.Equal(t, 2, report.Orders.Month)
	assert.Equal(t, 50.5, report.Sales.Week)
	assert.Equal(t, 1, report.Orders.Week)
	assert.Equal(t, 0.0, report.Sales.Today)
	assert.Equal(t, 0, report.Orders.Today)
	assert.Equal(t, 150.5, report.Totals.Sales)
	assert.Equal(t, 75.25, report.Totals.AvgOrderValue)
}

func TestBuildSnapshotWindows(t *testing.T) {
	orders := []models.Order{
		datedOrder(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), 10),
		datedOrder(time.Date(2026, 10, 14, 23, 59, 59, 0, time.UTC), 20),
		datedOrder(time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), 30),
		datedOrder(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), 40),
		datedOrder(time.Date(2026, 9, 30, 23, 59, 59, 0, time.UTC), 50),
		{Total: 60},
	}

	report := BuildSnapshot(orders, testNow)

	assert.Equal(t, models.WindowSales{Today: 10, Week: 60, Month: 100}, report.Sales)
	assert.Equal(t, models.WindowCounts{Today: 1, Week: 3, Month: 4}, report.Orders)
	assert.Equal(t, 210.0, report.Totals.Sales)
	assert.Equal(t, 6, report.Totals.Orders)
	assert.Equal(t, 35.0, report.Totals.AvgOrderValue)

	assert.LessOrEqual(t, report.Sales.Today, report.Sales.Week)
	assert.LessOrEqual(t, report.Sales.Week, report.Sales.Month)
	assert.LessOrEqual(t, report.Sales.Month, report.Totals.Sales)

	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), report.Period.Start)
	assert.Equal(t, testNow, report.Period.End)
}

func TestBuildSnapshotProductsAndCategories(t *testing.T) {
	orders := []models.Order{
		datedOrder(testNow, 60,
			lineItem("a", "Bebidas", 3, 30),
			lineItem("b", "Comida", 5, 25),
		),
		datedOrder(testNow, 20,
			lineItem("c", "", 3, 15),
			lineItem("a", "Bebidas", 0, 0),
		),
	}

	report := BuildSnapshot(orders, testNow)

	require.Len(t, report.TopProducts, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{
		report.TopProducts[0].ProductID,
		report.TopProducts[1].ProductID,
		report.TopProducts[2].ProductID,
	})
	assert.Equal(t, 30.0, report.TopProducts[1].Revenue)
	assert.Equal(t, 11, report.Totals.Items)
	assert.Equal(t, map[string]float64{"Bebidas": 30, "Comida": 25, "uncategorized": 15}, report.RevenueByCategory)
}

func TestBuildSnapshotCapsTopProducts(t *testing.T) {
	var items []models.LineItem
	for i := 0; i < 15; i++ {
		items = append(items, lineItem(strings.Repeat("x", i+1), "", i+1, 1))
	}

	report := BuildSnapshot([]models.Order{datedOrder(testNow, 15, items...)}, testNow)

	require.Len(t, report.TopProducts, 10)
	assert.Equal(t, 15, report.TopProducts[0].Quantity)
	for i := 1; i < len(report.TopProducts); i++ {
		assert.GreaterOrEqual(t, report.TopProducts[i-1].Quantity, report.TopProducts[i].Quantity)
	}
}

func TestBuildSnapshotEmpty(t *testing.T) {
	report := BuildSnapshot(nil, testNow)

	assert.Equal(t, models.SnapshotTotals{}, report.Totals)
	assert.Empty(t, report.TopProducts)
	assert.NotNil(t, report.RevenueByCategory)
}

func TestFormatSnapshotSummary(t *testing.T) {
	report := BuildSnapshot([]models.Order{
		datedOrder(testNow, 150.5, lineItem("a", "Bebidas", 3, 150.5)),
	}, testNow)

	summary := FormatSnapshotSummary(report)

	assert.Contains(t, summary, "Today: 150.50 across 1 orders.")
	assert.Contains(t, summary, "Best seller: product a (3 units).")
}
