package reporting

import (
	"time"

	"github.com/mamadbah2/shopreports/internal/domain/models"
)

const snapshotTopProducts = 10

// BuildSnapshot aggregates every order into all-time totals plus today, week
// and month windows relative to now. Orders without a usable date count
// towards the all-time figures only.
func BuildSnapshot(orders []models.Order, now time.Time) models.SnapshotReport {
	dayStart := StartOfDay(now)
	weekStart := StartOfWeek(now)
	monthStart := StartOfMonth(now)

	report := models.SnapshotReport{
		RevenueByCategory: make(map[string]float64),
		GeneratedAt:       now,
		Period:            models.Period{Start: monthStart, End: now},
	}
	products := newProductTally()

	for _, order := range orders {
		report.Totals.Sales = addMoney(report.Totals.Sales, order.Total)
		report.Totals.Orders++

		if order.HasDate {
			if !order.Date.Before(dayStart) {
				report.Sales.Today = addMoney(report.Sales.Today, order.Total)
				report.Orders.Today++
			}
			if !order.Date.Before(weekStart) {
				report.Sales.Week = addMoney(report.Sales.Week, order.Total)
				report.Orders.Week++
			}
			if !order.Date.Before(monthStart) {
				report.Sales.Month = addMoney(report.Sales.Month, order.Total)
				report.Orders.Month++
			}
		}

		for _, item := range order.Items {
			report.Totals.Items += item.Quantity
			products.add(item)
			category := categoryOf(item)
			report.RevenueByCategory[category] = addMoney(report.RevenueByCategory[category], item.Revenue)
		}
	}

	report.Totals.AvgOrderValue = divMoney(report.Totals.Sales, float64(report.Totals.Orders))
	report.TopProducts = products.top(snapshotTopProducts)

	return report
}
