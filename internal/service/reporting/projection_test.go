package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/shopreports/internal/domain/models"
)

func monthOrder(month time.Month, day int, total float64) models.Order {
	return datedOrder(time.Date(2026, month, day, 12, 0, 0, 0, time.UTC), total)
}

func TestNormalizeProjectionOptions(t *testing.T) {
	assert.Equal(t, models.ProjectionOptions{Months: 12, ForecastMonths: 6, Model: models.ModelLinear},
		NormalizeProjectionOptions(models.ProjectionOptions{}))
	assert.Equal(t, models.ProjectionOptions{Months: 120, ForecastMonths: 36, Model: models.ModelAverage},
		NormalizeProjectionOptions(models.ProjectionOptions{Months: 500, ForecastMonths: 99, Model: " Average "}))
	assert.Equal(t, models.ProjectionOptions{Months: 12, ForecastMonths: 6, Model: models.ModelLinear},
		NormalizeProjectionOptions(models.ProjectionOptions{Months: -1, ForecastMonths: -2, Model: "arima"}))
}

func TestBuildProjectionNoOrders(t *testing.T) {
	result := BuildProjection(nil, models.ProjectionOptions{}, testNow)

	require.NotNil(t, result.Series)
	require.NotNil(t, result.Projections)
	assert.Empty(t, result.Series)
	assert.Empty(t, result.Projections)
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), result.SeriesStart)
	assert.Equal(t, models.ModelLinear, result.Model)
}

func TestBuildProjectionLinear(t *testing.T) {
	orders := []models.Order{
		monthOrder(time.July, 3, 100),
		monthOrder(time.August, 1, 75),
		monthOrder(time.August, 20, 75),
		monthOrder(time.September, 2, 50),
		monthOrder(time.September, 12, 50),
		monthOrder(time.September, 28, 100),
	}

	result := BuildProjection(orders, models.ProjectionOptions{ForecastMonths: 3}, testNow)

	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), result.SeriesStart)
	assert.Equal(t, []models.MonthlyPoint{
		{Month: "2026-07", Total: 100, OrderCount: 1, AvgOrderValue: 100},
		{Month: "2026-08", Total: 150, OrderCount: 2, AvgOrderValue: 75},
		{Month: "2026-09", Total: 200, OrderCount: 3, AvgOrderValue: 66.67},
	}, result.Series)
	assert.Equal(t, []models.ForecastPoint{
		{Month: "2026-10", ProjectedTotal: 250, ProjectedOrderCount: 4, ProjectedAvgOrderValue: 62.5},
		{Month: "2026-11", ProjectedTotal: 300, ProjectedOrderCount: 5, ProjectedAvgOrderValue: 60},
		{Month: "2026-12", ProjectedTotal: 350, ProjectedOrderCount: 6, ProjectedAvgOrderValue: 58.33},
	}, result.Projections)
	assert.Equal(t, 50.0, result.Summary.AvgTotalDelta)
	assert.Equal(t, 1.0, result.Summary.AvgOrderDelta)
	assert.Equal(t, 200.0, result.Summary.LastTotal)
	assert.Equal(t, 3, result.Summary.LastOrderCount)
}

func TestBuildProjectionLinearDecliningTrendHoldsFlat(t *testing.T) {
	orders := []models.Order{
		monthOrder(time.July, 3, 300),
		monthOrder(time.August, 3, 200),
		monthOrder(time.September, 3, 100),
	}

	result := BuildProjection(orders, models.ProjectionOptions{ForecastMonths: 2}, testNow)

	assert.Equal(t, -100.0, result.Summary.AvgTotalDelta)
	require.Len(t, result.Projections, 2)
	for _, p := range result.Projections {
		assert.Equal(t, 100.0, p.ProjectedTotal)
		assert.Equal(t, 1, p.ProjectedOrderCount)
	}
}

func TestBuildProjectionAverage(t *testing.T) {
	orders := []models.Order{
		monthOrder(time.July, 3, 100),
		monthOrder(time.August, 3, 100),
		monthOrder(time.August, 9, 50.25),
		monthOrder(time.September, 3, 80),
	}

	result := BuildProjection(orders, models.ProjectionOptions{Model: models.ModelAverage}, testNow)

	require.Len(t, result.Projections, 6)
	for _, p := range result.Projections {
		assert.Equal(t, 110.08, p.ProjectedTotal)
		assert.Equal(t, 1, p.ProjectedOrderCount)
		assert.Equal(t, 110.08, p.ProjectedAvgOrderValue)
	}
	assert.Equal(t, "2026-10", result.Projections[0].Month)
	assert.Equal(t, "2027-03", result.Projections[5].Month)
	assert.Equal(t, 110.08, result.Summary.HistoricalAvgTotal)
	assert.Equal(t, 1.33, result.Summary.HistoricalAvgCount)
}

func TestBuildProjectionSkipsEmptyMonthsAndUndatedOrders(t *testing.T) {
	orders := []models.Order{
		monthOrder(time.March, 3, 40),
		monthOrder(time.June, 3, 60),
		{Total: 1000},
	}

	result := BuildProjection(orders, models.ProjectionOptions{ForecastMonths: 1}, testNow)

	require.Len(t, result.Series, 2)
	assert.Equal(t, "2026-03", result.Series[0].Month)
	assert.Equal(t, "2026-06", result.Series[1].Month)
	require.Len(t, result.Projections, 1)
	assert.Equal(t, "2026-07", result.Projections[0].Month)
	assert.Equal(t, 80.0, result.Projections[0].ProjectedTotal)
}

func TestBuildProjectionSingleMonth(t *testing.T) {
	result := BuildProjection([]models.Order{monthOrder(time.September, 3, 90)}, models.ProjectionOptions{ForecastMonths: 2}, testNow)

	require.Len(t, result.Projections, 2)
	assert.Equal(t, 0.0, result.Summary.AvgTotalDelta)
	assert.Equal(t, 90.0, result.Projections[1].ProjectedTotal)
	assert.Equal(t, 1, result.Projections[1].ProjectedOrderCount)
}

func TestBuildProjectionLinearKeepsSmallTrends(t *testing.T) {
	orders := []models.Order{
		monthOrder(time.June, 3, 100),
		monthOrder(time.July, 3, 100.01),
		monthOrder(time.August, 3, 100.01),
		monthOrder(time.September, 3, 100.01),
	}

	result := BuildProjection(orders, models.ProjectionOptions{ForecastMonths: 6}, testNow)

	require.Len(t, result.Projections, 6)
	assert.Equal(t, 0.0, result.Summary.AvgTotalDelta)
	assert.Equal(t, 100.01, result.Projections[0].ProjectedTotal)
	assert.Equal(t, 100.02, result.Projections[2].ProjectedTotal)
	assert.Equal(t, 100.03, result.Projections[5].ProjectedTotal)
}

func TestBuildProjectionAverageOrderCountRounding(t *testing.T) {
	orders := []models.Order{
		monthOrder(time.August, 3, 10),
		monthOrder(time.September, 3, 10),
		monthOrder(time.September, 4, 10),
	}

	result := BuildProjection(orders, models.ProjectionOptions{Model: models.ModelAverage, ForecastMonths: 1}, testNow)

	assert.Equal(t, 1.5, result.Summary.HistoricalAvgCount)
	assert.Equal(t, 15.0, result.Summary.HistoricalAvgTotal)
	require.Len(t, result.Projections, 1)
	assert.Equal(t, 2, result.Projections[0].ProjectedOrderCount)
	assert.Equal(t, 7.5, result.Projections[0].ProjectedAvgOrderValue)
}
