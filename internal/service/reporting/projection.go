package reporting

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/shopreports/internal/domain/models"
)

const (
	defaultLookbackMonths = 12
	maxLookbackMonths     = 120
	defaultForecastMonths = 6
	maxForecastMonths     = 36
)

// NormalizeProjectionOptions fills defaults and clamps out of range values.
func NormalizeProjectionOptions(in models.ProjectionOptions) models.ProjectionOptions {
	out := models.ProjectionOptions{
		Months:         clampInt(in.Months, defaultLookbackMonths, maxLookbackMonths),
		ForecastMonths: clampInt(in.ForecastMonths, defaultForecastMonths, maxForecastMonths),
		Model:          models.ModelLinear,
	}
	if models.ProjectionModel(strings.ToLower(strings.TrimSpace(string(in.Model)))) == models.ModelAverage {
		out.Model = models.ModelAverage
	}
	return out
}

func clampInt(v, fallback, max int) int {
	switch {
	case v <= 0:
		return fallback
	case v > max:
		return max
	default:
		return v
	}
}

type monthBucket struct {
	start  time.Time
	total  float64
	orders int
}

// BuildProjection buckets orders by month, starting at the earliest order's
// month (or opts.Months before now when no order carries a date), and
// extrapolates opts.ForecastMonths months past the last observed month.
//
// The linear model adds the average month-over-month delta, floored at zero,
// to the last observed month. The average model repeats the historical mean.
func BuildProjection(orders []models.Order, opts models.ProjectionOptions, now time.Time) models.ProjectionResult {
	opts = NormalizeProjectionOptions(opts)

	start := StartOfMonth(now.AddDate(0, -opts.Months, 0))
	if earliest, ok := earliestOrder(orders); ok {
		start = StartOfMonth(earliest)
	}

	result := models.ProjectionResult{
		Model:          opts.Model,
		Months:         opts.Months,
		ForecastMonths: opts.ForecastMonths,
		SeriesStart:    start,
		Series:         []models.MonthlyPoint{},
		Projections:    []models.ForecastPoint{},
		GeneratedAt:    now,
	}

	buckets := monthlyBuckets(orders, start)
	if len(buckets) == 0 {
		return result
	}

	var sumTotal float64
	var sumOrders int
	for _, b := range buckets {
		result.Series = append(result.Series, models.MonthlyPoint{
			Month:         b.start.Format("2006-01"),
			Total:         b.total,
			OrderCount:    b.orders,
			AvgOrderValue: divMoney(b.total, float64(b.orders)),
		})
		sumTotal = addMoney(sumTotal, b.total)
		sumOrders += b.orders
	}

	// Trend and mean stay unrounded until they produce a figure.
	var totalDeltas decimal.Decimal
	var orderDeltas int64
	for i := 1; i < len(buckets); i++ {
		totalDeltas = totalDeltas.Add(money(buckets[i].total).Sub(money(buckets[i-1].total)))
		orderDeltas += int64(buckets[i].orders - buckets[i-1].orders)
	}
	meanTotalDelta := decimal.Zero
	meanOrderDelta := decimal.Zero
	if steps := int64(len(buckets) - 1); steps > 0 {
		meanTotalDelta = totalDeltas.Div(decimal.NewFromInt(steps))
		meanOrderDelta = decimal.NewFromInt(orderDeltas).Div(decimal.NewFromInt(steps))
	}

	last := buckets[len(buckets)-1]
	n := decimal.NewFromInt(int64(len(buckets)))
	meanTotal := money(sumTotal).Div(n)
	meanOrders := decimal.NewFromInt(int64(sumOrders)).Div(n)

	result.Summary = models.ProjectionSummary{
		AvgTotalDelta:      meanTotalDelta.Round(moneyPlaces).InexactFloat64(),
		AvgOrderDelta:      meanOrderDelta.Round(2).InexactFloat64(),
		HistoricalAvgTotal: meanTotal.Round(moneyPlaces).InexactFloat64(),
		HistoricalAvgCount: meanOrders.Round(2).InexactFloat64(),
		LastTotal:          last.total,
		LastOrderCount:     last.orders,
	}

	totalGrowth := decimal.Max(meanTotalDelta, decimal.Zero)
	orderGrowth := decimal.Max(meanOrderDelta, decimal.Zero)
	for i := 1; i <= opts.ForecastMonths; i++ {
		var total decimal.Decimal
		var count int
		switch opts.Model {
		case models.ModelAverage:
			total = meanTotal
			count = int(meanOrders.Round(0).IntPart())
		default:
			step := decimal.NewFromInt(int64(i))
			total = money(last.total).Add(totalGrowth.Mul(step))
			count = int(decimal.NewFromInt(int64(last.orders)).Add(orderGrowth.Mul(step)).Round(0).IntPart())
		}
		projected := total.Round(moneyPlaces).InexactFloat64()
		result.Projections = append(result.Projections, models.ForecastPoint{
			Month:                  last.start.AddDate(0, i, 0).Format("2006-01"),
			ProjectedTotal:         projected,
			ProjectedOrderCount:    count,
			ProjectedAvgOrderValue: divMoney(projected, float64(count)),
		})
	}

	return result
}

func earliestOrder(orders []models.Order) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, o := range orders {
		if !o.HasDate {
			continue
		}
		if !found || o.Date.Before(earliest) {
			earliest = o.Date
			found = true
		}
	}
	return earliest, found
}

// monthlyBuckets returns one bucket per month that has at least one dated
// order on or after start, in chronological order.
func monthlyBuckets(orders []models.Order, start time.Time) []monthBucket {
	index := make(map[string]*monthBucket)
	for _, o := range orders {
		if !o.HasDate || o.Date.Before(start) {
			continue
		}
		key := PeriodKey(o.Date, models.GroupByMonth)
		b, ok := index[key]
		if !ok {
			b = &monthBucket{start: StartOfMonth(o.Date)}
			index[key] = b
		}
		b.total = addMoney(b.total, o.Total)
		b.orders++
	}

	buckets := make([]monthBucket, 0, len(index))
	for _, b := range index {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].start.Before(buckets[j].start)
	})
	return buckets
}
