package reporting

import (
	"strings"
	"time"

	"github.com/mamadbah2/shopreports/internal/domain/models"
)

const (
	defaultTopN = 10
	minTopN     = 1
	maxTopN     = 50
)

// NormalizeFilters resolves caller input into a complete filter set. Invalid
// values are clamped or defaulted rather than rejected: the period defaults to
// month-to-date, topN to 10 within 1..50, groupBy to month and type to custom.
func NormalizeFilters(in models.CustomFilterInput, now time.Time) models.CustomFilters {
	loc := now.Location()

	start, ok := parseTimeString(in.PeriodStart, loc)
	if !ok {
		start = StartOfMonth(now)
	}
	end, ok := parseTimeString(in.PeriodEnd, loc)
	switch {
	case !ok:
		end = now
	case isDateOnly(in.PeriodEnd):
		end = StartOfDay(end).AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if end.Before(start) {
		start, end = end, start
	}

	f := models.CustomFilters{
		PeriodStart:     start,
		PeriodEnd:       end,
		Status:          strings.TrimSpace(in.Status),
		Category:        strings.TrimSpace(in.Category),
		GroupBy:         parseGroupBy(in.GroupBy),
		TopN:            clampTopN(in.TopN),
		IncludeTaxes:    in.IncludeTaxes == nil || *in.IncludeTaxes,
		IncludeShipping: in.IncludeShipping == nil || *in.IncludeShipping,
		Type:            parseReportType(in.Type),
	}
	if in.MinTotal != nil && *in.MinTotal >= 0 {
		v := *in.MinTotal
		f.MinTotal = &v
	}
	if in.MaxTotal != nil && *in.MaxTotal >= 0 {
		v := *in.MaxTotal
		f.MaxTotal = &v
	}
	return f
}

func clampTopN(n int) int {
	switch {
	case n == 0:
		return defaultTopN
	case n < minTopN:
		return minTopN
	case n > maxTopN:
		return maxTopN
	default:
		return n
	}
}

func parseReportType(raw string) models.ReportType {
	t := models.ReportType(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case models.ReportSales, models.ReportProducts, models.ReportUsers:
		return t
	default:
		return models.ReportCustom
	}
}

// BuildCustomReport aggregates the orders that satisfy f. With a category
// filter only matching line items contribute, and an order with no matching
// item is not counted at all.
func BuildCustomReport(orders []models.Order, f models.CustomFilters, now time.Time) models.CustomReport {
	var (
		sales, tax, shipping float64
		orderCount, items    int
	)
	products := newProductTally()
	customers := newCustomerTally()
	series := make(seriesTally)
	categories := make(map[string]float64)

	for _, order := range orders {
		if !inPeriod(order, f) || !statusMatches(order, f.Status) {
			continue
		}

		matched := matchingItems(order.Items, f.Category)
		if f.Category != "" && len(matched) == 0 {
			continue
		}

		revenue := orderRevenue(order, matched, f)
		if f.MinTotal != nil && revenue < *f.MinTotal {
			continue
		}
		if f.MaxTotal != nil && revenue > *f.MaxTotal {
			continue
		}

		sales = addMoney(sales, revenue)
		orderCount++
		// Order-level charges do not belong to a category slice.
		if f.Category == "" {
			tax = addMoney(tax, order.Tax)
			shipping = addMoney(shipping, order.Shipping)
		}

		for _, item := range matched {
			items += item.Quantity
			products.add(item)
			category := categoryOf(item)
			categories[category] = addMoney(categories[category], item.Revenue)
		}

		customers.add(order, revenue)
		series.add(PeriodKey(order.Date, f.GroupBy), revenue)
	}

	avg := divMoney(sales, float64(orderCount))
	report := models.CustomReport{
		Type:    f.Type,
		Filters: f,
		Period:  models.Period{Start: f.PeriodStart, End: f.PeriodEnd},
		Totals: models.CustomTotals{
			Sales:         sales,
			Orders:        &orderCount,
			Items:         &items,
			AvgOrderValue: &avg,
			Tax:           &tax,
			Shipping:      &shipping,
		},
		TopProducts:       products.top(f.TopN),
		RevenueByCategory: categories,
		TopCustomers:      customers.top(f.TopN),
		TimeSeries:        series.sorted(),
		GeneratedAt:       now,
	}

	return shapeReport(report)
}

func inPeriod(order models.Order, f models.CustomFilters) bool {
	if !order.HasDate {
		return false
	}
	return !order.Date.Before(f.PeriodStart) && !order.Date.After(f.PeriodEnd)
}

func statusMatches(order models.Order, status string) bool {
	if status == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(order.Status), status)
}

// matchingItems returns the items whose category equals category, ignoring
// case. An empty category matches every item.
func matchingItems(items []models.LineItem, category string) []models.LineItem {
	if category == "" {
		return items
	}
	var matched []models.LineItem
	for _, item := range items {
		if strings.EqualFold(strings.TrimSpace(item.Category), category) {
			matched = append(matched, item)
		}
	}
	return matched
}

// orderRevenue is the amount an order contributes to a custom report: the sum
// of matching items under a category filter, otherwise the order total less
// any excluded tax or shipping.
func orderRevenue(order models.Order, matched []models.LineItem, f models.CustomFilters) float64 {
	if f.Category != "" {
		var sum float64
		for _, item := range matched {
			sum = addMoney(sum, item.Revenue)
		}
		return sum
	}

	revenue := order.Total
	if !f.IncludeTaxes {
		revenue = subMoney(revenue, order.Tax)
	}
	if !f.IncludeShipping {
		revenue = subMoney(revenue, order.Shipping)
	}
	return nonNegative(revenue)
}

// shapeReport strips the sections a report type does not expose.
func shapeReport(r models.CustomReport) models.CustomReport {
	switch r.Type {
	case models.ReportProducts:
		r.TopCustomers = nil
		r.TimeSeries = nil
		r.Totals = models.CustomTotals{Sales: r.Totals.Sales, Items: r.Totals.Items}
	case models.ReportUsers:
		r.TopProducts = nil
		r.RevenueByCategory = nil
		r.TimeSeries = nil
		r.Totals = models.CustomTotals{Sales: r.Totals.Sales, Orders: r.Totals.Orders}
	case models.ReportSales:
		r.TopCustomers = nil
		r.RevenueByCategory = nil
	}
	return r
}
