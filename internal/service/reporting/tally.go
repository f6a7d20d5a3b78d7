package reporting

import (
	"sort"
	"strings"

	"github.com/mamadbah2/shopreports/internal/domain/models"
)

const (
	uncategorized  = "uncategorized"
	unknownProduct = "unknown"
)

// productTally accumulates per-product sales in first-seen order so that
// ranking ties resolve by encounter order.
type productTally struct {
	index map[string]int
	rows  []models.ProductSales
}

func newProductTally() *productTally {
	return &productTally{index: make(map[string]int)}
}

func (t *productTally) add(item models.LineItem) {
	key := productKey(item)
	pos, ok := t.index[key]
	if !ok {
		pos = len(t.rows)
		t.index[key] = pos
		name := item.Name
		if name == "" {
			name = key
		}
		t.rows = append(t.rows, models.ProductSales{
			ProductID: item.ProductID,
			Name:      name,
			Category:  item.Category,
		})
	}
	row := &t.rows[pos]
	row.Quantity += item.Quantity
	row.Revenue = addMoney(row.Revenue, item.Revenue)
}

// top returns the n best sellers by quantity, descending.
func (t *productTally) top(n int) []models.ProductSales {
	ranked := make([]models.ProductSales, len(t.rows))
	copy(ranked, t.rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Quantity > ranked[j].Quantity
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	for i := range ranked {
		ranked[i].Revenue = RoundMoney(ranked[i].Revenue)
	}
	return ranked
}

func productKey(item models.LineItem) string {
	switch {
	case item.ProductID != "":
		return item.ProductID
	case item.Name != "":
		return item.Name
	default:
		return unknownProduct
	}
}

func categoryOf(item models.LineItem) string {
	if c := strings.TrimSpace(item.Category); c != "" {
		return c
	}
	return uncategorized
}

// customerTally accumulates spend per customer key in first-seen order.
type customerTally struct {
	index map[string]int
	rows  []models.CustomerSpend
}

func newCustomerTally() *customerTally {
	return &customerTally{index: make(map[string]int)}
}

// add records one order; orders without any customer identity are ignored.
func (t *customerTally) add(order models.Order, revenue float64) {
	key := customerKey(order)
	if key == "" {
		return
	}
	pos, ok := t.index[key]
	if !ok {
		pos = len(t.rows)
		t.index[key] = pos
		t.rows = append(t.rows, models.CustomerSpend{Key: key})
	}
	row := &t.rows[pos]
	if row.ID == "" {
		row.ID = firstNonEmpty(order.Customer.ID, order.UserRef)
	}
	if row.Name == "" {
		row.Name = order.Customer.Name
	}
	if row.Email == "" {
		row.Email = order.Customer.Email
	}
	if row.Phone == "" {
		row.Phone = order.Customer.Phone
	}
	row.Orders++
	row.Total = addMoney(row.Total, revenue)
}

// top returns the n biggest spenders, descending.
func (t *customerTally) top(n int) []models.CustomerSpend {
	ranked := make([]models.CustomerSpend, len(t.rows))
	copy(ranked, t.rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func customerKey(order models.Order) string {
	if email := strings.ToLower(strings.TrimSpace(order.Customer.Email)); email != "" {
		return email
	}
	return firstNonEmpty(order.Customer.ID, order.UserRef)
}

// seriesTally accumulates revenue and order counts per period key.
type seriesTally map[string]*models.SeriesPoint

func (s seriesTally) add(key string, revenue float64) {
	point, ok := s[key]
	if !ok {
		point = &models.SeriesPoint{Period: key}
		s[key] = point
	}
	point.Sales = addMoney(point.Sales, revenue)
	point.Orders++
}

// sorted returns the points ordered by key, which is chronological for every
// key format PeriodKey produces.
func (s seriesTally) sorted() []models.SeriesPoint {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]models.SeriesPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, *s[k])
	}
	return points
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
