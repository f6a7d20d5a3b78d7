package reporting

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/shopreports/internal/domain/models"
)

const moneyPlaces = 2

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseNumber converts numbers, numeric strings and Decimal128 values into a
// float64. Anything unparseable or non-finite yields fallback.
//
// Strings keep only digits, '.', ',' and '-'. When a comma is present it is
// taken as the decimal separator and every '.' as a thousands separator, so
// "1.234,56" parses as 1234.56 and "1,234" parses as 1.234.
func ParseNumber(v interface{}, fallback float64) float64 {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int32:
		n = float64(t)
	case int64:
		n = float64(t)
	case uint32:
		n = float64(t)
	case uint64:
		n = float64(t)
	case primitive.Decimal128:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return fallback
		}
		n = d.InexactFloat64()
	case string:
		parsed, ok := parseAmountString(t)
		if !ok {
			return fallback
		}
		n = parsed
	default:
		return fallback
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return fallback
	}
	return n
}

func parseAmountString(raw string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			return r
		default:
			return -1
		}
	}, raw)
	if cleaned == "" {
		return 0, false
	}
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// RoundMoney rounds x to two decimal places, half away from zero.
// Non-finite input rounds to 0.
func RoundMoney(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return decimal.NewFromFloat(x).Round(moneyPlaces).InexactFloat64()
}

func money(x float64) decimal.Decimal {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(x)
}

func addMoney(a, b float64) float64 {
	return money(a).Add(money(b)).Round(moneyPlaces).InexactFloat64()
}

func subMoney(a, b float64) float64 {
	return money(a).Sub(money(b)).Round(moneyPlaces).InexactFloat64()
}

func mulMoney(price float64, qty int) float64 {
	return money(price).Mul(decimal.NewFromInt(int64(qty))).Round(moneyPlaces).InexactFloat64()
}

// divMoney divides a money amount by a count; a zero count yields 0.
func divMoney(amount float64, count float64) float64 {
	if count == 0 {
		return 0
	}
	return money(amount).Div(money(count)).Round(moneyPlaces).InexactFloat64()
}

func nonNegative(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

// ParseQuantity converts a quantity field into a non-negative whole number,
// truncating any fractional part.
func ParseQuantity(v interface{}) int {
	n := ParseNumber(v, 0)
	if n <= 0 {
		return 0
	}
	return int(math.Trunc(n))
}

// ParseTime accepts BSON dates, time.Time, common string layouts and epoch
// milliseconds. The result is expressed in loc.
func ParseTime(v interface{}, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	var t time.Time
	switch val := v.(type) {
	case time.Time:
		t = val
	case primitive.DateTime:
		t = val.Time()
	case primitive.Timestamp:
		t = time.Unix(int64(val.T), 0)
	case int64:
		t = time.UnixMilli(val)
	case int32:
		t = time.UnixMilli(int64(val))
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return time.Time{}, false
		}
		t = time.UnixMilli(int64(val))
	case string:
		parsed, ok := parseTimeString(val, loc)
		if !ok {
			return time.Time{}, false
		}
		t = parsed
	default:
		return time.Time{}, false
	}
	if t.IsZero() {
		return time.Time{}, false
	}
	return t.In(loc), true
}

func parseTimeString(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isDateOnly(raw string) bool {
	_, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	return err == nil
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// NormalizeOrder maps a raw order document onto the canonical Order shape,
// backfilling line items and the customer from the catalog.
func NormalizeOrder(doc models.Document, cat Catalog, loc *time.Location) models.Order {
	order := models.Order{
		ID:      resolveString(doc, fieldOrderID),
		Code:    resolveString(doc, fieldOrderCode),
		Status:  resolveString(doc, fieldOrderStatus),
		UserRef: resolveString(doc, fieldOrderUserRef),
	}

	if raw, ok := resolveValue(doc, fieldOrderDate); ok {
		order.Date, order.HasDate = ParseTime(raw, loc)
	}

	if snapshot, ok := resolveDocument(doc, fieldOrderCustomer); ok {
		order.Customer = models.CustomerSnapshot{
			ID:    resolveString(snapshot, fieldCustomerID),
			Name:  resolveString(snapshot, fieldCustomerName),
			Email: resolveString(snapshot, fieldCustomerEmail),
			Phone: resolveString(snapshot, fieldCustomerPhone),
		}
	}
	order.Customer = cat.backfillCustomer(order.Customer, order.UserRef)

	for _, raw := range resolveList(doc, fieldOrderItems) {
		itemDoc, ok := asMap(raw)
		if !ok {
			continue
		}
		order.Items = append(order.Items, normalizeItem(itemDoc, cat))
	}

	order.Subtotal = RoundMoney(nonNegative(resolveNumber(doc, fieldOrderSubtotal)))
	order.Tax = RoundMoney(nonNegative(resolveNumber(doc, fieldOrderTax)))
	order.Shipping = RoundMoney(nonNegative(resolveNumber(doc, fieldOrderShipping)))
	order.Discount = RoundMoney(nonNegative(resolveNumber(doc, fieldOrderDiscount)))
	order.Total = resolveOrderTotal(doc, order)

	return order
}

func normalizeItem(doc map[string]interface{}, cat Catalog) models.LineItem {
	item := models.LineItem{
		ProductID: resolveString(doc, fieldItemProductID),
		Name:      resolveString(doc, fieldItemName),
		Category:  resolveString(doc, fieldItemCategory),
		Quantity:  ParseQuantity(resolveNumber(doc, fieldItemQuantity)),
	}
	item.UnitPrice = RoundMoney(nonNegative(resolveNumber(doc, fieldItemUnitPrice)))

	if product, ok := cat.Products[item.ProductID]; ok {
		if item.Name == "" {
			item.Name = product.Name
		}
		if item.Category == "" {
			item.Category = product.Category
		}
		if item.UnitPrice == 0 {
			item.UnitPrice = product.Price
		}
	}

	item.Revenue = resolveItemRevenue(doc, item)
	return item
}

// resolveItemRevenue applies: explicit line revenue, then unit price times
// quantity, then 0.
func resolveItemRevenue(doc map[string]interface{}, item models.LineItem) float64 {
	if explicit := RoundMoney(nonNegative(resolveNumber(doc, fieldItemRevenue))); explicit > 0 {
		return explicit
	}
	if derived := mulMoney(item.UnitPrice, item.Quantity); derived > 0 {
		return derived
	}
	return 0
}

// resolveOrderTotal applies: explicit total, then the components
// (subtotal - discount + tax + shipping), then the sum of line revenues, then 0.
func resolveOrderTotal(doc models.Document, order models.Order) float64 {
	if explicit := RoundMoney(nonNegative(resolveNumber(doc, fieldOrderTotal))); explicit > 0 {
		return explicit
	}

	if order.Subtotal != 0 || order.Tax != 0 || order.Shipping != 0 || order.Discount != 0 {
		composed := subMoney(order.Subtotal, order.Discount)
		composed = addMoney(composed, order.Tax)
		composed = addMoney(composed, order.Shipping)
		if composed > 0 {
			return composed
		}
	}

	var fromItems float64
	for _, item := range order.Items {
		fromItems = addMoney(fromItems, item.Revenue)
	}
	return nonNegative(fromItems)
}

// NormalizeOrders normalizes every document in order.
func NormalizeOrders(docs []models.Document, cat Catalog, loc *time.Location) []models.Order {
	orders := make([]models.Order, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, NormalizeOrder(doc, cat, loc))
	}
	return orders
}
