package reporting

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// field names a canonical attribute that may live under several source paths.
type field string

const (
	fieldOrderID       field = "order.id"
	fieldOrderCode     field = "order.code"
	fieldOrderDate     field = "order.date"
	fieldOrderStatus   field = "order.status"
	fieldOrderCustomer field = "order.customer"
	fieldOrderUserRef  field = "order.userRef"
	fieldOrderItems    field = "order.items"
	fieldOrderTotal    field = "order.total"
	fieldOrderSubtotal field = "order.subtotal"
	fieldOrderTax      field = "order.tax"
	fieldOrderShipping field = "order.shipping"
	fieldOrderDiscount field = "order.discount"

	fieldItemProductID field = "item.productId"
	fieldItemQuantity  field = "item.quantity"
	fieldItemUnitPrice field = "item.unitPrice"
	fieldItemRevenue   field = "item.revenue"
	fieldItemName      field = "item.name"
	fieldItemCategory  field = "item.category"

	fieldCustomerID    field = "customer.id"
	fieldCustomerName  field = "customer.name"
	fieldCustomerEmail field = "customer.email"
	fieldCustomerPhone field = "customer.phone"

	fieldCatalogID       field = "catalog.id"
	fieldCatalogName     field = "catalog.name"
	fieldCatalogCategory field = "catalog.category"
	fieldCatalogPrice    field = "catalog.price"
	fieldCatalogEmail    field = "catalog.email"
)

// fieldAliases lists, per canonical field, the dotted source paths in the
// order they are tried. Earlier paths are the current schema, later ones are
// legacy shapes still present in old documents.
var fieldAliases = map[field][]string{
	fieldOrderID:       {"_id", "id"},
	fieldOrderCode:     {"codigo", "code", "numero", "orderNumber"},
	fieldOrderDate:     {"fecha", "createdAt", "created_at", "date"},
	fieldOrderStatus:   {"estado", "status"},
	fieldOrderCustomer: {"resumen.cliente", "cliente", "customer"},
	fieldOrderUserRef:  {"usuario", "userId", "usuarioId", "user"},
	fieldOrderItems:    {"resumen.productos", "resumen.items", "productos", "items"},
	fieldOrderTotal:    {"resumen.totales.total", "totales.total", "resumen.total", "total"},
	fieldOrderSubtotal: {"resumen.totales.subtotal", "totales.subtotal", "subtotal"},
	fieldOrderTax:      {"resumen.totales.impuestos", "resumen.totales.iva", "totales.impuestos", "totales.iva", "impuestos", "iva", "tax"},
	fieldOrderShipping: {"resumen.totales.envio", "totales.envio", "envio", "costoEnvio", "shipping"},
	fieldOrderDiscount: {"resumen.totales.descuento", "totales.descuento", "descuento", "discount"},

	fieldItemProductID: {"productId", "productoId", "product_id", "producto", "id"},
	fieldItemQuantity:  {"cantidad", "quantity", "qty", "unidades"},
	fieldItemUnitPrice: {"precioUnitario", "precio", "unitPrice", "price"},
	fieldItemRevenue:   {"subtotal", "total", "importe", "lineTotal"},
	fieldItemName:      {"nombre", "name", "producto.nombre", "title"},
	fieldItemCategory:  {"categoria", "category", "producto.categoria"},

	fieldCustomerID:    {"id", "_id", "userId"},
	fieldCustomerName:  {"nombre", "name"},
	fieldCustomerEmail: {"email", "correo"},
	fieldCustomerPhone: {"telefono", "phone"},

	fieldCatalogID:       {"_id", "id"},
	fieldCatalogName:     {"nombre", "name"},
	fieldCatalogCategory: {"categoria", "category"},
	fieldCatalogPrice:    {"precio", "price"},
	fieldCatalogEmail:    {"email", "correo"},
}

// lookupPath walks a dotted path through nested documents.
func lookupPath(doc interface{}, path string) (interface{}, bool) {
	cur := doc
	for _, key := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		v, ok := m[key]
		if !ok || v == nil {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// resolveValue returns the first present value of f.
func resolveValue(doc interface{}, f field) (interface{}, bool) {
	for _, path := range fieldAliases[f] {
		if v, ok := lookupPath(doc, path); ok {
			return v, true
		}
	}
	return nil, false
}

// resolveNumber returns the first non-zero numeric value of f, or 0.
func resolveNumber(doc interface{}, f field) float64 {
	for _, path := range fieldAliases[f] {
		v, ok := lookupPath(doc, path)
		if !ok {
			continue
		}
		if n := ParseNumber(v, 0); n != 0 {
			return n
		}
	}
	return 0
}

// resolveString returns the first non-empty string form of f.
func resolveString(doc interface{}, f field) string {
	for _, path := range fieldAliases[f] {
		v, ok := lookupPath(doc, path)
		if !ok {
			continue
		}
		if s := stringID(v); s != "" {
			return s
		}
	}
	return ""
}

// resolveList returns the first non-empty array of f.
func resolveList(doc interface{}, f field) []interface{} {
	for _, path := range fieldAliases[f] {
		v, ok := lookupPath(doc, path)
		if !ok {
			continue
		}
		if list := asSlice(v); len(list) > 0 {
			return list
		}
	}
	return nil
}

// resolveDocument returns the first embedded document of f.
func resolveDocument(doc interface{}, f field) (map[string]interface{}, bool) {
	for _, path := range fieldAliases[f] {
		v, ok := lookupPath(doc, path)
		if !ok {
			continue
		}
		if m, ok := asMap(v); ok {
			return m, true
		}
	}
	return nil, false
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		return t, true
	case primitive.M:
		return t, true
	case primitive.D:
		m := make(map[string]interface{}, len(t))
		for _, e := range t {
			m[e.Key] = e.Value
		}
		return m, true
	default:
		return nil, false
	}
}

func asSlice(v interface{}) []interface{} {
	switch t := v.(type) {
	case []interface{}:
		return t
	case primitive.A:
		return t
	case []map[string]interface{}:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out
	case []primitive.M:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out
	default:
		return nil
	}
}

// stringID renders identifiers and text values. Embedded documents resolve
// to their own _id or id.
func stringID(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case primitive.ObjectID:
		if t.IsZero() {
			return ""
		}
		return t.Hex()
	case int32, int64, int, float64:
		n := ParseNumber(t, 0)
		if n == 0 {
			return ""
		}
		return formatNumber(n)
	}
	if m, ok := asMap(v); ok {
		for _, key := range []string{"_id", "id"} {
			if inner, ok := m[key]; ok {
				if _, nested := asMap(inner); nested {
					continue
				}
				return stringID(inner)
			}
		}
	}
	return ""
}
