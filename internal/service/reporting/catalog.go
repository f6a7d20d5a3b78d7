package reporting

import (
	"github.com/mamadbah2/shopreports/internal/domain/models"
)

// Catalog indexes products and users by id for backfilling order data.
type Catalog struct {
	Products map[string]models.Product
	Users    map[string]models.User
}

// NewCatalog builds the lookups from raw product and user documents.
// Either slice may be nil.
func NewCatalog(products, users []models.Document) Catalog {
	cat := Catalog{
		Products: make(map[string]models.Product, len(products)),
		Users:    make(map[string]models.User, len(users)),
	}

	for _, doc := range products {
		id := resolveString(doc, fieldCatalogID)
		if id == "" {
			continue
		}
		cat.Products[id] = models.Product{
			ID:       id,
			Name:     resolveString(doc, fieldCatalogName),
			Category: resolveString(doc, fieldCatalogCategory),
			Price:    RoundMoney(nonNegative(resolveNumber(doc, fieldCatalogPrice))),
		}
	}

	for _, doc := range users {
		id := resolveString(doc, fieldCatalogID)
		if id == "" {
			continue
		}
		cat.Users[id] = models.User{
			ID:    id,
			Name:  resolveString(doc, fieldCatalogName),
			Email: resolveString(doc, fieldCatalogEmail),
		}
	}

	return cat
}

// backfillCustomer fills a missing name or email from the user the order
// belongs to.
func (c Catalog) backfillCustomer(customer models.CustomerSnapshot, userRef string) models.CustomerSnapshot {
	if customer.Name != "" && customer.Email != "" {
		return customer
	}

	user, ok := c.Users[customer.ID]
	if !ok {
		user, ok = c.Users[userRef]
	}
	if !ok {
		return customer
	}

	if customer.ID == "" {
		customer.ID = user.ID
	}
	if customer.Name == "" {
		customer.Name = user.Name
	}
	if customer.Email == "" {
		customer.Email = user.Email
	}
	return customer
}
