package models

// Product holds the catalog fields used to backfill line items.
type Product struct {
	ID       string
	Name     string
	Category string
	Price    float64
}

// User holds the account fields used to backfill customer snapshots.
type User struct {
	ID    string
	Name  string
	Email string
}
