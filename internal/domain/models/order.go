package models

import "time"

// Document is a raw record as stored in the document database. Orders,
// products and users are read in this form because their field names drifted
// over time and are resolved later through an alias table.
type Document = map[string]interface{}

// Order is the canonical shape of an order after normalization.
type Order struct {
	ID       string
	Code     string
	Date     time.Time
	HasDate  bool
	Status   string
	Customer CustomerSnapshot
	UserRef  string
	Items    []LineItem

	Subtotal float64
	Tax      float64
	Shipping float64
	Discount float64
	// Total is the resolved order revenue, never negative.
	Total float64
}

// LineItem is one product entry within an order.
type LineItem struct {
	ProductID string
	Name      string
	Category  string
	Quantity  int
	UnitPrice float64
	Revenue   float64
}

// CustomerSnapshot is the customer data embedded in an order at purchase time.
type CustomerSnapshot struct {
	ID    string `bson:"id" json:"id,omitempty"`
	Name  string `bson:"name" json:"name,omitempty"`
	Email string `bson:"email" json:"email,omitempty"`
	Phone string `bson:"phone" json:"phone,omitempty"`
}
