package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportKind selects the collection a persisted record belongs to.
type ReportKind string

const (
	KindReport     ReportKind = "report"
	KindProjection ReportKind = "projection"
)

// ReportType enumerates the payload families stored in a Report.
type ReportType string

const (
	ReportSnapshot  ReportType = "snapshot"
	ReportSales     ReportType = "sales"
	ReportProducts  ReportType = "products"
	ReportUsers     ReportType = "users"
	ReportCustom    ReportType = "custom"
	ReportFinancial ReportType = "financial"
)

// Report is a named, typed payload persisted at the end of an aggregation run.
type Report struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind      ReportKind         `bson:"-" json:"-"`
	Name      string             `bson:"name" json:"name"`
	Type      ReportType         `bson:"type" json:"type"`
	Payload   interface{}        `bson:"payload" json:"payload"`
	CreatedBy string             `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SaveOptions asks a report operation to persist its result.
type SaveOptions struct {
	Save      bool
	Name      string
	CreatedBy string
}

// ReportQuery filters the listing of persisted records.
type ReportQuery struct {
	Kind  ReportKind
	Type  ReportType
	Limit int
}

// Period is the window a report covers.
type Period struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

// ProductSales is the accumulated quantity and revenue of one product.
type ProductSales struct {
	ProductID string  `bson:"productId" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Category  string  `bson:"category,omitempty" json:"category,omitempty"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Revenue   float64 `bson:"revenue" json:"revenue"`
}

// CustomerSpend is the accumulated spend of one customer.
type CustomerSpend struct {
	Key    string  `bson:"key" json:"key"`
	ID     string  `bson:"id,omitempty" json:"id,omitempty"`
	Name   string  `bson:"name,omitempty" json:"name,omitempty"`
	Email  string  `bson:"email,omitempty" json:"email,omitempty"`
	Phone  string  `bson:"phone,omitempty" json:"phone,omitempty"`
	Orders int     `bson:"orders" json:"orders"`
	Total  float64 `bson:"total" json:"total"`
}

// SeriesPoint is one period bucket of a sales time series.
type SeriesPoint struct {
	Period string  `bson:"period" json:"period"`
	Sales  float64 `bson:"sales" json:"sales"`
	Orders int     `bson:"orders" json:"orders"`
}

// SnapshotTotals are the all-time figures of a snapshot report.
type SnapshotTotals struct {
	Sales         float64 `bson:"sales" json:"sales"`
	Orders        int     `bson:"orders" json:"orders"`
	Items         int     `bson:"items" json:"items"`
	AvgOrderValue float64 `bson:"avgOrderValue" json:"avgOrderValue"`
}

// WindowSales holds a money figure for each relative window.
type WindowSales struct {
	Today float64 `bson:"today" json:"today"`
	Week  float64 `bson:"week" json:"week"`
	Month float64 `bson:"month" json:"month"`
}

// WindowCounts holds an order count for each relative window.
type WindowCounts struct {
	Today int `bson:"today" json:"today"`
	Week  int `bson:"week" json:"week"`
	Month int `bson:"month" json:"month"`
}

// SnapshotReport is the always-current aggregation over every recorded order.
type SnapshotReport struct {
	Totals            SnapshotTotals     `bson:"totals" json:"totals"`
	Sales             WindowSales        `bson:"sales" json:"sales"`
	Orders            WindowCounts       `bson:"orders" json:"orders"`
	TopProducts       []ProductSales     `bson:"topProducts" json:"topProducts"`
	RevenueByCategory map[string]float64 `bson:"revenueByCategory" json:"revenueByCategory"`
	GeneratedAt       time.Time          `bson:"generatedAt" json:"generatedAt"`
	Period            Period             `bson:"period" json:"period"`
}

// CustomTotals carries the headline figures of a custom report. Fields that a
// report type does not expose are nil.
type CustomTotals struct {
	Sales         float64  `bson:"sales" json:"sales"`
	Orders        *int     `bson:"orders,omitempty" json:"orders,omitempty"`
	Items         *int     `bson:"items,omitempty" json:"items,omitempty"`
	AvgOrderValue *float64 `bson:"avgOrderValue,omitempty" json:"avgOrderValue,omitempty"`
	Tax           *float64 `bson:"tax,omitempty" json:"tax,omitempty"`
	Shipping      *float64 `bson:"shipping,omitempty" json:"shipping,omitempty"`
}

// CustomReport is the output of a parameterized aggregation.
type CustomReport struct {
	Type              ReportType         `bson:"type" json:"type"`
	Filters           CustomFilters      `bson:"filters" json:"filters"`
	Period            Period             `bson:"period" json:"period"`
	Totals            CustomTotals       `bson:"totals" json:"totals"`
	TopProducts       []ProductSales     `bson:"topProducts,omitempty" json:"topProducts,omitempty"`
	RevenueByCategory map[string]float64 `bson:"revenueByCategory,omitempty" json:"revenueByCategory,omitempty"`
	TopCustomers      []CustomerSpend    `bson:"topCustomers,omitempty" json:"topCustomers,omitempty"`
	TimeSeries        []SeriesPoint      `bson:"timeSeries,omitempty" json:"timeSeries,omitempty"`
	GeneratedAt       time.Time          `bson:"generatedAt" json:"generatedAt"`
}

// MonthlyPoint is one month of the historical series used for projections.
type MonthlyPoint struct {
	Month         string  `bson:"month" json:"month"`
	Total         float64 `bson:"total" json:"total"`
	OrderCount    int     `bson:"orderCount" json:"orderCount"`
	AvgOrderValue float64 `bson:"avgOrderValue" json:"avgOrderValue"`
}

// ForecastPoint is one projected month.
type ForecastPoint struct {
	Month                  string  `bson:"month" json:"month"`
	ProjectedTotal         float64 `bson:"projectedTotal" json:"projectedTotal"`
	ProjectedOrderCount    int     `bson:"projectedOrderCount" json:"projectedOrderCount"`
	ProjectedAvgOrderValue float64 `bson:"projectedAvgOrderValue" json:"projectedAvgOrderValue"`
}

// ProjectionSummary describes the trend the forecast was derived from.
type ProjectionSummary struct {
	AvgTotalDelta      float64 `bson:"avgTotalDelta" json:"avgTotalDelta"`
	AvgOrderDelta      float64 `bson:"avgOrderDelta" json:"avgOrderDelta"`
	HistoricalAvgTotal float64 `bson:"historicalAvgTotal" json:"historicalAvgTotal"`
	HistoricalAvgCount float64 `bson:"historicalAvgOrderCount" json:"historicalAvgOrderCount"`
	LastTotal          float64 `bson:"lastTotal" json:"lastTotal"`
	LastOrderCount     int     `bson:"lastOrderCount" json:"lastOrderCount"`
}

// ProjectionResult is the historical monthly series plus its forecast.
type ProjectionResult struct {
	Model          ProjectionModel   `bson:"model" json:"model"`
	Months         int               `bson:"months" json:"months"`
	ForecastMonths int               `bson:"forecastMonths" json:"forecastMonths"`
	SeriesStart    time.Time         `bson:"seriesStart" json:"seriesStart"`
	Series         []MonthlyPoint    `bson:"series" json:"series"`
	Projections    []ForecastPoint   `bson:"projections" json:"projections"`
	Summary        ProjectionSummary `bson:"summary" json:"summary"`
	GeneratedAt    time.Time         `bson:"generatedAt" json:"generatedAt"`
}
