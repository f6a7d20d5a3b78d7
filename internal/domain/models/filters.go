package models

import "time"

// GroupBy is the granularity of a time series.
type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

// ProjectionModel selects the forecast strategy.
type ProjectionModel string

const (
	ModelLinear  ProjectionModel = "linear"
	ModelAverage ProjectionModel = "average"
)

// CustomFilterInput is the caller-supplied configuration of a custom report.
// Every field is optional; out of range or unknown values are defaulted.
type CustomFilterInput struct {
	PeriodStart     string   `json:"periodStart"`
	PeriodEnd       string   `json:"periodEnd"`
	Status          string   `json:"status"`
	Category        string   `json:"category"`
	GroupBy         string   `json:"groupBy"`
	TopN            int      `json:"topN"`
	IncludeTaxes    *bool    `json:"includeTaxes"`
	IncludeShipping *bool    `json:"includeShipping"`
	MinTotal        *float64 `json:"minTotal"`
	MaxTotal        *float64 `json:"maxTotal"`
	Type            string   `json:"type"`
}

// CustomFilters is the resolved configuration a custom report runs with.
type CustomFilters struct {
	PeriodStart     time.Time  `bson:"periodStart" json:"periodStart"`
	PeriodEnd       time.Time  `bson:"periodEnd" json:"periodEnd"`
	Status          string     `bson:"status,omitempty" json:"status,omitempty"`
	Category        string     `bson:"category,omitempty" json:"category,omitempty"`
	GroupBy         GroupBy    `bson:"groupBy" json:"groupBy"`
	TopN            int        `bson:"topN" json:"topN"`
	IncludeTaxes    bool       `bson:"includeTaxes" json:"includeTaxes"`
	IncludeShipping bool       `bson:"includeShipping" json:"includeShipping"`
	MinTotal        *float64   `bson:"minTotal,omitempty" json:"minTotal,omitempty"`
	MaxTotal        *float64   `bson:"maxTotal,omitempty" json:"maxTotal,omitempty"`
	Type            ReportType `bson:"type" json:"type"`
}

// ProjectionOptions configures a financial projection.
type ProjectionOptions struct {
	Months         int             `json:"months"`
	ForecastMonths int             `json:"forecastMonths"`
	Model          ProjectionModel `json:"model"`
}

// OrderQuery narrows the orders read from the store. Zero values mean "no constraint".
type OrderQuery struct {
	From   time.Time
	To     time.Time
	Status string
}
