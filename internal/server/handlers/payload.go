package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/shopreports/internal/domain/models"
	"github.com/mamadbah2/shopreports/internal/service/reporting"
)

// payload is a request body decoded one field at a time. Fields of the wrong
// JSON type are coerced when possible and otherwise treated as absent, so the
// report falls back to that field's default.
type payload map[string]json.RawMessage

// bindPayload decodes the request body. A missing or empty body yields an
// empty payload; only bodies that are not a JSON object are rejected.
func bindPayload(c *gin.Context) (payload, error) {
	p := payload{}
	if c.Request.ContentLength == 0 {
		return p, nil
	}
	if err := c.ShouldBindJSON(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return payload{}, nil
		}
		return nil, err
	}
	return p, nil
}

func (p payload) value(key string) interface{} {
	raw, ok := p[key]
	if !ok {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func (p payload) text(key string) string {
	switch v := p.value(key).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func (p payload) number(key string) (float64, bool) {
	n := reporting.ParseNumber(p.value(key), math.NaN())
	if math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

// integer truncates toward zero and keeps the sign so range clamping still
// applies downstream. Unusable values read as 0, the "use default" value.
func (p payload) integer(key string) int {
	n, ok := p.number(key)
	if !ok || n > math.MaxInt32 || n < math.MinInt32 {
		return 0
	}
	return int(math.Trunc(n))
}

func (p payload) flag(key string) *bool {
	var b bool
	switch v := p.value(key).(type) {
	case bool:
		b = v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		b = parsed
	case float64:
		b = v != 0
	default:
		return nil
	}
	return &b
}

func (p payload) optionalNumber(key string) *float64 {
	n, ok := p.number(key)
	if !ok {
		return nil
	}
	return &n
}

func (p payload) customFilters() models.CustomFilterInput {
	return models.CustomFilterInput{
		PeriodStart:     p.text("periodStart"),
		PeriodEnd:       p.text("periodEnd"),
		Status:          p.text("status"),
		Category:        p.text("category"),
		GroupBy:         p.text("groupBy"),
		TopN:            p.integer("topN"),
		IncludeTaxes:    p.flag("includeTaxes"),
		IncludeShipping: p.flag("includeShipping"),
		MinTotal:        p.optionalNumber("minTotal"),
		MaxTotal:        p.optionalNumber("maxTotal"),
		Type:            p.text("type"),
	}
}

func (p payload) projectionOptions() models.ProjectionOptions {
	return models.ProjectionOptions{
		Months:         p.integer("months"),
		ForecastMonths: p.integer("forecastMonths"),
		Model:          models.ProjectionModel(p.text("model")),
	}
}

func (p payload) saveOptions() models.SaveOptions {
	save := p.flag("save")
	return models.SaveOptions{
		Save:      save != nil && *save,
		Name:      p.text("name"),
		CreatedBy: p.text("createdBy"),
	}
}
