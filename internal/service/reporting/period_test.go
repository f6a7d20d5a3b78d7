package reporting

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/shopreports/internal/domain/models"
)

func TestWindowStarts(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)

	sunday := time.Date(2026, 10, 18, 22, 15, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, loc), StartOfDay(sunday))
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, loc), StartOfWeek(sunday))
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, loc), StartOfMonth(sunday))

	monday := time.Date(2026, 10, 12, 0, 0, 1, 0, loc)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, loc), StartOfWeek(monday))

	crossesMonth := time.Date(2026, 10, 2, 8, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 9, 28, 0, 0, 0, 0, loc), StartOfWeek(crossesMonth))
}

func TestPeriodKey(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		by   models.GroupBy
		want string
	}{
		{name: "day", at: time.Date(2026, 10, 15, 23, 59, 0, 0, time.UTC), by: models.GroupByDay, want: "2026-10-15"},
		{name: "month", at: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), by: models.GroupByMonth, want: "2026-03"},
		{name: "unknown granularity buckets by month", at: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), by: "quarter", want: "2026-03"},
		{name: "week", at: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), by: models.GroupByWeek, want: "2026-W42"},
		{name: "week belongs to previous iso year", at: time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC), by: models.GroupByWeek, want: "2020-W53"},
		{name: "week belongs to next iso year", at: time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), by: models.GroupByWeek, want: "2025-W01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PeriodKey(tt.at, tt.by))
		})
	}
}

func TestPeriodKeysSortChronologically(t *testing.T) {
	start := time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC)
	for _, g := range []models.GroupBy{models.GroupByDay, models.GroupByWeek, models.GroupByMonth} {
		var keys []string
		for d := 0; d < 120; d += 3 {
			keys = append(keys, PeriodKey(start.AddDate(0, 0, d), g))
		}
		assert.True(t, sort.StringsAreSorted(keys), "keys for %s are not chronological: %v", g, keys)
	}
}

func TestParseGroupBy(t *testing.T) {
	assert.Equal(t, models.GroupByDay, parseGroupBy(" Day "))
	assert.Equal(t, models.GroupByWeek, parseGroupBy("week"))
	assert.Equal(t, models.GroupByMonth, parseGroupBy(""))
	assert.Equal(t, models.GroupByMonth, parseGroupBy("year"))
}
