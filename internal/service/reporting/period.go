package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/shopreports/internal/domain/models"
)

// All window helpers work in the location carried by t.

// StartOfDay truncates t to midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Monday midnight on or before t.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	daysSinceMonday := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -daysSinceMonday)
}

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// PeriodKey renders the bucket t falls in: YYYY-MM-DD for days, YYYY-Www for
// ISO weeks and YYYY-MM for months. Unknown granularities bucket by month.
func PeriodKey(t time.Time, g models.GroupBy) string {
	switch g {
	case models.GroupByDay:
		return t.Format("2006-01-02")
	case models.GroupByWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	default:
		return t.Format("2006-01")
	}
}

func parseGroupBy(raw string) models.GroupBy {
	g := models.GroupBy(strings.ToLower(strings.TrimSpace(raw)))
	switch g {
	case models.GroupByDay, models.GroupByWeek:
		return g
	default:
		return models.GroupByMonth
	}
}
