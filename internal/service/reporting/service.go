package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/shopreports/internal/domain/models"
)

// Store is the persistence surface the reporting service reads from and
// writes finished reports to.
type Store interface {
	FindOrders(ctx context.Context, query models.OrderQuery) ([]models.Document, error)
	FindProducts(ctx context.Context) ([]models.Document, error)
	FindUsers(ctx context.Context) ([]models.Document, error)
	SaveReport(ctx context.Context, report *models.Report) error
	ListReports(ctx context.Context, query models.ReportQuery) ([]models.Report, error)
}

// Service loads orders from the store, runs the aggregation engines and
// optionally persists their result.
type Service struct {
	store  Store
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new reporting service instance. A nil location means the
// host's local time zone.
func NewService(store Store, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store:  store,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

// Snapshot computes the all-time snapshot report.
func (s *Service) Snapshot(ctx context.Context, save models.SaveOptions) (models.SnapshotReport, *models.Report, error) {
	started := time.Now()
	now := s.now().In(s.loc)

	orders, err := s.loadOrders(ctx, models.OrderQuery{}, false)
	if err != nil {
		return models.SnapshotReport{}, nil, err
	}

	report := BuildSnapshot(orders, now)
	s.logger.Info("snapshot report generated",
		zap.Int("orders", report.Totals.Orders),
		zap.Float64("sales", report.Totals.Sales),
		zap.Duration("duration", time.Since(started)))

	record, err := s.persist(ctx, models.KindReport, models.ReportSnapshot, report, save, now)
	if err != nil {
		return models.SnapshotReport{}, nil, err
	}
	return report, record, nil
}

// Custom computes a filtered report. The date range and status are pushed to
// the store and re-checked in memory.
func (s *Service) Custom(ctx context.Context, in models.CustomFilterInput, save models.SaveOptions) (models.CustomReport, *models.Report, error) {
	started := time.Now()
	now := s.now().In(s.loc)
	filters := NormalizeFilters(in, now)

	query := models.OrderQuery{
		From:   filters.PeriodStart,
		To:     filters.PeriodEnd,
		Status: filters.Status,
	}
	orders, err := s.loadOrders(ctx, query, true)
	if err != nil {
		return models.CustomReport{}, nil, err
	}

	report := BuildCustomReport(orders, filters, now)
	s.logger.Info("custom report generated",
		zap.String("type", string(filters.Type)),
		zap.String("group_by", string(filters.GroupBy)),
		zap.Int("candidates", len(orders)),
		zap.Float64("sales", report.Totals.Sales),
		zap.Duration("duration", time.Since(started)))

	record, err := s.persist(ctx, models.KindReport, filters.Type, report, save, now)
	if err != nil {
		return models.CustomReport{}, nil, err
	}
	return report, record, nil
}

// Projection computes the monthly series and its forecast.
func (s *Service) Projection(ctx context.Context, in models.ProjectionOptions, save models.SaveOptions) (models.ProjectionResult, *models.Report, error) {
	started := time.Now()
	now := s.now().In(s.loc)
	opts := NormalizeProjectionOptions(in)

	orders, err := s.loadOrders(ctx, models.OrderQuery{}, false)
	if err != nil {
		return models.ProjectionResult{}, nil, err
	}

	result := BuildProjection(orders, opts, now)
	s.logger.Info("financial projection generated",
		zap.String("model", string(opts.Model)),
		zap.Int("months_observed", len(result.Series)),
		zap.Int("forecast_months", len(result.Projections)),
		zap.Duration("duration", time.Since(started)))

	record, err := s.persist(ctx, models.KindProjection, models.ReportFinancial, result, save, now)
	if err != nil {
		return models.ProjectionResult{}, nil, err
	}
	return result, record, nil
}

// ListReports returns persisted reports or projections, newest first.
func (s *Service) ListReports(ctx context.Context, query models.ReportQuery) ([]models.Report, error) {
	reports, err := s.store.ListReports(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", query.Kind, err)
	}
	return reports, nil
}

func (s *Service) loadOrders(ctx context.Context, query models.OrderQuery, withUsers bool) ([]models.Order, error) {
	docs, err := s.store.FindOrders(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	products, err := s.store.FindProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	var users []models.Document
	if withUsers {
		users, err = s.store.FindUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("load users: %w", err)
		}
	}

	orders := NormalizeOrders(docs, NewCatalog(products, users), s.loc)
	for _, o := range orders {
		if !o.HasDate {
			s.logger.Debug("order without usable date", zap.String("order_id", o.ID))
		}
	}
	return orders, nil
}

func (s *Service) persist(ctx context.Context, kind models.ReportKind, typ models.ReportType, payload interface{}, save models.SaveOptions, now time.Time) (*models.Report, error) {
	if !save.Save {
		return nil, nil
	}

	name := save.Name
	if name == "" {
		name = fmt.Sprintf("%s-%s", typ, now.Format("2006-01-02T15:04"))
	}

	record := &models.Report{
		Kind:      kind,
		Name:      name,
		Type:      typ,
		Payload:   payload,
		CreatedBy: save.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.SaveReport(ctx, record); err != nil {
		return nil, fmt.Errorf("save %s: %w", kind, err)
	}

	s.logger.Info("report persisted", zap.String("name", record.Name), zap.String("type", string(typ)), zap.String("id", record.ID.Hex()))
	return record, nil
}

// FormatSnapshotSummary renders a short plain-text digest of a snapshot,
// suitable for chat notifications.
func FormatSnapshotSummary(r models.SnapshotReport) string {
	summary := fmt.Sprintf("Sales report (%s)\nToday: %.2f across %d orders.\nWeek: %.2f across %d orders.\nMonth: %.2f across %d orders.\nAll time: %.2f across %d orders, avg %.2f.",
		r.GeneratedAt.Format("2006-01-02 15:04"),
		r.Sales.Today, r.Orders.Today,
		r.Sales.Week, r.Orders.Week,
		r.Sales.Month, r.Orders.Month,
		r.Totals.Sales, r.Totals.Orders, r.Totals.AvgOrderValue)

	if len(r.TopProducts) > 0 {
		best := r.TopProducts[0]
		summary += fmt.Sprintf("\nBest seller: %s (%d units).", best.Name, best.Quantity)
	}
	return summary
}
