package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopreports/internal/domain/models"
	"github.com/mamadbah2/shopreports/internal/service/reporting"
)

const runTimeout = 2 * time.Minute

// SnapshotGenerator produces and persists snapshot reports.
type SnapshotGenerator interface {
	Snapshot(ctx context.Context, save models.SaveOptions) (models.SnapshotReport, *models.Report, error)
}

// SnapshotExporter ships a snapshot to an external sink.
type SnapshotExporter interface {
	ExportSnapshot(ctx context.Context, report models.SnapshotReport) error
}

// Notifier delivers a text digest.
type Notifier interface {
	Notify(ctx context.Context, body string) (string, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	spec      string
	generator SnapshotGenerator
	exporter  SnapshotExporter
	notifier  Notifier
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a new scheduler instance running spec in loc.
// exporter and notifier are optional.
func NewScheduler(spec string, loc *time.Location, generator SnapshotGenerator, exporter SnapshotExporter, notifier Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		spec:      spec,
		generator: generator,
		exporter:  exporter,
		notifier:  notifier,
		logger:    logger,
		now:       func() time.Time { return time.Now().In(loc) },
	}
}

// Start registers the daily snapshot job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.spec))

	if _, err := s.cron.AddFunc(s.spec, s.runDailySnapshot); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDailySnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	s.RunOnce(ctx)
}

// RunOnce generates and persists a snapshot, then exports and announces it.
// Export and notification failures are logged and do not stop each other.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.logger.Info("generating scheduled snapshot")

	save := models.SaveOptions{
		Save:      true,
		Name:      "daily-snapshot-" + s.now().Format("2006-01-02"),
		CreatedBy: "scheduler",
	}
	report, _, err := s.generator.Snapshot(ctx, save)
	if err != nil {
		s.logger.Error("failed to generate scheduled snapshot", zap.Error(err))
		return
	}

	if s.exporter != nil {
		if err := s.exporter.ExportSnapshot(ctx, report); err != nil {
			s.logger.Error("failed to export snapshot", zap.Error(err))
		}
	}

	if s.notifier != nil {
		if id, err := s.notifier.Notify(ctx, reporting.FormatSnapshotSummary(report)); err != nil {
			s.logger.Error("failed to send snapshot summary", zap.Error(err))
		} else {
			s.logger.Info("snapshot summary sent", zap.String("message_id", id))
		}
	}
}
