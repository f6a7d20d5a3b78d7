package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/shopreports/internal/config"
	"github.com/mamadbah2/shopreports/internal/domain/models"
)

const timestampLayout = "2006-01-02 15:04:05"

// RowWriter appends rows to a spreadsheet range.
type RowWriter interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
}

// GoogleSheetRepository implements RowWriter using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// WriteRow appends the provided values to the supplied sheet range.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// SnapshotExporter appends one summary row per snapshot report.
type SnapshotExporter struct {
	writer     RowWriter
	sheetRange string
}

// NewSnapshotExporter wires an exporter writing into sheetRange.
func NewSnapshotExporter(writer RowWriter, sheetRange string) *SnapshotExporter {
	return &SnapshotExporter{writer: writer, sheetRange: sheetRange}
}

// ExportSnapshot writes the headline figures of report as a single row:
// generated at, today/week/month sales and orders, all-time sales, orders and
// average order value.
func (e *SnapshotExporter) ExportSnapshot(ctx context.Context, report models.SnapshotReport) error {
	return e.writer.WriteRow(ctx, e.sheetRange, SnapshotRow(report))
}

// SnapshotRow lays out the exported columns.
func SnapshotRow(report models.SnapshotReport) []interface{} {
	return []interface{}{
		report.GeneratedAt.Format(timestampLayout),
		report.Sales.Today,
		report.Orders.Today,
		report.Sales.Week,
		report.Orders.Week,
		report.Sales.Month,
		report.Orders.Month,
		report.Totals.Sales,
		report.Totals.Orders,
		report.Totals.AvgOrderValue,
	}
}
