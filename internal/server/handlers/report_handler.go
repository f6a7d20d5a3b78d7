package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopreports/internal/domain/models"
)

// ReportService describes the reporting operations the HTTP layer exposes.
type ReportService interface {
	Snapshot(ctx context.Context, save models.SaveOptions) (models.SnapshotReport, *models.Report, error)
	Custom(ctx context.Context, in models.CustomFilterInput, save models.SaveOptions) (models.CustomReport, *models.Report, error)
	Projection(ctx context.Context, in models.ProjectionOptions, save models.SaveOptions) (models.ProjectionResult, *models.Report, error)
	ListReports(ctx context.Context, query models.ReportQuery) ([]models.Report, error)
}

// ReportHandler adapts the reporting service to HTTP.
type ReportHandler struct {
	svc    ReportService
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc ReportService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger}
}

type reportResponse struct {
	Report interface{}    `json:"report"`
	Saved  *models.Report `json:"saved"`
}

// Snapshot serves the always-current snapshot report.
func (h *ReportHandler) Snapshot(c *gin.Context) {
	save, _ := strconv.ParseBool(c.Query("save"))
	opts := models.SaveOptions{
		Save:      save,
		Name:      c.Query("name"),
		CreatedBy: c.Query("createdBy"),
	}

	report, saved, err := h.svc.Snapshot(c.Request.Context(), opts)
	if err != nil {
		h.logger.Error("failed generating snapshot report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}

	c.JSON(http.StatusOK, reportResponse{Report: report, Saved: saved})
}

// Custom serves a filtered report built from the request body.
func (h *ReportHandler) Custom(c *gin.Context) {
	body, err := bindPayload(c)
	if err != nil {
		h.logger.Warn("invalid custom report payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	report, saved, err := h.svc.Custom(c.Request.Context(), body.customFilters(), body.saveOptions())
	if err != nil {
		h.logger.Error("failed generating custom report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}

	c.JSON(http.StatusOK, reportResponse{Report: report, Saved: saved})
}

// Projection serves the financial projection.
func (h *ReportHandler) Projection(c *gin.Context) {
	body, err := bindPayload(c)
	if err != nil {
		h.logger.Warn("invalid projection payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, saved, err := h.svc.Projection(c.Request.Context(), body.projectionOptions(), body.saveOptions())
	if err != nil {
		h.logger.Error("failed generating financial projection", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}

	c.JSON(http.StatusOK, reportResponse{Report: result, Saved: saved})
}

// ListReports lists saved reports, optionally filtered by ?type=.
func (h *ReportHandler) ListReports(c *gin.Context) {
	h.list(c, models.ReportQuery{Kind: models.KindReport, Type: models.ReportType(c.Query("type"))})
}

// ListProjections lists saved projections.
func (h *ReportHandler) ListProjections(c *gin.Context) {
	h.list(c, models.ReportQuery{Kind: models.KindProjection})
}

func (h *ReportHandler) list(c *gin.Context, query models.ReportQuery) {
	query.Limit, _ = strconv.Atoi(c.Query("limit"))

	reports, err := h.svc.ListReports(c.Request.Context(), query)
	if err != nil {
		h.logger.Error("failed listing saved reports", zap.String("kind", string(query.Kind)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": reports, "count": len(reports)})
}
