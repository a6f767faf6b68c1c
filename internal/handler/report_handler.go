package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"workorder/internal/model"
	"workorder/internal/report"
)

type ReportEngine interface {
	TasksByStatus(ctx context.Context, f model.TaskQuery) ([]report.GroupCount, error)
	TasksByCriticality(ctx context.Context, f model.TaskQuery) ([]report.GroupCount, error)
	TasksByType(ctx context.Context, f model.TaskQuery) ([]report.GroupCount, error)
	AverageResolutionTime(ctx context.Context, f model.TaskQuery) (report.Resolution, error)
	ResolutionByCriticality(ctx context.Context, f model.TaskQuery) ([]report.GroupResolution, error)
	ResolutionByType(ctx context.Context, f model.TaskQuery) ([]report.GroupResolution, error)
	Workload(ctx context.Context, f model.TaskQuery) ([]report.WorkloadEntry, error)
	Dashboard(ctx context.Context, f model.TaskQuery) (*report.Dashboard, error)
}

// ReportHandler serves read-only aggregates. Every endpoint accepts the task
// filter query string, with start_date/end_date bounding the creation date.
type ReportHandler struct {
	engine ReportEngine
}

func NewReportHandler(engine ReportEngine) *ReportHandler {
	return &ReportHandler{engine: engine}
}

func (h *ReportHandler) TasksByStatus(c *gin.Context) {
	serveReport(c, h.engine.TasksByStatus)
}

func (h *ReportHandler) TasksByCriticality(c *gin.Context) {
	serveReport(c, h.engine.TasksByCriticality)
}

func (h *ReportHandler) TasksByType(c *gin.Context) {
	serveReport(c, h.engine.TasksByType)
}

func (h *ReportHandler) AverageResolutionTime(c *gin.Context) {
	serveReport(c, h.engine.AverageResolutionTime)
}

func (h *ReportHandler) ResolutionByCriticality(c *gin.Context) {
	serveReport(c, h.engine.ResolutionByCriticality)
}

func (h *ReportHandler) ResolutionByType(c *gin.Context) {
	serveReport(c, h.engine.ResolutionByType)
}

func (h *ReportHandler) Workload(c *gin.Context) {
	serveReport(c, h.engine.Workload)
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	serveReport(c, h.engine.Dashboard)
}

func serveReport[T any](c *gin.Context, run func(context.Context, model.TaskQuery) (T, error)) {
	f, err := bindTaskQuery(c, byCreated)
	if err != nil {
		writeError(c, err)
		return
	}
	out, err := run(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
