package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"order-analytics/internal/report"
	"order-analytics/internal/service"
	"order-analytics/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReadinessCheck reports whether a dependency can serve requests
type ReadinessCheck func(ctx context.Context) error

// Handler contains HTTP handlers
type Handler struct {
	reportService *service.ReportService
	checks        map[string]ReadinessCheck
}

// NewHandler creates a new HTTP handler
func NewHandler(reportService *service.ReportService, checks map[string]ReadinessCheck) *Handler {
	return &Handler{
		reportService: reportService,
		checks:        checks,
	}
}

const dateLayout = "2006-01-02"

// rangeQuery carries the optional inclusive day bounds of a report. An
// absent or empty bound defaults to the span of the data.
type rangeQuery struct {
	Start string `form:"start"`
	End   string `form:"end"`
}

// bounds holds the parsed range, nil where a bound was not given
type bounds struct {
	Start *time.Time
	End   *time.Time
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/dataset", h.getDataset)

		reports := v1.Group("/reports")
		reports.GET("/daily", h.getDaily)
		reports.GET("/rfm", h.getRFM)
		reports.GET("/rfm/summary", h.getRFMSummary)
		reports.GET("/breakdowns", h.getBreakdowns)
		reports.GET("/export.xlsx", h.export)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports not ready while any dependency check fails
func (h *Handler) readinessCheck(c *gin.Context) {
	failures := gin.H{}
	for name, check := range h.checks {
		if err := check(c.Request.Context()); err != nil {
			failures[name] = err.Error()
		}
	}

	if len(failures) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not ready",
			"details": failures,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// getDataset describes the loaded dataset and how cleaning affected it
func (h *Handler) getDataset(c *gin.Context) {
	ds := h.reportService.Dataset()
	c.JSON(http.StatusOK, gin.H{
		"id":          ds.ID,
		"loaded_at":   ds.LoadedAt,
		"joined_rows": len(ds.Joined),
		"sources":     ds.Stats,
	})
}

// getDaily handles the daily order volume report
func (h *Handler) getDaily(c *gin.Context) {
	q, ok := bindRange(c)
	if !ok {
		return
	}

	rep, err := h.reportService.DailyReport(c.Request.Context(), q.Start, q.End)
	if err != nil {
		respondError(c, "Failed to build daily report", err)
		return
	}

	c.JSON(http.StatusOK, rep)
}

// getRFM handles the per-customer RFM table
func (h *Handler) getRFM(c *gin.Context) {
	res, err := h.reportService.RFM(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to build RFM table", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// getRFMSummary handles segment counts and score distributions
func (h *Handler) getRFMSummary(c *gin.Context) {
	res, err := h.reportService.RFMSummary(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to build RFM summary", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// getBreakdowns handles payment, status, product and zip code breakdowns
func (h *Handler) getBreakdowns(c *gin.Context) {
	res, err := h.reportService.Breakdowns(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to build breakdowns", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// export streams the XLSX workbook
func (h *Handler) export(c *gin.Context) {
	q, ok := bindRange(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.reportService.Export(c.Request.Context(), &buf, q.Start, q.End); err != nil {
		respondError(c, "Failed to export workbook", err)
		return
	}

	filename := fmt.Sprintf("order-analytics-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func bindRange(c *gin.Context) (bounds, bool) {
	var q rangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRange(c, err)
		return bounds{}, false
	}

	var b bounds
	var err error
	if b.Start, err = parseDay("start", q.Start); err != nil {
		badRange(c, err)
		return bounds{}, false
	}
	if b.End, err = parseDay("end", q.End); err != nil {
		badRange(c, err)
		return bounds{}, false
	}
	return b, true
}

func parseDay(name, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return &t, nil
}

func badRange(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid date range",
		"details": err.Error(),
	})
}

// respondError maps domain errors to status codes
func respondError(c *gin.Context, msg string, err error) {
	var invalid *report.InvalidRangeError
	if errors.As(err, &invalid) {
		badRange(c, err)
		return
	}

	util.GetLogger().Error(msg, zap.Error(err), zap.String("path", c.FullPath()))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   msg,
		"details": err.Error(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
