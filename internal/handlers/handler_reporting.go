package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/shop_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger/internal/dto"
	"github.com/SscSPs/shop_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler serves the shop reports.
type reportingHandler struct {
	reportingService portssvc.ReportingService
	balanceService   portssvc.BalanceSvc
	loc              *time.Location
	now              func() time.Time
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingService, bs portssvc.BalanceSvc, loc *time.Location) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		balanceService:   bs,
		loc:              loc,
		now:              time.Now,
	}
}

// registerReportingRoutes registers the /reports routes.
func registerReportingRoutes(rg *gin.RouterGroup, rs portssvc.ReportingService, bs portssvc.BalanceSvc, loc *time.Location) {
	h := newReportingHandler(rs, bs, loc)

	reports := rg.Group("/reports")
	{
		reports.GET("/dashboard", h.getDashboard)
		reports.GET("/profit-and-loss", h.getProfitAndLoss)
		reports.GET("/outstanding", h.getOutstanding)
		reports.GET("/channel-float", h.getChannelFloat)
		reports.GET("/sales-series", h.getSalesSeries)
	}
}

// getDashboard godoc
// @Summary Shop dashboard
// @Description Sales, profit, receivables, channel balances, stock value, low stock and the weekly trend. Today and this month follow the report time zone.
// @Tags reports
// @Produce json
// @Success 200 {object} domain.Dashboard
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/dashboard [get]
func (h *reportingHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shopID, _, ok := identity(c, logger)
	if !ok {
		return
	}

	dashboard, err := h.reportingService.Dashboard(c.Request.Context(), shopID, h.now())
	if err != nil {
		respondError(c, logger, err, "generate dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// getProfitAndLoss godoc
// @Summary Profit and loss
// @Description Sales, cost of goods sold, gross profit, expenses and net profit for a period. Defaults to all time.
// @Tags reports
// @Produce json
// @Param fromDate query string false "Start date (YYYY-MM-DD)"
// @Param toDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.ProfitAndLoss
// @Failure 400 {object} dto.ErrorResponse "Invalid date range"
// @Security BearerAuth
// @Router /reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ProfitAndLossParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "report query", err)
		return
	}
	shopID, _, ok := identity(c, logger)
	if !ok {
		return
	}
	rng, err := params.Range(h.loc)
	if err != nil {
		respondError(c, logger, err, "generate profit and loss report")
		return
	}

	logger = logger.With(slog.String("fromDate", params.FromDate), slog.String("toDate", params.ToDate))
	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), shopID, rng)
	if err != nil {
		respondError(c, logger, err, "generate profit and loss report")
		return
	}

	logger.Info("Profit and loss report generated", slog.String("net_profit", report.NetProfit.String()))
	c.JSON(http.StatusOK, report)
}

// getOutstanding godoc
// @Summary Receivables and payables
// @Tags reports
// @Produce json
// @Success 200 {object} domain.OutstandingReport
// @Security BearerAuth
// @Router /reports/outstanding [get]
func (h *reportingHandler) getOutstanding(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shopID, _, ok := identity(c, logger)
	if !ok {
		return
	}

	report, err := h.balanceService.Outstanding(c.Request.Context(), shopID)
	if err != nil {
		respondError(c, logger, err, "generate outstanding report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getChannelFloat godoc
// @Summary Cash and online balances
// @Tags reports
// @Produce json
// @Param fromDate query string false "Start date (YYYY-MM-DD)"
// @Param toDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.ChannelFloat
// @Failure 400 {object} dto.ErrorResponse "Invalid date range"
// @Security BearerAuth
// @Router /reports/channel-float [get]
func (h *reportingHandler) getChannelFloat(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ChannelFloatParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "report query", err)
		return
	}
	shopID, _, ok := identity(c, logger)
	if !ok {
		return
	}
	rng, err := params.Range(h.loc)
	if err != nil {
		respondError(c, logger, err, "compute channel float")
		return
	}

	float, err := h.balanceService.ChannelFloat(c.Request.Context(), shopID, rng)
	if err != nil {
		respondError(c, logger, err, "compute channel float")
		return
	}
	c.JSON(http.StatusOK, float)
}

// getSalesSeries godoc
// @Summary Sales by day or month
// @Tags reports
// @Produce json
// @Param granularity query string false "day or month" default(day)
// @Param fromDate query string false "Start date (YYYY-MM-DD)"
// @Param toDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} domain.SeriesPoint
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Security BearerAuth
// @Router /reports/sales-series [get]
func (h *reportingHandler) getSalesSeries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.SalesSeriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "report query", err)
		return
	}
	shopID, _, ok := identity(c, logger)
	if !ok {
		return
	}
	rng, err := params.Range(h.loc)
	if err != nil {
		respondError(c, logger, err, "generate sales series")
		return
	}

	points, err := h.reportingService.SalesSeries(c.Request.Context(), shopID, portssvc.Granularity(params.Granularity), rng)
	if err != nil {
		respondError(c, logger, err, "generate sales series")
		return
	}
	c.JSON(http.StatusOK, points)
}
