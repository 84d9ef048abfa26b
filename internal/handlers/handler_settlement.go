package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/shop_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/shop_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger/internal/dto"
	"github.com/SscSPs/shop_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// settlementHandler serves receipts or payments.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
	kind              domain.SettlementKind
}

func newSettlementHandler(ss portssvc.SettlementSvcFacade, kind domain.SettlementKind) *settlementHandler {
	return &settlementHandler{settlementService: ss, kind: kind}
}

// registerSettlementRoutes registers /receipts, /payments and the allocation preview.
func registerSettlementRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	for path, kind := range map[string]domain.SettlementKind{
		"/receipts": domain.Receipt,
		"/payments": domain.Payment,
	} {
		h := newSettlementHandler(settlementService, kind)
		group := rg.Group(path)
		{
			group.POST("", h.postSettlement)
			group.GET("", h.listSettlements)
			group.GET("/:settlementID", h.getSettlement)
			group.PUT("/:settlementID", h.updateSettlement)
			group.DELETE("/:settlementID", h.deleteSettlement)
		}
	}

	planner := &settlementHandler{settlementService: settlementService}
	rg.POST("/allocations/plan", planner.planAllocation)
}

// postSettlement godoc
// @Summary Record a receipt or payment
// @Description Posts a settlement. Explicit allocations are applied as given, bill ids alone are allocated proportionally to what each bill still owes.
// @Tags settlements
// @Accept json
// @Produce json
// @Param settlement body dto.SettlementRequest true "Settlement details"
// @Success 201 {object} domain.Settlement
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Party or bill not found"
// @Failure 422 {object} dto.ErrorResponse "Allocation exceeds pending amount"
// @Security BearerAuth
// @Router /receipts [post]
// @Router /payments [post]
func (h *settlementHandler) postSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "settlement request", err)
		return
	}
	shopID, userID, ok := identity(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("kind", string(h.kind)), slog.String("party_id", req.PartyID))
	logger.Info("Received request to post settlement", slog.String("amount", req.Amount.String()), slog.String("type", string(req.Type)))

	st, err := h.settlementService.PostSettlement(c.Request.Context(), shopID, h.kind, req, userID)
	if err != nil {
		respondError(c, logger, err, "post settlement")
		return
	}

	logger.Info("Settlement posted", slog.String("settlement_id", st.SettlementID), slog.Int("allocations", len(st.Allocations)))
	c.JSON(http.StatusCreated, st)
}

// getSettlement godoc
// @Summary Get a receipt or payment
// @Tags settlements
// @Produce json
// @Param settlementID path string true "Settlement ID"
// @Success 200 {object} domain.Settlement
// @Failure 404 {object} dto.ErrorResponse "Settlement not found"
// @Security BearerAuth
// @Router /receipts/{settlementID} [get]
// @Router /payments/{settlementID} [get]
func (h *settlementHandler) getSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shopID, _, ok := identity(c, logger)
	if !ok {
		return
	}
	settlementID := c.Param("settlementID")

	st, err := h.settlementService.GetSettlementByID(c.Request.Context(), shopID, h.kind, settlementID)
	if err != nil {
		respondError(c, logger.With(slog.String("settlement_id", settlementID)), err, "get settlement")
		return
	}
	c.JSON(http.StatusOK, st)
}

// listSettlements godoc
// @Summary List receipts or payments
// @Tags settlements
// @Produce json
// @Param fromDate query string false "Start date (YYYY-MM-DD)"
// @Param toDate query string false "End date (YYYY-MM-DD)"
// @Param partyID query string false "Party filter"
// @Param mode query string false "cash, online or cheque"
// @Param type query string false "bill, advance, other or expense"
// @Param excludeAuto query bool false "Hide settlements created by cash and online bills"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListSettlementsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Security BearerAuth
// @Router /receipts [get]
// @Router /payments [get]
func (h *settlementHandler) listSettlements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListSettlementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "settlement list query", err)
		return
	}
	shopID, _, ok := identity(c, logger)
	if !ok {
		return
	}

	resp, err := h.settlementService.ListSettlements(c.Request.Context(), shopID, h.kind, params)
	if err != nil {
		respondError(c, logger.With(slog.String("kind", string(h.kind))), err, "list settlements")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateSettlement godoc
// @Summary Edit a receipt or payment
// @Description Reverses the old allocations and applies the new request. Without new allocations the old ones are kept.
// @Tags settlements
// @Accept json
// @Produce json
// @Param settlementID path string true "Settlement ID"
// @Param settlement body dto.SettlementRequest true "Replacement settlement"
// @Success 200 {object} domain.Settlement
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Settlement not found"
// @Failure 422 {object} dto.ErrorResponse "Allocation exceeds pending amount"
// @Security BearerAuth
// @Router /receipts/{settlementID} [put]
// @Router /payments/{settlementID} [put]
func (h *settlementHandler) updateSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "settlement request", err)
		return
	}
	shopID, userID, ok := identity(c, logger)
	if !ok {
		return
	}
	settlementID := c.Param("settlementID")
	logger = logger.With(slog.String("kind", string(h.kind)), slog.String("settlement_id", settlementID))
	logger.Info("Received request to update settlement")

	st, err := h.settlementService.UpdateSettlement(c.Request.Context(), shopID, h.kind, settlementID, req, userID)
	if err != nil {
		respondError(c, logger, err, "update settlement")
		return
	}
	c.JSON(http.StatusOK, st)
}

// deleteSettlement godoc
// @Summary Delete a receipt or payment
// @Description Reverses the allocations and removes the settlement. Settlements created by a cash or online bill go with the bill instead.
// @Tags settlements
// @Param settlementID path string true "Settlement ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Settlement not found"
// @Failure 422 {object} dto.ErrorResponse "Settlement belongs to a bill"
// @Security BearerAuth
// @Router /receipts/{settlementID} [delete]
// @Router /payments/{settlementID} [delete]
func (h *settlementHandler) deleteSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shopID, userID, ok := identity(c, logger)
	if !ok {
		return
	}
	settlementID := c.Param("settlementID")
	logger = logger.With(slog.String("kind", string(h.kind)), slog.String("settlement_id", settlementID))
	logger.Info("Received request to delete settlement")

	if err := h.settlementService.DeleteSettlement(c.Request.Context(), shopID, h.kind, settlementID, userID); err != nil {
		respondError(c, logger, err, "delete settlement")
		return
	}
	c.Status(http.StatusNoContent)
}

// planAllocation godoc
// @Summary Preview allocations
// @Description Computes how an amount would be allocated over a party's bills. Nothing is written.
// @Tags settlements
// @Accept json
// @Produce json
// @Param plan body dto.PlanAllocationRequest true "Amount and bills"
// @Success 200 {object} dto.PlanAllocationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Party or bill not found"
// @Failure 422 {object} dto.ErrorResponse "Allocation exceeds pending amount"
// @Security BearerAuth
// @Router /allocations/plan [post]
func (h *settlementHandler) planAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PlanAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "allocation plan", err)
		return
	}
	shopID, _, ok := identity(c, logger)
	if !ok {
		return
	}

	allocs, err := h.settlementService.PlanAllocation(c.Request.Context(), shopID, req)
	if err != nil {
		respondError(c, logger.With(slog.String("party_id", req.PartyID)), err, "plan allocation")
		return
	}
	c.JSON(http.StatusOK, dto.ToPlanAllocationResponse(allocs))
}
