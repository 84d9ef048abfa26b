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

// billHandler serves one bill kind. Sales and purchases share it and differ only in kind.
type billHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	kind          domain.BillKind
}

func newBillHandler(ls portssvc.LedgerSvcFacade, kind domain.BillKind) *billHandler {
	return &billHandler{ledgerService: ls, kind: kind}
}

// registerBillRoutes registers /sales and /purchases.
func registerBillRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	for path, kind := range map[string]domain.BillKind{
		"/sales":     domain.SaleBill,
		"/purchases": domain.PurchaseBill,
	} {
		h := newBillHandler(ledgerService, kind)
		bills := rg.Group(path)
		{
			bills.POST("", h.postBill)
			bills.GET("", h.listBills)
			bills.GET("/:billID", h.getBill)
			bills.PUT("/:billID", h.updateBill)
			bills.DELETE("/:billID", h.deleteBill)
		}
	}
}

// post dispatches to the posting operation for the handler's kind.
func (h *billHandler) post(c *gin.Context, shopID string, req dto.BillRequest, userID string) (*domain.Bill, error) {
	if h.kind == domain.PurchaseBill {
		return h.ledgerService.PostPurchase(c.Request.Context(), shopID, req, userID)
	}
	return h.ledgerService.PostSale(c.Request.Context(), shopID, req, userID)
}

// postBill godoc
// @Summary Post a sale or purchase
// @Description Posts a bill in one atomic unit: stock moves, the party total grows and cash or online bills settle themselves.
// @Tags bills
// @Accept json
// @Produce json
// @Param bill body dto.BillRequest true "Bill details"
// @Success 201 {object} dto.BillResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Party or product not found"
// @Failure 422 {object} dto.ErrorResponse "Insufficient stock"
// @Failure 500 {object} dto.ErrorResponse "Failed to post bill"
// @Security BearerAuth
// @Router /sales [post]
// @Router /purchases [post]
func (h *billHandler) postBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "bill request", err)
		return
	}
	shopID, userID, ok := identity(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("kind", string(h.kind)))
	logger.Info("Received request to post bill", slog.String("mode", string(req.Mode)), slog.Int("items", len(req.Items)))

	bill, err := h.post(c, shopID, req, userID)
	if err != nil {
		respondError(c, logger, err, "post bill")
		return
	}

	logger.Info("Bill posted", slog.String("bill_id", bill.BillID), slog.String("invoice_number", bill.InvoiceNumber))
	c.JSON(http.StatusCreated, dto.ToBillResponse(bill))
}

// getBill godoc
// @Summary Get a sale or purchase
// @Tags bills
// @Produce json
// @Param billID path string true "Bill ID"
// @Success 200 {object} dto.BillResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Bill belongs to another shop"
// @Failure 404 {object} dto.ErrorResponse "Bill not found"
// @Security BearerAuth
// @Router /sales/{billID} [get]
// @Router /purchases/{billID} [get]
func (h *billHandler) getBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shopID, _, ok := identity(c, logger)
	if !ok {
		return
	}
	billID := c.Param("billID")

	bill, err := h.ledgerService.GetBillByID(c.Request.Context(), shopID, h.kind, billID)
	if err != nil {
		respondError(c, logger.With(slog.String("bill_id", billID)), err, "get bill")
		return
	}
	c.JSON(http.StatusOK, dto.ToBillResponse(bill))
}

// listBills godoc
// @Summary List sales or purchases
// @Description Lists bills newest first. Pass nextToken from the previous page to continue.
// @Tags bills
// @Produce json
// @Param fromDate query string false "Start date (YYYY-MM-DD)"
// @Param toDate query string false "End date (YYYY-MM-DD)"
// @Param partyID query string false "Party filter"
// @Param mode query string false "cash, online or credit"
// @Param status query string false "open or all"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListBillsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /sales [get]
// @Router /purchases [get]
func (h *billHandler) listBills(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListBillsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "bill list query", err)
		return
	}
	shopID, _, ok := identity(c, logger)
	if !ok {
		return
	}

	resp, err := h.ledgerService.ListBills(c.Request.Context(), shopID, h.kind, params)
	if err != nil {
		respondError(c, logger.With(slog.String("kind", string(h.kind))), err, "list bills")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateBill godoc
// @Summary Edit a sale or purchase
// @Description Re-posts the bill with the given fields; omitted fields keep their values. Stock moves by the net change and manual receipts or payments stay allocated.
// @Tags bills
// @Accept json
// @Produce json
// @Param billID path string true "Bill ID"
// @Param bill body dto.UpdateBillRequest true "Fields to change"
// @Success 200 {object} dto.BillResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Bill not found"
// @Failure 422 {object} dto.ErrorResponse "Stock or settlement conflict"
// @Security BearerAuth
// @Router /sales/{billID} [put]
// @Router /purchases/{billID} [put]
func (h *billHandler) updateBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "bill request", err)
		return
	}
	shopID, userID, ok := identity(c, logger)
	if !ok {
		return
	}
	billID := c.Param("billID")
	logger = logger.With(slog.String("kind", string(h.kind)), slog.String("bill_id", billID))
	logger.Info("Received request to update bill")

	bill, err := h.ledgerService.UpdateBill(c.Request.Context(), shopID, h.kind, billID, req, userID)
	if err != nil {
		respondError(c, logger, err, "update bill")
		return
	}

	logger.Info("Bill updated", slog.String("total", bill.TotalAmount.String()))
	c.JSON(http.StatusOK, dto.ToBillResponse(bill))
}

// deleteBill godoc
// @Summary Delete a sale or purchase
// @Description Reverses and removes the bill. Manual settlements against it block the delete unless cascade=true.
// @Tags bills
// @Param billID path string true "Bill ID"
// @Param cascade query bool false "Also reverse settlements allocated to the bill"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Bill not found"
// @Failure 422 {object} dto.ErrorResponse "Bill still has settlements"
// @Security BearerAuth
// @Router /sales/{billID} [delete]
// @Router /purchases/{billID} [delete]
func (h *billHandler) deleteBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.DeleteBillParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "delete query", err)
		return
	}
	shopID, userID, ok := identity(c, logger)
	if !ok {
		return
	}
	billID := c.Param("billID")
	logger = logger.With(slog.String("kind", string(h.kind)), slog.String("bill_id", billID), slog.Bool("cascade", params.Cascade))
	logger.Info("Received request to delete bill")

	if err := h.ledgerService.DeleteBill(c.Request.Context(), shopID, h.kind, billID, params.Cascade, userID); err != nil {
		respondError(c, logger, err, "delete bill")
		return
	}

	logger.Info("Bill deleted")
	c.Status(http.StatusNoContent)
}
