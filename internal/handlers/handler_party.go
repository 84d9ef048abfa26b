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

// partyHandler handles customers and suppliers and their statements.
type partyHandler struct {
	partyService      portssvc.PartySvcFacade
	balanceService    portssvc.BalanceSvc
	settlementService portssvc.SettlementReaderSvc
	loc               *time.Location
}

func newPartyHandler(ps portssvc.PartySvcFacade, bs portssvc.BalanceSvc, ss portssvc.SettlementReaderSvc, loc *time.Location) *partyHandler {
	return &partyHandler{
		partyService:      ps,
		balanceService:    bs,
		settlementService: ss,
		loc:               loc,
	}
}

// registerPartyRoutes registers /parties and the per-party statement routes.
func registerPartyRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, loc *time.Location) {
	h := newPartyHandler(services.Party, services.Balance, services.Settlement, loc)

	parties := rg.Group("/parties")
	{
		parties.POST("", h.createParty)
		parties.POST("/resolve", h.resolveParty)
		parties.GET("", h.listParties)
		parties.GET("/:partyID", h.getParty)
		parties.DELETE("/:partyID", h.deleteParty)
		parties.GET("/:partyID/ledger", h.getPartyLedger)
		parties.GET("/:partyID/balance", h.getPartyBalance)
		parties.GET("/:partyID/open-bills", h.listOpenBills)
	}
}

// createParty godoc
// @Summary Create a customer or supplier
// @Tags parties
// @Accept json
// @Produce json
// @Param party body dto.CreatePartyRequest true "Party details"
// @Success 201 {object} dto.PartyResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 409 {object} dto.ErrorResponse "A party with that name already exists"
// @Security BearerAuth
// @Router /parties [post]
func (h *partyHandler) createParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "party request", err)
		return
	}
	shopID, userID, ok := identity(c, logger)
	if !ok {
		return
	}
	logger.Info("Received request to create party", slog.String("type", string(req.Type)), slog.String("name", req.Name))

	party, err := h.partyService.CreateParty(c.Request.Context(), shopID, req, userID)
	if err != nil {
		respondError(c, logger, err, "create party")
		return
	}

	logger.Info("Party created", slog.String("party_id", party.PartyID))
	c.JSON(http.StatusCreated, dto.ToPartyResponse(party))
}

// resolveParty godoc
// @Summary Find or create a party by name
// @Description Returns the party whose normalized name matches, creating it when none does. A customer with no name resolves to the walk-in customer.
// @Tags parties
// @Accept json
// @Produce json
// @Param party body dto.CreatePartyRequest true "Party details"
// @Success 200 {object} dto.PartyResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /parties/resolve [post]
func (h *partyHandler) resolveParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "party request", err)
		return
	}
	shopID, userID, ok := identity(c, logger)
	if !ok {
		return
	}

	party, err := h.partyService.ResolveParty(c.Request.Context(), shopID, req, userID)
	if err != nil {
		respondError(c, logger, err, "resolve party")
		return
	}
	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

// listParties godoc
// @Summary List customers and suppliers
// @Tags parties
// @Produce json
// @Param type query string false "CUSTOMER or SUPPLIER"
// @Param search query string false "Name contains"
// @Success 200 {array} dto.PartyResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Security BearerAuth
// @Router /parties [get]
func (h *partyHandler) listParties(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListPartiesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "party list query", err)
		return
	}
	shopID, _, ok := identity(c, logger)
	if !ok {
		return
	}

	parties, err := h.partyService.ListParties(c.Request.Context(), shopID, params)
	if err != nil {
		respondError(c, logger, err, "list parties")
		return
	}
	c.JSON(http.StatusOK, dto.ToPartyResponses(parties))
}

// getParty godoc
// @Summary Get a party
// @Tags parties
// @Produce json
// @Param partyID path string true "Party ID"
// @Success 200 {object} dto.PartyResponse
// @Failure 403 {object} dto.ErrorResponse "Party belongs to another shop"
// @Failure 404 {object} dto.ErrorResponse "Party not found"
// @Security BearerAuth
// @Router /parties/{partyID} [get]
func (h *partyHandler) getParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shopID, _, ok := identity(c, logger)
	if !ok {
		return
	}
	partyID := c.Param("partyID")

	party, err := h.partyService.GetPartyByID(c.Request.Context(), shopID, partyID)
	if err != nil {
		respondError(c, logger.With(slog.String("party_id", partyID)), err, "get party")
		return
	}
	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

// deleteParty godoc
// @Summary Delete a party
// @Description Only parties that no bill or settlement refers to can be deleted.
// @Tags parties
// @Param partyID path string true "Party ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Party not found"
// @Failure 422 {object} dto.ErrorResponse "Party still has transactions"
// @Security BearerAuth
// @Router /parties/{partyID} [delete]
func (h *partyHandler) deleteParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shopID, userID, ok := identity(c, logger)
	if !ok {
		return
	}
	partyID := c.Param("partyID")
	logger = logger.With(slog.String("party_id", partyID))
	logger.Info("Received request to delete party")

	if err := h.partyService.DeleteParty(c.Request.Context(), shopID, partyID, userID); err != nil {
		respondError(c, logger, err, "delete party")
		return
	}
	c.Status(http.StatusNoContent)
}

// getPartyLedger godoc
// @Summary Party statement
// @Description Lists the party's bills and settlements in date order with a running balance. The opening balance covers everything before fromDate.
// @Tags parties
// @Produce json
// @Param partyID path string true "Party ID"
// @Param fromDate query string false "Start date (YYYY-MM-DD)"
// @Param toDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.PartyLedger
// @Failure 400 {object} dto.ErrorResponse "Invalid date range"
// @Failure 404 {object} dto.ErrorResponse "Party not found"
// @Security BearerAuth
// @Router /parties/{partyID}/ledger [get]
func (h *partyHandler) getPartyLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.PartyLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "ledger query", err)
		return
	}
	shopID, _, ok := identity(c, logger)
	if !ok {
		return
	}
	partyID := c.Param("partyID")
	logger = logger.With(slog.String("party_id", partyID))

	rng, err := params.Range(h.loc)
	if err != nil {
		respondError(c, logger, err, "build party ledger")
		return
	}

	ledger, err := h.balanceService.PartyLedger(c.Request.Context(), shopID, partyID, rng)
	if err != nil {
		respondError(c, logger, err, "build party ledger")
		return
	}

	logger.Info("Party ledger generated", slog.Int("entries", len(ledger.Entries)))
	c.JSON(http.StatusOK, ledger)
}

// getPartyBalance godoc
// @Summary Party balance
// @Tags parties
// @Produce json
// @Param partyID path string true "Party ID"
// @Success 200 {object} dto.PartyBalanceResponse
// @Failure 404 {object} dto.ErrorResponse "Party not found"
// @Security BearerAuth
// @Router /parties/{partyID}/balance [get]
func (h *partyHandler) getPartyBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shopID, _, ok := identity(c, logger)
	if !ok {
		return
	}
	partyID := c.Param("partyID")

	balance, side, err := h.balanceService.PartyBalance(c.Request.Context(), shopID, partyID)
	if err != nil {
		respondError(c, logger.With(slog.String("party_id", partyID)), err, "compute party balance")
		return
	}
	c.JSON(http.StatusOK, dto.PartyBalanceResponse{PartyID: partyID, Balance: balance, Side: side})
}

// listOpenBills godoc
// @Summary Open bills of a party
// @Description Bills with a pending amount, oldest first.
// @Tags parties
// @Produce json
// @Param partyID path string true "Party ID"
// @Success 200 {array} dto.BillResponse
// @Failure 404 {object} dto.ErrorResponse "Party not found"
// @Security BearerAuth
// @Router /parties/{partyID}/open-bills [get]
func (h *partyHandler) listOpenBills(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shopID, _, ok := identity(c, logger)
	if !ok {
		return
	}
	partyID := c.Param("partyID")

	bills, err := h.settlementService.ListOpenBills(c.Request.Context(), shopID, partyID)
	if err != nil {
		respondError(c, logger.With(slog.String("party_id", partyID)), err, "list open bills")
		return
	}
	c.JSON(http.StatusOK, dto.ToBillResponses(bills))
}
