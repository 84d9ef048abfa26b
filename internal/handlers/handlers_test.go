package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/shop_ledger/internal/apperrors"
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/shop_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger/internal/dto"
	"github.com/SscSPs/shop_ledger/internal/handlers"
	"github.com/SscSPs/shop_ledger/internal/middleware"
	"github.com/SscSPs/shop_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testShopID = "shop-1"
	testUserID = "user-1"
)

type HandlerTestSuite struct {
	suite.Suite
	router     *gin.Engine
	jwtSecret  string
	ledger     *MockLedgerService
	settlement *MockSettlementService
	party      *MockPartyService
	balance    *MockBalanceService
	reporting  *MockReportingService
	catalog    *MockCatalogService
}

// generateTestToken creates a signed token naming the test user and shop.
func (suite *HandlerTestSuite) generateTestToken() string {
	claims := middleware.ShopClaims{
		ShopID: testShopID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testUserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.ledger = new(MockLedgerService)
	suite.settlement = new(MockSettlementService)
	suite.party = new(MockPartyService)
	suite.balance = new(MockBalanceService)
	suite.reporting = new(MockReportingService)
	suite.catalog = new(MockCatalogService)

	cfg := &config.Config{
		IsProduction:   true,
		JWTSecret:      suite.jwtSecret,
		ReportLocation: time.UTC,
	}
	err := handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Party:      suite.party,
		Catalog:    suite.catalog,
		Ledger:     suite.ledger,
		Settlement: suite.settlement,
		Balance:    suite.balance,
		Reporting:  suite.reporting,
	})
	suite.Require().NoError(err)
}

func (suite *HandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken())
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) errorBody(w *httptest.ResponseRecorder) string {
	var body dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func sampleBill(kind domain.BillKind) *domain.Bill {
	return &domain.Bill{
		BillID:        "bill-1",
		ShopID:        testShopID,
		Kind:          kind,
		PartyID:       "party-1",
		PartyName:     "Ravi",
		InvoiceNumber: "INV-000001",
		Mode:          domain.ModeCredit,
		TotalAmount:   decimal.NewFromInt(250),
		SettledAmount: decimal.NewFromInt(100),
	}
}

func (suite *HandlerTestSuite) TestHealth_IsPublic() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlerTestSuite) TestMissingToken_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/sales", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.ledger.AssertNotCalled(suite.T(), "ListBills")
}

func (suite *HandlerTestSuite) TestPostSale_Success() {
	suite.ledger.On("PostSale", mock.Anything, testShopID,
		mock.MatchedBy(func(r dto.BillRequest) bool {
			return r.Mode == domain.ModeCredit && r.PartyName == "Ravi" &&
				len(r.Items) == 1 && r.Items[0].Quantity.Equal(decimal.NewFromInt(2))
		}),
		testUserID,
	).Return(sampleBill(domain.SaleBill), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/sales", map[string]any{
		"partyName": "Ravi",
		"mode":      "credit",
		"items":     []map[string]any{{"productID": "p-1", "quantity": 2}},
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.BillResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("INV-000001", resp.InvoiceNumber)
	suite.True(resp.PendingAmount.Equal(decimal.NewFromInt(150)))
	suite.ledger.AssertExpectations(suite.T())
	suite.ledger.AssertNotCalled(suite.T(), "PostPurchase")
}

func (suite *HandlerTestSuite) TestPostBill_BindingFailures() {
	testCases := []struct {
		name string
		url  string
		body map[string]any
	}{
		{"cheque is not a bill mode", "/api/v1/purchases", map[string]any{
			"mode": "cheque", "items": []map[string]any{{"productID": "p-1", "quantity": 1}},
		}},
		{"no items", "/api/v1/sales", map[string]any{"mode": "cash", "items": []map[string]any{}}},
		{"item without product", "/api/v1/sales", map[string]any{
			"mode": "cash", "items": []map[string]any{{"quantity": 1}},
		}},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			w := suite.do(http.MethodPost, tc.url, tc.body)
			suite.Equal(http.StatusBadRequest, w.Code)
			suite.Contains(suite.errorBody(w), "Invalid request format")
		})
	}
	suite.ledger.AssertNotCalled(suite.T(), "PostSale")
	suite.ledger.AssertNotCalled(suite.T(), "PostPurchase")
}

func (suite *HandlerTestSuite) TestGetBill_ErrorMapping() {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", apperrors.ErrBillNotFound, http.StatusNotFound},
		{"other shop", apperrors.ErrUnauthorizedModification, http.StatusForbidden},
		{"validation", fmt.Errorf("%w: bad id", apperrors.ErrValidation), http.StatusBadRequest},
		{"integrity", fmt.Errorf("%w: rollback failed", apperrors.ErrIntegrity), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.ledger.On("GetBillByID", mock.Anything, testShopID, domain.PurchaseBill, "bill-9").
				Return(nil, tc.err).Once()

			w := suite.do(http.MethodGet, "/api/v1/purchases/bill-9", nil)

			suite.Equal(tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusInternalServerError {
				suite.Equal("Failed to get bill", suite.errorBody(w))
			}
		})
	}
	suite.ledger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestDeleteBill_Cascade() {
	suite.ledger.On("DeleteBill", mock.Anything, testShopID, domain.SaleBill, "bill-1", true, testUserID).
		Return(nil).Once()
	suite.ledger.On("DeleteBill", mock.Anything, testShopID, domain.SaleBill, "bill-2", false, testUserID).
		Return(fmt.Errorf("%w: bill has receipts", apperrors.ErrConsistencyViolation)).Once()

	w := suite.do(http.MethodDelete, "/api/v1/sales/bill-1?cascade=true", nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.do(http.MethodDelete, "/api/v1/sales/bill-2", nil)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(suite.errorBody(w), "bill has receipts")

	suite.ledger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestUpdateBill_InsufficientStock() {
	suite.ledger.On("UpdateBill", mock.Anything, testShopID, domain.SaleBill, "bill-1", mock.Anything, testUserID).
		Return(nil, fmt.Errorf("%w: tea has 1, requested 5", apperrors.ErrInsufficientStock)).Once()

	w := suite.do(http.MethodPut, "/api/v1/sales/bill-1", map[string]any{
		"mode":  "cash",
		"items": []map[string]any{{"productID": "tea", "quantity": 5}},
	})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.ledger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestUpdateBill_PartialBody() {
	suite.ledger.On("UpdateBill", mock.Anything, testShopID, domain.PurchaseBill, "bill-3",
		mock.MatchedBy(func(r dto.UpdateBillRequest) bool {
			return r.Items == nil && r.Mode == nil && r.Date == nil &&
				r.Narration != nil && *r.Narration == "fix typo"
		}),
		testUserID,
	).Return(sampleBill(domain.PurchaseBill), nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/purchases/bill-3", map[string]any{"narration": "fix typo"})
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPut, "/api/v1/purchases/bill-3", map[string]any{"mode": "cheque"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.ledger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestListPayments_PassesFilters() {
	next := "next-page"
	suite.settlement.On("ListSettlements", mock.Anything, testShopID, domain.Payment,
		mock.MatchedBy(func(p dto.ListSettlementsParams) bool {
			return p.ExcludeAuto && p.Type == "expense" && p.Limit == 5 && p.FromDate == "2025-03-01"
		}),
	).Return(&dto.ListSettlementsResponse{Settlements: []domain.Settlement{}, NextToken: &next}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/payments?excludeAuto=true&type=expense&limit=5&fromDate=2025-03-01", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListSettlementsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)
	suite.settlement.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestPostReceipt_OverSettlement() {
	suite.settlement.On("PostSettlement", mock.Anything, testShopID, domain.Receipt, mock.Anything, testUserID).
		Return(nil, fmt.Errorf("%w: INV-000001 pending 50", apperrors.ErrOverSettlement)).Once()

	w := suite.do(http.MethodPost, "/api/v1/receipts", map[string]any{
		"partyID":     "party-1",
		"mode":        "cash",
		"type":        "bill",
		"amount":      80,
		"allocations": []map[string]any{{"billID": "bill-1", "amount": 80}},
	})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.settlement.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestPostReceipt_CreditIsNotASettlementMode() {
	w := suite.do(http.MethodPost, "/api/v1/receipts", map[string]any{
		"partyID": "party-1", "mode": "credit", "type": "bill", "amount": 10,
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.settlement.AssertNotCalled(suite.T(), "PostSettlement")
}

func (suite *HandlerTestSuite) TestPlanAllocation_ReturnsTotal() {
	suite.settlement.On("PlanAllocation", mock.Anything, testShopID,
		mock.MatchedBy(func(r dto.PlanAllocationRequest) bool { return r.PartyID == "party-1" }),
	).Return([]domain.Allocation{
		{BillID: "b1", InvoiceNumber: "INV-000001", Amount: decimal.NewFromInt(60)},
		{BillID: "b2", InvoiceNumber: "INV-000002", Amount: decimal.NewFromInt(40)},
	}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/allocations/plan", map[string]any{
		"partyID": "party-1", "amount": 100, "billIDs": []string{"b1", "b2"},
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.PlanAllocationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Allocations, 2)
	suite.True(resp.Total.Equal(decimal.NewFromInt(100)))
}

func (suite *HandlerTestSuite) TestPartyLedger_DateRange() {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 23, 59, 59, 999999999, time.UTC)
	suite.balance.On("PartyLedger", mock.Anything, testShopID, "party-1",
		mock.MatchedBy(func(r domain.DateRange) bool {
			return r.From != nil && r.From.Equal(from) && r.To != nil && r.To.Equal(to)
		}),
	).Return(&domain.PartyLedger{ClosingBalance: decimal.NewFromInt(70), Side: domain.SideDr}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/parties/party-1/ledger?fromDate=2025-03-01&toDate=2025-03-31", nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/parties/party-1/ledger?fromDate=2025-04-01&toDate=2025-03-31", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/parties/party-1/ledger?fromDate=01-03-2025", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.balance.AssertNumberOfCalls(suite.T(), "PartyLedger", 1)
}

func (suite *HandlerTestSuite) TestPartyBalance() {
	suite.balance.On("PartyBalance", mock.Anything, testShopID, "party-1").
		Return(decimal.NewFromInt(70), domain.SideCr, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/parties/party-1/balance", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.PartyBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.SideCr, resp.Side)
	suite.True(resp.Balance.Equal(decimal.NewFromInt(70)))
}

func (suite *HandlerTestSuite) TestCreateParty_Duplicate() {
	suite.party.On("CreateParty", mock.Anything, testShopID,
		dto.CreatePartyRequest{Type: domain.Customer, Name: "Ravi"}, testUserID,
	).Return(nil, fmt.Errorf("%w: party \"Ravi\"", apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPost, "/api/v1/parties", map[string]any{"type": "CUSTOMER", "name": "Ravi"})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/parties", map[string]any{"type": "VENDOR", "name": "Acme"})
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.party.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestLowStockRouteIsNotAProductID() {
	suite.catalog.On("ListLowStock", mock.Anything, testShopID).
		Return([]domain.Product{{ProductID: "p-1", Name: "Salt", Stock: decimal.NewFromInt(1), MinStock: decimal.NewFromInt(5)}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/products/low-stock", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.ProductResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.True(resp[0].LowStock)
	suite.catalog.AssertNotCalled(suite.T(), "GetProductByID")
}

func (suite *HandlerTestSuite) TestSalesSeries_Granularity() {
	suite.reporting.On("SalesSeries", mock.Anything, testShopID, portssvc.ByMonth, mock.Anything).
		Return([]domain.SeriesPoint{{Period: "2025-03", Bills: 2}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/sales-series?granularity=month", nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/reports/sales-series?granularity=week", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.reporting.AssertNumberOfCalls(suite.T(), "SalesSeries", 1)
}

func (suite *HandlerTestSuite) TestDashboard() {
	suite.reporting.On("Dashboard", mock.Anything, testShopID, mock.AnythingOfType("time.Time")).
		Return(&domain.Dashboard{TodaySales: decimal.NewFromInt(500), LowStockCount: 2}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/dashboard", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.Dashboard
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(2, resp.LowStockCount)
	suite.True(resp.TodaySales.Equal(decimal.NewFromInt(500)))
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
