package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LUNDWw/Sistemas-oticas/internal/dto"
	"github.com/LUNDWw/Sistemas-oticas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCashFlowService records the summary window it is asked for.
type stubCashFlowService struct {
	summaryStart string
	summaryEnd   string
}

func (s *stubCashFlowService) AddEntry(_ context.Context, _ dto.EntryRequest) (*dto.MovementResponse, error) {
	return &dto.MovementResponse{}, nil
}

func (s *stubCashFlowService) AddExit(_ context.Context, _ dto.ExitRequest) (*dto.MovementResponse, error) {
	return &dto.MovementResponse{}, nil
}

func (s *stubCashFlowService) EditMovement(_ context.Context, _ uuid.UUID, _ dto.MovementUpdateRequest) error {
	return nil
}

func (s *stubCashFlowService) GetMovements(_ context.Context, _ dto.MovementFilter) ([]dto.MovementResponse, error) {
	return []dto.MovementResponse{}, nil
}

func (s *stubCashFlowService) CalculateBalance(_ context.Context) (*dto.BalanceResponse, error) {
	return &dto.BalanceResponse{Balance: decimal.NewFromInt(100)}, nil
}

func (s *stubCashFlowService) GetSummary(_ context.Context, startDate, endDate string) (*dto.SummaryResponse, error) {
	s.summaryStart, s.summaryEnd = startDate, endDate
	return &dto.SummaryResponse{}, nil
}

func (s *stubCashFlowService) AddPartialPayment(_ context.Context, _ uuid.UUID, _ dto.PartialPaymentRequest) (*dto.PartialPaymentResponse, error) {
	return &dto.PartialPaymentResponse{}, nil
}

func (s *stubCashFlowService) EditPartialPayment(_ context.Context, _ uuid.UUID, _ dto.PartialPaymentRequest) (*dto.EditPaymentResponse, error) {
	return &dto.EditPaymentResponse{}, nil
}

func (s *stubCashFlowService) DeletePartialPayment(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (s *stubCashFlowService) GetOrderBalance(_ context.Context, _ uuid.UUID) (*dto.OrderBalanceResponse, error) {
	return &dto.OrderBalanceResponse{}, nil
}

var _ service.CashFlowService = (*stubCashFlowService)(nil)

func TestOverviewUsesCurrentMonthWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubCashFlowService{}
	h := NewCashFlowHandler(stub)
	r := gin.New()
	r.GET("/cashflow", h.Overview)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cashflow", nil))

	require.Equal(t, http.StatusOK, w.Code)

	now := time.Now()
	assert.Equal(t, now.Format("2006-01")+"-01", stub.summaryStart, "window opens on the first of the running month")
	assert.Equal(t, now.Format("2006-01-02"), stub.summaryEnd, "window closes today, inclusive")

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "balance")
	assert.Contains(t, body, "movements")
	assert.Contains(t, body, "monthly_summary")
}
