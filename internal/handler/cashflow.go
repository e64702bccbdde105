package handler

import (
	"net/http"
	"time"

	"github.com/LUNDWw/Sistemas-oticas/internal/apierror"
	"github.com/LUNDWw/Sistemas-oticas/internal/dto"
	"github.com/LUNDWw/Sistemas-oticas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CashFlowHandler struct{ svc service.CashFlowService }

func NewCashFlowHandler(svc service.CashFlowService) *CashFlowHandler {
	return &CashFlowHandler{svc: svc}
}

// AddEntry godoc
// @Summary Registra uma entrada no caixa
// @Tags cashflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.EntryRequest true "Dados da entrada"
// @Success 201 {object} dto.MovementResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/cashflow/entries [post]
func (h *CashFlowHandler) AddEntry(c *gin.Context) {
	var req dto.EntryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddEntry(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AddExit godoc
// @Summary Registra uma saída do caixa
// @Tags cashflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ExitRequest true "Dados da saída"
// @Success 201 {object} dto.MovementResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/cashflow/exits [post]
func (h *CashFlowHandler) AddExit(c *gin.Context) {
	var req dto.ExitRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddExit(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EditMovement edits a ledger line directly. Order-linked lines edited here
// are NOT propagated back to their partial payment (known limitation).
func (h *CashFlowHandler) EditMovement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.MovementUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EditMovement(c.Request.Context(), id, req); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMovements godoc
// @Summary Lista movimentações do caixa com filtros opcionais
// @Tags cashflow
// @Produce json
// @Security BearerAuth
// @Param type query string false "entrada | saida"
// @Param category query string false "Categoria"
// @Param start_date query string false "YYYY-MM-DD (inclusive)"
// @Param end_date query string false "YYYY-MM-DD (inclusive)"
// @Success 200 {array} dto.MovementResponse
// @Router /v1/cashflow/movements [get]
func (h *CashFlowHandler) ListMovements(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.GetMovements(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetBalance godoc
// @Summary Saldo atual do caixa (entradas - saídas)
// @Tags cashflow
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.BalanceResponse
// @Router /v1/cashflow/balance [get]
func (h *CashFlowHandler) GetBalance(c *gin.Context) {
	resp, err := h.svc.CalculateBalance(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetSummary returns entries/exits/balance restricted to an inclusive range.
func (h *CashFlowHandler) GetSummary(c *gin.Context) {
	resp, err := h.svc.GetSummary(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Overview mirrors the cash-flow landing page: current balance, filtered
// movements and the running month's summary in one response.
func (h *CashFlowHandler) Overview(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}

	ctx := c.Request.Context()
	balance, err := h.svc.CalculateBalance(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	movements, err := h.svc.GetMovements(ctx, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	now := time.Now()
	monthStart := now.Format("2006-01") + "-01"
	monthly, err := h.svc.GetSummary(ctx, monthStart, now.Format("2006-01-02"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance":         balance,
		"movements":       movements,
		"monthly_summary": monthly,
	})
}

// AddPartialPayment godoc
// @Summary Registra um pagamento parcial de uma ordem
// @Tags cashflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order_id path string true "ID da ordem"
// @Param body body dto.PartialPaymentRequest true "Dados do pagamento"
// @Success 201 {object} dto.PartialPaymentResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/orders/{order_id}/payments [post]
func (h *CashFlowHandler) AddPartialPayment(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID da ordem inválido"))
		return
	}
	var req dto.PartialPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddPartialPayment(c.Request.Context(), orderID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EditPartialPayment updates a payment and its mirrored ledger entry. The
// response carries a non-fatal integrity warning when the mirror is missing.
func (h *CashFlowHandler) EditPartialPayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID do pagamento inválido"))
		return
	}
	var req dto.PartialPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.EditPartialPayment(c.Request.Context(), paymentID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CashFlowHandler) DeletePartialPayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID do pagamento inválido"))
		return
	}
	if err := h.svc.DeletePartialPayment(c.Request.Context(), paymentID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetOrderBalance godoc
// @Summary Saldo devedor de uma ordem
// @Tags cashflow
// @Produce json
// @Security BearerAuth
// @Param order_id path string true "ID da ordem"
// @Success 200 {object} dto.OrderBalanceResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/orders/{order_id}/balance [get]
func (h *CashFlowHandler) GetOrderBalance(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID da ordem inválido"))
		return
	}
	resp, err := h.svc.GetOrderBalance(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.New("Ordem não encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
