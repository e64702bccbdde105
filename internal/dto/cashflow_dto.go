package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type EntryRequest struct {
	Date          string          `json:"date"           validate:"omitempty,datetime=2006-01-02"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"         validate:"required"`
	PaymentMethod string          `json:"payment_method"`
	OrderID       *string         `json:"order_id"       validate:"omitempty,uuid"`
}

type ExitRequest struct {
	Date          string          `json:"date"           validate:"omitempty,datetime=2006-01-02"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"         validate:"required"`
	PaymentMethod string          `json:"payment_method"`
}

type MovementUpdateRequest struct {
	Date          string          `json:"date"           validate:"omitempty,datetime=2006-01-02"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"         validate:"required"`
	PaymentMethod string          `json:"payment_method"`
}

type PartialPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"         validate:"required"`
	PaymentDate   string          `json:"payment_date"   validate:"omitempty,datetime=2006-01-02"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
}

// MovementFilter lists every recognized listing filter. Present fields are
// AND-combined; zero values mean "not filtered".
type MovementFilter struct {
	Kind      string `form:"type"       validate:"omitempty,oneof=entrada saida"`
	Category  string `form:"category"`
	StartDate string `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   validate:"omitempty,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovementResponse struct {
	ID            string          `json:"id"`
	Date          string          `json:"date"`
	Kind          string          `json:"type"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod *string         `json:"payment_method"`
	OrderID       *string         `json:"order_id"`
	CreatedAt     string          `json:"created_at"`
}

type BalanceResponse struct {
	Balance      decimal.Decimal `json:"balance"`
	TotalEntries decimal.Decimal `json:"total_entries"`
	TotalExits   decimal.Decimal `json:"total_exits"`
}

type SummaryResponse struct {
	Entries decimal.Decimal `json:"entries"`
	Exits   decimal.Decimal `json:"exits"`
	Balance decimal.Decimal `json:"balance"`
}

type PartialPaymentResponse struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"payment_date"`
	PaymentMethod *string         `json:"payment_method"`
	Notes         *string         `json:"notes"`
	CashFlowID    *string         `json:"cash_flow_id"`
	CreatedAt     string          `json:"created_at"`
}

// EditPaymentResponse carries the updated payment plus a non-fatal integrity
// warning when the linked ledger movement was found missing.
type EditPaymentResponse struct {
	Payment          PartialPaymentResponse `json:"payment"`
	IntegrityWarning *string                `json:"integrity_warning,omitempty"`
}

type OrderBalanceResponse struct {
	OrderID    string                   `json:"order_id"`
	OrderTotal decimal.Decimal          `json:"order_total"`
	TotalPaid  decimal.Decimal          `json:"total_paid"`
	Remaining  decimal.Decimal          `json:"remaining"`
	Payments   []PartialPaymentResponse `json:"payments"`
}
