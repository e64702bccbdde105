package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartialPayment is a payment recorded against an order's outstanding
// balance. CashFlowID links it to the ledger Movement it generated: the two
// rows are created, updated and deleted together inside one transaction.
// The linked Movement always has Kind=entrada, Category=CategoryPartialPayment
// and the same order, amount, date and payment method.
type PartialPayment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentDate   string          `gorm:"type:varchar(10);not null"` // YYYY-MM-DD
	PaymentMethod *string         `gorm:"type:varchar(40)"`
	Notes         *string

	// CashFlowID is a one-way link; the Movement has no back-reference.
	CashFlowID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
}

func (PartialPayment) TableName() string { return "partial_payments" }
