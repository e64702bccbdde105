package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement kinds. Stored in the legacy "type" column as 'entrada' / 'saida'.
const (
	MovementEntry = "entrada"
	MovementExit  = "saida"
)

// CategoryPartialPayment marks ledger entries generated from partial payments.
const CategoryPartialPayment = "Pagamento Parcial"

// Movement is one line in the cash-flow ledger: money in (entrada) or
// out (saida). Kind is immutable after creation — edits never touch the
// type column.
type Movement struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Date string    `gorm:"type:varchar(10);not null;index"` // YYYY-MM-DD
	Kind string    `gorm:"column:type;type:varchar(10);not null;index"`

	Category      string `gorm:"type:varchar(80)"`
	Description   string
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod *string         `gorm:"type:varchar(40)"`

	// OrderID is a weak reference: association only, no ownership and no
	// cascade. Exits never carry one.
	OrderID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time
}

// TableName keeps the legacy schema name.
func (Movement) TableName() string { return "cash_flow" }
