package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order payment statuses.
const (
	PaymentStatusPending = "Pendente"
	PaymentStatusPaid    = "Pago"
)

// Order is a service order (OS) for the optical shop. The cash-flow core
// only reads ID and TotalValue; the remaining fields belong to the order
// management screens.
type Order struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OSNumber   string    `gorm:"column:os_number;type:varchar(40);not null;index"`
	ClientName string    `gorm:"not null"`
	Phone      string    `gorm:"type:varchar(40)"`
	Store      string    `gorm:"type:varchar(80)"`
	Lab        string    `gorm:"type:varchar(80)"`

	PaymentStatus string `gorm:"type:varchar(20);not null;default:'Pendente'"`
	PaymentMethod string `gorm:"type:varchar(40)"`

	ExamDate     string `gorm:"type:varchar(10)"` // YYYY-MM-DD, optional
	DeliveryDate string `gorm:"type:varchar(10)"`

	// TotalValue is the recorded sale amount partial payments count against.
	TotalValue decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Order) TableName() string { return "orders" }
