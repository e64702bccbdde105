package repository

import (
	"context"

	"github.com/LUNDWw/Sistemas-oticas/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PartialPaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.PartialPayment) error
	Update(ctx context.Context, tx *gorm.DB, p *model.PartialPayment) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PartialPayment, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.PartialPayment, error)
	SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
	DB() *gorm.DB
}

type partialPaymentRepo struct{ db *gorm.DB }

func NewPartialPaymentRepository(db *gorm.DB) PartialPaymentRepository {
	return &partialPaymentRepo{db: db}
}

func (r *partialPaymentRepo) DB() *gorm.DB { return r.db }

func (r *partialPaymentRepo) Create(ctx context.Context, tx *gorm.DB, p *model.PartialPayment) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *partialPaymentRepo) Update(ctx context.Context, tx *gorm.DB, p *model.PartialPayment) error {
	return tx.WithContext(ctx).Model(&model.PartialPayment{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"amount":         p.Amount,
			"payment_date":   p.PaymentDate,
			"payment_method": p.PaymentMethod,
			"notes":          p.Notes,
			"cash_flow_id":   p.CashFlowID,
		}).Error
}

func (r *partialPaymentRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return tx.WithContext(ctx).Delete(&model.PartialPayment{}, "id = ?", id).Error
}

func (r *partialPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PartialPayment, error) {
	var p model.PartialPayment
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *partialPaymentRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.PartialPayment, error) {
	var payments []model.PartialPayment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("payment_date DESC, created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *partialPaymentRepo) SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.PartialPayment{}).
		Where("order_id = ?", orderID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
