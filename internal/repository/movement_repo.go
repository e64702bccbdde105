package repository

import (
	"context"

	"github.com/LUNDWw/Sistemas-oticas/internal/dto"
	"github.com/LUNDWw/Sistemas-oticas/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovementRepository persists cash_flow ledger lines. Write methods take an
// explicit tx so the service layer can span several stores in one
// transaction; pass the repository's DB() for standalone writes.
type MovementRepository interface {
	Create(ctx context.Context, tx *gorm.DB, m *model.Movement) error
	Update(ctx context.Context, tx *gorm.DB, m *model.Movement) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Movement, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Movement, error)
	List(ctx context.Context, filter dto.MovementFilter) ([]model.Movement, error)
	SumByKind(ctx context.Context, kind, startDate, endDate string) (decimal.Decimal, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) DB() *gorm.DB { return r.db }

func (r *movementRepo) Create(ctx context.Context, tx *gorm.DB, m *model.Movement) error {
	return tx.WithContext(ctx).Create(m).Error
}

// Update rewrites the mutable columns only. Kind (type) and created_at are
// immutable after creation.
func (r *movementRepo) Update(ctx context.Context, tx *gorm.DB, m *model.Movement) error {
	return tx.WithContext(ctx).Model(&model.Movement{}).
		Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"date":           m.Date,
			"category":       m.Category,
			"description":    m.Description,
			"amount":         m.Amount,
			"payment_method": m.PaymentMethod,
		}).Error
}

func (r *movementRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return tx.WithContext(ctx).Delete(&model.Movement{}, "id = ?", id).Error
}

func (r *movementRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Movement, error) {
	var m model.Movement
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *movementRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Movement, error) {
	var m model.Movement
	err := tx.First(&m, "id = ?", id).Error
	return &m, err
}

// List applies the present filter fields with AND semantics. Date bounds are
// inclusive; ISO dates make the string comparison safe.
func (r *movementRepo) List(ctx context.Context, filter dto.MovementFilter) ([]model.Movement, error) {
	q := r.db.WithContext(ctx).Model(&model.Movement{})

	if filter.Kind != "" {
		q = q.Where("type = ?", filter.Kind)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.StartDate != "" {
		q = q.Where("date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("date <= ?", filter.EndDate)
	}

	var movs []model.Movement
	err := q.Order("date DESC, created_at DESC").Find(&movs).Error
	return movs, err
}

// SumByKind totals amounts for one kind inside an optional inclusive date
// range. Returns zero, not an error, when nothing matches.
func (r *movementRepo) SumByKind(ctx context.Context, kind, startDate, endDate string) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).Model(&model.Movement{}).Where("type = ?", kind)
	if startDate != "" {
		q = q.Where("date >= ?", startDate)
	}
	if endDate != "" {
		q = q.Where("date <= ?", endDate)
	}

	var total decimal.Decimal
	err := q.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}
