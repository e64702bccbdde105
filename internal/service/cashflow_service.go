package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LUNDWw/Sistemas-oticas/internal/dto"
	"github.com/LUNDWw/Sistemas-oticas/internal/model"
	"github.com/LUNDWw/Sistemas-oticas/internal/repository"
	"github.com/LUNDWw/Sistemas-oticas/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashFlowService keeps the ledger (cash_flow) and the partial payments
// attributed to orders in sync. Every multi-row write runs inside a single
// database transaction so a payment and its paired ledger entry are never
// observable apart.
type CashFlowService interface {
	AddEntry(ctx context.Context, req dto.EntryRequest) (*dto.MovementResponse, error)
	AddExit(ctx context.Context, req dto.ExitRequest) (*dto.MovementResponse, error)
	EditMovement(ctx context.Context, id uuid.UUID, req dto.MovementUpdateRequest) error
	GetMovements(ctx context.Context, filter dto.MovementFilter) ([]dto.MovementResponse, error)
	CalculateBalance(ctx context.Context) (*dto.BalanceResponse, error)
	GetSummary(ctx context.Context, startDate, endDate string) (*dto.SummaryResponse, error)

	AddPartialPayment(ctx context.Context, orderID uuid.UUID, req dto.PartialPaymentRequest) (*dto.PartialPaymentResponse, error)
	EditPartialPayment(ctx context.Context, paymentID uuid.UUID, req dto.PartialPaymentRequest) (*dto.EditPaymentResponse, error)
	DeletePartialPayment(ctx context.Context, paymentID uuid.UUID) error
	GetOrderBalance(ctx context.Context, orderID uuid.UUID) (*dto.OrderBalanceResponse, error)
}

type cashFlowService struct {
	movements  repository.MovementRepository
	payments   repository.PartialPaymentRepository
	orders     repository.OrderRepository
	dispatcher *worker.Dispatcher
}

func NewCashFlowService(
	movements repository.MovementRepository,
	payments repository.PartialPaymentRepository,
	orders repository.OrderRepository,
	dispatcher *worker.Dispatcher,
) CashFlowService {
	return &cashFlowService{
		movements:  movements,
		payments:   payments,
		orders:     orders,
		dispatcher: dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Validation helpers ────────────────────────────────────────────────────────

// normalizeAmount enforces amount > 0 and fixes it to 2 decimal places at
// ingestion. No other rounding happens anywhere downstream.
func normalizeAmount(d decimal.Decimal) (decimal.Decimal, error) {
	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, invalid("amount", "valor deve ser maior que zero")
	}
	return d.Round(2), nil
}

// normalizeDate validates ISO YYYY-MM-DD; empty defaults to today.
func normalizeDate(field, s string) (string, error) {
	if s == "" {
		return time.Now().Format("2006-01-02"), nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", invalid(field, "data deve estar no formato YYYY-MM-DD")
	}
	return s, nil
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ── Manual ledger entries ─────────────────────────────────────────────────────

func (s *cashFlowService) AddEntry(ctx context.Context, req dto.EntryRequest) (*dto.MovementResponse, error) {
	amount, err := normalizeAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	date, err := normalizeDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	var orderID *uuid.UUID
	if req.OrderID != nil {
		oid, err := uuid.Parse(*req.OrderID)
		if err != nil {
			return nil, invalid("order_id", "identificador inválido")
		}
		orderID = &oid
	}

	mov := &model.Movement{
		Date:          date,
		Kind:          model.MovementEntry,
		Category:      req.Category,
		Description:   req.Description,
		Amount:        amount,
		PaymentMethod: optStr(req.PaymentMethod),
		OrderID:       orderID,
	}
	if err := s.movements.Create(ctx, s.movements.DB(), mov); err != nil {
		return nil, fmt.Errorf("registrar entrada: %w", err)
	}
	return movementToResponse(mov), nil
}

// AddExit records money going out. Exits are never order-attributed.
func (s *cashFlowService) AddExit(ctx context.Context, req dto.ExitRequest) (*dto.MovementResponse, error) {
	amount, err := normalizeAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	date, err := normalizeDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	mov := &model.Movement{
		Date:          date,
		Kind:          model.MovementExit,
		Category:      req.Category,
		Description:   req.Description,
		Amount:        amount,
		PaymentMethod: optStr(req.PaymentMethod),
	}
	if err := s.movements.Create(ctx, s.movements.DB(), mov); err != nil {
		return nil, fmt.Errorf("registrar saída: %w", err)
	}
	return movementToResponse(mov), nil
}

// EditMovement edits a ledger line directly. It never looks up a partial
// payment that may reference the line, so editing an order-linked entry here
// can desynchronize it from its payment. Known one-way limitation.
func (s *cashFlowService) EditMovement(ctx context.Context, id uuid.UUID, req dto.MovementUpdateRequest) error {
	amount, err := normalizeAmount(req.Amount)
	if err != nil {
		return err
	}
	date, err := normalizeDate("date", req.Date)
	if err != nil {
		return err
	}

	mov, err := s.movements.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("movimentação", id.String())
		}
		return err
	}

	mov.Date = date
	mov.Category = req.Category
	mov.Description = req.Description
	mov.Amount = amount
	mov.PaymentMethod = optStr(req.PaymentMethod)
	return s.movements.Update(ctx, s.movements.DB(), mov)
}

func (s *cashFlowService) GetMovements(ctx context.Context, filter dto.MovementFilter) ([]dto.MovementResponse, error) {
	movs, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for i := range movs {
		out = append(out, *movementToResponse(&movs[i]))
	}
	return out, nil
}

// ── Balances ──────────────────────────────────────────────────────────────────

func (s *cashFlowService) CalculateBalance(ctx context.Context) (*dto.BalanceResponse, error) {
	entries, err := s.movements.SumByKind(ctx, model.MovementEntry, "", "")
	if err != nil {
		return nil, err
	}
	exits, err := s.movements.SumByKind(ctx, model.MovementExit, "", "")
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{
		Balance:      entries.Sub(exits),
		TotalEntries: entries,
		TotalExits:   exits,
	}, nil
}

func (s *cashFlowService) GetSummary(ctx context.Context, startDate, endDate string) (*dto.SummaryResponse, error) {
	if startDate != "" {
		if _, err := time.Parse("2006-01-02", startDate); err != nil {
			return nil, invalid("start_date", "data deve estar no formato YYYY-MM-DD")
		}
	}
	if endDate != "" {
		if _, err := time.Parse("2006-01-02", endDate); err != nil {
			return nil, invalid("end_date", "data deve estar no formato YYYY-MM-DD")
		}
	}

	entries, err := s.movements.SumByKind(ctx, model.MovementEntry, startDate, endDate)
	if err != nil {
		return nil, err
	}
	exits, err := s.movements.SumByKind(ctx, model.MovementExit, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return &dto.SummaryResponse{
		Entries: entries,
		Exits:   exits,
		Balance: entries.Sub(exits),
	}, nil
}

// ── Partial payments ──────────────────────────────────────────────────────────

// AddPartialPayment records a payment against an order and mirrors it in the
// ledger. Payment row, paired entry and the linkage between them commit
// together or not at all.
func (s *cashFlowService) AddPartialPayment(ctx context.Context, orderID uuid.UUID, req dto.PartialPaymentRequest) (*dto.PartialPaymentResponse, error) {
	amount, err := normalizeAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	date, err := normalizeDate("payment_date", req.PaymentDate)
	if err != nil {
		return nil, err
	}

	// Best-effort OS number for the ledger description; order existence is
	// enforced by the schema, not here.
	orderRef := orderID.String()
	if order, err := s.orders.FindByID(ctx, orderID); err == nil {
		orderRef = order.OSNumber
	}

	payment := &model.PartialPayment{
		OrderID:       orderID,
		Amount:        amount,
		PaymentDate:   date,
		PaymentMethod: optStr(req.PaymentMethod),
		Notes:         optStr(req.Notes),
	}

	txErr := runTx(ctx, s.payments.DB(), func(tx *gorm.DB) error {
		if err := s.payments.Create(ctx, tx, payment); err != nil {
			return err
		}

		oid := orderID
		mov := &model.Movement{
			Date:          date,
			Kind:          model.MovementEntry,
			Category:      model.CategoryPartialPayment,
			Description:   fmt.Sprintf("Pagamento parcial - OS #%s", orderRef),
			Amount:        amount,
			PaymentMethod: payment.PaymentMethod,
			OrderID:       &oid,
		}
		if err := s.movements.Create(ctx, tx, mov); err != nil {
			return err
		}

		payment.CashFlowID = &mov.ID
		return s.payments.Update(ctx, tx, payment)
	})
	if txErr != nil {
		return nil, fmt.Errorf("registrar pagamento parcial: %w", txErr)
	}

	// Receipt job — best-effort, fire & forget
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptPayload{
			PaymentID: payment.ID.String(),
		})
	}

	return paymentToResponse(payment), nil
}

// EditPartialPayment updates a payment and its linked ledger entry inside one
// transaction. A linked entry that no longer exists does not block the user:
// the payment update commits and the divergence is surfaced as a warning.
func (s *cashFlowService) EditPartialPayment(ctx context.Context, paymentID uuid.UUID, req dto.PartialPaymentRequest) (*dto.EditPaymentResponse, error) {
	amount, err := normalizeAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	date, err := normalizeDate("payment_date", req.PaymentDate)
	if err != nil {
		return nil, err
	}

	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("pagamento", paymentID.String())
		}
		return nil, err
	}

	payment.Amount = amount
	payment.PaymentDate = date
	payment.PaymentMethod = optStr(req.PaymentMethod)
	payment.Notes = optStr(req.Notes)

	var warning *string
	txErr := runTx(ctx, s.payments.DB(), func(tx *gorm.DB) error {
		if err := s.payments.Update(ctx, tx, payment); err != nil {
			return err
		}
		if payment.CashFlowID == nil {
			return nil
		}

		mov, err := s.movements.FindByIDTx(tx, *payment.CashFlowID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Data corruption: the linked entry vanished. Do not block
				// the edit; report it instead.
				msg := fmt.Sprintf("movimentação vinculada %s não existe mais; pagamento atualizado sem espelho no caixa", payment.CashFlowID)
				warning = &msg
				log.Warn().
					Str("payment_id", paymentID.String()).
					Str("cash_flow_id", payment.CashFlowID.String()).
					Msg("linked cash-flow movement missing on payment edit")
				return nil
			}
			return err
		}

		mov.Amount = amount
		mov.Date = date
		mov.PaymentMethod = payment.PaymentMethod
		return s.movements.Update(ctx, tx, mov)
	})
	if txErr != nil {
		return nil, fmt.Errorf("atualizar pagamento parcial: %w", txErr)
	}

	return &dto.EditPaymentResponse{
		Payment:          *paymentToResponse(payment),
		IntegrityWarning: warning,
	}, nil
}

// DeletePartialPayment removes the payment and its linked ledger entry in one
// transaction; partial application is never observable.
func (s *cashFlowService) DeletePartialPayment(ctx context.Context, paymentID uuid.UUID) error {
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("pagamento", paymentID.String())
		}
		return err
	}

	txErr := runTx(ctx, s.payments.DB(), func(tx *gorm.DB) error {
		if payment.CashFlowID != nil {
			if err := s.movements.Delete(ctx, tx, *payment.CashFlowID); err != nil {
				return err
			}
		}
		return s.payments.Delete(ctx, tx, paymentID)
	})
	if txErr != nil {
		return fmt.Errorf("excluir pagamento parcial: %w", txErr)
	}
	return nil
}

// GetOrderBalance derives the outstanding balance of an order. Returns
// (nil, nil) when the order does not exist. Remaining may go negative —
// that signals overpayment and is deliberately not clamped.
func (s *cashFlowService) GetOrderBalance(ctx context.Context, orderID uuid.UUID) (*dto.OrderBalanceResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	totalPaid, err := s.payments.SumByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PartialPaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, *paymentToResponse(&payments[i]))
	}

	return &dto.OrderBalanceResponse{
		OrderID:    orderID.String(),
		OrderTotal: order.TotalValue,
		TotalPaid:  totalPaid,
		Remaining:  order.TotalValue.Sub(totalPaid),
		Payments:   out,
	}, nil
}

// ── Mapping helpers ───────────────────────────────────────────────────────────

func movementToResponse(m *model.Movement) *dto.MovementResponse {
	var orderID *string
	if m.OrderID != nil {
		s := m.OrderID.String()
		orderID = &s
	}
	return &dto.MovementResponse{
		ID:            m.ID.String(),
		Date:          m.Date,
		Kind:          m.Kind,
		Category:      m.Category,
		Description:   m.Description,
		Amount:        m.Amount,
		PaymentMethod: m.PaymentMethod,
		OrderID:       orderID,
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
	}
}

func paymentToResponse(p *model.PartialPayment) *dto.PartialPaymentResponse {
	var cashFlowID *string
	if p.CashFlowID != nil {
		s := p.CashFlowID.String()
		cashFlowID = &s
	}
	return &dto.PartialPaymentResponse{
		ID:            p.ID.String(),
		OrderID:       p.OrderID.String(),
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate,
		PaymentMethod: p.PaymentMethod,
		Notes:         p.Notes,
		CashFlowID:    cashFlowID,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}
