package service

import (
	"context"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/LUNDWw/Sistemas-oticas/internal/dto"
	"github.com/LUNDWw/Sistemas-oticas/internal/model"
	"github.com/LUNDWw/Sistemas-oticas/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Full in-memory MovementRepository ────────────────────────────────────────

type fakeMovementRepo struct {
	rows map[uuid.UUID]*model.Movement
	seq  int
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{rows: make(map[uuid.UUID]*model.Movement)}
}

func (r *fakeMovementRepo) DB() *gorm.DB { return nil }

func (r *fakeMovementRepo) Create(_ context.Context, _ *gorm.DB, m *model.Movement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.seq++
	m.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	cp := *m
	r.rows[m.ID] = &cp
	return nil
}

func (r *fakeMovementRepo) Update(_ context.Context, _ *gorm.DB, m *model.Movement) error {
	row, ok := r.rows[m.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	// Mutable columns only; kind stays untouched.
	row.Date = m.Date
	row.Category = m.Category
	row.Description = m.Description
	row.Amount = m.Amount
	row.PaymentMethod = m.PaymentMethod
	return nil
}

func (r *fakeMovementRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func (r *fakeMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Movement, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *fakeMovementRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Movement, error) {
	return r.FindByID(context.Background(), id)
}

func (r *fakeMovementRepo) List(_ context.Context, filter dto.MovementFilter) ([]model.Movement, error) {
	var out []model.Movement
	for _, m := range r.rows {
		if filter.Kind != "" && m.Kind != filter.Kind {
			continue
		}
		if filter.Category != "" && m.Category != filter.Category {
			continue
		}
		if filter.StartDate != "" && m.Date < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && m.Date > filter.EndDate {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeMovementRepo) SumByKind(_ context.Context, kind, startDate, endDate string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.rows {
		if m.Kind != kind {
			continue
		}
		if startDate != "" && m.Date < startDate {
			continue
		}
		if endDate != "" && m.Date > endDate {
			continue
		}
		total = total.Add(m.Amount)
	}
	return total, nil
}

var _ repository.MovementRepository = (*fakeMovementRepo)(nil)

// ── Full in-memory PartialPaymentRepository ──────────────────────────────────

type fakePaymentRepo struct {
	rows map[uuid.UUID]*model.PartialPayment
	seq  int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{rows: make(map[uuid.UUID]*model.PartialPayment)}
}

func (r *fakePaymentRepo) DB() *gorm.DB { return nil }

func (r *fakePaymentRepo) Create(_ context.Context, _ *gorm.DB, p *model.PartialPayment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.seq++
	p.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) Update(_ context.Context, _ *gorm.DB, p *model.PartialPayment) error {
	row, ok := r.rows[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.Amount = p.Amount
	row.PaymentDate = p.PaymentDate
	row.PaymentMethod = p.PaymentMethod
	row.Notes = p.Notes
	row.CashFlowID = p.CashFlowID
	return nil
}

func (r *fakePaymentRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PartialPayment, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *fakePaymentRepo) ListByOrder(_ context.Context, orderID uuid.UUID) ([]model.PartialPayment, error) {
	var out []model.PartialPayment
	for _, p := range r.rows {
		if p.OrderID == orderID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PaymentDate != out[j].PaymentDate {
			return out[i].PaymentDate > out[j].PaymentDate
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakePaymentRepo) SumByOrder(_ context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.rows {
		if p.OrderID == orderID {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

var _ repository.PartialPaymentRepository = (*fakePaymentRepo)(nil)

// ── Minimal in-memory OrderRepository ────────────────────────────────────────

type fakeOrderRepo struct {
	rows map[uuid.UUID]*model.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{rows: make(map[uuid.UUID]*model.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	r.rows[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, o *model.Order) error {
	r.rows[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.rows[id]
	if !ok || o.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) List(_ context.Context, _ dto.OrderFilter) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.rows {
		if !o.DeletedAt.Valid {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	o, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

func (r *fakeOrderRepo) Restore(_ context.Context, id uuid.UUID) error {
	o, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.DeletedAt = gorm.DeletedAt{}
	return nil
}

func (r *fakeOrderRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, o := range r.rows {
		if !o.DeletedAt.Valid {
			n++
		}
	}
	return n, nil
}

func (r *fakeOrderRepo) CountPending(_ context.Context) (int64, error) {
	var n int64
	for _, o := range r.rows {
		if !o.DeletedAt.Valid && o.PaymentStatus == model.PaymentStatusPending {
			n++
		}
	}
	return n, nil
}

func (r *fakeOrderRepo) TotalRevenue(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, o := range r.rows {
		if !o.DeletedAt.Valid {
			total = total.Add(o.TotalValue)
		}
	}
	return total, nil
}

func (r *fakeOrderRepo) RevenueByMonth(_ context.Context, _ int) ([]repository.MonthlyRevenue, error) {
	return nil, nil
}

func (r *fakeOrderRepo) Recent(_ context.Context, _ int) ([]model.Order, error) {
	return r.List(context.Background(), dto.OrderFilter{})
}

var _ repository.OrderRepository = (*fakeOrderRepo)(nil)

// ── Fixtures ─────────────────────────────────────────────────────────────────

type cashFlowFixture struct {
	movements *fakeMovementRepo
	payments  *fakePaymentRepo
	orders    *fakeOrderRepo
	svc       CashFlowService
}

func newCashFlowFixture() *cashFlowFixture {
	f := &cashFlowFixture{
		movements: newFakeMovementRepo(),
		payments:  newFakePaymentRepo(),
		orders:    newFakeOrderRepo(),
	}
	f.svc = NewCashFlowService(f.movements, f.payments, f.orders, nil)
	return f
}

func (f *cashFlowFixture) seedOrder(t *testing.T, osNumber string, total float64) *model.Order {
	t.Helper()
	o := &model.Order{
		OSNumber:      osNumber,
		ClientName:    "Maria Souza",
		Store:         "Centro",
		PaymentStatus: model.PaymentStatusPending,
		TotalValue:    decimal.NewFromFloat(total),
	}
	require.NoError(t, f.orders.Create(context.Background(), o))
	return o
}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// ── Ledger entries / exits ───────────────────────────────────────────────────

func TestAddEntry(t *testing.T) {
	f := newCashFlowFixture()

	resp, err := f.svc.AddEntry(context.Background(), dto.EntryRequest{
		Date:        "2026-03-10",
		Category:    "Venda",
		Description: "Armação + lentes",
		Amount:      dec(350),
	})

	require.NoError(t, err)
	assert.Equal(t, model.MovementEntry, resp.Kind)
	assert.Equal(t, "2026-03-10", resp.Date)
	assert.Equal(t, dec(350).String(), resp.Amount.String())
	assert.Nil(t, resp.OrderID)
}

func TestAddEntryDefaultsDateToToday(t *testing.T) {
	f := newCashFlowFixture()

	resp, err := f.svc.AddEntry(context.Background(), dto.EntryRequest{
		Category: "Venda",
		Amount:   dec(10),
	})

	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("2006-01-02"), resp.Date)
}

func TestAddEntryRejectsNonPositiveAmount(t *testing.T) {
	f := newCashFlowFixture()

	for _, amount := range []decimal.Decimal{decimal.Zero, dec(-5)} {
		_, err := f.svc.AddEntry(context.Background(), dto.EntryRequest{
			Category: "Venda",
			Amount:   amount,
		})
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	}
	assert.Empty(t, f.movements.rows, "rejected entries must not be persisted")
}

func TestAddEntryRejectsMalformedDate(t *testing.T) {
	f := newCashFlowFixture()

	_, err := f.svc.AddEntry(context.Background(), dto.EntryRequest{
		Date:     "10/03/2026",
		Category: "Venda",
		Amount:   dec(50),
	})

	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestAddEntryRoundsAmountToTwoDecimals(t *testing.T) {
	f := newCashFlowFixture()

	resp, err := f.svc.AddEntry(context.Background(), dto.EntryRequest{
		Category: "Venda",
		Amount:   decimal.RequireFromString("10.005"),
	})

	require.NoError(t, err)
	assert.Equal(t, "10.01", resp.Amount.StringFixed(2))
}

func TestAddExitNeverCarriesOrder(t *testing.T) {
	f := newCashFlowFixture()

	resp, err := f.svc.AddExit(context.Background(), dto.ExitRequest{
		Date:        "2026-03-11",
		Category:    "Fornecedor",
		Description: "Reposição de lentes",
		Amount:      dec(120.5),
	})

	require.NoError(t, err)
	assert.Equal(t, model.MovementExit, resp.Kind)
	assert.Nil(t, resp.OrderID)
}

func TestEditMovementKeepsKind(t *testing.T) {
	f := newCashFlowFixture()
	created, err := f.svc.AddExit(context.Background(), dto.ExitRequest{
		Date:     "2026-03-11",
		Category: "Fornecedor",
		Amount:   dec(100),
	})
	require.NoError(t, err)

	id := uuid.MustParse(created.ID)
	require.NoError(t, f.svc.EditMovement(context.Background(), id, dto.MovementUpdateRequest{
		Date:     "2026-03-12",
		Category: "Aluguel",
		Amount:   dec(900),
	}))

	row := f.movements.rows[id]
	assert.Equal(t, model.MovementExit, row.Kind, "kind is immutable")
	assert.Equal(t, "2026-03-12", row.Date)
	assert.Equal(t, "Aluguel", row.Category)
	assert.Equal(t, dec(900).String(), row.Amount.String())
}

func TestEditMovementNotFound(t *testing.T) {
	f := newCashFlowFixture()

	err := f.svc.EditMovement(context.Background(), uuid.New(), dto.MovementUpdateRequest{
		Date:   "2026-03-12",
		Amount: dec(10),
	})

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

// ── Filters ──────────────────────────────────────────────────────────────────

func TestGetMovementsFiltersAreANDCombined(t *testing.T) {
	f := newCashFlowFixture()
	ctx := context.Background()

	_, err := f.svc.AddEntry(ctx, dto.EntryRequest{Date: "2026-03-01", Category: "Venda", Amount: dec(100)})
	require.NoError(t, err)
	_, err = f.svc.AddEntry(ctx, dto.EntryRequest{Date: "2026-03-15", Category: "Venda", Amount: dec(200)})
	require.NoError(t, err)
	_, err = f.svc.AddExit(ctx, dto.ExitRequest{Date: "2026-03-15", Category: "Fornecedor", Amount: dec(50)})
	require.NoError(t, err)
	_, err = f.svc.AddEntry(ctx, dto.EntryRequest{Date: "2026-04-02", Category: "Venda", Amount: dec(300)})
	require.NoError(t, err)

	got, err := f.svc.GetMovements(ctx, dto.MovementFilter{
		Kind:      model.MovementEntry,
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	// date DESC ordering
	assert.Equal(t, "2026-03-15", got[0].Date)
	assert.Equal(t, "2026-03-01", got[1].Date)
}

func TestGetMovementsDateBoundsInclusive(t *testing.T) {
	f := newCashFlowFixture()
	ctx := context.Background()

	_, err := f.svc.AddEntry(ctx, dto.EntryRequest{Date: "2026-03-01", Category: "Venda", Amount: dec(1)})
	require.NoError(t, err)
	_, err = f.svc.AddEntry(ctx, dto.EntryRequest{Date: "2026-03-31", Category: "Venda", Amount: dec(2)})
	require.NoError(t, err)

	got, err := f.svc.GetMovements(ctx, dto.MovementFilter{StartDate: "2026-03-01", EndDate: "2026-03-31"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

// ── Balance ──────────────────────────────────────────────────────────────────

func TestCalculateBalance(t *testing.T) {
	f := newCashFlowFixture()
	ctx := context.Background()

	_, err := f.svc.AddEntry(ctx, dto.EntryRequest{Date: "2026-03-01", Category: "Venda", Amount: dec(500)})
	require.NoError(t, err)
	_, err = f.svc.AddExit(ctx, dto.ExitRequest{Date: "2026-03-02", Category: "Aluguel", Amount: dec(150)})
	require.NoError(t, err)

	b, err := f.svc.CalculateBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, dec(350).String(), b.Balance.String())
	assert.Equal(t, dec(500).String(), b.TotalEntries.String())
	assert.Equal(t, dec(150).String(), b.TotalExits.String())
}

func TestCalculateBalanceEmptyLedgerIsZero(t *testing.T) {
	f := newCashFlowFixture()

	b, err := f.svc.CalculateBalance(context.Background())
	require.NoError(t, err)
	assert.True(t, b.Balance.IsZero())
	assert.True(t, b.TotalEntries.IsZero())
	assert.True(t, b.TotalExits.IsZero())
}

// Balance must equal the running sum of signed amounts for any sequence of
// adds, edits and deletes, in whatever order they arrive.
func TestBalanceAdditivityRandomizedSequence(t *testing.T) {
	f := newCashFlowFixture()
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	order := f.seedOrder(t, "OS-RAND", 100000)

	type ledgerLine struct {
		id     uuid.UUID
		kind   string
		amount decimal.Decimal
	}
	type payLine struct {
		id     uuid.UUID
		amount decimal.Decimal
	}
	var manual []ledgerLine
	var pays []payLine

	randAmount := func() decimal.Decimal {
		return dec(float64(rng.Intn(9999)+1) / 100)
	}

	expected := decimal.Zero
	for i := 0; i < 120; i++ {
		switch rng.Intn(6) {
		case 0: // manual entry
			amount := randAmount()
			resp, err := f.svc.AddEntry(ctx, dto.EntryRequest{Date: "2026-03-05", Category: "Venda", Amount: amount})
			require.NoError(t, err)
			manual = append(manual, ledgerLine{uuid.MustParse(resp.ID), model.MovementEntry, amount})
			expected = expected.Add(amount)
		case 1: // manual exit
			amount := randAmount()
			resp, err := f.svc.AddExit(ctx, dto.ExitRequest{Date: "2026-03-05", Category: "Despesa", Amount: amount})
			require.NoError(t, err)
			manual = append(manual, ledgerLine{uuid.MustParse(resp.ID), model.MovementExit, amount})
			expected = expected.Sub(amount)
		case 2: // partial payment mirrors an entry
			amount := randAmount()
			resp, err := f.svc.AddPartialPayment(ctx, order.ID, dto.PartialPaymentRequest{Amount: amount, PaymentDate: "2026-03-05"})
			require.NoError(t, err)
			pays = append(pays, payLine{uuid.MustParse(resp.ID), amount})
			expected = expected.Add(amount)
		case 3: // edit a manual line's amount; the sign follows its kind
			if len(manual) == 0 {
				continue
			}
			idx := rng.Intn(len(manual))
			amount := randAmount()
			require.NoError(t, f.svc.EditMovement(ctx, manual[idx].id, dto.MovementUpdateRequest{
				Date:     "2026-03-05",
				Category: "Ajuste",
				Amount:   amount,
			}))
			delta := amount.Sub(manual[idx].amount)
			if manual[idx].kind == model.MovementEntry {
				expected = expected.Add(delta)
			} else {
				expected = expected.Sub(delta)
			}
			manual[idx].amount = amount
		case 4: // edit a payment: the mirrored entry follows
			if len(pays) == 0 {
				continue
			}
			idx := rng.Intn(len(pays))
			amount := randAmount()
			_, err := f.svc.EditPartialPayment(ctx, pays[idx].id, dto.PartialPaymentRequest{Amount: amount, PaymentDate: "2026-03-05"})
			require.NoError(t, err)
			expected = expected.Add(amount.Sub(pays[idx].amount))
			pays[idx].amount = amount
		case 5: // delete a payment: the mirrored entry goes with it
			if len(pays) == 0 {
				continue
			}
			idx := rng.Intn(len(pays))
			require.NoError(t, f.svc.DeletePartialPayment(ctx, pays[idx].id))
			expected = expected.Sub(pays[idx].amount)
			pays = append(pays[:idx], pays[idx+1:]...)
		}
	}

	b, err := f.svc.CalculateBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected.String(), b.Balance.String())
}

func TestGetSummaryRespectsRange(t *testing.T) {
	f := newCashFlowFixture()
	ctx := context.Background()

	_, err := f.svc.AddEntry(ctx, dto.EntryRequest{Date: "2026-02-28", Category: "Venda", Amount: dec(999)})
	require.NoError(t, err)
	_, err = f.svc.AddEntry(ctx, dto.EntryRequest{Date: "2026-03-10", Category: "Venda", Amount: dec(100)})
	require.NoError(t, err)
	_, err = f.svc.AddExit(ctx, dto.ExitRequest{Date: "2026-03-20", Category: "Despesa", Amount: dec(40)})
	require.NoError(t, err)

	s, err := f.svc.GetSummary(ctx, "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	assert.Equal(t, dec(100).String(), s.Entries.String())
	assert.Equal(t, dec(40).String(), s.Exits.String())
	assert.Equal(t, dec(60).String(), s.Balance.String())
}

func TestGetSummaryRejectsMalformedBounds(t *testing.T) {
	f := newCashFlowFixture()

	_, err := f.svc.GetSummary(context.Background(), "03-01-2026", "")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

// ── Partial payments ─────────────────────────────────────────────────────────

func TestAddPartialPaymentCreatesLinkedEntry(t *testing.T) {
	f := newCashFlowFixture()
	ctx := context.Background()
	order := f.seedOrder(t, "OS-1042", 500)

	method := "pix"
	resp, err := f.svc.AddPartialPayment(ctx, order.ID, dto.PartialPaymentRequest{
		Amount:        dec(150),
		PaymentDate:   "2026-03-12",
		PaymentMethod: method,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.CashFlowID)

	payment := f.payments.rows[uuid.MustParse(resp.ID)]
	require.NotNil(t, payment.CashFlowID)
	mov := f.movements.rows[*payment.CashFlowID]
	require.NotNil(t, mov, "ledger entry must exist")

	// Linkage invariant: amount, date and method mirror the payment.
	assert.Equal(t, payment.Amount.String(), mov.Amount.String())
	assert.Equal(t, payment.PaymentDate, mov.Date)
	assert.Equal(t, *payment.PaymentMethod, *mov.PaymentMethod)

	assert.Equal(t, model.MovementEntry, mov.Kind)
	assert.Equal(t, model.CategoryPartialPayment, mov.Category)
	assert.Equal(t, "Pagamento parcial - OS #OS-1042", mov.Description)
	require.NotNil(t, mov.OrderID)
	assert.Equal(t, order.ID, *mov.OrderID)
}

func TestAddPartialPaymentUnknownOrderUsesIDInDescription(t *testing.T) {
	f := newCashFlowFixture()
	orderID := uuid.New()

	resp, err := f.svc.AddPartialPayment(context.Background(), orderID, dto.PartialPaymentRequest{
		Amount:      dec(75),
		PaymentDate: "2026-03-12",
	})
	require.NoError(t, err)

	payment := f.payments.rows[uuid.MustParse(resp.ID)]
	mov := f.movements.rows[*payment.CashFlowID]
	assert.Equal(t, "Pagamento parcial - OS #"+orderID.String(), mov.Description)
}

func TestAddPartialPaymentRejectsInvalidAmount(t *testing.T) {
	f := newCashFlowFixture()
	order := f.seedOrder(t, "OS-1", 100)

	_, err := f.svc.AddPartialPayment(context.Background(), order.ID, dto.PartialPaymentRequest{
		Amount:      dec(-10),
		PaymentDate: "2026-03-12",
	})

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, f.payments.rows)
	assert.Empty(t, f.movements.rows)
}

func TestEditPartialPaymentSyncsLedgerEntry(t *testing.T) {
	f := newCashFlowFixture()
	ctx := context.Background()
	order := f.seedOrder(t, "OS-7", 500)

	created, err := f.svc.AddPartialPayment(ctx, order.ID, dto.PartialPaymentRequest{
		Amount:        dec(150),
		PaymentDate:   "2026-03-12",
		PaymentMethod: "dinheiro",
	})
	require.NoError(t, err)

	resp, err := f.svc.EditPartialPayment(ctx, uuid.MustParse(created.ID), dto.PartialPaymentRequest{
		Amount:        dec(200),
		PaymentDate:   "2026-03-13",
		PaymentMethod: "cartao",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.IntegrityWarning)

	payment := f.payments.rows[uuid.MustParse(created.ID)]
	mov := f.movements.rows[*payment.CashFlowID]

	assert.Equal(t, dec(200).String(), payment.Amount.String())
	assert.Equal(t, payment.Amount.String(), mov.Amount.String())
	assert.Equal(t, payment.PaymentDate, mov.Date)
	assert.Equal(t, *payment.PaymentMethod, *mov.PaymentMethod)
	// Category and description survive the edit untouched.
	assert.Equal(t, model.CategoryPartialPayment, mov.Category)
	assert.Equal(t, "Pagamento parcial - OS #OS-7", mov.Description)
}

func TestEditPartialPaymentMissingLedgerEntryWarnsButCommits(t *testing.T) {
	f := newCashFlowFixture()
	ctx := context.Background()
	order := f.seedOrder(t, "OS-9", 300)

	created, err := f.svc.AddPartialPayment(ctx, order.ID, dto.PartialPaymentRequest{
		Amount:      dec(100),
		PaymentDate: "2026-03-12",
	})
	require.NoError(t, err)

	// Simulate corruption: the mirrored ledger entry vanishes.
	payment := f.payments.rows[uuid.MustParse(created.ID)]
	delete(f.movements.rows, *payment.CashFlowID)

	resp, err := f.svc.EditPartialPayment(ctx, uuid.MustParse(created.ID), dto.PartialPaymentRequest{
		Amount:      dec(120),
		PaymentDate: "2026-03-14",
	})
	require.NoError(t, err, "integrity warning must not fail the edit")
	require.NotNil(t, resp.IntegrityWarning)

	assert.Equal(t, dec(120).String(), f.payments.rows[payment.ID].Amount.String())
}

func TestEditPartialPaymentNotFound(t *testing.T) {
	f := newCashFlowFixture()

	_, err := f.svc.EditPartialPayment(context.Background(), uuid.New(), dto.PartialPaymentRequest{
		Amount:      dec(10),
		PaymentDate: "2026-03-12",
	})

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestDeletePartialPaymentCascadesToLedger(t *testing.T) {
	f := newCashFlowFixture()
	ctx := context.Background()
	order := f.seedOrder(t, "OS-3", 400)

	created, err := f.svc.AddPartialPayment(ctx, order.ID, dto.PartialPaymentRequest{
		Amount:      dec(80),
		PaymentDate: "2026-03-12",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePartialPayment(ctx, uuid.MustParse(created.ID)))

	assert.Empty(t, f.payments.rows)
	assert.Empty(t, f.movements.rows)
}

func TestDeletePartialPaymentNotFoundLeavesStoresUntouched(t *testing.T) {
	f := newCashFlowFixture()
	ctx := context.Background()
	order := f.seedOrder(t, "OS-4", 400)

	_, err := f.svc.AddPartialPayment(ctx, order.ID, dto.PartialPaymentRequest{
		Amount:      dec(80),
		PaymentDate: "2026-03-12",
	})
	require.NoError(t, err)

	err = f.svc.DeletePartialPayment(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	assert.Len(t, f.payments.rows, 1)
	assert.Len(t, f.movements.rows, 1)
}

// ── Order balance ────────────────────────────────────────────────────────────

func TestGetOrderBalance(t *testing.T) {
	f := newCashFlowFixture()
	ctx := context.Background()
	order := f.seedOrder(t, "OS-20", 500)

	_, err := f.svc.AddPartialPayment(ctx, order.ID, dto.PartialPaymentRequest{
		Amount:      dec(150),
		PaymentDate: "2026-03-10",
	})
	require.NoError(t, err)
	_, err = f.svc.AddPartialPayment(ctx, order.ID, dto.PartialPaymentRequest{
		Amount:      dec(100),
		PaymentDate: "2026-03-15",
	})
	require.NoError(t, err)

	b, err := f.svc.GetOrderBalance(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, b)

	assert.Equal(t, dec(500).String(), b.OrderTotal.String())
	assert.Equal(t, dec(250).String(), b.TotalPaid.String())
	assert.Equal(t, dec(250).String(), b.Remaining.String())
	require.Len(t, b.Payments, 2)
	// payment_date DESC
	assert.Equal(t, "2026-03-15", b.Payments[0].PaymentDate)
	assert.Equal(t, "2026-03-10", b.Payments[1].PaymentDate)
}

func TestGetOrderBalanceIsIdempotent(t *testing.T) {
	f := newCashFlowFixture()
	ctx := context.Background()
	order := f.seedOrder(t, "OS-21", 500)

	_, err := f.svc.AddPartialPayment(ctx, order.ID, dto.PartialPaymentRequest{
		Amount:      dec(150),
		PaymentDate: "2026-03-10",
	})
	require.NoError(t, err)

	first, err := f.svc.GetOrderBalance(ctx, order.ID)
	require.NoError(t, err)
	second, err := f.svc.GetOrderBalance(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Remaining.String(), second.Remaining.String())
	assert.Equal(t, first.TotalPaid.String(), second.TotalPaid.String())
	assert.Len(t, f.payments.rows, 1, "reads must not create rows")
}

func TestGetOrderBalanceMissingOrderReturnsNil(t *testing.T) {
	f := newCashFlowFixture()

	b, err := f.svc.GetOrderBalance(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestGetOrderBalanceOverpaymentGoesNegative(t *testing.T) {
	f := newCashFlowFixture()
	ctx := context.Background()
	order := f.seedOrder(t, "OS-22", 100)

	_, err := f.svc.AddPartialPayment(ctx, order.ID, dto.PartialPaymentRequest{
		Amount:      dec(130),
		PaymentDate: "2026-03-10",
	})
	require.NoError(t, err)

	b, err := f.svc.GetOrderBalance(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, dec(-30).String(), b.Remaining.String())
}

// Payments feed the global balance through their mirrored ledger entries.
func TestPartialPaymentsShowUpInGlobalBalance(t *testing.T) {
	f := newCashFlowFixture()
	ctx := context.Background()
	order := f.seedOrder(t, "OS-30", 500)

	_, err := f.svc.AddPartialPayment(ctx, order.ID, dto.PartialPaymentRequest{
		Amount:      dec(150),
		PaymentDate: "2026-03-10",
	})
	require.NoError(t, err)
	_, err = f.svc.AddExit(ctx, dto.ExitRequest{Date: "2026-03-11", Category: "Despesa", Amount: dec(50)})
	require.NoError(t, err)

	b, err := f.svc.CalculateBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, dec(100).String(), b.Balance.String())
}
