package worker

// receipt_worker.go
// Renders a PDF receipt for a recorded partial payment and, when the shop
// has a bookkeeping address configured, mails it there.

import (
	"context"
	"fmt"

	"github.com/LUNDWw/Sistemas-oticas/internal/infra"
	"github.com/LUNDWw/Sistemas-oticas/internal/model"
	"github.com/LUNDWw/Sistemas-oticas/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ReceiptWorker struct {
	payments    repository.PartialPaymentRepository
	orders      repository.OrderRepository
	mailer      *infra.Mailer
	storagePath string
	notifyEmail string
}

func NewReceiptWorker(
	payments repository.PartialPaymentRepository,
	orders repository.OrderRepository,
	mailer *infra.Mailer,
	storagePath, notifyEmail string,
) *ReceiptWorker {
	return &ReceiptWorker{
		payments:    payments,
		orders:      orders,
		mailer:      mailer,
		storagePath: storagePath,
		notifyEmail: notifyEmail,
	}
}

func (w *ReceiptWorker) Handle(ctx context.Context, payload ReceiptPayload) error {
	id, err := uuid.Parse(payload.PaymentID)
	if err != nil {
		return fmt.Errorf("receipt: payment_id inválido: %w", err)
	}

	payment, err := w.payments.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("receipt: carregar pagamento: %w", err)
	}

	// The order may have been soft-deleted since; the receipt still renders
	// with what we have.
	var order *model.Order
	if o, err := w.orders.FindByID(ctx, payment.OrderID); err == nil {
		order = o
	}

	pdfPath, err := infra.GenerateReceiptPDF(payment, order, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("payment_id", payload.PaymentID).Str("pdf", pdfPath).Msg("receipt generated")

	if w.notifyEmail == "" {
		return nil
	}
	subject := fmt.Sprintf("Recibo de pagamento parcial — R$ %s", payment.Amount.StringFixed(2))
	body := fmt.Sprintf("Pagamento parcial de R$ %s registrado em %s.", payment.Amount.StringFixed(2), payment.PaymentDate)
	return w.mailer.SendReceipt(w.notifyEmail, subject, body, pdfPath)
}
