package infra

// pdf.go — Receipt generation using go-pdf/fpdf.
// Renders an A7-size receipt for a partial payment: shop header, OS number,
// amount, date, payment method and notes. The output file is saved to
// storagePath/recibo_{payment_id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/LUNDWw/Sistemas-oticas/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReceiptPDF renders a payment receipt. order may be nil when the
// referenced order no longer exists; the receipt then shows only the payment
// data. Returns the absolute path of the generated file.
func GenerateReceiptPDF(payment *model.PartialPayment, order *model.Order, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recibo_%s.pdf", payment.ID)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "Ótica", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Recibo de Pagamento Parcial", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Payment info ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	if order != nil {
		pdf.CellFormat(contentW, 5, fmt.Sprintf("OS #%s", order.OSNumber), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(contentW, 4, order.ClientName, "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(contentW, 5, fmt.Sprintf("Ordem %s", payment.OrderID), "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, payment.PaymentDate, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// ── Separator ────────────────────────────────────────────────────────────
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Amount ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, fmt.Sprintf("R$ %s", payment.Amount.StringFixed(2)), "", 1, "C", false, 0, "")

	if payment.PaymentMethod != nil {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(contentW, 4, *payment.PaymentMethod, "", 1, "C", false, 0, "")
	}

	if payment.Notes != nil && *payment.Notes != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.MultiCell(contentW, 4, *payment.Notes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write receipt: %w", err)
	}
	return filePath, nil
}
