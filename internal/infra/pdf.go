package infra

// pdf.go — payment receipt generation using go-pdf/fpdf. A5 landscape, one
// receipt per payment: agency header, receipt number and date, customer name,
// amount in a bold box. The output file is saved to
// storagePath/receipt_{reference}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
)

// PaymentReceipt carries the fields printed on a receipt. All values arrive
// preformatted; this layer only does layout.
type PaymentReceipt struct {
	Reference    string
	CustomerName string
	Amount       string // "1250.00"
	Date         string // "2026-08-30"
}

// GenerateReceiptPDF writes the receipt and returns the absolute path to the
// generated file.
func GenerateReceiptPDF(agencyName string, r PaymentReceipt, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	safeRef := strings.ReplaceAll(r.Reference, "/", "_")
	filePath := filepath.Join(storagePath, fmt.Sprintf("receipt_%s.pdf", safeRef))

	pdf := fpdf.New("L", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, agencyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Payment Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(4)

	// ── Receipt details ──────────────────────────────────────────────────────
	labelW := contentW * 0.35
	valueW := contentW * 0.65

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(labelW, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(valueW, 7, value, "", 1, "L", false, 0, "")
	}
	row("Receipt No.", r.Reference)
	row("Date", r.Date)
	row("Received from", r.CustomerName)
	pdf.Ln(4)

	// ── Amount box ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 11, "Amount Received:  Rs "+r.Amount, "1", 1, "C", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "This is a system generated receipt.", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
