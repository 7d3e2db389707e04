package infra

// pdf.go builds the printable cafeteria ticket using go-pdf/fpdf.
// A7-size voucher with:
//   - Secretaría de Bienestar header
//   - Ticket number and menu name
//   - Price breakdown (base, discount, paid)
//   - Embedded QR code
//   - Validity end date
//
// The output file is saved to storagePath/ticket_{numero}.pdf.

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/soniaGuev/SecBienestar/internal/model"
)

// GenerateTicketPDF generates the printable PDF voucher for a Ticket.
// qrPNG holds the already-rendered QR image bytes (may be nil to skip it).
// Returns the absolute path to the generated file.
func GenerateTicketPDF(ticket *model.Ticket, qrPNG []byte, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("ticket_%s.pdf", ticket.NumeroTicket)
	filePath := filepath.Join(storagePath, fileName)

	// A7, 74mm x 105mm, close to thermal receipt paper
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
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, "Secretaria de Bienestar", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Ticket de Comedor Universitario", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Ticket info ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Ticket %s", ticket.NumeroTicket), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	if ticket.TipoMenu != nil {
		pdf.CellFormat(contentW, 4, ticket.TipoMenu.Nombre, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 4, ticket.FechaCompra.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// ── Separator ────────────────────────────────────────────────────────────
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Price breakdown ──────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW*0.6, 4, "Precio base", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 4, "$"+ticket.PrecioBase.StringFixed(2), "", 1, "R", false, 0, "")
	if ticket.DescuentoAplicado.IsPositive() {
		pdf.CellFormat(contentW*0.6, 4, "Descuento beca", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 4, "-$"+ticket.DescuentoAplicado.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW*0.6, 5, "Pagado", "T", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 5, "$"+ticket.PrecioPagado.StringFixed(2), "T", 1, "R", false, 0, "")
	pdf.Ln(2)

	// ── QR ───────────────────────────────────────────────────────────────────
	if len(qrPNG) > 0 {
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr_"+ticket.NumeroTicket, opts, bytes.NewReader(qrPNG))
		qrSize := 32.0
		x := (pageW - qrSize) / 2
		pdf.ImageOptions("qr_"+ticket.NumeroTicket, x, pdf.GetY(), qrSize, qrSize, false, opts, 0, "")
		pdf.SetY(pdf.GetY() + qrSize + 2)
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 6)
	pdf.CellFormat(contentW, 4,
		fmt.Sprintf("Valido hasta %s", ticket.FechaValidoHasta.Format("02/01/2006")),
		"", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
