package worker

// credencial_worker.go
// Processes credential jobs from QueueCredenciales: renders the QR image for
// every ticket of a purchase, builds the printable PDF vouchers, and enqueues
// the delivery email. All of it stays off the issuance critical path.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/soniaGuev/SecBienestar/internal/infra"
	"github.com/soniaGuev/SecBienestar/internal/repository"
)

// CredencialJobPayload is the job envelope sent to QueueCredenciales.
type CredencialJobPayload struct {
	CompraID string `json:"compra_id"`
	Correo   string `json:"correo,omitempty"`
}

type CredencialWorker struct {
	compraRepo     repository.CompraRepository
	ticketRepo     repository.TicketRepository
	qr             *infra.QRRenderer
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewCredencialWorker(
	compraRepo repository.CompraRepository,
	ticketRepo repository.TicketRepository,
	qr *infra.QRRenderer,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *CredencialWorker {
	return &CredencialWorker{
		compraRepo:     compraRepo,
		ticketRepo:     ticketRepo,
		qr:             qr,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single credential job:
//  1. Parse CredencialJobPayload from the job envelope
//  2. Fetch the CompraTickets (with tickets) from DB
//  3. Per ticket: render the QR PNG, backfill its path, build the PDF voucher
//  4. Enqueue the delivery email when the person has a correo
func (w *CredencialWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload CredencialJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("credencial_worker: invalid payload")
		return
	}

	compraID, err := uuid.Parse(payload.CompraID)
	if err != nil {
		log.Error().Str("compra_id", payload.CompraID).Msg("credencial_worker: invalid compra_id")
		return
	}

	compra, err := w.compraRepo.FindByID(ctx, compraID)
	if err != nil {
		log.Error().Err(err).Str("compra_id", payload.CompraID).Msg("credencial_worker: compra not found")
		return
	}

	var pdfPaths []string
	for i := range compra.Tickets {
		ticket := &compra.Tickets[i]

		qrPath, err := w.qr.RenderTicket(ticket.NumeroTicket, ticket.QRPayload)
		if err != nil {
			log.Error().Err(err).Str("ticket", ticket.NumeroTicket).Msg("credencial_worker: QR render failed")
			continue
		}
		if err := w.ticketRepo.UpdateQRImagePath(ctx, ticket.ID, qrPath); err != nil {
			log.Warn().Err(err).Str("ticket", ticket.NumeroTicket).Msg("credencial_worker: QR path backfill failed")
		}

		qrPNG, err := w.qr.RenderBytes(ticket.QRPayload)
		if err != nil {
			log.Error().Err(err).Str("ticket", ticket.NumeroTicket).Msg("credencial_worker: QR bytes failed")
			continue
		}
		pdfPath, err := infra.GenerateTicketPDF(ticket, qrPNG, w.pdfStoragePath)
		if err != nil {
			log.Warn().Err(err).Str("ticket", ticket.NumeroTicket).Msg("credencial_worker: PDF generation failed")
			continue
		}
		pdfPaths = append(pdfPaths, pdfPath)
	}

	if len(pdfPaths) < len(compra.Tickets) {
		SendToDLQ(ctx, w.dispatcher.rdb, QueueCredenciales, "credencial", raw,
			fmt.Sprintf("rendered %d of %d credentials", len(pdfPaths), len(compra.Tickets)), 1)
	}
	if len(pdfPaths) == 0 {
		return
	}

	log.Info().Str("compra_id", payload.CompraID).Int("tickets", len(pdfPaths)).
		Msg("credencial_worker: credentials rendered")

	if payload.Correo != "" {
		emailJob := EmailJobPayload{
			ToEmail:  payload.Correo,
			Subject:  fmt.Sprintf("Tus tickets del comedor (%d)", len(pdfPaths)),
			Body:     fmt.Sprintf("Adjuntamos tus tickets del comedor universitario.\nValidos hasta su fecha de vencimiento impresa.\nEmitidos: %s", time.Now().Format("2006-01-02")),
			PDFPaths: pdfPaths,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("correo", payload.Correo).Msg("credencial_worker: failed to enqueue email")
		}
	}
}
