package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ticket states.
const (
	TicketPendiente = "pendiente"
	TicketPagado    = "pagado"
	TicketUsado     = "usado"
)

// Purchase payment tags. MetodoBecaGratuita is set automatically when the
// resolved benefit drives the total to zero.
const (
	MetodoBecaGratuita = "beca_gratuita"
	MetodoEfectivo     = "efectivo"
)

// CompraTickets groups the tickets of one checkout. Totals are derived from
// the tickets at issuance time and are never edited independently.
type CompraTickets struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PersonaID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	CantidadTickets int             `gorm:"not null;default:1"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TotalDescuentos decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TotalPagado     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MetodoPago      string          `gorm:"type:varchar(50)"`
	// TicketsConBeneficio counts tickets issued under a scholarship benefit.
	TicketsConBeneficio int       `gorm:"not null;default:0"`
	FechaCompra         time.Time `gorm:"autoCreateTime"`

	Tickets []Ticket `gorm:"foreignKey:CompraID"`
}

// Ticket is a single redeemable cafeteria-meal voucher. Codigo is the opaque
// unique code; QRPayload is derived deterministically from it (it encodes the
// code only, never personal data). Tickets are immutable after issuance
// except for the pagado -> usado transition and the QR image backfill.
type Ticket struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID   uuid.UUID `gorm:"type:uuid;index;not null"`
	PersonaID  uuid.UUID `gorm:"type:uuid;index;not null"`
	TipoMenuID uuid.UUID `gorm:"type:uuid;not null"`

	Codigo       string `gorm:"uniqueIndex;not null"`
	NumeroTicket string `gorm:"type:varchar(20);uniqueIndex;not null"`
	QRPayload    string `gorm:"not null"`
	// QRImagePath is filled by the credential worker after commit.
	QRImagePath *string

	Estado string `gorm:"type:varchar(20);not null;default:'pendiente';index"`

	PrecioBase        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	DescuentoAplicado decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PrecioPagado      decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	BeneficioAplicadoID *uuid.UUID `gorm:"type:uuid"`
	BecaUtilizadaID     *uuid.UUID `gorm:"type:uuid"`

	FechaCompra      time.Time `gorm:"autoCreateTime"`
	FechaUso         *time.Time
	FechaValidoHasta time.Time `gorm:"type:date;not null"`

	TipoMenu          *TipoMenu         `gorm:"foreignKey:TipoMenuID"`
	BeneficioAplicado *BeneficioComedor `gorm:"foreignKey:BeneficioAplicadoID"`
	BecaUtilizada     *PersonaBeca      `gorm:"foreignKey:BecaUtilizadaID"`
}

// EsGratuito reports whether the ticket was issued free under a benefit.
func (t *Ticket) EsGratuito() bool {
	return t.PrecioPagado.IsZero() && t.BeneficioAplicadoID != nil
}
