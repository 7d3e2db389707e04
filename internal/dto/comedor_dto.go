package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComprarTicketsRequest is the issuance input. MetodoPago is ignored when the
// resolved benefit makes the purchase free (the service tags it beca_gratuita).
type ComprarTicketsRequest struct {
	Cantidad   int    `json:"cantidad" validate:"required,min=1,max=10"`
	MetodoPago string `json:"metodo_pago" validate:"omitempty,oneof=efectivo transferencia tarjeta"`
}

// TicketResponse mirrors one issued ticket.
type TicketResponse struct {
	ID                string          `json:"id"`
	NumeroTicket      string          `json:"numero_ticket"`
	Codigo            string          `json:"codigo"`
	QRPayload         string          `json:"qr_payload"`
	Estado            string          `json:"estado"`
	Menu              string          `json:"menu"`
	PrecioBase        decimal.Decimal `json:"precio_base"`
	DescuentoAplicado decimal.Decimal `json:"descuento_aplicado"`
	PrecioPagado      decimal.Decimal `json:"precio_pagado"`
	FechaValidoHasta  time.Time       `json:"fecha_valido_hasta"`
	ConBeneficio      bool            `json:"con_beneficio"`
}

// CompraResponse is the issuance result: the purchase plus its tickets.
type CompraResponse struct {
	ID                  string           `json:"id"`
	CantidadTickets     int              `json:"cantidad_tickets"`
	Subtotal            decimal.Decimal  `json:"subtotal"`
	TotalDescuentos     decimal.Decimal  `json:"total_descuentos"`
	TotalPagado         decimal.Decimal  `json:"total_pagado"`
	MetodoPago          string           `json:"metodo_pago"`
	TicketsConBeneficio int              `json:"tickets_con_beneficio"`
	FechaCompra         time.Time        `json:"fecha_compra"`
	Tickets             []TicketResponse `json:"tickets"`
}

// BeneficioResponse describes the benefit a student would get today, used by
// the presentation layer to preview prices before checkout.
type BeneficioResponse struct {
	TipoBeneficio       string          `json:"tipo_beneficio"`
	PorcentajeDescuento decimal.Decimal `json:"porcentaje_descuento"`
	Beca                string          `json:"beca"`
	Gratuito            bool            `json:"gratuito"`
}
