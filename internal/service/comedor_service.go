package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/soniaGuev/SecBienestar/internal/domerr"
	"github.com/soniaGuev/SecBienestar/internal/dto"
	"github.com/soniaGuev/SecBienestar/internal/model"
	"github.com/soniaGuev/SecBienestar/internal/repository"
	"github.com/soniaGuev/SecBienestar/internal/worker"
)

// maxReintentosCodigo bounds the collision retry for opaque ticket codes.
// With UUIDv4 codes a single collision is already vanishingly unlikely.
const maxReintentosCodigo = 5

type ComedorService interface {
	// ComprarTickets issues N tickets for a person as one atomic unit:
	// resolve eligibility as of today, price every ticket identically,
	// create the purchase and its tickets with fresh unique codes and derive
	// the QR payloads, all inside a single transaction that serializes per
	// student via a row lock.
	ComprarTickets(ctx context.Context, personaID uuid.UUID, req dto.ComprarTicketsRequest) (*dto.CompraResponse, error)
	// MisCompras lists a person's purchase history, newest first.
	MisCompras(ctx context.Context, personaID uuid.UUID) ([]dto.CompraResponse, error)
	// MisTickets lists a person's tickets across purchases, newest first.
	MisTickets(ctx context.Context, personaID uuid.UUID) ([]dto.TicketResponse, error)
	// UsarTicket redeems a ticket by its opaque code (pagado -> usado).
	UsarTicket(ctx context.Context, codigo string) error
}

type comedorService struct {
	compraRepo     repository.CompraRepository
	ticketRepo     repository.TicketRepository
	estudianteRepo repository.EstudianteRepository
	beneficios     BeneficioService
	menus          MenuService
	dispatcher     *worker.Dispatcher
	validezDias    int
}

func NewComedorService(
	compraRepo repository.CompraRepository,
	ticketRepo repository.TicketRepository,
	estudianteRepo repository.EstudianteRepository,
	beneficios BeneficioService,
	menus MenuService,
	dispatcher *worker.Dispatcher,
	validezDias int,
) ComedorService {
	if validezDias <= 0 {
		validezDias = 30
	}
	return &comedorService{
		compraRepo:     compraRepo,
		ticketRepo:     ticketRepo,
		estudianteRepo: estudianteRepo,
		beneficios:     beneficios,
		menus:          menus,
		dispatcher:     dispatcher,
		validezDias:    validezDias,
	}
}

// ── ComprarTickets ────────────────────────────────────────────────────────────
// Atomic issuance:
//   1. Lock the student row (serializes concurrent purchases per student)
//   2. Resolve eligibility as of today (inside the same tx)
//   3. Price each ticket against the configured menu for the preference
//   4. Create the purchase + N tickets (unique code, sequential number,
//      estado pagado, validity window, QR payload = the code)
//   5. COMMIT; totals equal the sums over the tickets by construction
//   6. (async) enqueue credential rendering (QR PNG + PDF + email)

func (s *comedorService) ComprarTickets(ctx context.Context, personaID uuid.UUID, req dto.ComprarTicketsRequest) (*dto.CompraResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	estudiante, err := s.estudianteRepo.FindByPersonaID(ctx, personaID)
	if err != nil {
		if errors.Is(err, domerr.ErrNotFound) {
			return nil, domerr.Policy(domerr.RazonSinPreferenciaMenu,
				"solo estudiantes con preferencia de menu pueden comprar tickets")
		}
		return nil, err
	}

	hoy := time.Now()
	var compra model.CompraTickets

	txErr := runTx(ctx, s.compraRepo.DB(), func(tx *gorm.DB) error {
		// Re-read under FOR UPDATE: two concurrent purchases for the same
		// student must not both resolve eligibility on stale state.
		bloqueado, err := s.estudianteRepo.FindByIDForUpdateTx(tx, estudiante.ID)
		if err != nil {
			return err
		}
		if bloqueado.PreferenciaMenu == "" {
			return domerr.Policy(domerr.RazonSinPreferenciaMenu,
				"no tienes una preferencia de menu configurada")
		}

		menu, err := s.menus.MenuParaPreferencia(bloqueado.PreferenciaMenu)
		if err != nil {
			if errors.Is(err, domerr.ErrNotFound) {
				return domerr.Policy(domerr.RazonMenuNoDisponible,
					"no hay menu disponible para tu preferencia "+bloqueado.PreferenciaMenu)
			}
			return err
		}
		if !menu.Activo {
			return domerr.Policy(domerr.RazonMenuNoDisponible,
				"el menu "+menu.Nombre+" no esta activo")
		}

		resuelto, err := s.beneficios.Resolver(ctx, tx, bloqueado.ID, hoy)
		if err != nil {
			return err
		}

		var beneficio *model.BeneficioComedor
		var beneficioID, becaID *uuid.UUID
		if resuelto != nil {
			beneficio = resuelto.Beneficio
			beneficioID = &resuelto.Beneficio.ID
			becaID = &resuelto.Beca.ID
		}

		precioFinal, descuento := PrecioConBeneficio(menu.Precio, beneficio)
		cantidad := decimal.NewFromInt(int64(req.Cantidad))

		metodoPago := req.MetodoPago
		totalPagado := precioFinal.Mul(cantidad)
		if totalPagado.IsZero() {
			metodoPago = model.MetodoBecaGratuita
		} else if metodoPago == "" {
			metodoPago = model.MetodoEfectivo
		}

		conBeneficio := 0
		if beneficio != nil {
			conBeneficio = req.Cantidad
		}

		compra = model.CompraTickets{
			PersonaID:           personaID,
			CantidadTickets:     req.Cantidad,
			Subtotal:            menu.Precio.Mul(cantidad),
			TotalDescuentos:     descuento.Mul(cantidad),
			TotalPagado:         totalPagado,
			MetodoPago:          metodoPago,
			TicketsConBeneficio: conBeneficio,
		}

		validoHasta := model.Fecha(hoy).AddDate(0, 0, s.validezDias)
		for i := 0; i < req.Cantidad; i++ {
			codigo, err := s.generarCodigo(ctx, tx)
			if err != nil {
				return err
			}
			numero, err := s.ticketRepo.NextNumero(ctx, tx)
			if err != nil {
				return err
			}
			compra.Tickets = append(compra.Tickets, model.Ticket{
				PersonaID:  personaID,
				TipoMenuID: menu.ID,
				Codigo:     codigo,
				// The QR payload encodes the opaque code only, never
				// personal data.
				QRPayload:           codigo,
				NumeroTicket:        fmt.Sprintf("TCK-%06d", numero),
				Estado:              model.TicketPagado,
				PrecioBase:          menu.Precio,
				DescuentoAplicado:   descuento,
				PrecioPagado:        precioFinal,
				BeneficioAplicadoID: beneficioID,
				BecaUtilizadaID:     becaID,
				FechaValidoHasta:    validoHasta,
			})
		}

		return s.compraRepo.CreateTx(ctx, tx, &compra)
	})
	if txErr != nil {
		return nil, wrapTxError(txErr, "no se pudo completar la compra de tickets")
	}

	// Credential rendering (QR PNG, PDF voucher, email) is best-effort
	// afterwork, never part of the issuance transaction.
	if s.dispatcher != nil {
		correo := ""
		if estudiante.Persona != nil {
			correo = estudiante.Persona.Correo
		}
		_ = s.dispatcher.EnqueueCredencial(ctx, worker.CredencialJobPayload{
			CompraID: compra.ID.String(),
			Correo:   correo,
		})
	}

	return compraToResponse(&compra), nil
}

// generarCodigo draws a fresh opaque code and re-draws on the (extremely
// unlikely) collision, inside the surrounding transaction.
func (s *comedorService) generarCodigo(ctx context.Context, tx *gorm.DB) (string, error) {
	for i := 0; i < maxReintentosCodigo; i++ {
		codigo := uuid.NewString()
		existe, err := s.ticketRepo.ExisteCodigo(ctx, tx, codigo)
		if err != nil {
			return "", err
		}
		if !existe {
			return codigo, nil
		}
	}
	return "", domerr.Persistence("no se pudo generar un codigo de ticket unico", nil)
}

// ── MisCompras ────────────────────────────────────────────────────────────────

func (s *comedorService) MisCompras(ctx context.Context, personaID uuid.UUID) ([]dto.CompraResponse, error) {
	compras, err := s.compraRepo.ListPorPersona(ctx, personaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompraResponse, 0, len(compras))
	for i := range compras {
		out = append(out, *compraToResponse(&compras[i]))
	}
	return out, nil
}

// ── MisTickets ────────────────────────────────────────────────────────────────

func (s *comedorService) MisTickets(ctx context.Context, personaID uuid.UUID) ([]dto.TicketResponse, error) {
	tickets, err := s.ticketRepo.ListPorPersona(ctx, personaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, ticketToResponse(&tickets[i]))
	}
	return out, nil
}

// ── UsarTicket ────────────────────────────────────────────────────────────────

func (s *comedorService) UsarTicket(ctx context.Context, codigo string) error {
	ticket, err := s.ticketRepo.FindByCodigo(ctx, codigo)
	if err != nil {
		return err
	}
	hoy := time.Now()
	if model.Fecha(hoy).After(model.Fecha(ticket.FechaValidoHasta)) {
		return domerr.Policy(domerr.RazonEstadoInvalido, "el ticket esta vencido")
	}
	return s.ticketRepo.MarcarUsado(ctx, ticket.ID, hoy)
}

func compraToResponse(c *model.CompraTickets) *dto.CompraResponse {
	resp := &dto.CompraResponse{
		ID:                  c.ID.String(),
		CantidadTickets:     c.CantidadTickets,
		Subtotal:            c.Subtotal,
		TotalDescuentos:     c.TotalDescuentos,
		TotalPagado:         c.TotalPagado,
		MetodoPago:          c.MetodoPago,
		TicketsConBeneficio: c.TicketsConBeneficio,
		FechaCompra:         c.FechaCompra,
	}
	for i := range c.Tickets {
		resp.Tickets = append(resp.Tickets, ticketToResponse(&c.Tickets[i]))
	}
	return resp
}

func ticketToResponse(t *model.Ticket) dto.TicketResponse {
	tr := dto.TicketResponse{
		ID:                t.ID.String(),
		NumeroTicket:      t.NumeroTicket,
		Codigo:            t.Codigo,
		QRPayload:         t.QRPayload,
		Estado:            t.Estado,
		PrecioBase:        t.PrecioBase,
		DescuentoAplicado: t.DescuentoAplicado,
		PrecioPagado:      t.PrecioPagado,
		FechaValidoHasta:  t.FechaValidoHasta,
		ConBeneficio:      t.BeneficioAplicadoID != nil,
	}
	if t.TipoMenu != nil {
		tr.Menu = t.TipoMenu.Nombre
	}
	return tr
}
