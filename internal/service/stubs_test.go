package service_test

// Shared in-memory stubs implementing the repository interfaces. Services run
// with a nil *gorm.DB, which makes runTx execute the callback directly.

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniaGuev/SecBienestar/internal/domerr"
	"github.com/soniaGuev/SecBienestar/internal/model"
	"github.com/soniaGuev/SecBienestar/internal/repository"
)

// ── Becas ─────────────────────────────────────────────────────────────────────

type stubBecaRepo struct {
	becas map[uuid.UUID]*model.Beca
}

func newStubBecaRepo(becas ...*model.Beca) *stubBecaRepo {
	r := &stubBecaRepo{becas: make(map[uuid.UUID]*model.Beca)}
	for _, b := range becas {
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		r.becas[b.ID] = b
	}
	return r
}

func (r *stubBecaRepo) Create(_ context.Context, b *model.Beca) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.becas[b.ID] = b
	return nil
}

func (r *stubBecaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Beca, error) {
	b, ok := r.becas[id]
	if !ok {
		return nil, domerr.NotFound("beca no encontrada")
	}
	return b, nil
}

func (r *stubBecaRepo) FindByTipoActiva(_ context.Context, tipo string) (*model.Beca, error) {
	for _, b := range r.becas {
		if b.Tipo == tipo && b.Activa {
			return b, nil
		}
	}
	return nil, domerr.NotFound("beca '" + tipo + "' no encontrada en el catalogo")
}

var _ repository.BecaRepository = (*stubBecaRepo)(nil)

type stubPersonaBecaRepo struct {
	grants  map[uuid.UUID]*model.PersonaBeca
	catalog *stubBecaRepo
}

func newStubPersonaBecaRepo(catalog *stubBecaRepo) *stubPersonaBecaRepo {
	return &stubPersonaBecaRepo{grants: make(map[uuid.UUID]*model.PersonaBeca), catalog: catalog}
}

func (r *stubPersonaBecaRepo) tipoDe(pb *model.PersonaBeca) string {
	if pb.Beca != nil {
		return pb.Beca.Tipo
	}
	if r.catalog != nil {
		if b, ok := r.catalog.becas[pb.BecaID]; ok {
			return b.Tipo
		}
	}
	return ""
}

func (r *stubPersonaBecaRepo) DB() *gorm.DB { return nil }

func (r *stubPersonaBecaRepo) Create(_ context.Context, _ *gorm.DB, pb *model.PersonaBeca) error {
	if pb.ID == uuid.Nil {
		pb.ID = uuid.New()
	}
	r.grants[pb.ID] = pb
	return nil
}

func (r *stubPersonaBecaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PersonaBeca, error) {
	pb, ok := r.grants[id]
	if !ok {
		return nil, domerr.NotFound("beca asignada no encontrada")
	}
	return pb, nil
}

func (r *stubPersonaBecaRepo) ExistePorInicio(_ context.Context, _ *gorm.DB, estudianteID, ingresanteID *uuid.UUID, becaID uuid.UUID, inicio time.Time) (bool, error) {
	dia := model.Fecha(inicio)
	for _, pb := range r.grants {
		if pb.BecaID != becaID || !model.Fecha(pb.FechaInicio).Equal(dia) {
			continue
		}
		if mismaPersona(pb, estudianteID, ingresanteID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubPersonaBecaRepo) ExisteComedorViva(_ context.Context, _ *gorm.DB, estudianteID, ingresanteID *uuid.UUID) (bool, error) {
	for _, pb := range r.grants {
		if r.tipoDe(pb) != model.BecaComedor {
			continue
		}
		switch pb.EstadoBeca {
		case model.BecaPendiente, model.BecaAprobada, model.BecaActiva:
			if mismaPersona(pb, estudianteID, ingresanteID) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *stubPersonaBecaRepo) FindActivasVigentes(_ context.Context, _ *gorm.DB, estudianteID uuid.UUID, fecha time.Time) ([]model.PersonaBeca, error) {
	var out []model.PersonaBeca
	for _, pb := range r.grants {
		if pb.PersonaEstudianteID == nil || *pb.PersonaEstudianteID != estudianteID {
			continue
		}
		if pb.EstadoBeca == model.BecaActiva && pb.Vigente(fecha) {
			out = append(out, *pb)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FechaInicio.After(out[j].FechaInicio)
	})
	return out, nil
}

func (r *stubPersonaBecaRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado string, aprobacion *time.Time) error {
	pb, ok := r.grants[id]
	if !ok {
		return domerr.NotFound("beca asignada no encontrada")
	}
	pb.EstadoBeca = estado
	if aprobacion != nil {
		pb.FechaAprobacion = aprobacion
	}
	return nil
}

func (r *stubPersonaBecaRepo) VencerAnteriores(_ context.Context, fecha time.Time) (int64, error) {
	var n int64
	dia := model.Fecha(fecha)
	for _, pb := range r.grants {
		if pb.EstadoBeca == model.BecaActiva && model.Fecha(pb.FechaFin).Before(dia) {
			pb.EstadoBeca = model.BecaVencida
			n++
		}
	}
	return n, nil
}

// comedores returns the stored Comedor grants, insertion order not guaranteed.
func (r *stubPersonaBecaRepo) comedores() []*model.PersonaBeca {
	var out []*model.PersonaBeca
	for _, pb := range r.grants {
		if r.tipoDe(pb) == model.BecaComedor {
			out = append(out, pb)
		}
	}
	return out
}

func mismaPersona(pb *model.PersonaBeca, estudianteID, ingresanteID *uuid.UUID) bool {
	if estudianteID != nil {
		return pb.PersonaEstudianteID != nil && *pb.PersonaEstudianteID == *estudianteID
	}
	if ingresanteID != nil {
		return pb.PersonaIngresanteID != nil && *pb.PersonaIngresanteID == *ingresanteID
	}
	return false
}

var _ repository.PersonaBecaRepository = (*stubPersonaBecaRepo)(nil)

type stubBeneficioRepo struct {
	porBeca map[uuid.UUID]*model.BeneficioComedor
}

func newStubBeneficioRepo() *stubBeneficioRepo {
	return &stubBeneficioRepo{porBeca: make(map[uuid.UUID]*model.BeneficioComedor)}
}

func (r *stubBeneficioRepo) Create(_ context.Context, b *model.BeneficioComedor) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.porBeca[b.BecaID] = b
	return nil
}

func (r *stubBeneficioRepo) FindActivoPorBeca(_ context.Context, becaID uuid.UUID) (*model.BeneficioComedor, error) {
	b, ok := r.porBeca[becaID]
	if !ok || !b.Activo {
		return nil, domerr.NotFound("beneficio de comedor no encontrado")
	}
	return b, nil
}

var _ repository.BeneficioRepository = (*stubBeneficioRepo)(nil)

// ── Estudiantes ───────────────────────────────────────────────────────────────

type stubEstudianteRepo struct {
	porID      map[uuid.UUID]*model.PersonaEstudiante
	porPersona map[uuid.UUID]*model.PersonaEstudiante
}

func newStubEstudianteRepo(estudiantes ...*model.PersonaEstudiante) *stubEstudianteRepo {
	r := &stubEstudianteRepo{
		porID:      make(map[uuid.UUID]*model.PersonaEstudiante),
		porPersona: make(map[uuid.UUID]*model.PersonaEstudiante),
	}
	for _, e := range estudiantes {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		r.porID[e.ID] = e
		r.porPersona[e.PersonaID] = e
	}
	return r
}

func (r *stubEstudianteRepo) DB() *gorm.DB { return nil }

func (r *stubEstudianteRepo) Create(_ context.Context, e *model.PersonaEstudiante) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.porID[e.ID] = e
	r.porPersona[e.PersonaID] = e
	return nil
}

func (r *stubEstudianteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PersonaEstudiante, error) {
	e, ok := r.porID[id]
	if !ok {
		return nil, domerr.NotFound("perfil de estudiante no encontrado")
	}
	return e, nil
}

func (r *stubEstudianteRepo) FindByPersonaID(_ context.Context, personaID uuid.UUID) (*model.PersonaEstudiante, error) {
	e, ok := r.porPersona[personaID]
	if !ok {
		return nil, domerr.NotFound("perfil de estudiante no encontrado")
	}
	return e, nil
}

func (r *stubEstudianteRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.PersonaEstudiante, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubEstudianteRepo) UpdatePreferenciaTx(_ *gorm.DB, id uuid.UUID, preferencia string, fecha time.Time) error {
	e, ok := r.porID[id]
	if !ok {
		return domerr.NotFound("perfil de estudiante no encontrado")
	}
	e.PreferenciaMenu = preferencia
	f := fecha
	e.FechaUltimaModificacionMenu = &f
	return nil
}

var _ repository.EstudianteRepository = (*stubEstudianteRepo)(nil)

// ── Compras y tickets ─────────────────────────────────────────────────────────

type stubCompraRepo struct {
	compras map[uuid.UUID]*model.CompraTickets
}

func newStubCompraRepo() *stubCompraRepo {
	return &stubCompraRepo{compras: make(map[uuid.UUID]*model.CompraTickets)}
}

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

func (r *stubCompraRepo) CreateTx(_ context.Context, _ *gorm.DB, c *model.CompraTickets) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Tickets {
		if c.Tickets[i].ID == uuid.Nil {
			c.Tickets[i].ID = uuid.New()
		}
		c.Tickets[i].CompraID = c.ID
	}
	r.compras[c.ID] = c
	return nil
}

func (r *stubCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CompraTickets, error) {
	c, ok := r.compras[id]
	if !ok {
		return nil, domerr.NotFound("compra no encontrada")
	}
	return c, nil
}

func (r *stubCompraRepo) ListPorPersona(_ context.Context, personaID uuid.UUID) ([]model.CompraTickets, error) {
	var out []model.CompraTickets
	for _, c := range r.compras {
		if c.PersonaID == personaID {
			out = append(out, *c)
		}
	}
	return out, nil
}

var _ repository.CompraRepository = (*stubCompraRepo)(nil)

type stubTicketRepo struct {
	seq        int64
	colisiones int // first N ExisteCodigo calls report a collision
	tickets    map[string]*model.Ticket
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{tickets: make(map[string]*model.Ticket)}
}

func (r *stubTicketRepo) NextNumero(_ context.Context, _ *gorm.DB) (int64, error) {
	r.seq++
	return r.seq, nil
}

func (r *stubTicketRepo) ExisteCodigo(_ context.Context, _ *gorm.DB, codigo string) (bool, error) {
	if r.colisiones > 0 {
		r.colisiones--
		return true, nil
	}
	_, ok := r.tickets[codigo]
	return ok, nil
}

func (r *stubTicketRepo) FindByCodigo(_ context.Context, codigo string) (*model.Ticket, error) {
	t, ok := r.tickets[codigo]
	if !ok {
		return nil, domerr.NotFound("ticket no encontrado")
	}
	return t, nil
}

func (r *stubTicketRepo) ListPorPersona(_ context.Context, personaID uuid.UUID) ([]model.Ticket, error) {
	var out []model.Ticket
	for _, t := range r.tickets {
		if t.PersonaID == personaID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTicketRepo) MarcarUsado(_ context.Context, id uuid.UUID, cuando time.Time) error {
	for _, t := range r.tickets {
		if t.ID == id {
			if t.Estado != model.TicketPagado {
				return domerr.Policy(domerr.RazonEstadoInvalido, "el ticket no esta en estado pagado")
			}
			t.Estado = model.TicketUsado
			c := cuando
			t.FechaUso = &c
			return nil
		}
	}
	return domerr.NotFound("ticket no encontrado")
}

func (r *stubTicketRepo) UpdateQRImagePath(_ context.Context, id uuid.UUID, path string) error {
	for _, t := range r.tickets {
		if t.ID == id {
			p := path
			t.QRImagePath = &p
			return nil
		}
	}
	return domerr.NotFound("ticket no encontrado")
}

// guardar indexes a ticket by codigo for FindByCodigo / MarcarUsado tests.
func (r *stubTicketRepo) guardar(t *model.Ticket) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tickets[t.Codigo] = t
}

var _ repository.TicketRepository = (*stubTicketRepo)(nil)

// ── Configuracion de menu ─────────────────────────────────────────────────────

type stubConfiguracionRepo struct {
	config *model.ConfiguracionMenu
}

func (r *stubConfiguracionRepo) Load(_ context.Context) (*model.ConfiguracionMenu, error) {
	if r.config == nil {
		return nil, domerr.NotFound("configuracion de menu no inicializada")
	}
	return r.config, nil
}

func (r *stubConfiguracionRepo) Save(_ context.Context, c *model.ConfiguracionMenu) error {
	c.ID = model.ConfiguracionMenuID
	r.config = c
	return nil
}

var _ repository.ConfiguracionRepository = (*stubConfiguracionRepo)(nil)

type stubTipoMenuRepo struct {
	menus map[uuid.UUID]*model.TipoMenu
}

func newStubTipoMenuRepo(menus ...*model.TipoMenu) *stubTipoMenuRepo {
	r := &stubTipoMenuRepo{menus: make(map[uuid.UUID]*model.TipoMenu)}
	for _, m := range menus {
		r.menus[m.ID] = m
	}
	return r
}

func (r *stubTipoMenuRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TipoMenu, error) {
	m, ok := r.menus[id]
	if !ok {
		return nil, domerr.NotFound("tipo de menu no encontrado")
	}
	return m, nil
}

var _ repository.TipoMenuRepository = (*stubTipoMenuRepo)(nil)
