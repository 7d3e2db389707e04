package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniaGuev/SecBienestar/internal/domerr"
	"github.com/soniaGuev/SecBienestar/internal/model"
)

type CompraRepository interface {
	// CreateTx persists the purchase and its tickets in one insert batch
	// inside tx.
	CreateTx(ctx context.Context, tx *gorm.DB, c *model.CompraTickets) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CompraTickets, error)
	ListPorPersona(ctx context.Context, personaID uuid.UUID) ([]model.CompraTickets, error)
	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) DB() *gorm.DB { return r.db }

func (r *compraRepo) CreateTx(ctx context.Context, tx *gorm.DB, c *model.CompraTickets) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CompraTickets, error) {
	var c model.CompraTickets
	err := r.db.WithContext(ctx).Preload("Tickets").Preload("Tickets.TipoMenu").First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domerr.NotFound("compra no encontrada")
	}
	return &c, err
}

func (r *compraRepo) ListPorPersona(ctx context.Context, personaID uuid.UUID) ([]model.CompraTickets, error) {
	var compras []model.CompraTickets
	err := r.db.WithContext(ctx).Preload("Tickets").
		Where("persona_id = ?", personaID).
		Order("fecha_compra DESC").
		Find(&compras).Error
	return compras, err
}

type TicketRepository interface {
	// NextNumero returns the next value of the ticket-number sequence.
	NextNumero(ctx context.Context, tx *gorm.DB) (int64, error)
	// ExisteCodigo checks the opaque-code space for a collision inside tx.
	ExisteCodigo(ctx context.Context, tx *gorm.DB, codigo string) (bool, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Ticket, error)
	ListPorPersona(ctx context.Context, personaID uuid.UUID) ([]model.Ticket, error)
	// MarcarUsado is the only post-issuance state transition.
	MarcarUsado(ctx context.Context, id uuid.UUID, cuando time.Time) error
	// UpdateQRImagePath backfills the rendered QR image reference.
	UpdateQRImagePath(ctx context.Context, id uuid.UUID, path string) error
}

type ticketRepo struct{ db *gorm.DB }

func NewTicketRepository(db *gorm.DB) TicketRepository { return &ticketRepo{db: db} }

func (r *ticketRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int64, error) {
	var num int64
	err := tx.WithContext(ctx).Raw("SELECT nextval('tickets_numero_seq')").Scan(&num).Error
	return num, err
}

func (r *ticketRepo) ExisteCodigo(ctx context.Context, tx *gorm.DB, codigo string) (bool, error) {
	var n int64
	err := tx.WithContext(ctx).Model(&model.Ticket{}).Where("codigo = ?", codigo).Count(&n).Error
	return n > 0, err
}

func (r *ticketRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.WithContext(ctx).Preload("TipoMenu").First(&t, "codigo = ?", codigo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domerr.NotFound("ticket no encontrado")
	}
	return &t, err
}

func (r *ticketRepo) ListPorPersona(ctx context.Context, personaID uuid.UUID) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := r.db.WithContext(ctx).Preload("TipoMenu").
		Where("persona_id = ?", personaID).
		Order("fecha_compra DESC").
		Find(&tickets).Error
	return tickets, err
}

func (r *ticketRepo) MarcarUsado(ctx context.Context, id uuid.UUID, cuando time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("id = ? AND estado = ?", id, model.TicketPagado).
		Updates(map[string]interface{}{"estado": model.TicketUsado, "fecha_uso": cuando})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domerr.Policy(domerr.RazonEstadoInvalido, "el ticket no esta en estado pagado")
	}
	return nil
}

func (r *ticketRepo) UpdateQRImagePath(ctx context.Context, id uuid.UUID, path string) error {
	return r.db.WithContext(ctx).Model(&model.Ticket{}).Where("id = ?", id).
		Update("qr_image_path", path).Error
}
