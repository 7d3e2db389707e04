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

// BecaRepository is the scholarship-type catalog.
type BecaRepository interface {
	Create(ctx context.Context, b *model.Beca) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Beca, error)
	// FindByTipoActiva returns the active catalog entry named tipo, or a
	// NotFound domain error. The cascading rule depends on that distinction.
	FindByTipoActiva(ctx context.Context, tipo string) (*model.Beca, error)
}

type becaRepo struct{ db *gorm.DB }

func NewBecaRepository(db *gorm.DB) BecaRepository { return &becaRepo{db: db} }

func (r *becaRepo) Create(ctx context.Context, b *model.Beca) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *becaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Beca, error) {
	var b model.Beca
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domerr.NotFound("beca no encontrada")
	}
	return &b, err
}

func (r *becaRepo) FindByTipoActiva(ctx context.Context, tipo string) (*model.Beca, error) {
	var b model.Beca
	err := r.db.WithContext(ctx).Where("tipo = ? AND activa = true", tipo).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domerr.NotFound("beca '" + tipo + "' no encontrada en el catalogo")
	}
	return &b, err
}

// BeneficioRepository looks up the cafeteria policy attached to a Beca.
type BeneficioRepository interface {
	Create(ctx context.Context, b *model.BeneficioComedor) error
	FindActivoPorBeca(ctx context.Context, becaID uuid.UUID) (*model.BeneficioComedor, error)
}

type beneficioRepo struct{ db *gorm.DB }

func NewBeneficioRepository(db *gorm.DB) BeneficioRepository { return &beneficioRepo{db: db} }

func (r *beneficioRepo) Create(ctx context.Context, b *model.BeneficioComedor) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *beneficioRepo) FindActivoPorBeca(ctx context.Context, becaID uuid.UUID) (*model.BeneficioComedor, error) {
	var b model.BeneficioComedor
	err := r.db.WithContext(ctx).Where("beca_id = ? AND activo = true", becaID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domerr.NotFound("beneficio de comedor no encontrado")
	}
	return &b, err
}

// PersonaBecaRepository stores grants.
type PersonaBecaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, pb *model.PersonaBeca) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PersonaBeca, error)
	// ExistePorInicio pre-checks the (grantee, beca, fecha_inicio) tuple; the
	// unique index is the authoritative guard for concurrent creates.
	ExistePorInicio(ctx context.Context, tx *gorm.DB, estudianteID, ingresanteID *uuid.UUID, becaID uuid.UUID, inicio time.Time) (bool, error)
	// ExisteComedorViva reports whether the grantee already has a Comedor
	// grant in PENDIENTE/APROBADA/ACTIVA.
	ExisteComedorViva(ctx context.Context, tx *gorm.DB, estudianteID *uuid.UUID, ingresanteID *uuid.UUID) (bool, error)
	// FindActivasVigentes returns the student's ACTIVA grants whose window
	// covers fecha, most recent start first (the eligibility tie-break).
	FindActivasVigentes(ctx context.Context, tx *gorm.DB, estudianteID uuid.UUID, fecha time.Time) ([]model.PersonaBeca, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string, aprobacion *time.Time) error
	// VencerAnteriores marks ACTIVA grants whose fecha_fin is before fecha as
	// VENCIDA and returns how many rows changed.
	VencerAnteriores(ctx context.Context, fecha time.Time) (int64, error)
	DB() *gorm.DB
}

type personaBecaRepo struct{ db *gorm.DB }

func NewPersonaBecaRepository(db *gorm.DB) PersonaBecaRepository { return &personaBecaRepo{db: db} }

func (r *personaBecaRepo) DB() *gorm.DB { return r.db }

func (r *personaBecaRepo) Create(ctx context.Context, tx *gorm.DB, pb *model.PersonaBeca) error {
	return tx.WithContext(ctx).Create(pb).Error
}

func (r *personaBecaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PersonaBeca, error) {
	var pb model.PersonaBeca
	err := r.db.WithContext(ctx).Preload("Beca").First(&pb, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domerr.NotFound("beca asignada no encontrada")
	}
	return &pb, err
}

func (r *personaBecaRepo) ExistePorInicio(ctx context.Context, tx *gorm.DB, estudianteID, ingresanteID *uuid.UUID, becaID uuid.UUID, inicio time.Time) (bool, error) {
	q := tx.WithContext(ctx).Model(&model.PersonaBeca{}).
		Where("beca_id = ? AND fecha_inicio = ?", becaID, model.Fecha(inicio))
	switch {
	case estudianteID != nil:
		q = q.Where("persona_estudiante_id = ?", *estudianteID)
	case ingresanteID != nil:
		q = q.Where("persona_ingresante_id = ?", *ingresanteID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *personaBecaRepo) ExisteComedorViva(ctx context.Context, tx *gorm.DB, estudianteID, ingresanteID *uuid.UUID) (bool, error) {
	q := tx.WithContext(ctx).Model(&model.PersonaBeca{}).
		Joins("JOIN becas ON becas.id = persona_becas.beca_id").
		Where("becas.tipo = ?", model.BecaComedor).
		Where("persona_becas.estado_beca IN ?", []string{model.BecaPendiente, model.BecaAprobada, model.BecaActiva})
	switch {
	case estudianteID != nil:
		q = q.Where("persona_becas.persona_estudiante_id = ?", *estudianteID)
	case ingresanteID != nil:
		q = q.Where("persona_becas.persona_ingresante_id = ?", *ingresanteID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *personaBecaRepo) FindActivasVigentes(ctx context.Context, tx *gorm.DB, estudianteID uuid.UUID, fecha time.Time) ([]model.PersonaBeca, error) {
	dia := model.Fecha(fecha)
	var becas []model.PersonaBeca
	err := tx.WithContext(ctx).
		Preload("Beca").
		Where("persona_estudiante_id = ? AND estado_beca = ?", estudianteID, model.BecaActiva).
		Where("fecha_inicio <= ? AND fecha_fin >= ?", dia, dia).
		Order("fecha_inicio DESC").
		Find(&becas).Error
	return becas, err
}

func (r *personaBecaRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string, aprobacion *time.Time) error {
	updates := map[string]interface{}{"estado_beca": estado}
	if aprobacion != nil {
		updates["fecha_aprobacion"] = *aprobacion
	}
	return r.db.WithContext(ctx).Model(&model.PersonaBeca{}).Where("id = ?", id).Updates(updates).Error
}

func (r *personaBecaRepo) VencerAnteriores(ctx context.Context, fecha time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.PersonaBeca{}).
		Where("estado_beca = ? AND fecha_fin < ?", model.BecaActiva, model.Fecha(fecha)).
		Update("estado_beca", model.BecaVencida)
	return res.RowsAffected, res.Error
}
