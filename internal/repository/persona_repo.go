package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/soniaGuev/SecBienestar/internal/domerr"
	"github.com/soniaGuev/SecBienestar/internal/model"
)

type PersonaRepository interface {
	Create(ctx context.Context, p *model.Persona) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Persona, error)
	UpdateRol(ctx context.Context, id uuid.UUID, rol string) error
}

type personaRepo struct{ db *gorm.DB }

func NewPersonaRepository(db *gorm.DB) PersonaRepository { return &personaRepo{db: db} }

func (r *personaRepo) Create(ctx context.Context, p *model.Persona) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *personaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Persona, error) {
	var p model.Persona
	err := r.db.WithContext(ctx).Preload("Estudiante").Preload("Ingresante").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domerr.NotFound("persona no encontrada")
	}
	return &p, err
}

func (r *personaRepo) UpdateRol(ctx context.Context, id uuid.UUID, rol string) error {
	return r.db.WithContext(ctx).Model(&model.Persona{}).Where("id = ?", id).Update("rol", rol).Error
}

type EstudianteRepository interface {
	Create(ctx context.Context, e *model.PersonaEstudiante) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PersonaEstudiante, error)
	FindByPersonaID(ctx context.Context, personaID uuid.UUID) (*model.PersonaEstudiante, error)
	// FindByIDForUpdateTx takes a FOR UPDATE row lock on the student inside
	// tx. Issuance and preference changes serialize per student through it.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.PersonaEstudiante, error)
	UpdatePreferenciaTx(tx *gorm.DB, id uuid.UUID, preferencia string, fecha time.Time) error
	DB() *gorm.DB
}

type estudianteRepo struct{ db *gorm.DB }

func NewEstudianteRepository(db *gorm.DB) EstudianteRepository { return &estudianteRepo{db: db} }

func (r *estudianteRepo) DB() *gorm.DB { return r.db }

func (r *estudianteRepo) Create(ctx context.Context, e *model.PersonaEstudiante) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *estudianteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PersonaEstudiante, error) {
	var e model.PersonaEstudiante
	err := r.db.WithContext(ctx).Preload("Persona").First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domerr.NotFound("perfil de estudiante no encontrado")
	}
	return &e, err
}

func (r *estudianteRepo) FindByPersonaID(ctx context.Context, personaID uuid.UUID) (*model.PersonaEstudiante, error) {
	var e model.PersonaEstudiante
	err := r.db.WithContext(ctx).Preload("Persona").First(&e, "persona_id = ?", personaID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domerr.NotFound("perfil de estudiante no encontrado")
	}
	return &e, err
}

func (r *estudianteRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.PersonaEstudiante, error) {
	var e model.PersonaEstudiante
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domerr.NotFound("perfil de estudiante no encontrado")
	}
	return &e, err
}

func (r *estudianteRepo) UpdatePreferenciaTx(tx *gorm.DB, id uuid.UUID, preferencia string, fecha time.Time) error {
	return tx.Model(&model.PersonaEstudiante{}).Where("id = ?", id).Updates(map[string]interface{}{
		"preferencia_menu":               preferencia,
		"fecha_ultima_modificacion_menu": fecha,
	}).Error
}
