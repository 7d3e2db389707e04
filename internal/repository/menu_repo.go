package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniaGuev/SecBienestar/internal/domerr"
	"github.com/soniaGuev/SecBienestar/internal/model"
)

// TipoMenuRepository resolves menu offerings referenced by the singleton
// configuration; MenuService uses it to reject assignments pointing at
// nonexistent menus.
type TipoMenuRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.TipoMenu, error)
}

type tipoMenuRepo struct{ db *gorm.DB }

func NewTipoMenuRepository(db *gorm.DB) TipoMenuRepository { return &tipoMenuRepo{db: db} }

func (r *tipoMenuRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TipoMenu, error) {
	var m model.TipoMenu
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domerr.NotFound("tipo de menu no encontrado")
	}
	return &m, err
}

// ConfiguracionRepository persists the singleton menu configuration row.
// MenuService keeps the in-process copy; this repository only loads and
// saves the single row.
type ConfiguracionRepository interface {
	Load(ctx context.Context) (*model.ConfiguracionMenu, error)
	Save(ctx context.Context, c *model.ConfiguracionMenu) error
}

type configuracionRepo struct{ db *gorm.DB }

func NewConfiguracionRepository(db *gorm.DB) ConfiguracionRepository {
	return &configuracionRepo{db: db}
}

func (r *configuracionRepo) Load(ctx context.Context) (*model.ConfiguracionMenu, error) {
	var c model.ConfiguracionMenu
	err := r.db.WithContext(ctx).
		Preload("MenuComun").
		Preload("MenuVegetariano").
		Preload("MenuCeliacoComun").
		Preload("MenuCeliacoVegetariano").
		First(&c, "id = ?", model.ConfiguracionMenuID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domerr.NotFound("configuracion de menu no inicializada")
	}
	return &c, err
}

func (r *configuracionRepo) Save(ctx context.Context, c *model.ConfiguracionMenu) error {
	c.ID = model.ConfiguracionMenuID
	return r.db.WithContext(ctx).Save(c).Error
}
