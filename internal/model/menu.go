package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoMenu is a priced menu offering. Tipo is one of the preference
// categories (MenuComun, MenuVegetariano, MenuCeliacoComun,
// MenuCeliacoVegetariano).
type TipoMenu struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo        string    `gorm:"type:varchar(20);not null;index"`
	Nombre      string    `gorm:"not null"`
	Descripcion *string
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ConfiguracionMenu maps each preference category to the TipoMenu currently
// on offer. Exactly one row exists (ID is forced to ConfiguracionMenuID);
// the in-process view of it lives in MenuService, which loads it at startup
// and guards updates with a single-writer lock.
type ConfiguracionMenu struct {
	ID                       int        `gorm:"primaryKey"`
	MenuComunID              *uuid.UUID `gorm:"type:uuid"`
	MenuVegetarianoID        *uuid.UUID `gorm:"type:uuid"`
	MenuCeliacoComunID       *uuid.UUID `gorm:"type:uuid"`
	MenuCeliacoVegetarianoID *uuid.UUID `gorm:"type:uuid"`
	FechaActualizacion       time.Time  `gorm:"autoUpdateTime"`

	MenuComun              *TipoMenu `gorm:"foreignKey:MenuComunID"`
	MenuVegetariano        *TipoMenu `gorm:"foreignKey:MenuVegetarianoID"`
	MenuCeliacoComun       *TipoMenu `gorm:"foreignKey:MenuCeliacoComunID"`
	MenuCeliacoVegetariano *TipoMenu `gorm:"foreignKey:MenuCeliacoVegetarianoID"`
}

// ConfiguracionMenuID is the fixed primary key of the singleton row.
const ConfiguracionMenuID = 1

// MenuPara returns the configured menu for a preference category, or nil
// when the category has no menu assigned.
func (c *ConfiguracionMenu) MenuPara(preferencia string) *TipoMenu {
	switch preferencia {
	case MenuComun:
		return c.MenuComun
	case MenuVegetariano:
		return c.MenuVegetariano
	case MenuCeliacoComun:
		return c.MenuCeliacoComun
	case MenuCeliacoVegetariano:
		return c.MenuCeliacoVegetariano
	}
	return nil
}
