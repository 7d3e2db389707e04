package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/soniaGuev/SecBienestar/internal/domerr"
)

// Benefit kinds.
// gratuito  => porcentaje 100
// descuento => porcentaje in (0,100]
// ninguno   => porcentaje 0
const (
	BeneficioGratuito  = "gratuito"
	BeneficioDescuento = "descuento"
	BeneficioNinguno   = "ninguno"
)

// BeneficioComedor defines the cafeteria-price treatment attached to a
// scholarship type.
type BeneficioComedor struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BecaID              uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	TipoBeneficio       string          `gorm:"type:varchar(20);not null;default:'ninguno'"`
	PorcentajeDescuento decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Activo              bool            `gorm:"not null;default:true"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Beca *Beca `gorm:"foreignKey:BecaID"`
}

var cien = decimal.NewFromInt(100)

// Validar enforces the kind/percentage invariants.
func (b *BeneficioComedor) Validar() error {
	if b.PorcentajeDescuento.IsNegative() || b.PorcentajeDescuento.GreaterThan(cien) {
		return domerr.ValidationCampos(map[string]string{
			"porcentaje_descuento": "debe estar entre 0 y 100",
		})
	}
	switch b.TipoBeneficio {
	case BeneficioGratuito:
		if !b.PorcentajeDescuento.Equal(cien) {
			return domerr.ValidationCampos(map[string]string{
				"porcentaje_descuento": "acceso gratuito requiere porcentaje 100",
			})
		}
	case BeneficioDescuento:
		if !b.PorcentajeDescuento.IsPositive() {
			return domerr.ValidationCampos(map[string]string{
				"porcentaje_descuento": "descuento porcentual requiere porcentaje mayor a 0",
			})
		}
	case BeneficioNinguno:
		if !b.PorcentajeDescuento.IsZero() {
			return domerr.ValidationCampos(map[string]string{
				"porcentaje_descuento": "sin beneficio requiere porcentaje 0",
			})
		}
	default:
		return domerr.ValidationCampos(map[string]string{
			"tipo_beneficio": "tipo de beneficio desconocido",
		})
	}
	return nil
}

// EsGratuito reports whether the benefit grants free access, either by kind
// or by a 100% discount.
func (b *BeneficioComedor) EsGratuito() bool {
	return b.TipoBeneficio == BeneficioGratuito || b.PorcentajeDescuento.Equal(cien)
}
