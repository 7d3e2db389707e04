package service

// precio.go: cafeteria pricing. All money math is fixed-point via
// shopspring/decimal; discounts round to two decimal places, half up.

import (
	"github.com/shopspring/decimal"

	"github.com/soniaGuev/SecBienestar/internal/model"
)

var cien = decimal.NewFromInt(100)

// PrecioConBeneficio applies a benefit policy to a base menu price and
// returns (final, descuento). The invariant final + descuento == base holds
// exactly; final is never negative.
//
//	gratuito / 100%  => (0, base)
//	descuento pct    => descuento = round2(base * pct / 100)
//	ninguno / nil    => (base, 0)
func PrecioConBeneficio(base decimal.Decimal, beneficio *model.BeneficioComedor) (decimal.Decimal, decimal.Decimal) {
	if beneficio == nil || beneficio.TipoBeneficio == model.BeneficioNinguno {
		return base, decimal.Zero
	}
	if beneficio.EsGratuito() {
		return decimal.Zero, base
	}

	descuento := base.Mul(beneficio.PorcentajeDescuento).Div(cien).Round(2)
	final := base.Sub(descuento)
	if final.IsNegative() {
		// pct is capped at 100 so this cannot happen with validated
		// policies; guard anyway so a bad row cannot produce a negative
		// charge.
		return decimal.Zero, base
	}
	return final, descuento
}
