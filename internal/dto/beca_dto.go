package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AsignarBecaRequest creates a grant for a student or an incoming student
// (exactly one of the two IDs must be set).
type AsignarBecaRequest struct {
	PersonaEstudianteID string           `json:"persona_estudiante_id" validate:"omitempty,uuid"`
	PersonaIngresanteID string           `json:"persona_ingresante_id" validate:"omitempty,uuid"`
	BecaID              string           `json:"beca_id" validate:"required,uuid"`
	FechaInicio         string           `json:"fecha_inicio" validate:"required,datetime=2006-01-02"`
	FechaFin            string           `json:"fecha_fin" validate:"required,datetime=2006-01-02"`
	EstadoBeca          string           `json:"estado_beca" validate:"omitempty,oneof=PENDIENTE APROBADA ACTIVA"`
	MontoAsignado       *decimal.Decimal `json:"monto_asignado" validate:"omitempty,min=0"`
}

// BecaAsignadaResponse mirrors a created/updated grant.
type BecaAsignadaResponse struct {
	ID              string           `json:"id"`
	Beca            string           `json:"beca"`
	FechaInicio     time.Time        `json:"fecha_inicio"`
	FechaFin        time.Time        `json:"fecha_fin"`
	EstadoBeca      string           `json:"estado_beca"`
	MontoAsignado   *decimal.Decimal `json:"monto_asignado,omitempty"`
	FechaAprobacion *time.Time       `json:"fecha_aprobacion,omitempty"`
	// ComedorCascada is true when assigning this grant auto-provisioned the
	// dependent Comedor grant.
	ComedorCascada bool `json:"comedor_cascada"`
}

// ActualizarEstadoBecaRequest drives the administrative state transitions.
type ActualizarEstadoBecaRequest struct {
	EstadoBeca string `json:"estado_beca" validate:"required,oneof=APROBADA ACTIVA VENCIDA SUSPENDIDA RECHAZADA"`
}
