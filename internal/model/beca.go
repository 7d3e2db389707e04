package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/soniaGuev/SecBienestar/internal/domerr"
)

// Scholarship types wired to the cascading rule.
const (
	BecaResidencia = "Residencia"
	BecaComedor    = "Comedor"
)

// Beca is a scholarship type in the catalog.
type Beca struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo   string    `gorm:"uniqueIndex;not null"`
	Activa bool      `gorm:"not null;default:true"`
	// TieneMonto marks scholarships that pay a monetary amount; those must
	// carry a MontoSugerido.
	TieneMonto     bool             `gorm:"not null;default:false"`
	MontoSugerido  *decimal.Decimal `gorm:"type:decimal(10,2)"`
	PermiteComedor bool             `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validar enforces the catalog invariant: a monetary scholarship needs a
// suggested amount.
func (b *Beca) Validar() error {
	if b.Tipo == "" {
		return domerr.ValidationCampos(map[string]string{"tipo": "requerido"})
	}
	if b.TieneMonto && (b.MontoSugerido == nil || b.MontoSugerido.IsNegative()) {
		return domerr.ValidationCampos(map[string]string{
			"monto_sugerido": "debe especificar un monto sugerido si la beca otorga dinero",
		})
	}
	return nil
}

// Grant states.
// PENDIENTE -> APROBADA|RECHAZADA; APROBADA -> ACTIVA; ACTIVA -> VENCIDA|SUSPENDIDA.
const (
	BecaPendiente  = "PENDIENTE"
	BecaAprobada   = "APROBADA"
	BecaActiva     = "ACTIVA"
	BecaVencida    = "VENCIDA"
	BecaSuspendida = "SUSPENDIDA"
	BecaRechazada  = "RECHAZADA"
)

// EstadoBecaValido reports whether estado is one of the grant states.
func EstadoBecaValido(estado string) bool {
	switch estado {
	case BecaPendiente, BecaAprobada, BecaActiva, BecaVencida, BecaSuspendida, BecaRechazada:
		return true
	}
	return false
}

// TransicionEstadoValida reports whether desde -> hacia is an allowed
// administrative transition.
func TransicionEstadoValida(desde, hacia string) bool {
	switch desde {
	case BecaPendiente:
		return hacia == BecaAprobada || hacia == BecaRechazada
	case BecaAprobada:
		return hacia == BecaActiva || hacia == BecaSuspendida
	case BecaActiva:
		return hacia == BecaVencida || hacia == BecaSuspendida
	case BecaSuspendida:
		return hacia == BecaActiva
	}
	return false
}

// PersonaBeca is a scholarship grant: one grantee (student or incoming
// student, never both), one Beca, a validity window and a state.
// Uniqueness per (grantee, beca, fecha_inicio) is backed by a DB index.
type PersonaBeca struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PersonaEstudianteID *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uni_persona_beca_inicio,where:persona_estudiante_id IS NOT NULL"`
	PersonaIngresanteID *uuid.UUID `gorm:"type:uuid;index"`
	BecaID              uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uni_persona_beca_inicio"`
	FechaInicio         time.Time  `gorm:"type:date;not null;uniqueIndex:uni_persona_beca_inicio"`
	FechaFin            time.Time  `gorm:"type:date;not null"`
	EstadoBeca          string     `gorm:"type:varchar(15);not null;default:'PENDIENTE';index"`
	FechaAprobacion     *time.Time
	MontoAsignado       *decimal.Decimal `gorm:"type:decimal(10,2)"`
	// PreferenciaMenu records the grantee's menu preference at the moment a
	// Comedor grant is cascaded from a Residencia one.
	PreferenciaMenu *string   `gorm:"type:varchar(20)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Beca              *Beca              `gorm:"foreignKey:BecaID"`
	PersonaEstudiante *PersonaEstudiante `gorm:"foreignKey:PersonaEstudianteID"`
	PersonaIngresante *PersonaIngresante `gorm:"foreignKey:PersonaIngresanteID"`
}

// Validar checks the grant against its Beca (which must be preloaded or
// passed explicitly by the service).
func (pb *PersonaBeca) Validar(beca *Beca) error {
	campos := make(map[string]string)

	if pb.PersonaEstudianteID == nil && pb.PersonaIngresanteID == nil {
		campos["persona"] = "debe asignar un estudiante o un ingresante"
	}
	if pb.PersonaEstudianteID != nil && pb.PersonaIngresanteID != nil {
		campos["persona"] = "solo puede asignar una persona (estudiante o ingresante)"
	}
	if pb.FechaInicio.IsZero() || pb.FechaFin.IsZero() {
		campos["fechas"] = "fecha de inicio y fin son requeridas"
	} else if !pb.FechaFin.After(pb.FechaInicio) {
		campos["fecha_fin"] = "la fecha de fin debe ser posterior a la fecha de inicio"
	}
	if !EstadoBecaValido(pb.EstadoBeca) {
		campos["estado_beca"] = "estado de beca desconocido"
	}
	if len(campos) > 0 {
		return domerr.ValidationCampos(campos)
	}

	if beca != nil {
		if beca.TieneMonto && pb.MontoAsignado == nil {
			return domerr.Policy(domerr.RazonMontoRequerido,
				"esta beca ("+beca.Tipo+") requiere asignar un monto")
		}
		if !beca.TieneMonto && pb.MontoAsignado != nil {
			return domerr.Policy(domerr.RazonMontoNoPermitido,
				"esta beca ("+beca.Tipo+") no contempla monto monetario")
		}
	}
	return nil
}

// Vigente reports whether the grant covers fecha (inclusive on both ends).
func (pb *PersonaBeca) Vigente(fecha time.Time) bool {
	dia := Fecha(fecha)
	return !dia.Before(Fecha(pb.FechaInicio)) && !dia.After(Fecha(pb.FechaFin))
}

// Fecha truncates t to a calendar day in UTC. All validity-window and
// rate-limit comparisons operate on days, never instants.
func Fecha(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
