package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles form a closed enumeration. A Persona selects a rol once; it locks as soon
// as the matching profile row exists (enforced in PersonaService).
const (
	RolIngresante = "ingresante"
	RolEstudiante = "estudiante"
	RolEgresado   = "egresado"
	RolDocente    = "docente"
	RolNoDocente  = "no_docente"
)

// Sedes
const (
	SedeCentral     = "central"
	SedeSanRafael   = "san_rafael"
	SedeLujanDeCuyo = "lujan_de_cuyo"
)

// Persona holds the identity attributes shared by every role. The
// role-specific data lives in exactly one of the profile structs below;
// each variant carries only its own fields.
type Persona struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre        string    `gorm:"not null"`
	Apellido      string    `gorm:"not null"`
	TipoDocumento string    `gorm:"type:varchar(15);not null;default:'DNI'"`
	Documento     string    `gorm:"uniqueIndex;not null"`
	// NombrePercibido takes precedence over Nombre only once validated.
	NombrePercibido         *string
	NombrePercibidoValidado bool    `gorm:"not null;default:false"`
	Correo                  string  `gorm:"uniqueIndex;not null"`
	Telefono                *string `gorm:"type:varchar(20)"`
	Sede                    string  `gorm:"type:varchar(25);not null;default:'central'"`
	Rol                     string  `gorm:"type:varchar(20);index"`
	CreatedAt               time.Time
	UpdatedAt               time.Time

	Estudiante *PersonaEstudiante `gorm:"foreignKey:PersonaID"`
	Ingresante *PersonaIngresante `gorm:"foreignKey:PersonaID"`
}

// NombreVisible returns the name to show in the system: the perceived name
// when present and validated, the legal name otherwise.
func (p *Persona) NombreVisible() string {
	if p.NombrePercibido != nil && *p.NombrePercibido != "" && p.NombrePercibidoValidado {
		return *p.NombrePercibido
	}
	return p.Nombre
}

func (p *Persona) NombreCompleto() string {
	return p.NombreVisible() + " " + p.Apellido
}

// RolValido reports whether rol belongs to the closed enumeration.
func RolValido(rol string) bool {
	switch rol {
	case RolIngresante, RolEstudiante, RolEgresado, RolDocente, RolNoDocente:
		return true
	}
	return false
}

// Menu preference categories shared by PersonaEstudiante and TipoMenu.
const (
	MenuComun              = "comun"
	MenuVegetariano        = "vegetariano"
	MenuCeliacoComun       = "celiaco_comun"
	MenuCeliacoVegetariano = "celiaco_vegetariano"
)

// PreferenciaValida reports whether pref is one of the four menu categories.
func PreferenciaValida(pref string) bool {
	switch pref {
	case MenuComun, MenuVegetariano, MenuCeliacoComun, MenuCeliacoVegetariano:
		return true
	}
	return false
}

// PreferenciaCeliaca reports whether pref requires a validated celiac record.
func PreferenciaCeliaca(pref string) bool {
	return pref == MenuCeliacoComun || pref == MenuCeliacoVegetariano
}

// PersonaEstudiante is the student profile. PreferenciaMenu drives which
// TipoMenu the cafeteria serves; FechaUltimaModificacionMenu feeds the
// once-per-rolling-year change limit.
type PersonaEstudiante struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PersonaID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	NumeroLegajo    string    `gorm:"uniqueIndex;not null"`
	Carrera         string    `gorm:"not null"`
	AnioIngreso     int       `gorm:"not null"`
	EstadoAcademico string    `gorm:"type:varchar(15);not null;default:'R'"`

	PreferenciaMenu             string     `gorm:"type:varchar(20);not null;default:'comun'"`
	FechaUltimaModificacionMenu *time.Time `gorm:"type:date"`

	// Celiac documentation gate for the celiac menu categories.
	CeliacoValidado        bool `gorm:"not null;default:false"`
	FechaValidacionCeliaco *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time

	Persona *Persona `gorm:"foreignKey:PersonaID"`
}

// PersonaIngresante is the incoming-student profile; it may hold grants
// before the student profile exists.
type PersonaIngresante struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PersonaID        uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	FechaVencimiento *time.Time `gorm:"type:date"`
	CreatedAt        time.Time

	Persona *Persona `gorm:"foreignKey:PersonaID"`
}

// PersonaDocente is the teacher profile.
type PersonaDocente struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PersonaID            uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	NumeroLegajo         string    `gorm:"uniqueIndex;not null"`
	CategoriaDocente     string    `gorm:"type:varchar(15);not null"`
	FechaIngresoDocencia time.Time `gorm:"type:date;not null"`
	CreatedAt            time.Time
}

// PersonaNoDocente is the non-teaching staff profile.
type PersonaNoDocente struct {
	ID                       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PersonaID                uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	NumeroLegajo             string    `gorm:"uniqueIndex;not null"`
	Cargo                    string    `gorm:"not null"`
	FechaIngresoLaboral      time.Time `gorm:"type:date;not null"`
	FechaFinalizacionLaboral time.Time `gorm:"type:date;not null"`
	CreatedAt                time.Time
}

// PersonaEgresado is the graduate profile.
type PersonaEgresado struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PersonaID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	CreatedAt time.Time
}
