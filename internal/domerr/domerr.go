// Package domerr provides the typed error taxonomy shared by all services.
// Every failure surfaced to a caller goes through this package so the
// presentation layer can render kind + reason + message without re-deriving
// business meaning or leaking internals (SQL state, driver errors, etc.).
package domerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller.
type Kind string

const (
	// KindValidation: bad input shape. Not retriable.
	KindValidation Kind = "validation"
	// KindPolicy: the operation would break a business invariant.
	KindPolicy Kind = "policy_violation"
	// KindNotFound: a referenced entity does not exist.
	KindNotFound Kind = "not_found"
	// KindPersistence: the transaction could not commit. The whole
	// operation may be retried with the same inputs: it is all-or-nothing.
	KindPersistence Kind = "persistence"
)

// Reason codes for policy violations and precondition failures.
const (
	RazonSinPreferenciaMenu = "sin_preferencia_menu"
	RazonMenuNoDisponible   = "menu_no_disponible"
	RazonBecaDuplicada      = "beca_duplicada"
	RazonLimiteCambioMenu   = "limite_cambio_menu"
	RazonMontoRequerido     = "monto_requerido"
	RazonMontoNoPermitido   = "monto_no_permitido"
	RazonRolBloqueado       = "rol_bloqueado"
	RazonCeliacoNoValidado  = "celiaco_no_validado"
	RazonEstadoInvalido     = "estado_invalido"
)

// Error is the canonical typed error for the domain. Detail is the
// human-readable message; Razon is a stable machine code; Campos carries
// per-field validation messages when applicable.
type Error struct {
	Kind   Kind
	Razon  string
	Detail string
	Campos map[string]string
	cause  error
}

func (e *Error) Error() string {
	if e.Razon != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Razon, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches on Kind so callers can write errors.Is(err, domerr.ErrPolicy).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Razon == "" || t.Razon == e.Razon)
}

// Sentinels for errors.Is checks by kind.
var (
	ErrValidation  = &Error{Kind: KindValidation}
	ErrPolicy      = &Error{Kind: KindPolicy}
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrPersistence = &Error{Kind: KindPersistence}
)

func Validation(detail string) *Error {
	return &Error{Kind: KindValidation, Detail: detail}
}

// ValidationCampos wraps multiple field errors.
func ValidationCampos(campos map[string]string) *Error {
	return &Error{Kind: KindValidation, Detail: "Error de validacion", Campos: campos}
}

func Policy(razon, detail string) *Error {
	return &Error{Kind: KindPolicy, Razon: razon, Detail: detail}
}

func NotFound(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail}
}

func Persistence(detail string, cause error) *Error {
	return &Error{Kind: KindPersistence, Detail: detail, cause: cause}
}

// KindOf returns the Kind of err, or "" when err is not a domain error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
