package dto

// CambiarPreferenciaRequest changes the student's menu preference.
type CambiarPreferenciaRequest struct {
	Preferencia string `json:"preferencia" validate:"required,oneof=comun vegetariano celiaco_comun celiaco_vegetariano"`
}

// CambiarPreferenciaResponse reports the outcome. When the rolling-year limit
// denies the change, Permitido is false and DiasRestantes tells the student
// how long to wait; the service also returns a PolicyViolation error carrying
// the same number.
type CambiarPreferenciaResponse struct {
	Permitido     bool   `json:"permitido"`
	Preferencia   string `json:"preferencia"`
	DiasRestantes int    `json:"dias_restantes,omitempty"`
}
