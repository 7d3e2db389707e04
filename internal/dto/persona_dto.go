package dto

// CrearPersonaRequest registers a person with their shared identity data.
type CrearPersonaRequest struct {
	Nombre          string  `json:"nombre" validate:"required"`
	Apellido        string  `json:"apellido" validate:"required"`
	TipoDocumento   string  `json:"tipo_documento" validate:"omitempty,oneof=DNI pasaporte cedula"`
	Documento       string  `json:"documento" validate:"required"`
	Correo          string  `json:"correo" validate:"required,email"`
	Telefono        *string `json:"telefono" validate:"omitempty,e164"`
	NombrePercibido *string `json:"nombre_percibido"`
	Sede            string  `json:"sede" validate:"omitempty,oneof=central san_rafael lujan_de_cuyo"`
}

// AsignarRolRequest selects the person's role. Role-specific profile fields
// are required according to the chosen rol.
type AsignarRolRequest struct {
	Rol string `json:"rol" validate:"required,oneof=ingresante estudiante egresado docente no_docente"`

	// Student / staff profile data, validated per rol in the service.
	NumeroLegajo string `json:"numero_legajo" validate:"omitempty"`
	Carrera      string `json:"carrera" validate:"omitempty"`
	AnioIngreso  int    `json:"anio_ingreso" validate:"omitempty,min=1939"`
}

// PersonaResponse mirrors a person with the display name already resolved.
type PersonaResponse struct {
	ID            string `json:"id"`
	NombreVisible string `json:"nombre_visible"`
	Apellido      string `json:"apellido"`
	Documento     string `json:"documento"`
	Correo        string `json:"correo"`
	Sede          string `json:"sede"`
	Rol           string `json:"rol,omitempty"`
}
