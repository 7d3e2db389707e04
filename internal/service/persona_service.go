package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniaGuev/SecBienestar/internal/domerr"
	"github.com/soniaGuev/SecBienestar/internal/dto"
	"github.com/soniaGuev/SecBienestar/internal/model"
	"github.com/soniaGuev/SecBienestar/internal/repository"
)

type PersonaService interface {
	Crear(ctx context.Context, req dto.CrearPersonaRequest) (*dto.PersonaResponse, error)
	// AsignarRol sets the person's role and creates the matching profile.
	// The role locks once a profile row exists; changing it afterwards is a
	// policy violation (rol_bloqueado).
	AsignarRol(ctx context.Context, personaID uuid.UUID, req dto.AsignarRolRequest) (*dto.PersonaResponse, error)
	Buscar(ctx context.Context, personaID uuid.UUID) (*dto.PersonaResponse, error)
}

type personaService struct {
	personaRepo    repository.PersonaRepository
	estudianteRepo repository.EstudianteRepository
}

func NewPersonaService(
	personaRepo repository.PersonaRepository,
	estudianteRepo repository.EstudianteRepository,
) PersonaService {
	return &personaService{personaRepo: personaRepo, estudianteRepo: estudianteRepo}
}

func (s *personaService) Crear(ctx context.Context, req dto.CrearPersonaRequest) (*dto.PersonaResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	p := model.Persona{
		Nombre:          req.Nombre,
		Apellido:        req.Apellido,
		TipoDocumento:   req.TipoDocumento,
		Documento:       req.Documento,
		Correo:          req.Correo,
		Telefono:        req.Telefono,
		NombrePercibido: req.NombrePercibido,
		Sede:            req.Sede,
	}
	if p.TipoDocumento == "" {
		p.TipoDocumento = "DNI"
	}
	if p.Sede == "" {
		p.Sede = model.SedeCentral
	}

	if err := s.personaRepo.Create(ctx, &p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domerr.Policy(domerr.RazonEstadoInvalido,
				"ya existe una persona con ese documento o correo")
		}
		return nil, domerr.Persistence("no se pudo registrar la persona", err)
	}
	return personaToResponse(&p), nil
}

func (s *personaService) AsignarRol(ctx context.Context, personaID uuid.UUID, req dto.AsignarRolRequest) (*dto.PersonaResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	p, err := s.personaRepo.FindByID(ctx, personaID)
	if err != nil {
		return nil, err
	}
	if p.Rol != "" && p.Rol != req.Rol {
		return nil, domerr.Policy(domerr.RazonRolBloqueado,
			"el rol "+p.Rol+" ya fue asignado y no puede cambiarse")
	}

	switch req.Rol {
	case model.RolEstudiante:
		if req.NumeroLegajo == "" || req.Carrera == "" || req.AnioIngreso == 0 {
			return nil, domerr.ValidationCampos(map[string]string{
				"numero_legajo": "requerido para estudiantes",
				"carrera":       "requerida para estudiantes",
				"anio_ingreso":  "requerido para estudiantes",
			})
		}
		if p.Estudiante == nil {
			e := model.PersonaEstudiante{
				PersonaID:       personaID,
				NumeroLegajo:    req.NumeroLegajo,
				Carrera:         req.Carrera,
				AnioIngreso:     req.AnioIngreso,
				PreferenciaMenu: model.MenuComun,
			}
			if err := s.estudianteRepo.Create(ctx, &e); err != nil {
				return nil, domerr.Persistence("no se pudo crear el perfil de estudiante", err)
			}
		}
	case model.RolIngresante, model.RolEgresado, model.RolDocente, model.RolNoDocente:
		// Profile rows for these roles are provisioned by their own intake
		// flows; only the rol tag is recorded here.
	}

	if err := s.personaRepo.UpdateRol(ctx, personaID, req.Rol); err != nil {
		return nil, domerr.Persistence("no se pudo asignar el rol", err)
	}
	p.Rol = req.Rol
	return personaToResponse(p), nil
}

func (s *personaService) Buscar(ctx context.Context, personaID uuid.UUID) (*dto.PersonaResponse, error) {
	p, err := s.personaRepo.FindByID(ctx, personaID)
	if err != nil {
		return nil, err
	}
	return personaToResponse(p), nil
}

func personaToResponse(p *model.Persona) *dto.PersonaResponse {
	return &dto.PersonaResponse{
		ID:            p.ID.String(),
		NombreVisible: p.NombreVisible(),
		Apellido:      p.Apellido,
		Documento:     p.Documento,
		Correo:        p.Correo,
		Sede:          p.Sede,
		Rol:           p.Rol,
	}
}
