package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/soniaGuev/SecBienestar/internal/domerr"
	"github.com/soniaGuev/SecBienestar/internal/dto"
	"github.com/soniaGuev/SecBienestar/internal/model"
	"github.com/soniaGuev/SecBienestar/internal/repository"
)

type BecaService interface {
	// AsignarBeca creates a grant and, when the Beca is Residencia, runs
	// the cascading Comedor rule inside the same transaction. The cascade is
	// an explicit call from here, never a persistence hook, so ordering and
	// failure handling stay visible.
	AsignarBeca(ctx context.Context, req dto.AsignarBecaRequest) (*dto.BecaAsignadaResponse, error)
	// ActualizarEstado drives the administrative transitions
	// (PENDIENTE -> APROBADA/RECHAZADA, APROBADA -> ACTIVA, ...).
	ActualizarEstado(ctx context.Context, id uuid.UUID, req dto.ActualizarEstadoBecaRequest) error
	// VencerBecas marks every ACTIVA grant whose window ended before hoy as
	// VENCIDA. Returns the number of grants expired.
	VencerBecas(ctx context.Context, hoy time.Time) (int64, error)
}

type becaService struct {
	becaRepo        repository.BecaRepository
	personaBecaRepo repository.PersonaBecaRepository
	estudianteRepo  repository.EstudianteRepository
}

func NewBecaService(
	becaRepo repository.BecaRepository,
	personaBecaRepo repository.PersonaBecaRepository,
	estudianteRepo repository.EstudianteRepository,
) BecaService {
	return &becaService{
		becaRepo:        becaRepo,
		personaBecaRepo: personaBecaRepo,
		estudianteRepo:  estudianteRepo,
	}
}

// ── AsignarBeca ───────────────────────────────────────────────────────────────

func (s *becaService) AsignarBeca(ctx context.Context, req dto.AsignarBecaRequest) (*dto.BecaAsignadaResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	becaID, err := uuid.Parse(req.BecaID)
	if err != nil {
		return nil, domerr.Validation("beca_id invalido")
	}
	inicio, err := time.Parse("2006-01-02", req.FechaInicio)
	if err != nil {
		return nil, domerr.Validation("fecha_inicio invalida")
	}
	fin, err := time.Parse("2006-01-02", req.FechaFin)
	if err != nil {
		return nil, domerr.Validation("fecha_fin invalida")
	}

	var estudianteID, ingresanteID *uuid.UUID
	if req.PersonaEstudianteID != "" {
		id, err := uuid.Parse(req.PersonaEstudianteID)
		if err != nil {
			return nil, domerr.Validation("persona_estudiante_id invalido")
		}
		estudianteID = &id
	}
	if req.PersonaIngresanteID != "" {
		id, err := uuid.Parse(req.PersonaIngresanteID)
		if err != nil {
			return nil, domerr.Validation("persona_ingresante_id invalido")
		}
		ingresanteID = &id
	}

	beca, err := s.becaRepo.FindByID(ctx, becaID)
	if err != nil {
		return nil, err
	}

	estado := req.EstadoBeca
	if estado == "" {
		estado = model.BecaPendiente
	}

	pb := &model.PersonaBeca{
		PersonaEstudianteID: estudianteID,
		PersonaIngresanteID: ingresanteID,
		BecaID:              becaID,
		FechaInicio:         model.Fecha(inicio),
		FechaFin:            model.Fecha(fin),
		EstadoBeca:          estado,
		MontoAsignado:       req.MontoAsignado,
	}
	if estado == model.BecaAprobada || estado == model.BecaActiva {
		now := time.Now()
		pb.FechaAprobacion = &now
	}

	if err := pb.Validar(beca); err != nil {
		return nil, err
	}

	cascada := false
	txErr := runTx(ctx, s.personaBecaRepo.DB(), func(tx *gorm.DB) error {
		dup, err := s.personaBecaRepo.ExistePorInicio(ctx, tx, estudianteID, ingresanteID, becaID, inicio)
		if err != nil {
			return err
		}
		if dup {
			return domerr.Policy(domerr.RazonBecaDuplicada,
				fmt.Sprintf("ya existe una beca %s con fecha de inicio %s para esta persona",
					beca.Tipo, pb.FechaInicio.Format("2006-01-02")))
		}

		if err := s.personaBecaRepo.Create(ctx, tx, pb); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost the race against a concurrent identical assignment;
				// the unique index is the authoritative guard.
				return domerr.Policy(domerr.RazonBecaDuplicada,
					"ya existe una beca de este tipo con la misma fecha de inicio")
			}
			return err
		}

		cascada, err = s.cascadarComedor(ctx, tx, pb, beca)
		return err
	})
	if txErr != nil {
		return nil, wrapTxError(txErr, "no se pudo asignar la beca")
	}

	return &dto.BecaAsignadaResponse{
		ID:              pb.ID.String(),
		Beca:            beca.Tipo,
		FechaInicio:     pb.FechaInicio,
		FechaFin:        pb.FechaFin,
		EstadoBeca:      pb.EstadoBeca,
		MontoAsignado:   pb.MontoAsignado,
		FechaAprobacion: pb.FechaAprobacion,
		ComedorCascada:  cascada,
	}, nil
}

// ── Cascading Comedor rule ────────────────────────────────────────────────────
// A Residencia grant auto-provisions a Comedor grant with the same validity
// window and the grantee's current menu preference, unless one is already
// pending/approved/active. A missing Comedor catalog entry is a logged no-op:
// it must not fail the Residencia assignment.

func (s *becaService) cascadarComedor(ctx context.Context, tx *gorm.DB, origen *model.PersonaBeca, beca *model.Beca) (bool, error) {
	if beca.Tipo != model.BecaResidencia {
		return false, nil
	}

	becaComedor, err := s.becaRepo.FindByTipoActiva(ctx, model.BecaComedor)
	if err != nil {
		if errors.Is(err, domerr.ErrNotFound) {
			log.Warn().
				Str("beca_origen", beca.Tipo).
				Msg("beca Comedor ausente del catalogo, cascada omitida")
			return false, nil
		}
		return false, err
	}

	var preferencia *string
	if origen.PersonaEstudianteID != nil {
		// The row lock also serializes concurrent Residencia assignments for
		// the same student, so the existence check below cannot race.
		estudiante, err := s.estudianteRepo.FindByIDForUpdateTx(tx, *origen.PersonaEstudianteID)
		if err != nil {
			return false, err
		}
		preferencia = &estudiante.PreferenciaMenu
	}

	existe, err := s.personaBecaRepo.ExisteComedorViva(ctx, tx, origen.PersonaEstudianteID, origen.PersonaIngresanteID)
	if err != nil {
		return false, err
	}
	if existe {
		return false, nil
	}

	comedor := &model.PersonaBeca{
		PersonaEstudianteID: origen.PersonaEstudianteID,
		PersonaIngresanteID: origen.PersonaIngresanteID,
		BecaID:              becaComedor.ID,
		FechaInicio:         origen.FechaInicio,
		FechaFin:            origen.FechaFin,
		EstadoBeca:          origen.EstadoBeca,
		PreferenciaMenu:     preferencia,
	}
	if origen.EstadoBeca == model.BecaAprobada || origen.EstadoBeca == model.BecaActiva {
		comedor.FechaAprobacion = origen.FechaAprobacion
	}

	if err := s.personaBecaRepo.Create(ctx, tx, comedor); err != nil {
		return false, err
	}
	return true, nil
}

// ── ActualizarEstado ──────────────────────────────────────────────────────────

func (s *becaService) ActualizarEstado(ctx context.Context, id uuid.UUID, req dto.ActualizarEstadoBecaRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}

	pb, err := s.personaBecaRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !model.TransicionEstadoValida(pb.EstadoBeca, req.EstadoBeca) {
		return domerr.Policy(domerr.RazonEstadoInvalido,
			fmt.Sprintf("transicion %s -> %s no permitida", pb.EstadoBeca, req.EstadoBeca))
	}

	var aprobacion *time.Time
	if req.EstadoBeca == model.BecaAprobada && pb.FechaAprobacion == nil {
		now := time.Now()
		aprobacion = &now
	}
	return s.personaBecaRepo.UpdateEstado(ctx, id, req.EstadoBeca, aprobacion)
}

// ── VencerBecas ───────────────────────────────────────────────────────────────

func (s *becaService) VencerBecas(ctx context.Context, hoy time.Time) (int64, error) {
	n, err := s.personaBecaRepo.VencerAnteriores(ctx, hoy)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Int64("becas_vencidas", n).Msg("becas activas fuera de ventana marcadas VENCIDA")
	}
	return n, nil
}

// wrapTxError keeps domain errors intact and converts anything else into a
// PersistenceFailure so callers never see raw driver errors.
func wrapTxError(err error, detail string) error {
	var de *domerr.Error
	if errors.As(err, &de) {
		return err
	}
	return domerr.Persistence(detail, err)
}
