package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniaGuev/SecBienestar/internal/domerr"
	"github.com/soniaGuev/SecBienestar/internal/dto"
	"github.com/soniaGuev/SecBienestar/internal/model"
	"github.com/soniaGuev/SecBienestar/internal/repository"
)

// diasVentanaCambioMenu is the rolling window for menu-preference changes:
// one change per 365 days, counted in whole days.
const diasVentanaCambioMenu = 365

type PreferenciaService interface {
	// CambiarPreferencia updates a student's menu preference, subject to the
	// rolling-window limit and the celiac documentation gate. On denial the
	// response still carries Permitido=false and DiasRestantes alongside the
	// policy error, so callers can show when the next change unlocks.
	CambiarPreferencia(ctx context.Context, personaID uuid.UUID, req dto.CambiarPreferenciaRequest) (*dto.CambiarPreferenciaResponse, error)
}

type preferenciaService struct {
	estudianteRepo repository.EstudianteRepository
}

func NewPreferenciaService(estudianteRepo repository.EstudianteRepository) PreferenciaService {
	return &preferenciaService{estudianteRepo: estudianteRepo}
}

func (s *preferenciaService) CambiarPreferencia(ctx context.Context, personaID uuid.UUID, req dto.CambiarPreferenciaRequest) (*dto.CambiarPreferenciaResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	estudiante, err := s.estudianteRepo.FindByPersonaID(ctx, personaID)
	if err != nil {
		return nil, err
	}

	hoy := model.Fecha(time.Now())
	resp := &dto.CambiarPreferenciaResponse{Preferencia: req.Preferencia}

	txErr := runTx(ctx, s.estudianteRepo.DB(), func(tx *gorm.DB) error {
		// Lock the row so two concurrent changes cannot both pass the
		// window check on the same stale timestamp.
		bloqueado, err := s.lock(tx, estudiante)
		if err != nil {
			return err
		}

		if model.PreferenciaCeliaca(req.Preferencia) && !bloqueado.CeliacoValidado {
			return domerr.Policy(domerr.RazonCeliacoNoValidado,
				"los menus celiacos requieren documentacion medica validada")
		}

		if bloqueado.PreferenciaMenu == req.Preferencia {
			// Same value: nothing changes and the window does not burn.
			resp.Permitido = true
			return nil
		}

		if restantes := diasHastaProximoCambio(bloqueado.FechaUltimaModificacionMenu, hoy); restantes > 0 {
			resp.DiasRestantes = restantes
			return domerr.Policy(domerr.RazonLimiteCambioMenu,
				"ya cambiaste tu preferencia de menu este año")
		}

		if err := s.estudianteRepo.UpdatePreferenciaTx(tx, bloqueado.ID, req.Preferencia, hoy); err != nil {
			return err
		}
		resp.Permitido = true
		return nil
	})
	if txErr != nil {
		return resp, wrapTxError(txErr, "no se pudo cambiar la preferencia de menu")
	}
	return resp, nil
}

// lock takes the FOR UPDATE lock when running against a real transaction and
// falls back to the already loaded profile in unit-test mode (tx == nil).
func (s *preferenciaService) lock(tx *gorm.DB, estudiante *model.PersonaEstudiante) (*model.PersonaEstudiante, error) {
	if tx == nil {
		return estudiante, nil
	}
	return s.estudianteRepo.FindByIDForUpdateTx(tx, estudiante.ID)
}

// diasHastaProximoCambio returns how many whole days remain until the next
// change is allowed; zero or negative means the window is open. A change made
// exactly diasVentanaCambioMenu days ago is allowed again today.
func diasHastaProximoCambio(ultimoCambio *time.Time, hoy time.Time) int {
	if ultimoCambio == nil {
		return 0
	}
	proximo := model.Fecha(*ultimoCambio).AddDate(0, 0, diasVentanaCambioMenu)
	return int(proximo.Sub(model.Fecha(hoy)).Hours() / 24)
}
