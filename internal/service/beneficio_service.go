package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniaGuev/SecBienestar/internal/domerr"
	"github.com/soniaGuev/SecBienestar/internal/dto"
	"github.com/soniaGuev/SecBienestar/internal/model"
	"github.com/soniaGuev/SecBienestar/internal/repository"
)

// BeneficioResuelto pairs the benefit policy that applies with the grant
// that produced it.
type BeneficioResuelto struct {
	Beneficio *model.BeneficioComedor
	Beca      *model.PersonaBeca
}

type BeneficioService interface {
	// Resolver finds the benefit that applies to a student as of fecha, or
	// nil when no active, in-window grant carries an active cafeteria
	// policy. Among multiple qualifying grants the one with the most recent
	// start date wins. Read-only.
	// tx may be the surrounding issuance transaction or nil.
	Resolver(ctx context.Context, tx *gorm.DB, estudianteID uuid.UUID, fecha time.Time) (*BeneficioResuelto, error)
	// BeneficioDisponible is the presentation-facing preview of Resolver.
	BeneficioDisponible(ctx context.Context, estudianteID uuid.UUID, fecha time.Time) (*dto.BeneficioResponse, error)
}

type beneficioService struct {
	personaBecaRepo repository.PersonaBecaRepository
	beneficioRepo   repository.BeneficioRepository
}

func NewBeneficioService(
	personaBecaRepo repository.PersonaBecaRepository,
	beneficioRepo repository.BeneficioRepository,
) BeneficioService {
	return &beneficioService{personaBecaRepo: personaBecaRepo, beneficioRepo: beneficioRepo}
}

func (s *beneficioService) Resolver(ctx context.Context, tx *gorm.DB, estudianteID uuid.UUID, fecha time.Time) (*BeneficioResuelto, error) {
	if tx == nil {
		tx = s.personaBecaRepo.DB()
	}
	becas, err := s.personaBecaRepo.FindActivasVigentes(ctx, tx, estudianteID, fecha)
	if err != nil {
		return nil, err
	}

	// Already ordered fecha_inicio DESC; the first grant whose Beca carries
	// an active policy wins.
	for i := range becas {
		beneficio, err := s.beneficioRepo.FindActivoPorBeca(ctx, becas[i].BecaID)
		if err != nil {
			if errors.Is(err, domerr.ErrNotFound) {
				continue
			}
			return nil, err
		}
		return &BeneficioResuelto{Beneficio: beneficio, Beca: &becas[i]}, nil
	}
	return nil, nil
}

func (s *beneficioService) BeneficioDisponible(ctx context.Context, estudianteID uuid.UUID, fecha time.Time) (*dto.BeneficioResponse, error) {
	resuelto, err := s.Resolver(ctx, nil, estudianteID, fecha)
	if err != nil {
		return nil, err
	}
	if resuelto == nil {
		return nil, nil
	}

	resp := &dto.BeneficioResponse{
		TipoBeneficio:       resuelto.Beneficio.TipoBeneficio,
		PorcentajeDescuento: resuelto.Beneficio.PorcentajeDescuento,
		Gratuito:            resuelto.Beneficio.EsGratuito(),
	}
	if resuelto.Beca.Beca != nil {
		resp.Beca = resuelto.Beca.Beca.Tipo
	}
	return resp, nil
}
