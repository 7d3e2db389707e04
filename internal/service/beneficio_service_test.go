package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soniaGuev/SecBienestar/internal/model"
	"github.com/soniaGuev/SecBienestar/internal/service"
)

func diasDesdeHoy(n int) time.Time {
	return model.Fecha(time.Now()).AddDate(0, 0, n)
}

func activa(estudianteID uuid.UUID, beca *model.Beca, inicioHaceDias int) *model.PersonaBeca {
	return &model.PersonaBeca{
		PersonaEstudianteID: &estudianteID,
		BecaID:              beca.ID,
		Beca:                beca,
		FechaInicio:         diasDesdeHoy(-inicioHaceDias),
		FechaFin:            diasDesdeHoy(180),
		EstadoBeca:          model.BecaActiva,
	}
}

func TestResolver_SinBecas(t *testing.T) {
	catalog := newStubBecaRepo()
	grants := newStubPersonaBecaRepo(catalog)
	svc := service.NewBeneficioService(grants, newStubBeneficioRepo())

	resuelto, err := svc.Resolver(context.Background(), nil, uuid.New(), time.Now())
	require.NoError(t, err)
	assert.Nil(t, resuelto)
}

func TestResolver_GanaLaBecaMasReciente(t *testing.T) {
	comedor := &model.Beca{Tipo: model.BecaComedor, Activa: true}
	residencia := &model.Beca{Tipo: model.BecaResidencia, Activa: true}
	catalog := newStubBecaRepo(comedor, residencia)

	estudianteID := uuid.New()
	grants := newStubPersonaBecaRepo(catalog)
	require.NoError(t, grants.Create(context.Background(), nil, activa(estudianteID, comedor, 90)))
	require.NoError(t, grants.Create(context.Background(), nil, activa(estudianteID, residencia, 10)))

	beneficios := newStubBeneficioRepo()
	require.NoError(t, beneficios.Create(context.Background(), &model.BeneficioComedor{
		BecaID: comedor.ID, TipoBeneficio: model.BeneficioDescuento, PorcentajeDescuento: d("50"), Activo: true,
	}))
	require.NoError(t, beneficios.Create(context.Background(), &model.BeneficioComedor{
		BecaID: residencia.ID, TipoBeneficio: model.BeneficioGratuito, PorcentajeDescuento: d("100"), Activo: true,
	}))

	svc := service.NewBeneficioService(grants, beneficios)
	resuelto, err := svc.Resolver(context.Background(), nil, estudianteID, time.Now())
	require.NoError(t, err)
	require.NotNil(t, resuelto)
	assert.Equal(t, model.BeneficioGratuito, resuelto.Beneficio.TipoBeneficio)
	assert.Equal(t, residencia.ID, resuelto.Beca.BecaID)
}

func TestResolver_SaltaBecasSinPoliticaActiva(t *testing.T) {
	comedor := &model.Beca{Tipo: model.BecaComedor, Activa: true}
	residencia := &model.Beca{Tipo: model.BecaResidencia, Activa: true}
	catalog := newStubBecaRepo(comedor, residencia)

	estudianteID := uuid.New()
	grants := newStubPersonaBecaRepo(catalog)
	// The most recent grant carries an inactive policy: it must be skipped.
	require.NoError(t, grants.Create(context.Background(), nil, activa(estudianteID, residencia, 5)))
	require.NoError(t, grants.Create(context.Background(), nil, activa(estudianteID, comedor, 60)))

	beneficios := newStubBeneficioRepo()
	require.NoError(t, beneficios.Create(context.Background(), &model.BeneficioComedor{
		BecaID: residencia.ID, TipoBeneficio: model.BeneficioGratuito, PorcentajeDescuento: d("100"), Activo: false,
	}))
	require.NoError(t, beneficios.Create(context.Background(), &model.BeneficioComedor{
		BecaID: comedor.ID, TipoBeneficio: model.BeneficioDescuento, PorcentajeDescuento: d("25"), Activo: true,
	}))

	svc := service.NewBeneficioService(grants, beneficios)
	resuelto, err := svc.Resolver(context.Background(), nil, estudianteID, time.Now())
	require.NoError(t, err)
	require.NotNil(t, resuelto)
	assert.Equal(t, comedor.ID, resuelto.Beca.BecaID)
	assert.True(t, resuelto.Beneficio.PorcentajeDescuento.Equal(d("25")))
}

func TestResolver_IgnoraBecasFueraDeVentana(t *testing.T) {
	comedor := &model.Beca{Tipo: model.BecaComedor, Activa: true}
	catalog := newStubBecaRepo(comedor)

	estudianteID := uuid.New()
	vencida := &model.PersonaBeca{
		PersonaEstudianteID: &estudianteID,
		BecaID:              comedor.ID,
		Beca:                comedor,
		FechaInicio:         diasDesdeHoy(-400),
		FechaFin:            diasDesdeHoy(-30),
		EstadoBeca:          model.BecaActiva,
	}
	grants := newStubPersonaBecaRepo(catalog)
	require.NoError(t, grants.Create(context.Background(), nil, vencida))

	beneficios := newStubBeneficioRepo()
	require.NoError(t, beneficios.Create(context.Background(), &model.BeneficioComedor{
		BecaID: comedor.ID, TipoBeneficio: model.BeneficioGratuito, PorcentajeDescuento: d("100"), Activo: true,
	}))

	svc := service.NewBeneficioService(grants, beneficios)
	resuelto, err := svc.Resolver(context.Background(), nil, estudianteID, time.Now())
	require.NoError(t, err)
	assert.Nil(t, resuelto)
}

func TestBeneficioDisponible_Preview(t *testing.T) {
	comedor := &model.Beca{Tipo: model.BecaComedor, Activa: true}
	catalog := newStubBecaRepo(comedor)

	estudianteID := uuid.New()
	grants := newStubPersonaBecaRepo(catalog)
	require.NoError(t, grants.Create(context.Background(), nil, activa(estudianteID, comedor, 30)))

	beneficios := newStubBeneficioRepo()
	require.NoError(t, beneficios.Create(context.Background(), &model.BeneficioComedor{
		BecaID: comedor.ID, TipoBeneficio: model.BeneficioGratuito, PorcentajeDescuento: d("100"), Activo: true,
	}))

	svc := service.NewBeneficioService(grants, beneficios)
	resp, err := svc.BeneficioDisponible(context.Background(), estudianteID, time.Now())
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.True(t, resp.Gratuito)
	assert.Equal(t, model.BecaComedor, resp.Beca)
}
