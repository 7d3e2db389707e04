package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransicionEstadoValida(t *testing.T) {
	permitidas := [][2]string{
		{BecaPendiente, BecaAprobada},
		{BecaPendiente, BecaRechazada},
		{BecaAprobada, BecaActiva},
		{BecaAprobada, BecaSuspendida},
		{BecaActiva, BecaVencida},
		{BecaActiva, BecaSuspendida},
		{BecaSuspendida, BecaActiva},
	}
	for _, p := range permitidas {
		assert.True(t, TransicionEstadoValida(p[0], p[1]), "%s -> %s", p[0], p[1])
	}

	prohibidas := [][2]string{
		{BecaPendiente, BecaActiva},
		{BecaVencida, BecaActiva},
		{BecaRechazada, BecaAprobada},
		{BecaActiva, BecaPendiente},
	}
	for _, p := range prohibidas {
		assert.False(t, TransicionEstadoValida(p[0], p[1]), "%s -> %s", p[0], p[1])
	}
}

func TestPersonaBecaValidar(t *testing.T) {
	estudianteID := uuid.New()
	ingresanteID := uuid.New()
	inicio := Fecha(time.Now())
	fin := inicio.AddDate(0, 6, 0)

	base := func() PersonaBeca {
		return PersonaBeca{
			PersonaEstudianteID: &estudianteID,
			BecaID:              uuid.New(),
			FechaInicio:         inicio,
			FechaFin:            fin,
			EstadoBeca:          BecaPendiente,
		}
	}

	pb := base()
	assert.NoError(t, pb.Validar(nil))

	sinPersona := base()
	sinPersona.PersonaEstudianteID = nil
	assert.Error(t, sinPersona.Validar(nil))

	dosPersonas := base()
	dosPersonas.PersonaIngresanteID = &ingresanteID
	assert.Error(t, dosPersonas.Validar(nil))

	finAntes := base()
	finAntes.FechaFin = inicio.AddDate(0, 0, -1)
	assert.Error(t, finAntes.Validar(nil))

	estadoRaro := base()
	estadoRaro.EstadoBeca = "CONGELADA"
	assert.Error(t, estadoRaro.Validar(nil))
}

func TestPersonaBecaValidar_ReglasDeMonto(t *testing.T) {
	estudianteID := uuid.New()
	monto := decimal.NewFromInt(45000)
	conMonto := Beca{Tipo: "Ayuda Economica", TieneMonto: true, MontoSugerido: &monto}
	sinMonto := Beca{Tipo: BecaComedor}

	pb := PersonaBeca{
		PersonaEstudianteID: &estudianteID,
		BecaID:              uuid.New(),
		FechaInicio:         Fecha(time.Now()),
		FechaFin:            Fecha(time.Now()).AddDate(1, 0, 0),
		EstadoBeca:          BecaPendiente,
	}

	assert.Error(t, pb.Validar(&conMonto), "beca monetaria sin monto asignado")

	asignado := decimal.NewFromInt(40000)
	pb.MontoAsignado = &asignado
	assert.NoError(t, pb.Validar(&conMonto))
	assert.Error(t, pb.Validar(&sinMonto), "beca no monetaria con monto asignado")
}

func TestVigente(t *testing.T) {
	hoy := Fecha(time.Now())
	pb := PersonaBeca{FechaInicio: hoy.AddDate(0, 0, -10), FechaFin: hoy.AddDate(0, 0, 10)}

	assert.True(t, pb.Vigente(hoy))
	assert.True(t, pb.Vigente(pb.FechaInicio), "inclusive on start")
	assert.True(t, pb.Vigente(pb.FechaFin), "inclusive on end")
	assert.False(t, pb.Vigente(pb.FechaFin.AddDate(0, 0, 1)))
	assert.False(t, pb.Vigente(pb.FechaInicio.AddDate(0, 0, -1)))
}

func TestBeneficioComedorValidar(t *testing.T) {
	cien := decimal.NewFromInt(100)

	ok := []BeneficioComedor{
		{TipoBeneficio: BeneficioGratuito, PorcentajeDescuento: cien},
		{TipoBeneficio: BeneficioDescuento, PorcentajeDescuento: decimal.NewFromInt(35)},
		{TipoBeneficio: BeneficioNinguno},
	}
	for _, b := range ok {
		assert.NoError(t, b.Validar(), b.TipoBeneficio)
	}

	mal := []BeneficioComedor{
		{TipoBeneficio: BeneficioGratuito, PorcentajeDescuento: decimal.NewFromInt(50)},
		{TipoBeneficio: BeneficioDescuento},
		{TipoBeneficio: BeneficioNinguno, PorcentajeDescuento: decimal.NewFromInt(10)},
		{TipoBeneficio: BeneficioDescuento, PorcentajeDescuento: decimal.NewFromInt(101)},
		{TipoBeneficio: "mitad"},
	}
	for _, b := range mal {
		assert.Error(t, b.Validar(), b.TipoBeneficio)
	}
}

func TestBeneficioEsGratuito(t *testing.T) {
	cien := decimal.NewFromInt(100)
	assert.True(t, (&BeneficioComedor{TipoBeneficio: BeneficioGratuito, PorcentajeDescuento: cien}).EsGratuito())
	assert.True(t, (&BeneficioComedor{TipoBeneficio: BeneficioDescuento, PorcentajeDescuento: cien}).EsGratuito())
	assert.False(t, (&BeneficioComedor{TipoBeneficio: BeneficioDescuento, PorcentajeDescuento: decimal.NewFromInt(99)}).EsGratuito())
}
