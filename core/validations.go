package core

import (
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	NombreMaxLength      = 200
	DescripcionMaxLength = 1000
	DuracionMinimaEvento = 5 * time.Minute
	CupoMaximoMin        = 1
	CupoMaximoMax        = 1000
	DuracionPorAlumnoMin = 5
	DuracionPorAlumnoMax = 240
	LinkOnlinePattern    = `^https?://.+`
	EmailPattern         = `^[^\s@]+@[^\s@]+\.[^\s@]+$`
	PresencialDesde      = 8.0
	PresencialHasta      = 20.0
	OnlineBloqueoDesde   = 3.0
	OnlineBloqueoHasta   = 8.0
)

const (
	MsgNombreRequerido      = "El nombre del evento es requerido"
	MsgNombreLargo          = "El nombre no puede exceder 200 caracteres"
	MsgDescripcionLarga     = "La descripción no puede exceder 1000 caracteres"
	MsgEstadoInvalido       = "Estado inválido. Debe ser: pendiente, confirmado, tentativo o cancelado"
	MsgTipoEventoInvalido   = "Tipo de evento inválido. Debe ser: evaluacion, reunion o clase"
	MsgModalidadInvalida    = "Modalidad inválida. Debe ser: presencial u online"
	MsgLinkOnlineRequerido  = "El link es requerido para eventos online"
	MsgLinkOnlineInvalido   = "El link debe ser una URL válida (http:// o https://)"
	MsgSalaRequerida        = "La sala es requerida para eventos presenciales"
	MsgFechaInicioRequerida = "La fecha de inicio es requerida"
	MsgFechaFinRequerida    = "La fecha de fin es requerida"
	MsgFechaFinAnterior     = "La fecha de fin debe ser posterior a la fecha de inicio"
	MsgFechaInicioPasada    = "La fecha de inicio no puede ser en el pasado"
	MsgDuracionMinima       = "El evento debe durar al menos 5 minutos"
	MsgCupoMinimo           = "El cupo máximo debe ser al menos 1"
	MsgCupoMaximo           = "El cupo máximo no puede exceder 1000"
	MsgDuracionAlumnoMinima = "La duración por alumno debe ser al menos 5 minutos"
	MsgDuracionAlumnoMaxima = "La duración por alumno no puede exceder 240 minutos"
	MsgRamoRequerido        = "El ramo es requerido"
	MsgSeccionRequerida     = "La sección es requerida"
	MsgHorarioPresencial    = "Los eventos presenciales deben programarse entre las 08:00 y las 20:00"
	MsgHorarioOnline        = "Los eventos online no pueden programarse entre las 03:00 y las 08:00"
	MsgEventoIdRequerido    = "El ID del evento es requerido"
	MsgEmailParejaInvalido  = "El email de la pareja no es válido"
)

var (
	Estados     = []Estado{EstadoPendiente, EstadoConfirmado, EstadoTentativo, EstadoCancelado}
	TiposEvento = []TipoEvento{TipoEvaluacion, TipoReunion, TipoClase}
	Modalidades = []Modalidad{ModalidadPresencial, ModalidadOnline}

	linkOnlineRegex = regexp.MustCompile(LinkOnlinePattern)
)

// regla is one entry of the event rule table. falla reports whether the
// candidate violates the rule at the reference time now.
type regla struct {
	campo   string
	mensaje string
	falla   func(e *CandidateEvent, now time.Time) bool
}

// reglasEvento is evaluated top to bottom on every call; the order is the order of the reported errors.
var reglasEvento = []regla{
	{"nombre", MsgNombreRequerido, func(e *CandidateEvent, _ time.Time) bool {
		return strings.TrimSpace(e.Nombre) == ""
	}},
	{"nombre", MsgNombreLargo, func(e *CandidateEvent, _ time.Time) bool {
		return utf8.RuneCountInString(strings.TrimSpace(e.Nombre)) > NombreMaxLength
	}},
	{"descripcion", MsgDescripcionLarga, func(e *CandidateEvent, _ time.Time) bool {
		return utf8.RuneCountInString(e.Descripcion) > DescripcionMaxLength
	}},
	{"estado", MsgEstadoInvalido, func(e *CandidateEvent, _ time.Time) bool {
		return e.Estado != "" && !slices.Contains(Estados, e.Estado)
	}},
	{"tipoEvento", MsgTipoEventoInvalido, func(e *CandidateEvent, _ time.Time) bool {
		return !slices.Contains(TiposEvento, e.TipoEvento)
	}},
	{"modalidad", MsgModalidadInvalida, func(e *CandidateEvent, _ time.Time) bool {
		return !slices.Contains(Modalidades, e.Modalidad)
	}},
	{"linkOnline", MsgLinkOnlineRequerido, func(e *CandidateEvent, _ time.Time) bool {
		return e.Modalidad == ModalidadOnline && strings.TrimSpace(e.LinkOnline) == ""
	}},
	{"linkOnline", MsgLinkOnlineInvalido, func(e *CandidateEvent, _ time.Time) bool {
		return e.LinkOnline != "" && !linkOnlineRegex.MatchString(e.LinkOnline)
	}},
	{"sala", MsgSalaRequerida, func(e *CandidateEvent, _ time.Time) bool {
		return e.Modalidad == ModalidadPresencial && strings.TrimSpace(e.Sala) == ""
	}},
	{"fechaInicio", MsgFechaInicioRequerida, func(e *CandidateEvent, _ time.Time) bool {
		return e.FechaInicio == nil
	}},
	{"fechaFin", MsgFechaFinRequerida, func(e *CandidateEvent, _ time.Time) bool {
		return e.FechaFin == nil
	}},
	{"fechaFin", MsgFechaFinAnterior, func(e *CandidateEvent, _ time.Time) bool {
		return ambasFechas(e) && !e.FechaFin.After(*e.FechaInicio)
	}},
	{"fechaInicio", MsgFechaInicioPasada, func(e *CandidateEvent, now time.Time) bool {
		return ambasFechas(e) && e.FechaInicio.Before(now)
	}},
	{"fechaFin", MsgDuracionMinima, func(e *CandidateEvent, _ time.Time) bool {
		return ambasFechas(e) && e.FechaFin.Sub(*e.FechaInicio) < DuracionMinimaEvento
	}},
	{"cupoMaximo", MsgCupoMinimo, func(e *CandidateEvent, _ time.Time) bool {
		return e.CupoMaximo != nil && *e.CupoMaximo < CupoMaximoMin
	}},
	{"cupoMaximo", MsgCupoMaximo, func(e *CandidateEvent, _ time.Time) bool {
		return e.CupoMaximo != nil && *e.CupoMaximo > CupoMaximoMax
	}},
	{"duracionPorAlumno", MsgDuracionAlumnoMinima, func(e *CandidateEvent, _ time.Time) bool {
		return e.DuracionPorAlumno != nil && *e.DuracionPorAlumno < DuracionPorAlumnoMin
	}},
	{"duracionPorAlumno", MsgDuracionAlumnoMaxima, func(e *CandidateEvent, _ time.Time) bool {
		return e.DuracionPorAlumno != nil && *e.DuracionPorAlumno > DuracionPorAlumnoMax
	}},
	{"ramoId", MsgRamoRequerido, func(e *CandidateEvent, _ time.Time) bool {
		return e.RamoId.Vacio()
	}},
	{"seccionId", MsgSeccionRequerida, func(e *CandidateEvent, _ time.Time) bool {
		return e.SeccionId.Vacio()
	}},
}

func ambasFechas(e *CandidateEvent) bool {
	return e.FechaInicio != nil && e.FechaFin != nil
}

type Clock func() time.Time

type Option func(*EventValidator)

// WithClock sets the reference time used by the past-date rule.
func WithClock(clock Clock) Option {
	return func(v *EventValidator) {
		if clock != nil {
			v.clock = clock
		}
	}
}

// WithLocation sets the time zone in which time-of-day windows are evaluated
// and dd/mm/yyyy dates are interpreted.
func WithLocation(location *time.Location) Option {
	return func(v *EventValidator) {
		if location != nil {
			v.location = location
		}
	}
}

// EventValidator holds no state between calls besides its clock and time zone.
type EventValidator struct {
	clock    Clock
	location *time.Location
}

func NewEventValidator(opts ...Option) *EventValidator {
	v := &EventValidator{
		clock:    time.Now,
		location: time.Local,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

func (v *EventValidator) Location() *time.Location {
	return v.location
}

// ValidarDatosEvento runs every rule against the candidate and returns all violations.
func (v *EventValidator) ValidarDatosEvento(evento CandidateEvent) Resultado {
	now := v.clock()

	var errores []string

	for _, r := range reglasEvento {
		if r.falla(&evento, now) {
			errores = append(errores, r.mensaje)
		}
	}

	return nuevoResultado(errores)
}

// ValidarHorarioDisponible checks that fechaInicio falls in the operating window of the modality.
// Presencial events run in [08:00, 20:00); online events may not start in [03:00, 08:00).
// Unknown modalities are always accepted.
func (v *EventValidator) ValidarHorarioDisponible(fechaInicio time.Time, modalidad Modalidad) ResultadoHorario {
	local := fechaInicio.In(v.location)
	hora := float64(local.Hour()) + float64(local.Minute())/60

	switch modalidad {
	case ModalidadPresencial:
		if hora < PresencialDesde || hora >= PresencialHasta {
			return ResultadoHorario{Valido: false, Mensaje: MsgHorarioPresencial}
		}
	case ModalidadOnline:
		if hora >= OnlineBloqueoDesde && hora < OnlineBloqueoHasta {
			return ResultadoHorario{Valido: false, Mensaje: MsgHorarioOnline}
		}
	}

	return ResultadoHorario{Valido: true}
}
