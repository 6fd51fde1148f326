package core

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"evaluaciones/pkg/resources"
)

type Handlers interface {
	PostEventos(gctx *gin.Context)
	PostValidarEvento(gctx *gin.Context)
	GetReglas(gctx *gin.Context)
	GetEventos(gctx *gin.Context)
	PostInscripciones(gctx *gin.Context)
	GetHealth(gctx *gin.Context)
}

type handlers struct {
	repository    Repository
	eventos       *EventValidator
	inscripciones *EnrollmentValidator
	metrics       *resources.ValidationMetrics
}

func NewHandlers(repository Repository, eventos *EventValidator, inscripciones *EnrollmentValidator) Handlers {
	return &handlers{
		repository:    repository,
		eventos:       eventos,
		inscripciones: inscripciones,
		metrics:       resources.NewValidationMetrics("evaluaciones/core"),
	}
}

// eventoRequest carries the dates as text: RFC 3339 or dd/mm/yyyy HH:MM.
type eventoRequest struct {
	CandidateEvent
	FechaInicio string `json:"fechaInicio"`
	FechaFin    string `json:"fechaFin"`
}

type validacionResponse struct {
	Resultado
	Horario *ResultadoHorario `json:"horario,omitempty"`
}

func (h *handlers) parseFecha(fecha string) (*time.Time, error) {
	fecha = strings.TrimSpace(fecha)
	if fecha == "" {
		return nil, nil
	}

	if ValidarFormatoFecha(fecha) {
		t, err := ParsearFecha(fecha, h.eventos.Location())
		if err != nil {
			return nil, err
		}

		return &t, nil
	}

	t, err := time.Parse(time.RFC3339, fecha)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrFormatoFecha, fecha)
	}

	return &t, nil
}

// bindEvento decodes the body into a candidate. On failure the response is already written.
func (h *handlers) bindEvento(gctx *gin.Context) (CandidateEvent, bool) {
	ctx := gctx.Request.Context()

	var req eventoRequest

	err := gctx.ShouldBindJSON(&req)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to bind JSON", err))

		return CandidateEvent{}, false
	}

	candidate := req.CandidateEvent

	candidate.FechaInicio, err = h.parseFecha(req.FechaInicio)
	if err == nil {
		candidate.FechaFin, err = h.parseFecha(req.FechaFin)
	}

	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to parse dates")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to parse dates", err))

		return CandidateEvent{}, false
	}

	return candidate, true
}

func (h *handlers) PostEventos(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	candidate, ok := h.bindEvento(gctx)
	if !ok {
		return
	}

	resultado := h.eventos.ValidarDatosEvento(candidate)
	h.metrics.Observe(ctx, "evento", len(resultado.Errores))

	if !resultado.Valido {
		log.Ctx(ctx).Warn().Strs("errores", resultado.Errores).Msg("evento validation failed")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, resultado)

		return
	}

	horario := h.eventos.ValidarHorarioDisponible(*candidate.FechaInicio, candidate.Modalidad)
	if !horario.Valido {
		log.Ctx(ctx).Warn().Str("mensaje", horario.Mensaje).Msg("evento outside allowed hours")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, horario)

		return
	}

	if candidate.Modalidad == ModalidadPresencial {
		conflicto, err := h.repository.ExisteConflictoSala(ctx, strings.TrimSpace(candidate.Sala), *candidate.FechaInicio, *candidate.FechaFin)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("checking sala availability failed")
			gctx.AbortWithStatusJSON(http.StatusInternalServerError, NewError("checking sala availability failed", err))

			return
		}

		if conflicto {
			log.Ctx(ctx).Info().Str("sala", candidate.Sala).Msg("sala already booked")
			gctx.AbortWithStatusJSON(http.StatusConflict, NewError("sala already booked", ErrSalaOcupada))

			return
		}
	}

	saved, err := h.repository.SaveEvento(ctx, NuevoEvento(candidate))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("saving evento failed")
		gctx.AbortWithStatusJSON(http.StatusInternalServerError, NewError("saving evento failed", err))

		return
	}

	log.Ctx(ctx).Info().Str("evento_id", saved.Id).Msg("evento created")
	gctx.JSON(http.StatusCreated, saved)
}

// PostValidarEvento runs the validators without storing anything.
func (h *handlers) PostValidarEvento(gctx *gin.Context) {
	candidate, ok := h.bindEvento(gctx)
	if !ok {
		return
	}

	resultado := h.eventos.ValidarDatosEvento(candidate)
	h.metrics.Observe(gctx.Request.Context(), "evento", len(resultado.Errores))

	response := validacionResponse{Resultado: resultado}

	if candidate.FechaInicio != nil {
		horario := h.eventos.ValidarHorarioDisponible(*candidate.FechaInicio, candidate.Modalidad)
		response.Horario = &horario
	}

	gctx.JSON(http.StatusOK, response)
}

func (h *handlers) GetReglas(gctx *gin.Context) {
	gctx.JSON(http.StatusOK, h.eventos.Limites())
}

func (h *handlers) GetEventos(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	body, err := io.ReadAll(gctx.Request.Body)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to read request body")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to read request body", err))

		return
	}

	if len(body) != 0 {
		log.Ctx(ctx).Error().Msg("request body is not empty")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("request body is not empty"))

		return
	}

	id := gctx.Param("id")
	if len(id) == 0 {
		log.Ctx(ctx).Error().Msg("parameter 'id' is required")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("parameter 'id' is required"))

		return
	}

	evento, err := h.repository.GetEventoById(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEventoNotFound) {
			log.Ctx(ctx).Info().Str("evento_id", id).Msg("evento not found")
			gctx.AbortWithStatusJSON(http.StatusNotFound, NewError("evento not found", err))

			return
		}

		log.Ctx(ctx).Error().Err(err).Msg("getting evento failed")
		gctx.AbortWithStatusJSON(http.StatusInternalServerError, NewError("getting evento failed", err))

		return
	}

	gctx.JSON(http.StatusOK, evento)
}

func (h *handlers) PostInscripciones(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req EnrollmentRequest

	err := gctx.ShouldBindJSON(&req)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to bind JSON", err))

		return
	}

	resultado := h.inscripciones.ValidarInscripcion(req)
	h.metrics.Observe(ctx, "inscripcion", len(resultado.Errores))

	if !resultado.Valido {
		log.Ctx(ctx).Warn().Strs("errores", resultado.Errores).Msg("inscripcion validation failed")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, resultado)

		return
	}

	_, err = h.repository.GetEventoById(ctx, string(req.EventoId))
	if err != nil {
		if errors.Is(err, ErrEventoNotFound) {
			gctx.AbortWithStatusJSON(http.StatusNotFound, NewError("evento not found", err))
			return
		}

		log.Ctx(ctx).Error().Err(err).Msg("getting evento failed")
		gctx.AbortWithStatusJSON(http.StatusInternalServerError, NewError("getting evento failed", err))

		return
	}

	saved, err := h.repository.SaveInscripcion(ctx, &Inscripcion{
		EventoId:          req.EventoId,
		ParejaAlumnoEmail: req.ParejaAlumnoEmail,
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("saving inscripcion failed")
		gctx.AbortWithStatusJSON(http.StatusInternalServerError, NewError("saving inscripcion failed", err))

		return
	}

	gctx.JSON(http.StatusCreated, saved)
}

func (h *handlers) GetHealth(gctx *gin.Context) {
	gctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
