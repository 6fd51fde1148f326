package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Estado string

const (
	EstadoPendiente  Estado = "pendiente"
	EstadoConfirmado Estado = "confirmado"
	EstadoTentativo  Estado = "tentativo"
	EstadoCancelado  Estado = "cancelado"
)

type TipoEvento string

const (
	TipoEvaluacion TipoEvento = "evaluacion"
	TipoReunion    TipoEvento = "reunion"
	TipoClase      TipoEvento = "clase"
)

type Modalidad string

const (
	ModalidadPresencial Modalidad = "presencial"
	ModalidadOnline     Modalidad = "online"
)

// Identificador is an opaque id. JSON numbers and strings are both accepted.
type Identificador string

func (id *Identificador) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string

		err := json.Unmarshal(data, &s)
		if err != nil {
			return fmt.Errorf("invalid identifier: %w", err)
		}

		*id = Identificador(strings.TrimSpace(s))

		return nil
	}

	var n json.Number

	err := json.Unmarshal(data, &n)
	if err != nil {
		return fmt.Errorf("invalid identifier: %w", err)
	}

	*id = Identificador(n.String())

	return nil
}

func (id Identificador) Vacio() bool {
	return strings.TrimSpace(string(id)) == ""
}

// CandidateEvent is the event a professor wants to create, before validation.
// Nil pointers and empty strings mean the field was not sent.
type CandidateEvent struct {
	Nombre            string        `json:"nombre"`
	Descripcion       string        `json:"descripcion,omitempty"`
	Estado            Estado        `json:"estado,omitempty"`
	TipoEvento        TipoEvento    `json:"tipoEvento"`
	Modalidad         Modalidad     `json:"modalidad"`
	LinkOnline        string        `json:"linkOnline,omitempty"`
	Sala              string        `json:"sala,omitempty"`
	FechaInicio       *time.Time    `json:"fechaInicio,omitempty"`
	FechaFin          *time.Time    `json:"fechaFin,omitempty"`
	CupoMaximo        *int          `json:"cupoMaximo,omitempty"`
	DuracionPorAlumno *int          `json:"duracionPorAlumno,omitempty"`
	RamoId            Identificador `json:"ramoId"`
	SeccionId         Identificador `json:"seccionId"`
}

// Evento is a stored event.
type Evento struct {
	Id string `json:"id"`
	CandidateEvent
	CreatedAt time.Time `json:"createdAt"`
}

// NuevoEvento prepares a validated candidate for storage. A missing estado defaults to pendiente.
func NuevoEvento(candidate CandidateEvent) *Evento {
	candidate.Nombre = strings.TrimSpace(candidate.Nombre)
	if candidate.Estado == "" {
		candidate.Estado = EstadoPendiente
	}

	return &Evento{CandidateEvent: candidate}
}

type EnrollmentRequest struct {
	EventoId          Identificador `json:"eventoId"                    validate:"required"`
	ParejaAlumnoEmail string        `json:"parejaAlumnoEmail,omitempty" validate:"omitempty,email_basico"`
}

type Inscripcion struct {
	Id                string        `json:"id"`
	EventoId          Identificador `json:"eventoId"`
	ParejaAlumnoEmail string        `json:"parejaAlumnoEmail,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// Resultado is the outcome of a validator: Valido is true iff Errores is empty.
type Resultado struct {
	Valido  bool     `json:"valido"`
	Errores []string `json:"errores"`
}

func nuevoResultado(errores []string) Resultado {
	if errores == nil {
		errores = []string{}
	}

	return Resultado{Valido: len(errores) == 0, Errores: errores}
}

type ResultadoHorario struct {
	Valido  bool   `json:"valido"`
	Mensaje string `json:"mensaje,omitempty"`
}
