package core

// ReglaDescripcion describes one entry of the event rule table.
type ReglaDescripcion struct {
	Campo                 string             `json:"campo"`
	Mensaje               string             `json:"mensaje"`
}

type VentanaHoraria struct {
	Desde                 float64            `json:"desde"`
	Hasta                 float64            `json:"hasta"`
}

// Limites is the rule set in a form clients can consume instead of re-encoding it.
type Limites struct {
	NombreMaxLength       int                `json:"nombreMaxLength"`
	DescripcionMaxLength  int                `json:"descripcionMaxLength"`
	Estados               []Estado           `json:"estados"`
	TiposEvento           []TipoEvento       `json:"tiposEvento"`
	Modalidades           []Modalidad        `json:"modalidades"`
	LinkOnlinePattern     string             `json:"linkOnlinePattern"`
	DuracionMinimaMinutos int                `json:"duracionMinimaMinutos"`
	CupoMaximo            [2]int             `json:"cupoMaximo"`
	DuracionPorAlumno     [2]int             `json:"duracionPorAlumno"`
	HorarioPresencial     VentanaHoraria     `json:"horarioPresencial"`
	BloqueoOnline         VentanaHoraria     `json:"bloqueoOnline"`
	FormatoFecha          string             `json:"formatoFecha"`
	EmailPattern          string             `json:"emailPattern"`
	ZonaHoraria           string             `json:"zonaHoraria"`
	Reglas                []ReglaDescripcion `json:"reglas"`
}

func (v *EventValidator) Limites() Limites {
	reglas := make([]ReglaDescripcion, 0, len(reglasEvento))
	for _, r := range reglasEvento {
		reglas = append(reglas, ReglaDescripcion{Campo: r.campo, Mensaje: r.mensaje})
	}

	return Limites{
		NombreMaxLength:       NombreMaxLength,
		DescripcionMaxLength:  DescripcionMaxLength,
		Estados:               Estados,
		TiposEvento:           TiposEvento,
		Modalidades:           Modalidades,
		LinkOnlinePattern:     LinkOnlinePattern,
		DuracionMinimaMinutos: int(DuracionMinimaEvento.Minutes()),
		CupoMaximo:            [2]int{CupoMaximoMin, CupoMaximoMax},
		DuracionPorAlumno:     [2]int{DuracionPorAlumnoMin, DuracionPorAlumnoMax},
		HorarioPresencial:     VentanaHoraria{Desde: PresencialDesde, Hasta: PresencialHasta},
		BloqueoOnline:         VentanaHoraria{Desde: OnlineBloqueoDesde, Hasta: OnlineBloqueoHasta},
		FormatoFecha:          FormatoFecha,
		EmailPattern:          EmailPattern,
		ZonaHoraria:           v.location.String(),
		Reglas:                reglas,
	}
}
