package core

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const FormatoFecha = "dd/mm/yyyy HH:MM"

var (
	ErrFormatoFecha = errors.New("invalid date, expected " + FormatoFecha)

	formatoFechaRegex = regexp.MustCompile(`^\d{2}/\d{2}/\d{4} \d{2}:\d{2}$`)
)

// ValidarFormatoFecha reports whether fecha has the dd/mm/yyyy HH:MM shape. Ranges are not checked.
func ValidarFormatoFecha(fecha string) bool {
	return formatoFechaRegex.MatchString(fecha)
}

// ParsearFecha splits a dd/mm/yyyy HH:MM string and builds the time in location.
// Out of range components are normalized by time.Date (day 32 rolls into the next month),
// so callers check the shape with ValidarFormatoFecha first.
func ParsearFecha(fecha string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.Local
	}

	partes := strings.FieldsFunc(fecha, func(r rune) bool {
		return r == '/' || r == ' ' || r == ':'
	})
	if len(partes) != 5 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrFormatoFecha, fecha)
	}

	var n [5]int

	for i, parte := range partes {
		v, err := strconv.Atoi(parte)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %w", ErrFormatoFecha, fecha, err)
		}

		n[i] = v
	}

	dia, mes, anio, hora, minuto := n[0], n[1], n[2], n[3], n[4]

	return time.Date(anio, time.Month(mes), dia, hora, minuto, 0, 0, location), nil
}
