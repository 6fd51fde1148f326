package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eventoColumnNames = []string{
	"id", "nombre", "descripcion", "estado", "tipo_evento", "modalidad", "link_online", "sala",
	"fecha_inicio", "fecha_fin", "cupo_maximo", "duracion_por_alumno", "ramo_id", "seccion_id", "created_at",
}

const eventoUUID = "7f1c7c36-6a51-4b8f-9b0a-6c1d2f3e4a5b"

func TestApplySchema(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		mock, err := pgxmock.NewPool()
		require.NoError(t, err)

		defer mock.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS eventos").WillReturnResult(pgxmock.NewResult("CREATE", 0))

		require.NoError(t, ApplySchema(context.Background(), mock))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()

		mock, err := pgxmock.NewPool()
		require.NoError(t, err)

		defer mock.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS eventos").WillReturnError(errors.New("permission denied"))

		err = ApplySchema(context.Background(), mock)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "permission denied")
	})
}

func TestRepository_SaveEvento(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inicio := time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)
	fin := inicio.Add(90 * time.Minute)
	cupo := ptr(40)

	newEvento := func() *Evento {
		return NuevoEvento(CandidateEvent{
			Nombre:      "Certamen 1",
			TipoEvento:  TipoEvaluacion,
			Modalidad:   ModalidadPresencial,
			Sala:        "A-101",
			FechaInicio: ptr(inicio),
			FechaFin:    ptr(fin),
			CupoMaximo:  cupo,
			RamoId:      "12",
			SeccionId:   "3",
		})
	}

	expectInsert := func(mock pgxmock.PgxPoolIface) *pgxmock.ExpectedQuery {
		return mock.ExpectQuery("INSERT INTO eventos").
			WithArgs("Certamen 1", "", "pendiente", "evaluacion", "presencial", "", "A-101",
				inicio, fin, cupo, (*int)(nil), "12", "3")
	}

	tests := []struct {
		name       string
		mockSetup  func(mock pgxmock.PgxPoolIface)
		wantErr    bool
		wantResult *Evento
	}{
		{
			name: "success",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()

				rows := pgxmock.NewRows(eventoColumnNames).
					AddRow(eventoUUID, "Certamen 1", "", "pendiente", "evaluacion", "presencial", "", "A-101",
						inicio, fin, cupo, nil, "12", "3", inicio)
				expectInsert(mock).WillReturnRows(rows)
				mock.ExpectCommit()
			},
			wantResult: &Evento{
				Id: eventoUUID,
				CandidateEvent: CandidateEvent{
					Nombre:      "Certamen 1",
					Estado:      EstadoPendiente,
					TipoEvento:  TipoEvaluacion,
					Modalidad:   ModalidadPresencial,
					Sala:        "A-101",
					FechaInicio: ptr(inicio),
					FechaFin:    ptr(fin),
					CupoMaximo:  cupo,
					RamoId:      "12",
					SeccionId:   "3",
				},
				CreatedAt: inicio,
			},
		},
		{
			name: "begin failure",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin().WillReturnError(errors.New("begin error"))
			},
			wantErr: true,
		},
		{
			name: "insert failure rolls back",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				expectInsert(mock).WillReturnError(errors.New("check constraint"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
		{
			name: "commit failure",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()

				rows := pgxmock.NewRows(eventoColumnNames).
					AddRow(eventoUUID, "Certamen 1", "", "pendiente", "evaluacion", "presencial", "", "A-101",
						inicio, fin, cupo, nil, "12", "3", inicio)
				expectInsert(mock).WillReturnRows(rows)
				mock.ExpectCommit().WillReturnError(errors.New("commit error"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewPool()
			require.NoError(t, err)

			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewRepository(mock)
			got, err := repo.SaveEvento(ctx, newEvento())

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantResult, got)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_GetEventoById(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inicio := time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		id        string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
		wantName  string
	}{
		{
			name: "success",
			id:   eventoUUID,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(eventoColumnNames).
					AddRow(eventoUUID, "Reunión de apelaciones", "", "confirmado", "reunion", "online",
						"https://meet.example.com/x", "", inicio, inicio.Add(time.Hour), nil, nil, "12", "3", inicio)
				mock.ExpectQuery("SELECT (.+) FROM eventos WHERE id = \\$1").
					WithArgs(eventoUUID).
					WillReturnRows(rows)
			},
			wantName: "Reunión de apelaciones",
		},
		{
			name: "no rows",
			id:   eventoUUID,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT (.+) FROM eventos WHERE id = \\$1").
					WithArgs(eventoUUID).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: ErrEventoNotFound,
		},
		{
			name:      "not a uuid",
			id:        "42",
			mockSetup: func(mock pgxmock.PgxPoolIface) {},
			wantErr:   ErrEventoNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewPool()
			require.NoError(t, err)

			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewRepository(mock)
			got, err := repo.GetEventoById(ctx, tt.id)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantName, got.Nombre)
				assert.Equal(t, ModalidadOnline, got.Modalidad)
				assert.Nil(t, got.CupoMaximo)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("query error", func(t *testing.T) {
		t.Parallel()

		mock, err := pgxmock.NewPool()
		require.NoError(t, err)

		defer mock.Close()

		mock.ExpectQuery("SELECT (.+) FROM eventos WHERE id = \\$1").
			WithArgs(eventoUUID).
			WillReturnError(errors.New("connection reset"))

		_, err = NewRepository(mock).GetEventoById(ctx, eventoUUID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrEventoNotFound)
	})
}

func TestRepository_ExisteConflictoSala(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inicio := time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)
	fin := inicio.Add(time.Hour)

	for _, existe := range []bool{true, false} {
		t.Run(fmt.Sprintf("exists=%t", existe), func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewPool()
			require.NoError(t, err)

			defer mock.Close()

			mock.ExpectQuery("SELECT EXISTS").
				WithArgs("A-101", inicio, fin).
				WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(existe))

			got, err := NewRepository(mock).ExisteConflictoSala(ctx, "A-101", inicio, fin)
			require.NoError(t, err)
			assert.Equal(t, existe, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("query error", func(t *testing.T) {
		t.Parallel()

		mock, err := pgxmock.NewPool()
		require.NoError(t, err)

		defer mock.Close()

		mock.ExpectQuery("SELECT EXISTS").WillReturnError(errors.New("timeout"))

		_, err = NewRepository(mock).ExisteConflictoSala(ctx, "A-101", inicio, fin)
		require.Error(t, err)
	})
}

func TestRepository_SaveInscripcion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		mock, err := pgxmock.NewPool()
		require.NoError(t, err)

		defer mock.Close()

		rows := pgxmock.NewRows([]string{"id", "evento_id", "pareja_alumno_email", "created_at"}).
			AddRow("0b7e9a0e-61c4-4a4b-8a39-17f0b1b60e11", eventoUUID, "ana@usm.cl", now)
		mock.ExpectQuery("INSERT INTO inscripciones").
			WithArgs(pgxmock.AnyArg(), eventoUUID, "ana@usm.cl").
			WillReturnRows(rows)

		got, err := NewRepository(mock).SaveInscripcion(ctx, &Inscripcion{EventoId: eventoUUID, ParejaAlumnoEmail: "ana@usm.cl"})
		require.NoError(t, err)

		assert.Equal(t, &Inscripcion{
			Id:                "0b7e9a0e-61c4-4a4b-8a39-17f0b1b60e11",
			EventoId:          eventoUUID,
			ParejaAlumnoEmail: "ana@usm.cl",
			CreatedAt:         now,
		}, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign key violation", func(t *testing.T) {
		t.Parallel()

		mock, err := pgxmock.NewPool()
		require.NoError(t, err)

		defer mock.Close()

		mock.ExpectQuery("INSERT INTO inscripciones").WillReturnError(errors.New("violates foreign key constraint"))

		_, err = NewRepository(mock).SaveInscripcion(ctx, &Inscripcion{EventoId: eventoUUID})
		require.Error(t, err)
	})
}
