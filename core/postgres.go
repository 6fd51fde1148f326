package core

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"evaluaciones/pkg/resources"
)

//go:embed schema.sql
var schema string

const eventoColumns = "id, nombre, descripcion, estado, tipo_evento, modalidad, link_online, sala, " +
	"fecha_inicio, fecha_fin, cupo_maximo, duracion_por_alumno, ramo_id, seccion_id, created_at"

type Repository interface {
	SaveEvento(ctx context.Context, evento *Evento) (*Evento, error)
	GetEventoById(ctx context.Context, id string) (*Evento, error)
	ExisteConflictoSala(ctx context.Context, sala string, inicio time.Time, fin time.Time) (bool, error)
	SaveInscripcion(ctx context.Context, inscripcion *Inscripcion) (*Inscripcion, error)
}

type repository struct {
	tracer  trace.Tracer
	metrics *DBMetrics
	pool    resources.DBInstance
}

func NewRepository(pool resources.DBInstance) Repository {
	return &repository{
		tracer:  otel.GetTracerProvider().Tracer("evaluaciones/core"),
		metrics: NewDBMetrics(),
		pool:    pool,
	}
}

// ApplySchema creates the tables if they do not exist yet.
func ApplySchema(ctx context.Context, pool resources.DBInstance) error {
	_, err := pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	return nil
}

func (r *repository) SaveEvento(ctx context.Context, evento *Evento) (saved *Evento, err error) {
	start := time.Now()

	defer func() { r.metrics.Observe(ctx, "save_evento", start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.SaveEvento")
	defer span.End()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	row := tx.QueryRow(ctx,
		"INSERT INTO eventos (nombre, descripcion, estado, tipo_evento, modalidad, link_online, sala, "+
			"fecha_inicio, fecha_fin, cupo_maximo, duracion_por_alumno, ramo_id, seccion_id) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) "+
			"RETURNING "+eventoColumns,
		evento.Nombre, evento.Descripcion, string(evento.Estado), string(evento.TipoEvento), string(evento.Modalidad),
		evento.LinkOnline, evento.Sala, *evento.FechaInicio, *evento.FechaFin, evento.CupoMaximo, evento.DuracionPorAlumno,
		string(evento.RamoId), string(evento.SeccionId))

	saved, err = scanEvento(row)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("failed to insert evento: %w", err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return saved, nil
}

func (r *repository) GetEventoById(ctx context.Context, id string) (evento *Evento, err error) {
	start := time.Now()

	defer func() { r.metrics.Observe(ctx, "get_evento_by_id", start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.GetEventoById")
	defer span.End()

	// ids are UUIDs; anything else cannot exist
	_, err = uuid.Parse(id)
	if err != nil {
		return nil, ErrEventoNotFound
	}

	evento, err = scanEvento(r.pool.QueryRow(ctx, "SELECT "+eventoColumns+" FROM eventos WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEventoNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get evento by id: %w", err)
	}

	return evento, nil
}

// ExisteConflictoSala reports whether a non cancelled evento already holds sala during [inicio, fin).
func (r *repository) ExisteConflictoSala(ctx context.Context, sala string, inicio time.Time, fin time.Time) (conflicto bool, err error) {
	start := time.Now()

	defer func() { r.metrics.Observe(ctx, "existe_conflicto_sala", start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.ExisteConflictoSala",
		trace.WithAttributes(attribute.String("evento.sala", sala)))
	defer span.End()

	err = r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM eventos
		   WHERE sala = $1 AND estado <> 'cancelado' AND fecha_inicio < $3 AND fecha_fin > $2
		 )`,
		sala, inicio, fin,
	).Scan(&conflicto)
	if err != nil {
		return false, fmt.Errorf("failed to check sala availability: %w", err)
	}

	return conflicto, nil
}

func (r *repository) SaveInscripcion(ctx context.Context, inscripcion *Inscripcion) (saved *Inscripcion, err error) {
	start := time.Now()

	defer func() { r.metrics.Observe(ctx, "save_inscripcion", start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.SaveInscripcion")
	defer span.End()

	var (
		out      Inscripcion
		eventoId string
	)

	err = r.pool.QueryRow(ctx,
		"INSERT INTO inscripciones (id, evento_id, pareja_alumno_email) VALUES ($1, $2, $3) "+
			"RETURNING id, evento_id, pareja_alumno_email, created_at",
		uuid.NewString(), string(inscripcion.EventoId), inscripcion.ParejaAlumnoEmail,
	).Scan(&out.Id, &eventoId, &out.ParejaAlumnoEmail, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert inscripcion: %w", err)
	}

	out.EventoId = Identificador(eventoId)

	return &out, nil
}

func scanEvento(row pgx.Row) (*Evento, error) {
	var (
		e                  Evento
		inicio, fin        time.Time
		estado, tipo, modo string
		ramoId, seccionId  string
	)

	err := row.Scan(
		&e.Id, &e.Nombre, &e.Descripcion, &estado, &tipo, &modo, &e.LinkOnline, &e.Sala,
		&inicio, &fin, &e.CupoMaximo, &e.DuracionPorAlumno, &ramoId, &seccionId, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Estado, e.TipoEvento, e.Modalidad = Estado(estado), TipoEvento(tipo), Modalidad(modo)
	e.FechaInicio, e.FechaFin = &inicio, &fin
	e.RamoId, e.SeccionId = Identificador(ramoId), Identificador(seccionId)

	return &e, nil
}

type DBMetrics struct {
	qTotal   metric.Int64Counter
	qErrors  metric.Int64Counter
	qLatency metric.Float64Histogram
}

func NewDBMetrics() *DBMetrics {
	meter := otel.Meter("evaluaciones/db")

	qTotal, _ := meter.Int64Counter("db.query.total")
	qErrors, _ := meter.Int64Counter("db.query.errors.total")
	qLatency, _ := meter.Float64Histogram("db.query.duration.ms")

	return &DBMetrics{qTotal: qTotal, qErrors: qErrors, qLatency: qLatency}
}

func (m *DBMetrics) Observe(ctx context.Context, op string, start time.Time, err error) {
	attrs := metric.WithAttributes(
		attribute.String("db.system", "postgres"),
		attribute.String("db.operation", op),
	)

	m.qTotal.Add(ctx, 1, attrs)
	m.qLatency.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)

	if err != nil {
		m.qErrors.Add(ctx, 1, attrs)
	}
}
