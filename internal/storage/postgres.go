package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"braidpro/internal/model"
	"braidpro/libs/db"
)

// PostgresRepository persists appointments in Postgres. Atomicity of the
// occupancy check relies on the partial unique index on
// (provider_id, date, time) WHERE status <> 'cancelled' (see
// migrations/001_init.sql), so concurrent inserts race at the index, not in
// application code.
type PostgresRepository struct {
	pool *db.Pool
}

func NewPostgresRepository(pool *db.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const apptColumns = `
	id::text, provider_id, client_name, client_phone, service,
	date, time, status, origin, notes, COALESCE(external_event_id, ''), created_at`

func (r *PostgresRepository) Add(ctx context.Context, appt model.Appointment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments
			(id, provider_id, client_name, client_phone, service, date, time, status, origin, notes, external_event_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''))
	`, appt.ID, appt.ProviderID, appt.ClientName, appt.ClientPhone, appt.Service,
		appt.Date, appt.Time, string(appt.Status), string(appt.Origin), appt.Notes, appt.ExternalEventID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlot
		}
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, providerID, id string) (model.Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE provider_id = $1 AND id = $2
	`, providerID, id)
	return scanAppointment(row)
}

func (r *PostgresRepository) ListByDay(ctx context.Context, providerID, date string) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE provider_id = $1 AND date = $2
		ORDER BY time ASC, seq ASC
	`, providerID, date)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func (r *PostgresRepository) ListUpcoming(ctx context.Context, providerID, fromDateExclusive string, limit int) ([]model.Appointment, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE provider_id = $1 AND date > $2
		ORDER BY date ASC, time ASC, seq ASC
		LIMIT $3
	`, providerID, fromDateExclusive, limit)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func (r *PostgresRepository) ListByMonth(ctx context.Context, providerID string, year int, month int) ([]model.Appointment, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE provider_id = $1 AND date LIKE $2 || '%'
		ORDER BY date ASC, time ASC, seq ASC
	`, providerID, prefix)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func (r *PostgresRepository) Cancel(ctx context.Context, providerID, id string) error {
	return r.setStatus(ctx, providerID, id, model.StatusCancelled)
}

func (r *PostgresRepository) Complete(ctx context.Context, providerID, id string) error {
	return r.setStatus(ctx, providerID, id, model.StatusCompleted)
}

func (r *PostgresRepository) setStatus(ctx context.Context, providerID, id string, status model.Status) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET status = $3
		WHERE provider_id = $1 AND id = $2
	`, providerID, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, providerID, id string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM appointments
		WHERE provider_id = $1 AND id = $2
	`, providerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAppointment(row pgx.Row) (model.Appointment, error) {
	var a model.Appointment
	var status, origin string
	err := row.Scan(
		&a.ID, &a.ProviderID, &a.ClientName, &a.ClientPhone, &a.Service,
		&a.Date, &a.Time, &status, &origin, &a.Notes, &a.ExternalEventID, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Appointment{}, ErrNotFound
		}
		return model.Appointment{}, err
	}
	a.Status = model.Status(status)
	a.Origin = model.Origin(origin)
	return a, nil
}

func scanAppointments(rows pgx.Rows) ([]model.Appointment, error) {
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
