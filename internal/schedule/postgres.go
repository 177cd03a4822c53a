package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"braidpro/internal/model"
	"braidpro/libs/db"
)

type PostgresStore struct {
	pool *db.Pool
}

func NewPostgresStore(pool *db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) GetWorkingDay(ctx context.Context, providerID string, weekday time.Weekday) (model.WorkingDay, error) {
	var day model.WorkingDay
	err := s.pool.QueryRow(ctx, `
		SELECT is_open, start_time, end_time
		FROM provider_working_hours
		WHERE provider_id = $1 AND weekday = $2
	`, providerID, int(weekday)).Scan(&day.IsOpen, &day.Start, &day.End)
	if err == nil {
		return day, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return closedDefault, nil
	}
	return model.WorkingDay{}, err
}

func (s *PostgresStore) SetWorkingDay(ctx context.Context, providerID string, weekday time.Weekday, patch model.WorkingDayPatch) error {
	// Read-merge-write; settings updates are rare and uncontended.
	day, err := s.GetWorkingDay(ctx, providerID, weekday)
	if err != nil {
		return err
	}
	day = day.Merge(patch)

	_, err = s.pool.Exec(ctx, `
		INSERT INTO provider_working_hours (provider_id, weekday, is_open, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provider_id, weekday) DO UPDATE
		SET is_open = EXCLUDED.is_open,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time
	`, providerID, int(weekday), day.IsOpen, day.Start, day.End)
	return err
}

func (s *PostgresStore) GetWeek(ctx context.Context, providerID string) (model.WeeklySchedule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT weekday, is_open, start_time, end_time
		FROM provider_working_hours
		WHERE provider_id = $1
		ORDER BY weekday ASC
	`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	week := model.WeeklySchedule{}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		week[wd] = closedDefault
	}
	for rows.Next() {
		var wd int
		var day model.WorkingDay
		if err := rows.Scan(&wd, &day.IsOpen, &day.Start, &day.End); err != nil {
			return nil, err
		}
		week[time.Weekday(wd)] = day
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return week, nil
}

func (s *PostgresStore) ListServices(ctx context.Context, providerID string) ([]model.Service, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, name, avg_time, price, description, material_req
		FROM provider_services
		WHERE provider_id = $1
		ORDER BY created_at ASC
	`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Service
	for rows.Next() {
		var svc model.Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.AvgTime, &svc.Price, &svc.Description, &svc.MaterialReq); err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (s *PostgresStore) GetService(ctx context.Context, providerID, name string) (model.Service, error) {
	var svc model.Service
	err := s.pool.QueryRow(ctx, `
		SELECT id::text, name, avg_time, price, description, material_req
		FROM provider_services
		WHERE provider_id = $1 AND name = $2
	`, providerID, name).Scan(&svc.ID, &svc.Name, &svc.AvgTime, &svc.Price, &svc.Description, &svc.MaterialReq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Service{}, ErrServiceNotFound
		}
		return model.Service{}, err
	}
	return svc, nil
}

func (s *PostgresStore) UpsertService(ctx context.Context, providerID string, svc model.Service) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO provider_services (id, provider_id, name, avg_time, price, description, material_req)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			avg_time = EXCLUDED.avg_time,
			price = EXCLUDED.price,
			description = EXCLUDED.description,
			material_req = EXCLUDED.material_req
		WHERE provider_services.provider_id = EXCLUDED.provider_id
	`, svc.ID, providerID, svc.Name, svc.AvgTime, svc.Price, svc.Description, svc.MaterialReq)
	if err != nil {
		// A fresh id reusing a taken name trips UNIQUE (provider_id, name).
		if isUniqueViolation(err) {
			return ErrDuplicateService
		}
		return err
	}
	// Zero rows means the id belongs to another provider; the guarded
	// update refused to touch their row.
	if tag.RowsAffected() == 0 {
		return ErrDuplicateService
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *PostgresStore) DeleteService(ctx context.Context, providerID, id string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM provider_services
		WHERE provider_id = $1 AND id = $2
	`, providerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}
