// Package schedule owns the per-provider weekly working-hours table and
// the service catalog. Both are configuration read by the scheduling
// engine; they are only mutated through explicit settings updates. No
// semantic validation happens here; the availability resolver re-checks
// start < end defensively at the point of use.
package schedule

import (
	"context"
	"errors"
	"time"

	"braidpro/internal/model"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	// ErrDuplicateService means the provider already has a different service
	// under the requested name, or the id belongs to another provider.
	ErrDuplicateService = errors.New("service name already in use")
)

// closedDefault is returned for weekdays with no configuration entry.
var closedDefault = model.WorkingDay{IsOpen: false, Start: "09:00", End: "18:00"}

type Store interface {
	// GetWorkingDay returns the configured entry for the weekday, or a safe
	// closed default when absent.
	GetWorkingDay(ctx context.Context, providerID string, weekday time.Weekday) (model.WorkingDay, error)
	// SetWorkingDay merges a partial update into the weekday's entry.
	SetWorkingDay(ctx context.Context, providerID string, weekday time.Weekday, patch model.WorkingDayPatch) error
	GetWeek(ctx context.Context, providerID string) (model.WeeklySchedule, error)
}

type Catalog interface {
	ListServices(ctx context.Context, providerID string) ([]model.Service, error)
	GetService(ctx context.Context, providerID, name string) (model.Service, error)
	UpsertService(ctx context.Context, providerID string, svc model.Service) error
	DeleteService(ctx context.Context, providerID, id string) error
}
