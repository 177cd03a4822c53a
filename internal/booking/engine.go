// Package booking is the single write path that creates appointments. Both
// the provider's manual flow and the public wizard funnel through
// Engine.Book, which re-validates availability at commit time and lets the
// repository's atomic Add settle any remaining race.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"braidpro/internal/availability"
	"braidpro/internal/model"
	"braidpro/internal/schedule"
	"braidpro/internal/storage"
	"braidpro/internal/timeutil"
)

// EventSink receives appointment lifecycle events after a successful
// commit, never before. The production sink is the transactional outbox
// feeding the external calendar-sync topic.
type EventSink interface {
	AppointmentCreated(ctx context.Context, appt model.Appointment)
	AppointmentCancelled(ctx context.Context, appt model.Appointment)
}

// NopSink drops events; used when no sync target is configured.
type NopSink struct{}

func (NopSink) AppointmentCreated(context.Context, model.Appointment)   {}
func (NopSink) AppointmentCancelled(context.Context, model.Appointment) {}

type Request struct {
	ClientName  string
	ClientPhone string
	Service     string
	Date        string // YYYY-MM-DD
	Time        string // HH:MM
	Notes       string
	Origin      model.Origin
}

type Engine struct {
	repo     storage.AppointmentRepository
	sched    schedule.Store
	sink     EventSink
	tokens   TokenStore
	location *time.Location
	now      func() time.Time
}

type Option func(*Engine)

// WithClock overrides the engine's notion of now. Tests use it; production
// wiring never does.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.location = loc }
}

func NewEngine(repo storage.AppointmentRepository, sched schedule.Store, sink EventSink, tokens TokenStore, opts ...Option) *Engine {
	e := &Engine{
		repo:     repo,
		sched:    sched,
		sink:     sink,
		tokens:   tokens,
		location: time.Local,
		now:      time.Now,
	}
	if e.sink == nil {
		e.sink = NopSink{}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today returns the current date key in the provider's location. Callers
// that default a date range must use this, not the server clock: near
// midnight the two disagree on what day it is.
func (e *Engine) Today() string {
	return timeutil.DateKey(e.now().In(e.location))
}

// Slots resolves the open slots for a date. Advisory only: state may change
// before Book commits.
func (e *Engine) Slots(ctx context.Context, providerID, date string) ([]string, error) {
	weekday, err := timeutil.Weekday(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	day, err := e.sched.GetWorkingDay(ctx, providerID, weekday)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	taken, err := e.repo.ListByDay(ctx, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return availability.Resolve(day, taken), nil
}

// Book validates the request, re-checks availability, and persists a
// confirmed appointment. On any failure there are no partial side effects.
func (e *Engine) Book(ctx context.Context, providerID string, req Request) (model.Appointment, error) {
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.ClientPhone = strings.TrimSpace(req.ClientPhone)
	req.Service = strings.TrimSpace(req.Service)

	if providerID == "" {
		return model.Appointment{}, fmt.Errorf("%w: provider id required", ErrInvalidInput)
	}
	if req.ClientName == "" {
		return model.Appointment{}, fmt.Errorf("%w: client name required", ErrInvalidInput)
	}
	if req.Service == "" {
		return model.Appointment{}, fmt.Errorf("%w: service required", ErrInvalidInput)
	}
	if !model.ValidOrigin(req.Origin) {
		return model.Appointment{}, fmt.Errorf("%w: unknown origin %q", ErrInvalidInput, req.Origin)
	}
	if !timeutil.ValidClock(req.Time) {
		return model.Appointment{}, fmt.Errorf("%w: malformed time %q", ErrInvalidInput, req.Time)
	}
	if _, err := timeutil.ParseDate(req.Date, e.location); err != nil {
		return model.Appointment{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Self-service bookings may not target the past. Manual entries may:
	// providers backfill appointments they took over the phone.
	if req.Origin == model.OriginPublicLink && req.Date < e.Today() {
		return model.Appointment{}, fmt.Errorf("%w: date %s is in the past", ErrInvalidInput, req.Date)
	}

	// Re-validate: whatever slot list the caller saw may be stale.
	slots, err := e.Slots(ctx, providerID, req.Date)
	if err != nil {
		return model.Appointment{}, err
	}
	if !availability.Contains(slots, req.Time) {
		return model.Appointment{}, fmt.Errorf("%w: %s %s", ErrSlotUnavailable, req.Date, req.Time)
	}

	appt := model.Appointment{
		ID:          uuid.NewString(),
		ProviderID:  providerID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		Service:     req.Service,
		Date:        req.Date,
		Time:        req.Time,
		Status:      model.StatusConfirmed,
		Origin:      req.Origin,
		Notes:       req.Notes,
		CreatedAt:   e.now(),
	}

	if err := e.repo.Add(ctx, appt); err != nil {
		if errors.Is(err, storage.ErrDuplicateSlot) {
			// Lost the race against a concurrent booking; same answer as a
			// stale slot list.
			return model.Appointment{}, fmt.Errorf("%w: %s %s", ErrSlotUnavailable, req.Date, req.Time)
		}
		return model.Appointment{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.sink.AppointmentCreated(ctx, appt)
	return appt, nil
}

// RequestCancel issues a single-use confirmation token for cancelling an
// appointment. The two-phase shape keeps the destructive-action guard
// testable outside any UI.
func (e *Engine) RequestCancel(ctx context.Context, providerID, apptID string) (string, error) {
	if _, err := e.repo.Get(ctx, providerID, apptID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	token := uuid.NewString()
	if err := e.tokens.Put(ctx, token, providerID, apptID); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return token, nil
}

// CommitCancel consumes a confirmation token and flips the appointment to
// cancelled. The record is kept for history; cancellation targets an id,
// never a (date, time) pair, so it cannot disturb a slot that has since
// been rebooked.
func (e *Engine) CommitCancel(ctx context.Context, providerID, token string) (model.Appointment, error) {
	apptID, ok, err := e.tokens.Consume(ctx, token, providerID)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !ok {
		return model.Appointment{}, fmt.Errorf("%w: unknown or expired cancel token", ErrInvalidInput)
	}

	if err := e.repo.Cancel(ctx, providerID, apptID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.Appointment{}, ErrNotFound
		}
		return model.Appointment{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	appt, err := e.repo.Get(ctx, providerID, apptID)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	e.sink.AppointmentCancelled(ctx, appt)
	return appt, nil
}

// Complete marks a kept appointment as completed.
func (e *Engine) Complete(ctx context.Context, providerID, apptID string) error {
	if err := e.repo.Complete(ctx, providerID, apptID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Delete hard-removes an appointment. Reserved for the provider's
// manual-entry correction path; client-facing cancellation goes through the
// two-phase cancel and keeps the record.
func (e *Engine) Delete(ctx context.Context, providerID, apptID string) error {
	if err := e.repo.Delete(ctx, providerID, apptID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
