package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"braidpro/internal/model"
)

// Sink adapts the outbox to the booking engine's event interface. It is
// called only after a successful repository commit; a failed outbox write
// is logged rather than surfaced, because the appointment itself is already
// safely stored and sync is best-effort.
type Sink struct {
	repo   *Repository
	logger *slog.Logger
}

func NewSink(repo *Repository, logger *slog.Logger) *Sink {
	return &Sink{repo: repo, logger: logger}
}

func (s *Sink) AppointmentCreated(ctx context.Context, appt model.Appointment) {
	s.insert(ctx, EventAppointmentCreated, appt)
}

func (s *Sink) AppointmentCancelled(ctx context.Context, appt model.Appointment) {
	s.insert(ctx, EventAppointmentCancelled, appt)
}

func (s *Sink) insert(ctx context.Context, eventType string, appt model.Appointment) {
	payload, err := json.Marshal(map[string]any{
		"appointment_id": appt.ID,
		"provider_id":    appt.ProviderID,
		"client_name":    appt.ClientName,
		"service":        appt.Service,
		"date":           appt.Date,
		"time":           appt.Time,
		"status":         string(appt.Status),
		"origin":         string(appt.Origin),
		"created_at":     appt.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Error("failed to build sync event payload", "err", err)
		return
	}
	if err := s.repo.Insert(ctx, Event{
		AggregateID: appt.ID,
		EventType:   eventType,
		Payload:     payload,
	}); err != nil {
		s.logger.Error("failed to enqueue sync event", "err", err, "event_type", eventType)
	}
}
