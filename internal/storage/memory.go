package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"braidpro/internal/model"
)

// MemoryRepository keeps appointments in process memory. The mutex makes
// Add's check-then-insert atomic, which is the whole double-booking
// guarantee in a single-process deployment. Listings preserve insertion
// order for equal (date, time) via a monotonic sequence number.
type MemoryRepository struct {
	mu    sync.Mutex
	seq   uint64
	appts map[string]memoryRecord // key: providerID + "/" + id
}

type memoryRecord struct {
	appt model.Appointment
	seq  uint64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{appts: map[string]memoryRecord{}}
}

func (r *MemoryRepository) key(providerID, id string) string {
	return providerID + "/" + id
}

func (r *MemoryRepository) Add(_ context.Context, appt model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.appts {
		other := rec.appt
		if other.ProviderID == appt.ProviderID &&
			other.Date == appt.Date &&
			other.Time == appt.Time &&
			other.Occupies() && appt.Occupies() {
			return ErrDuplicateSlot
		}
	}
	if _, exists := r.appts[r.key(appt.ProviderID, appt.ID)]; exists {
		return fmt.Errorf("duplicate appointment id %s", appt.ID)
	}
	r.seq++
	r.appts[r.key(appt.ProviderID, appt.ID)] = memoryRecord{appt: appt, seq: r.seq}
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, providerID, id string) (model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.appts[r.key(providerID, id)]
	if !ok {
		return model.Appointment{}, ErrNotFound
	}
	return rec.appt, nil
}

func (r *MemoryRepository) ListByDay(_ context.Context, providerID, date string) ([]model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []memoryRecord
	for _, rec := range r.appts {
		if rec.appt.ProviderID == providerID && rec.appt.Date == date {
			out = append(out, rec)
		}
	}
	return sorted(out), nil
}

func (r *MemoryRepository) ListUpcoming(_ context.Context, providerID, fromDateExclusive string, limit int) ([]model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []memoryRecord
	for _, rec := range r.appts {
		if rec.appt.ProviderID == providerID && rec.appt.Date > fromDateExclusive {
			out = append(out, rec)
		}
	}
	appts := sorted(out)
	if limit > 0 && len(appts) > limit {
		appts = appts[:limit]
	}
	return appts, nil
}

func (r *MemoryRepository) ListByMonth(_ context.Context, providerID string, year int, month int) ([]model.Appointment, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)

	r.mu.Lock()
	defer r.mu.Unlock()

	var out []memoryRecord
	for _, rec := range r.appts {
		if rec.appt.ProviderID == providerID && len(rec.appt.Date) >= len(prefix) && rec.appt.Date[:len(prefix)] == prefix {
			out = append(out, rec)
		}
	}
	return sorted(out), nil
}

func (r *MemoryRepository) Cancel(_ context.Context, providerID, id string) error {
	return r.setStatus(providerID, id, model.StatusCancelled)
}

func (r *MemoryRepository) Complete(_ context.Context, providerID, id string) error {
	return r.setStatus(providerID, id, model.StatusCompleted)
}

func (r *MemoryRepository) setStatus(providerID, id string, status model.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.appts[r.key(providerID, id)]
	if !ok {
		return ErrNotFound
	}
	rec.appt.Status = status
	r.appts[r.key(providerID, id)] = rec
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, providerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appts[r.key(providerID, id)]; !ok {
		return ErrNotFound
	}
	delete(r.appts, r.key(providerID, id))
	return nil
}

func sorted(records []memoryRecord) []model.Appointment {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i].appt, records[j].appt
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return records[i].seq < records[j].seq
	})
	out := make([]model.Appointment, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.appt)
	}
	return out
}
