package storage

import (
	"context"
	"errors"
	"testing"

	"braidpro/internal/model"
)

func appt(providerID, id, date, clock string, status model.Status) model.Appointment {
	return model.Appointment{
		ID:         id,
		ProviderID: providerID,
		ClientName: "Ana",
		Service:    "Box Braids",
		Date:       date,
		Time:       clock,
		Status:     status,
		Origin:     model.OriginManual,
	}
}

func TestMemoryRepository_DuplicateSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	if err := repo.Add(ctx, appt("p1", "a1", "2026-09-01", "10:00", model.StatusConfirmed)); err != nil {
		t.Fatal(err)
	}
	err := repo.Add(ctx, appt("p1", "a2", "2026-09-01", "10:00", model.StatusConfirmed))
	if !errors.Is(err, ErrDuplicateSlot) {
		t.Fatalf("err = %v, want ErrDuplicateSlot", err)
	}

	// A different provider can hold the same wall-clock slot.
	if err := repo.Add(ctx, appt("p2", "a3", "2026-09-01", "10:00", model.StatusConfirmed)); err != nil {
		t.Fatalf("cross-provider add failed: %v", err)
	}
}

func TestMemoryRepository_CancelFreesSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	if err := repo.Add(ctx, appt("p1", "a1", "2026-09-01", "10:00", model.StatusConfirmed)); err != nil {
		t.Fatal(err)
	}
	if err := repo.Cancel(ctx, "p1", "a1"); err != nil {
		t.Fatal(err)
	}
	if err := repo.Add(ctx, appt("p1", "a2", "2026-09-01", "10:00", model.StatusConfirmed)); err != nil {
		t.Fatalf("slot should be free after cancel, got %v", err)
	}
}

func TestMemoryRepository_ListByDayOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for _, a := range []model.Appointment{
		appt("p1", "late", "2026-09-01", "14:00", model.StatusConfirmed),
		appt("p1", "early", "2026-09-01", "09:00", model.StatusConfirmed),
		appt("p1", "other-day", "2026-09-02", "09:00", model.StatusConfirmed),
	} {
		if err := repo.Add(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.ListByDay(ctx, "p1", "2026-09-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(got))
	}
	if got[0].ID != "early" || got[1].ID != "late" {
		t.Fatalf("wrong order: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestMemoryRepository_ListUpcoming(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for _, a := range []model.Appointment{
		appt("p1", "today", "2026-08-28", "09:00", model.StatusConfirmed),
		appt("p1", "tomorrow", "2026-08-29", "09:00", model.StatusConfirmed),
		appt("p1", "next-week", "2026-09-03", "09:00", model.StatusConfirmed),
	} {
		if err := repo.Add(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.ListUpcoming(ctx, "p1", "2026-08-28", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 upcoming, got %d", len(got))
	}
	if got[0].ID != "tomorrow" {
		t.Fatalf("expected tomorrow first, got %s", got[0].ID)
	}

	limited, err := repo.ListUpcoming(ctx, "p1", "2026-08-28", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].ID != "tomorrow" {
		t.Fatalf("limit=1 gave %v", limited)
	}
}

func TestMemoryRepository_ListByMonth(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for _, a := range []model.Appointment{
		appt("p1", "sep1", "2026-09-01", "09:00", model.StatusConfirmed),
		appt("p1", "sep30", "2026-09-30", "09:00", model.StatusConfirmed),
		appt("p1", "oct1", "2026-10-01", "09:00", model.StatusConfirmed),
	} {
		if err := repo.Add(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.ListByMonth(ctx, "p1", 2026, 9)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 in September, got %d", len(got))
	}
}

func TestMemoryRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	if _, err := repo.Get(ctx, "p1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get err = %v, want ErrNotFound", err)
	}
	if err := repo.Cancel(ctx, "p1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Cancel err = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "p1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete err = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepository_Complete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	if err := repo.Add(ctx, appt("p1", "a1", "2026-09-01", "10:00", model.StatusConfirmed)); err != nil {
		t.Fatal(err)
	}
	if err := repo.Complete(ctx, "p1", "a1"); err != nil {
		t.Fatal(err)
	}
	got, err := repo.Get(ctx, "p1", "a1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.StatusCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}
	// Completed appointments still occupy their slot.
	if err := repo.Add(ctx, appt("p1", "a2", "2026-09-01", "10:00", model.StatusConfirmed)); !errors.Is(err, ErrDuplicateSlot) {
		t.Fatalf("err = %v, want ErrDuplicateSlot", err)
	}
}
