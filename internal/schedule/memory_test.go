package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"braidpro/internal/model"
)

func TestMemoryStore_UnconfiguredDayIsClosed(t *testing.T) {
	store := NewMemoryStore()
	day, err := store.GetWorkingDay(context.Background(), "p1", time.Wednesday)
	if err != nil {
		t.Fatal(err)
	}
	if day.IsOpen {
		t.Fatal("unconfigured weekday must default closed")
	}
}

func TestMemoryStore_PatchMerges(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	open := true
	start := "08:00"
	if err := store.SetWorkingDay(ctx, "p1", time.Monday, model.WorkingDayPatch{
		IsOpen: &open, Start: &start,
	}); err != nil {
		t.Fatal(err)
	}

	day, err := store.GetWorkingDay(ctx, "p1", time.Monday)
	if err != nil {
		t.Fatal(err)
	}
	if !day.IsOpen || day.Start != "08:00" {
		t.Fatalf("day = %+v", day)
	}
	if day.End != "18:00" {
		t.Fatalf("unpatched end = %q, want default 18:00", day.End)
	}

	// A later patch touching only End keeps the earlier fields.
	end := "17:00"
	if err := store.SetWorkingDay(ctx, "p1", time.Monday, model.WorkingDayPatch{End: &end}); err != nil {
		t.Fatal(err)
	}
	day, err = store.GetWorkingDay(ctx, "p1", time.Monday)
	if err != nil {
		t.Fatal(err)
	}
	if !day.IsOpen || day.Start != "08:00" || day.End != "17:00" {
		t.Fatalf("day after second patch = %+v", day)
	}
}

func TestMemoryStore_GetWeekCoversAllWeekdays(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	open := true
	if err := store.SetWorkingDay(ctx, "p1", time.Saturday, model.WorkingDayPatch{IsOpen: &open}); err != nil {
		t.Fatal(err)
	}

	week, err := store.GetWeek(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(week) != 7 {
		t.Fatalf("week has %d entries, want 7", len(week))
	}
	if !week[time.Saturday].IsOpen {
		t.Fatal("Saturday should be open")
	}
	if week[time.Sunday].IsOpen {
		t.Fatal("Sunday should default closed")
	}
}

func TestMemoryStore_ProvidersIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	open := true
	if err := store.SetWorkingDay(ctx, "p1", time.Monday, model.WorkingDayPatch{IsOpen: &open}); err != nil {
		t.Fatal(err)
	}
	day, err := store.GetWorkingDay(ctx, "p2", time.Monday)
	if err != nil {
		t.Fatal(err)
	}
	if day.IsOpen {
		t.Fatal("p2 must not see p1's configuration")
	}
}

func TestMemoryStore_Catalog(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	svc := model.Service{ID: "svc-1", Name: "Box Braids", AvgTime: 4, Price: 350}
	if err := store.UpsertService(ctx, "p1", svc); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetService(ctx, "p1", "Box Braids")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "svc-1" {
		t.Fatalf("got %+v", got)
	}

	// Upsert by id replaces in place.
	svc.Price = 380
	if err := store.UpsertService(ctx, "p1", svc); err != nil {
		t.Fatal(err)
	}
	list, err := store.ListServices(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Price != 380 {
		t.Fatalf("list = %+v", list)
	}

	if _, err := store.GetService(ctx, "p1", "Haircut"); !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("err = %v, want ErrServiceNotFound", err)
	}

	if err := store.DeleteService(ctx, "p1", "svc-1"); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteService(ctx, "p1", "svc-1"); !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("second delete err = %v, want ErrServiceNotFound", err)
	}
}

func TestMemoryStore_DuplicateServiceName(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.UpsertService(ctx, "p1", model.Service{ID: "svc-1", Name: "Box Braids"}); err != nil {
		t.Fatal(err)
	}
	// Re-creating the same name under a fresh id is rejected.
	err := store.UpsertService(ctx, "p1", model.Service{ID: "svc-2", Name: "Box Braids"})
	if !errors.Is(err, ErrDuplicateService) {
		t.Fatalf("err = %v, want ErrDuplicateService", err)
	}
	// Updating the owning row by id keeps its name.
	if err := store.UpsertService(ctx, "p1", model.Service{ID: "svc-1", Name: "Box Braids", Price: 400}); err != nil {
		t.Fatalf("in-place update failed: %v", err)
	}
	// Another provider may use the same name.
	if err := store.UpsertService(ctx, "p2", model.Service{ID: "svc-3", Name: "Box Braids"}); err != nil {
		t.Fatalf("cross-provider name failed: %v", err)
	}
}
