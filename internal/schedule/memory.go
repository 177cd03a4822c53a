package schedule

import (
	"context"
	"sync"
	"time"

	"braidpro/internal/model"
)

// MemoryStore keeps working hours and catalogs in process memory, scoped by
// provider. Used in tests and single-process deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	weeks    map[string]model.WeeklySchedule
	services map[string][]model.Service
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		weeks:    map[string]model.WeeklySchedule{},
		services: map[string][]model.Service{},
	}
}

func (s *MemoryStore) GetWorkingDay(_ context.Context, providerID string, weekday time.Weekday) (model.WorkingDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if week, ok := s.weeks[providerID]; ok {
		if day, ok := week[weekday]; ok {
			return day, nil
		}
	}
	return closedDefault, nil
}

func (s *MemoryStore) SetWorkingDay(_ context.Context, providerID string, weekday time.Weekday, patch model.WorkingDayPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	week, ok := s.weeks[providerID]
	if !ok {
		week = model.WeeklySchedule{}
		s.weeks[providerID] = week
	}
	day, ok := week[weekday]
	if !ok {
		day = closedDefault
	}
	week[weekday] = day.Merge(patch)
	return nil
}

func (s *MemoryStore) GetWeek(_ context.Context, providerID string) (model.WeeklySchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	week := model.WeeklySchedule{}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		week[wd] = closedDefault
	}
	for wd, day := range s.weeks[providerID] {
		week[wd] = day
	}
	return week, nil
}

func (s *MemoryStore) ListServices(_ context.Context, providerID string) ([]model.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Service, len(s.services[providerID]))
	copy(out, s.services[providerID])
	return out, nil
}

func (s *MemoryStore) GetService(_ context.Context, providerID, name string) (model.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, svc := range s.services[providerID] {
		if svc.Name == name {
			return svc, nil
		}
	}
	return model.Service{}, ErrServiceNotFound
}

func (s *MemoryStore) UpsertService(_ context.Context, providerID string, svc model.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.services[providerID]
	for i := range list {
		if list[i].ID != svc.ID && list[i].Name == svc.Name {
			return ErrDuplicateService
		}
	}
	for i := range list {
		if list[i].ID == svc.ID {
			list[i] = svc
			return nil
		}
	}
	s.services[providerID] = append(list, svc)
	return nil
}

func (s *MemoryStore) DeleteService(_ context.Context, providerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.services[providerID]
	for i := range list {
		if list[i].ID == id {
			s.services[providerID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return ErrServiceNotFound
}
