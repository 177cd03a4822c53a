package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"braidpro/internal/model"
	"braidpro/internal/schedule"
)

// SettingsHandler serves the schedule-settings surface: weekly working
// hours and the service catalog. The scheduling engine itself only ever
// reads these.
type SettingsHandler struct {
	sched   schedule.Store
	catalog schedule.Catalog
	logger  *slog.Logger
}

func NewSettingsHandler(sched schedule.Store, catalog schedule.Catalog, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{sched: sched, catalog: catalog, logger: logger}
}

func (h *SettingsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/settings/schedule", h.schedule)
	mux.HandleFunc("/api/v1/settings/services", h.services)
	mux.HandleFunc("/api/v1/settings/services/delete", h.deleteService)
}

func (h *SettingsHandler) schedule(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getSchedule(w, r)
	case http.MethodPut:
		h.putSchedule(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) getSchedule(w http.ResponseWriter, r *http.Request) {
	provider, ok := providerID(w, r)
	if !ok {
		return
	}
	week, err := h.sched.GetWeek(r.Context(), provider)
	if err != nil {
		writeError(w, err)
		return
	}
	// Weekday-indexed object, 0=Sunday.
	out := map[int]model.WorkingDay{}
	for wd, day := range week {
		out[int(wd)] = day
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *SettingsHandler) putSchedule(w http.ResponseWriter, r *http.Request) {
	provider, ok := providerID(w, r)
	if !ok {
		return
	}
	var req map[int]model.WorkingDayPatch
	if !decodeBody(w, r, &req) {
		return
	}
	for wd := range req {
		if wd < 0 || wd > 6 {
			http.Error(w, "weekday must be 0..6", http.StatusBadRequest)
			return
		}
	}
	for wd, patch := range req {
		if err := h.sched.SetWorkingDay(r.Context(), provider, time.Weekday(wd), patch); err != nil {
			writeError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SettingsHandler) services(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listServices(w, r)
	case http.MethodPost:
		h.upsertService(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) listServices(w http.ResponseWriter, r *http.Request) {
	provider, ok := providerID(w, r)
	if !ok {
		return
	}
	services, err := h.catalog.ListServices(r.Context(), provider)
	if err != nil {
		writeError(w, err)
		return
	}
	if services == nil {
		services = []model.Service{}
	}
	writeJSON(w, http.StatusOK, services)
}

func (h *SettingsHandler) upsertService(w http.ResponseWriter, r *http.Request) {
	provider, ok := providerID(w, r)
	if !ok {
		return
	}
	var svc model.Service
	if !decodeBody(w, r, &svc) {
		return
	}
	svc.Name = strings.TrimSpace(svc.Name)
	if svc.Name == "" {
		http.Error(w, "service name required", http.StatusBadRequest)
		return
	}
	if svc.AvgTime < 0 || svc.Price < 0 {
		http.Error(w, "avgTime and price must not be negative", http.StatusBadRequest)
		return
	}
	if svc.ID == "" {
		svc.ID = uuid.NewString()
	}
	if err := h.catalog.UpsertService(r.Context(), provider, svc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (h *SettingsHandler) deleteService(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	provider, ok := providerID(w, r)
	if !ok {
		return
	}
	var req struct {
		ID string `json:"id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.catalog.DeleteService(r.Context(), provider, strings.TrimSpace(req.ID)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
