// Package handlers exposes the scheduling engine over HTTP: the provider's
// agenda API (X-Provider-Id scoped) and the public booking wizard.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"braidpro/internal/booking"
	"braidpro/internal/calendarview"
	"braidpro/internal/model"
	"braidpro/internal/storage"
	"braidpro/internal/timeutil"
)

type AgendaHandler struct {
	engine *booking.Engine
	repo   storage.AppointmentRepository
	logger *slog.Logger
}

func NewAgendaHandler(engine *booking.Engine, repo storage.AppointmentRepository, logger *slog.Logger) *AgendaHandler {
	return &AgendaHandler{engine: engine, repo: repo, logger: logger}
}

func (h *AgendaHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/appointments", h.appointments)
	mux.HandleFunc("/api/v1/appointments/upcoming", h.upcoming)
	mux.HandleFunc("/api/v1/appointments/cancel/request", h.requestCancel)
	mux.HandleFunc("/api/v1/appointments/cancel/commit", h.commitCancel)
	mux.HandleFunc("/api/v1/appointments/complete", h.complete)
	mux.HandleFunc("/api/v1/appointments/delete", h.delete)
	mux.HandleFunc("/api/v1/slots", h.slots)
	mux.HandleFunc("/api/v1/calendar", h.calendar)
}

type appointmentItem struct {
	ID          string `json:"id"`
	ClientName  string `json:"clientName"`
	ClientPhone string `json:"clientPhone,omitempty"`
	Service     string `json:"service"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Status      string `json:"status"`
	Origin      string `json:"origin"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

func toItem(a model.Appointment) appointmentItem {
	return appointmentItem{
		ID:          a.ID,
		ClientName:  a.ClientName,
		ClientPhone: a.ClientPhone,
		Service:     a.Service,
		Date:        a.Date,
		Time:        a.Time,
		Status:      string(a.Status),
		Origin:      string(a.Origin),
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toItems(appts []model.Appointment) []appointmentItem {
	items := make([]appointmentItem, 0, len(appts))
	for _, a := range appts {
		items = append(items, toItem(a))
	}
	return items
}

func (h *AgendaHandler) appointments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listByDay(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AgendaHandler) create(w http.ResponseWriter, r *http.Request) {
	provider, ok := providerID(w, r)
	if !ok {
		return
	}
	var req struct {
		ClientName  string `json:"clientName"`
		ClientPhone string `json:"clientPhone"`
		Service     string `json:"service"`
		Date        string `json:"date"`
		Time        string `json:"time"`
		Notes       string `json:"notes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	appt, err := h.engine.Book(r.Context(), provider, booking.Request{
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		Service:     req.Service,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
		Origin:      model.OriginManual,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItem(appt))
}

func (h *AgendaHandler) listByDay(w http.ResponseWriter, r *http.Request) {
	provider, ok := providerID(w, r)
	if !ok {
		return
	}
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if _, err := timeutil.ParseDate(date, time.UTC); err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	appts, err := h.repo.ListByDay(r.Context(), provider, date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItems(appts))
}

func (h *AgendaHandler) upcoming(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	provider, ok := providerID(w, r)
	if !ok {
		return
	}
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	if from == "" {
		from = h.engine.Today()
	} else if _, err := timeutil.ParseDate(from, time.UTC); err != nil {
		http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	appts, err := h.repo.ListUpcoming(r.Context(), provider, from, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItems(appts))
}

func (h *AgendaHandler) requestCancel(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	provider, ok := providerID(w, r)
	if !ok {
		return
	}
	var req struct {
		AppointmentID string `json:"appointmentId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := h.engine.RequestCancel(r.Context(), provider, strings.TrimSpace(req.AppointmentID))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"confirmToken": token})
}

func (h *AgendaHandler) commitCancel(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	provider, ok := providerID(w, r)
	if !ok {
		return
	}
	var req struct {
		ConfirmToken string `json:"confirmToken"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	appt, err := h.engine.CommitCancel(r.Context(), provider, strings.TrimSpace(req.ConfirmToken))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItem(appt))
}

func (h *AgendaHandler) complete(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	provider, ok := providerID(w, r)
	if !ok {
		return
	}
	var req struct {
		AppointmentID string `json:"appointmentId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.engine.Complete(r.Context(), provider, strings.TrimSpace(req.AppointmentID)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// delete is the manual-entry correction path: it hard-removes the record,
// unlike cancel which keeps history.
func (h *AgendaHandler) delete(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	provider, ok := providerID(w, r)
	if !ok {
		return
	}
	var req struct {
		AppointmentID string `json:"appointmentId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.engine.Delete(r.Context(), provider, strings.TrimSpace(req.AppointmentID)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AgendaHandler) slots(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	provider, ok := providerID(w, r)
	if !ok {
		return
	}
	date := strings.TrimSpace(r.URL.Query().Get("date"))

	slots, err := h.engine.Slots(r.Context(), provider, date)
	if err != nil {
		writeError(w, err)
		return
	}
	if slots == nil {
		slots = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "slots": slots})
}

func (h *AgendaHandler) calendar(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	provider, ok := providerID(w, r)
	if !ok {
		return
	}
	monthStr := strings.TrimSpace(r.URL.Query().Get("month"))
	parsed, err := time.Parse("2006-01", monthStr)
	if err != nil {
		http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
		return
	}

	appts, err := h.repo.ListByMonth(r.Context(), provider, parsed.Year(), int(parsed.Month()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"month":      monthStr,
		"cells":      calendarview.MonthGrid(parsed.Year(), parsed.Month()),
		"markedDays": calendarview.MarkedDays(appts),
	})
}
