package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"braidpro/internal/booking"
	"braidpro/internal/schedule"
	"braidpro/internal/wizard"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorStatus maps the domain error taxonomy onto HTTP statuses. 409 is
// the signal a UI should re-prompt with fresh availability; everything else
// is a plain failure.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, booking.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrSlotUnavailable),
		errors.Is(err, wizard.ErrBadTransition),
		errors.Is(err, schedule.ErrDuplicateService):
		return http.StatusConflict
	case errors.Is(err, booking.ErrNotFound),
		errors.Is(err, wizard.ErrSessionNotFound),
		errors.Is(err, schedule.ErrServiceNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errorStatus(err), map[string]string{"error": err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return false
	}
	return true
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

const providerIDHeader = "X-Provider-Id"

func providerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(providerIDHeader)
	if id == "" {
		http.Error(w, "missing "+providerIDHeader, http.StatusBadRequest)
		return "", false
	}
	return id, true
}
