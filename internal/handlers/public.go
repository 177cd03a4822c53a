package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"braidpro/internal/model"
	"braidpro/internal/wizard"
)

// PublicHandler serves the client-facing booking wizard. No authentication:
// the provider id in the booking link is the only scope, and the rate
// limiter in front of these routes is the abuse control.
type PublicHandler struct {
	wiz    *wizard.Wizard
	logger *slog.Logger
}

func NewPublicHandler(wiz *wizard.Wizard, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{wiz: wiz, logger: logger}
}

func (h *PublicHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/public/v1/services", h.services)
	mux.HandleFunc("/public/v1/sessions", h.start)
	mux.HandleFunc("/public/v1/sessions/state", h.state)
	mux.HandleFunc("/public/v1/sessions/service", h.chooseService)
	mux.HandleFunc("/public/v1/sessions/date", h.chooseDate)
	mux.HandleFunc("/public/v1/sessions/time", h.chooseTime)
	mux.HandleFunc("/public/v1/sessions/contact", h.contact)
	mux.HandleFunc("/public/v1/sessions/confirm", h.confirm)
	mux.HandleFunc("/public/v1/sessions/back", h.back)
}

func (h *PublicHandler) services(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	provider := strings.TrimSpace(r.URL.Query().Get("provider_id"))
	if provider == "" {
		http.Error(w, "provider_id required", http.StatusBadRequest)
		return
	}
	services, err := h.wiz.Services(r.Context(), provider)
	if err != nil {
		writeError(w, err)
		return
	}
	if services == nil {
		services = []model.Service{}
	}
	writeJSON(w, http.StatusOK, services)
}

func (h *PublicHandler) start(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		ProviderID string `json:"providerId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	req.ProviderID = strings.TrimSpace(req.ProviderID)
	if req.ProviderID == "" {
		http.Error(w, "providerId required", http.StatusBadRequest)
		return
	}

	sess, err := h.wiz.Start(r.Context(), req.ProviderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"session": sess,
		"dates":   h.wiz.Dates(),
	})
}

func (h *PublicHandler) state(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	sess, err := h.wiz.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

type sessionRequest struct {
	SessionID string `json:"sessionId"`
	Service   string `json:"service,omitempty"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
	Name      string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

func (h *PublicHandler) step(w http.ResponseWriter, r *http.Request, fn func(sessionRequest) (wizard.Session, error)) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req sessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		http.Error(w, "sessionId required", http.StatusBadRequest)
		return
	}

	sess, err := fn(req)
	if err != nil {
		// A lost slot race still returns the rewound session so the client
		// can re-render the date step without another round trip.
		if sess.ID != "" {
			writeJSON(w, errorStatus(err), map[string]any{
				"error":   err.Error(),
				"session": sess,
			})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": sess})
}

func (h *PublicHandler) chooseService(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(req sessionRequest) (wizard.Session, error) {
		return h.wiz.ChooseService(r.Context(), req.SessionID, strings.TrimSpace(req.Service))
	})
}

func (h *PublicHandler) chooseDate(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(req sessionRequest) (wizard.Session, error) {
		return h.wiz.ChooseDate(r.Context(), req.SessionID, strings.TrimSpace(req.Date))
	})
}

func (h *PublicHandler) chooseTime(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(req sessionRequest) (wizard.Session, error) {
		return h.wiz.ChooseTime(r.Context(), req.SessionID, strings.TrimSpace(req.Time))
	})
}

func (h *PublicHandler) contact(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(req sessionRequest) (wizard.Session, error) {
		return h.wiz.EnterContact(r.Context(), req.SessionID,
			strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone), strings.TrimSpace(req.Notes))
	})
}

func (h *PublicHandler) confirm(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(req sessionRequest) (wizard.Session, error) {
		return h.wiz.Confirm(r.Context(), req.SessionID)
	})
}

func (h *PublicHandler) back(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(req sessionRequest) (wizard.Session, error) {
		return h.wiz.Back(r.Context(), req.SessionID)
	})
}
