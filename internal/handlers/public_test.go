package handlers

import (
	"context"
	"net/http"
	"testing"

	"braidpro/internal/booking"
	"braidpro/internal/model"
)

type sessionPayload struct {
	Session struct {
		ID    string `json:"id"`
		Step  string `json:"step"`
		State struct {
			Service       string   `json:"service"`
			Date          string   `json:"date"`
			Time          string   `json:"time"`
			Slots         []string `json:"slots"`
			AppointmentID string   `json:"appointmentId"`
		} `json:"state"`
		Message string `json:"message"`
	} `json:"session"`
	Dates []string `json:"dates"`
	Error string   `json:"error"`
}

func startSession(t *testing.T, srv *testServer) sessionPayload {
	t.Helper()
	rec := srv.do(t, http.MethodPost, "/public/v1/sessions",
		map[string]string{"providerId": "p1"}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body.String())
	}
	var payload sessionPayload
	decode(t, rec, &payload)
	if payload.Session.ID == "" {
		t.Fatal("expected a session id")
	}
	return payload
}

func TestPublic_Services(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/public/v1/services?provider_id=p1", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list []struct {
		Name string `json:"name"`
	}
	decode(t, rec, &list)
	if len(list) != 1 || list[0].Name != "Box Braids" {
		t.Fatalf("list = %+v", list)
	}

	rec = srv.do(t, http.MethodGet, "/public/v1/services", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing provider status = %d", rec.Code)
	}
}

func TestPublic_FullWizardFlow(t *testing.T) {
	srv := newTestServer(t)

	payload := startSession(t, srv)
	id := payload.Session.ID
	if payload.Session.Step != "selecting_service" {
		t.Fatalf("step = %s", payload.Session.Step)
	}
	if len(payload.Dates) != 7 {
		t.Fatalf("dates = %v", payload.Dates)
	}

	rec := srv.do(t, http.MethodPost, "/public/v1/sessions/service",
		map[string]string{"sessionId": id, "service": "Box Braids"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("service status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = srv.do(t, http.MethodPost, "/public/v1/sessions/date",
		map[string]string{"sessionId": id, "date": "2026-08-31"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("date status = %d: %s", rec.Code, rec.Body.String())
	}
	var step sessionPayload
	decode(t, rec, &step)
	if len(step.Session.State.Slots) != 2 {
		t.Fatalf("slots = %v", step.Session.State.Slots)
	}

	rec = srv.do(t, http.MethodPost, "/public/v1/sessions/time",
		map[string]string{"sessionId": id, "time": "10:00"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("time status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = srv.do(t, http.MethodPost, "/public/v1/sessions/contact",
		map[string]string{"sessionId": id, "name": "Ana Souza", "phone": "+55 11 99999-0000"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("contact status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = srv.do(t, http.MethodPost, "/public/v1/sessions/confirm",
		map[string]string{"sessionId": id}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm status = %d: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &step)
	if step.Session.Step != "confirmed" {
		t.Fatalf("step = %s", step.Session.Step)
	}
	apptID := step.Session.State.AppointmentID
	if apptID == "" {
		t.Fatal("expected an appointment id")
	}

	appt, err := srv.repo.Get(context.Background(), "p1", apptID)
	if err != nil {
		t.Fatal(err)
	}
	if appt.Origin != model.OriginPublicLink || appt.Time != "10:00" {
		t.Fatalf("appt = %+v", appt)
	}

	// The session state endpoint reflects the terminal step.
	rec = srv.do(t, http.MethodGet, "/public/v1/sessions/state?id="+id, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("state status = %d", rec.Code)
	}
}

func TestPublic_ConfirmConflictReturnsRewoundSession(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	payload := startSession(t, srv)
	id := payload.Session.ID
	srv.do(t, http.MethodPost, "/public/v1/sessions/service",
		map[string]string{"sessionId": id, "service": "Box Braids"}, "")
	srv.do(t, http.MethodPost, "/public/v1/sessions/date",
		map[string]string{"sessionId": id, "date": "2026-08-31"}, "")
	srv.do(t, http.MethodPost, "/public/v1/sessions/time",
		map[string]string{"sessionId": id, "time": "09:00"}, "")
	srv.do(t, http.MethodPost, "/public/v1/sessions/contact",
		map[string]string{"sessionId": id, "name": "Ana", "phone": "+55 11 98888-0000"}, "")

	// The slot goes to someone else first.
	if _, err := srv.engine.Book(ctx, "p1", booking.Request{
		ClientName: "Bia", Service: "Box Braids",
		Date: "2026-08-31", Time: "09:00", Origin: model.OriginManual,
	}); err != nil {
		t.Fatal(err)
	}

	rec := srv.do(t, http.MethodPost, "/public/v1/sessions/confirm",
		map[string]string{"sessionId": id}, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("confirm status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
	var payload2 sessionPayload
	decode(t, rec, &payload2)
	if payload2.Error == "" {
		t.Fatal("expected an error message")
	}
	if payload2.Session.Step != "selecting_date_time" {
		t.Fatalf("step = %s, want selecting_date_time", payload2.Session.Step)
	}
	if payload2.Session.Message == "" {
		t.Fatal("expected a user-visible message")
	}
	if len(payload2.Session.State.Slots) != 1 || payload2.Session.State.Slots[0] != "10:00" {
		t.Fatalf("slots = %v, want [10:00]", payload2.Session.State.Slots)
	}
}

func TestPublic_UnknownSession(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/public/v1/sessions/service",
		map[string]string{"sessionId": "ghost", "service": "Box Braids"}, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	rec = srv.do(t, http.MethodGet, "/public/v1/sessions/state?id=ghost", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("state status = %d, want 404", rec.Code)
	}
}

func TestPublic_BadTransitionIsConflict(t *testing.T) {
	srv := newTestServer(t)

	payload := startSession(t, srv)
	rec := srv.do(t, http.MethodPost, "/public/v1/sessions/confirm",
		map[string]string{"sessionId": payload.Session.ID}, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestPublic_Back(t *testing.T) {
	srv := newTestServer(t)

	payload := startSession(t, srv)
	id := payload.Session.ID
	srv.do(t, http.MethodPost, "/public/v1/sessions/service",
		map[string]string{"sessionId": id, "service": "Box Braids"}, "")

	rec := srv.do(t, http.MethodPost, "/public/v1/sessions/back",
		map[string]string{"sessionId": id}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("back status = %d: %s", rec.Code, rec.Body.String())
	}
	var step sessionPayload
	decode(t, rec, &step)
	if step.Session.Step != "selecting_service" {
		t.Fatalf("step = %s", step.Session.Step)
	}
}
