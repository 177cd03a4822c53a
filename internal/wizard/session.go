// Package wizard drives the public self-service booking flow: a four-step
// session that accumulates a client's choices and only touches the booking
// engine at the final confirm. Abandoned sessions expire in their store and
// leave nothing behind.
package wizard

import (
	"encoding/json"
	"fmt"
)

type Step string

const (
	StepSelectingService  Step = "selecting_service"
	StepSelectingDateTime Step = "selecting_date_time"
	StepEnteringContact   Step = "entering_contact"
	StepConfirmed         Step = "confirmed"
)

// State is the tagged union of wizard stages. Each concrete state carries
// only the fields that are valid at that stage.
type State interface {
	Step() Step
}

type SelectingService struct{}

type SelectingDateTime struct {
	Service string   `json:"service"`
	Date    string   `json:"date,omitempty"`
	Time    string   `json:"time,omitempty"`
	Slots   []string `json:"slots,omitempty"` // advisory, re-resolved on every date change
}

type EnteringContact struct {
	Service     string `json:"service"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ClientName  string `json:"clientName,omitempty"`
	ClientPhone string `json:"clientPhone,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type Confirmed struct {
	AppointmentID string `json:"appointmentId"`
}

func (SelectingService) Step() Step  { return StepSelectingService }
func (SelectingDateTime) Step() Step { return StepSelectingDateTime }
func (EnteringContact) Step() Step   { return StepEnteringContact }
func (Confirmed) Step() Step         { return StepConfirmed }

// Session is one client's in-flight booking attempt. Message carries a
// user-visible notice set by the engine (e.g. a slot lost to a race);
// nothing in a session is ever partially persisted as an appointment.
type Session struct {
	ID         string
	ProviderID string
	State      State
	Message    string
}

type sessionEnvelope struct {
	ID         string          `json:"id"`
	ProviderID string          `json:"providerId"`
	Step       Step            `json:"step"`
	State      json.RawMessage `json:"state"`
	Message    string          `json:"message,omitempty"`
}

func (s Session) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(s.State)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sessionEnvelope{
		ID:         s.ID,
		ProviderID: s.ProviderID,
		Step:       s.State.Step(),
		State:      raw,
		Message:    s.Message,
	})
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var env sessionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	var state State
	switch env.Step {
	case StepSelectingService:
		var st SelectingService
		if err := json.Unmarshal(env.State, &st); err != nil {
			return err
		}
		state = st
	case StepSelectingDateTime:
		var st SelectingDateTime
		if err := json.Unmarshal(env.State, &st); err != nil {
			return err
		}
		state = st
	case StepEnteringContact:
		var st EnteringContact
		if err := json.Unmarshal(env.State, &st); err != nil {
			return err
		}
		state = st
	case StepConfirmed:
		var st Confirmed
		if err := json.Unmarshal(env.State, &st); err != nil {
			return err
		}
		state = st
	default:
		return fmt.Errorf("unknown wizard step %q", env.Step)
	}
	s.ID = env.ID
	s.ProviderID = env.ProviderID
	s.State = state
	s.Message = env.Message
	return nil
}
