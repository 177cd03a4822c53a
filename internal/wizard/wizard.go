package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"braidpro/internal/availability"
	"braidpro/internal/booking"
	"braidpro/internal/model"
	"braidpro/internal/schedule"
	"braidpro/internal/timeutil"
)

// ErrBadTransition means the requested operation is not valid in the
// session's current step.
var ErrBadTransition = errors.New("operation not valid in current step")

// DateWindowDays is how far ahead a client may book through the public
// link. The provider's own agenda has no such restriction.
const DateWindowDays = 7

type Wizard struct {
	engine   *booking.Engine
	catalog  schedule.Catalog
	store    SessionStore
	location *time.Location
	now      func() time.Time
}

type Option func(*Wizard)

func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(w *Wizard) { w.location = loc }
}

func New(engine *booking.Engine, catalog schedule.Catalog, store SessionStore, opts ...Option) *Wizard {
	w := &Wizard{
		engine:   engine,
		catalog:  catalog,
		store:    store,
		location: time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start opens a fresh session at the service-selection step. Confirmed is
// terminal, so booking again always means starting over here.
func (w *Wizard) Start(ctx context.Context, providerID string) (Session, error) {
	sess := Session{
		ID:         uuid.NewString(),
		ProviderID: providerID,
		State:      SelectingService{},
	}
	if err := w.store.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (w *Wizard) Get(ctx context.Context, id string) (Session, error) {
	return w.store.Get(ctx, id)
}

// Services lists the provider's catalog for the selection screen.
func (w *Wizard) Services(ctx context.Context, providerID string) ([]model.Service, error) {
	return w.catalog.ListServices(ctx, providerID)
}

// Dates returns the near-term window a client may pick from, starting today.
func (w *Wizard) Dates() []string {
	today := w.now().In(w.location)
	out := make([]string, 0, DateWindowDays)
	for i := 0; i < DateWindowDays; i++ {
		out = append(out, timeutil.DateKey(today.AddDate(0, 0, i)))
	}
	return out
}

// ChooseService advances SelectingService → SelectingDateTime. The choice
// must come from the provider's catalog; the public flow offers a list, not
// free text.
func (w *Wizard) ChooseService(ctx context.Context, sessionID, serviceName string) (Session, error) {
	sess, err := w.store.Get(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	if _, ok := sess.State.(SelectingService); !ok {
		return sess, fmt.Errorf("%w: choose service in step %s", ErrBadTransition, sess.State.Step())
	}
	if _, err := w.catalog.GetService(ctx, sess.ProviderID, serviceName); err != nil {
		if errors.Is(err, schedule.ErrServiceNotFound) {
			return sess, fmt.Errorf("%w: unknown service %q", booking.ErrInvalidInput, serviceName)
		}
		return sess, err
	}
	sess.State = SelectingDateTime{Service: serviceName}
	sess.Message = ""
	return sess, w.store.Save(ctx, sess)
}

// ChooseDate picks a date inside the booking window and re-resolves its
// slots. Any previously chosen time is cleared: it belonged to another day.
func (w *Wizard) ChooseDate(ctx context.Context, sessionID, date string) (Session, error) {
	sess, err := w.store.Get(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	st, ok := sess.State.(SelectingDateTime)
	if !ok {
		return sess, fmt.Errorf("%w: choose date in step %s", ErrBadTransition, sess.State.Step())
	}
	if !w.inWindow(date) {
		return sess, fmt.Errorf("%w: date %s outside booking window", booking.ErrInvalidInput, date)
	}

	slots, err := w.engine.Slots(ctx, sess.ProviderID, date)
	if err != nil {
		return sess, err
	}
	st.Date = date
	st.Time = ""
	st.Slots = slots
	sess.State = st
	sess.Message = ""
	return sess, w.store.Save(ctx, sess)
}

// ChooseTime picks a slot for the chosen date and advances to the contact
// step once both are set.
func (w *Wizard) ChooseTime(ctx context.Context, sessionID, slot string) (Session, error) {
	sess, err := w.store.Get(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	st, ok := sess.State.(SelectingDateTime)
	if !ok {
		return sess, fmt.Errorf("%w: choose time in step %s", ErrBadTransition, sess.State.Step())
	}
	if st.Date == "" {
		return sess, fmt.Errorf("%w: choose a date first", booking.ErrInvalidInput)
	}
	if !availability.Contains(st.Slots, slot) {
		return sess, fmt.Errorf("%w: %s %s", booking.ErrSlotUnavailable, st.Date, slot)
	}
	sess.State = EnteringContact{Service: st.Service, Date: st.Date, Time: slot}
	sess.Message = ""
	return sess, w.store.Save(ctx, sess)
}

// EnterContact records the client's details. Name and phone are required to
// advance; notes are optional.
func (w *Wizard) EnterContact(ctx context.Context, sessionID, name, phone, notes string) (Session, error) {
	sess, err := w.store.Get(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	st, ok := sess.State.(EnteringContact)
	if !ok {
		return sess, fmt.Errorf("%w: enter contact in step %s", ErrBadTransition, sess.State.Step())
	}
	if name == "" || phone == "" {
		return sess, fmt.Errorf("%w: name and phone required", booking.ErrInvalidInput)
	}
	st.ClientName = name
	st.ClientPhone = phone
	st.Notes = notes
	sess.State = st
	sess.Message = ""
	return sess, w.store.Save(ctx, sess)
}

// Confirm invokes the booking engine. On success the session becomes
// Confirmed (terminal). If the slot was lost to a race, the session drops
// back to the date/time step with freshly resolved slots and a visible
// message; it never advances past a failed booking.
func (w *Wizard) Confirm(ctx context.Context, sessionID string) (Session, error) {
	sess, err := w.store.Get(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	st, ok := sess.State.(EnteringContact)
	if !ok {
		return sess, fmt.Errorf("%w: confirm in step %s", ErrBadTransition, sess.State.Step())
	}
	if st.ClientName == "" || st.ClientPhone == "" {
		return sess, fmt.Errorf("%w: name and phone required", booking.ErrInvalidInput)
	}

	appt, err := w.engine.Book(ctx, sess.ProviderID, booking.Request{
		ClientName:  st.ClientName,
		ClientPhone: st.ClientPhone,
		Service:     st.Service,
		Date:        st.Date,
		Time:        st.Time,
		Notes:       st.Notes,
		Origin:      model.OriginPublicLink,
	})
	if err != nil {
		if errors.Is(err, booking.ErrSlotUnavailable) {
			slots, slotsErr := w.engine.Slots(ctx, sess.ProviderID, st.Date)
			if slotsErr != nil {
				return sess, slotsErr
			}
			sess.State = SelectingDateTime{Service: st.Service, Date: st.Date, Slots: slots}
			sess.Message = "That time was just taken. Please pick another slot."
			if saveErr := w.store.Save(ctx, sess); saveErr != nil {
				return sess, saveErr
			}
			return sess, err
		}
		return sess, err
	}

	sess.State = Confirmed{AppointmentID: appt.ID}
	sess.Message = ""
	return sess, w.store.Save(ctx, sess)
}

// Back steps the session to the previous stage. Going back from the contact
// step returns to date/time with slots re-resolved; the chosen time is kept
// only if it survived the refresh. Confirmed sessions have no back.
func (w *Wizard) Back(ctx context.Context, sessionID string) (Session, error) {
	sess, err := w.store.Get(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	switch st := sess.State.(type) {
	case SelectingDateTime:
		sess.State = SelectingService{}
	case EnteringContact:
		slots, err := w.engine.Slots(ctx, sess.ProviderID, st.Date)
		if err != nil {
			return sess, err
		}
		next := SelectingDateTime{Service: st.Service, Date: st.Date, Slots: slots}
		if availability.Contains(slots, st.Time) {
			next.Time = st.Time
		}
		sess.State = next
	default:
		return sess, fmt.Errorf("%w: back in step %s", ErrBadTransition, sess.State.Step())
	}
	sess.Message = ""
	return sess, w.store.Save(ctx, sess)
}

func (w *Wizard) inWindow(date string) bool {
	if _, err := timeutil.ParseDate(date, w.location); err != nil {
		return false
	}
	for _, candidate := range w.Dates() {
		if candidate == date {
			return true
		}
	}
	return false
}
