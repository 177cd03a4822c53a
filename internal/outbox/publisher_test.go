package outbox

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
)

type stubWriter struct {
	failAfter int // fail on the nth call, 0-based; -1 never fails
	calls     int
	written   []kafka.Message
}

func (w *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.failAfter >= 0 && w.calls == w.failAfter {
		w.calls++
		return errors.New("broker unreachable")
	}
	w.calls++
	w.written = append(w.written, msgs...)
	return nil
}

func testRecords() []Record {
	return []Record{
		{ID: 1, EventID: "e1", AggregateID: "a1", EventType: EventAppointmentCreated, Payload: []byte(`{}`)},
		{ID: 2, EventID: "e2", AggregateID: "a2", EventType: EventAppointmentCancelled, Payload: []byte(`{}`)},
		{ID: 3, EventID: "e3", AggregateID: "a3", EventType: EventAppointmentCreated, Payload: []byte(`{}`)},
	}
}

func TestWriteRecords_AllSucceed(t *testing.T) {
	w := &stubWriter{failAfter: -1}
	published, err := writeRecords(context.Background(), w, testRecords())
	if err != nil {
		t.Fatal(err)
	}
	if len(published) != 3 {
		t.Fatalf("published %v, want all three ids", published)
	}
	if len(w.written) != 3 {
		t.Fatalf("wrote %d messages", len(w.written))
	}
	if w.written[0].Topic != EventAppointmentCreated {
		t.Fatalf("topic = %q", w.written[0].Topic)
	}
}

func TestWriteRecords_FailureSurfacesError(t *testing.T) {
	w := &stubWriter{failAfter: 1}
	published, err := writeRecords(context.Background(), w, testRecords())
	if err == nil {
		t.Fatal("expected the write error to be returned")
	}
	// Only the record that made it out is eligible for mark-published.
	if len(published) != 1 || published[0] != 1 {
		t.Fatalf("published = %v, want [1]", published)
	}
}

func TestWriteRecords_HeadersCarryEventIdentity(t *testing.T) {
	w := &stubWriter{failAfter: -1}
	if _, err := writeRecords(context.Background(), w, testRecords()[:1]); err != nil {
		t.Fatal(err)
	}
	msg := w.written[0]
	var gotID, gotType string
	for _, h := range msg.Headers {
		switch h.Key {
		case "event_id":
			gotID = string(h.Value)
		case "event_type":
			gotType = string(h.Value)
		}
	}
	if gotID != "e1" || gotType != EventAppointmentCreated {
		t.Fatalf("headers = %s/%s", gotID, gotType)
	}
}
