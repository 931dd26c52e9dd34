package events_test

import (
	"encoding/json"
	"testing"

	"github.com/USA-RedDragon/obs-remote/internal/events"
)

func TestPublishFansOut(t *testing.T) {
	t.Parallel()
	bus := events.NewEventBus()
	_, first := bus.Subscribe()
	_, second := bus.Subscribe()

	bus.Publish(events.ConnectionEvent{Connected: true})

	for i, ch := range []<-chan events.Event{first, second} {
		event := <-ch
		conn, ok := event.(events.ConnectionEvent)
		if !ok {
			t.Fatalf("subscriber %d: unexpected event type %T", i, event)
		}
		if !conn.Connected {
			t.Errorf("subscriber %d: expected connected event", i)
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	t.Parallel()
	bus := events.NewEventBus()
	id, ch := bus.Subscribe()
	if bus.Subscribers() != 1 {
		t.Errorf("expected 1 subscriber, got %d", bus.Subscribers())
	}
	bus.Unsubscribe(id)
	if _, more := <-ch; more {
		t.Error("expected channel to be closed")
	}
	if bus.Subscribers() != 0 {
		t.Errorf("expected 0 subscribers, got %d", bus.Subscribers())
	}
	// A second unsubscribe is harmless
	bus.Unsubscribe(id)
}

func TestPublishDropsForSlowSubscriber(t *testing.T) {
	t.Parallel()
	bus := events.NewEventBus()
	_, ch := bus.Subscribe()
	for i := 0; i < 100; i++ {
		bus.Publish(events.OBSEvent{EventType: "CurrentProgramSceneChanged"})
	}
	if bus.Dropped() == 0 {
		t.Error("expected some events to be dropped")
	}
	if len(ch) == 0 {
		t.Error("expected the buffer to hold events")
	}
}

func TestEnvelopeJSON(t *testing.T) {
	t.Parallel()
	data, err := json.Marshal(events.Wrap(events.OBSEvent{
		EventType:   "StreamStateChanged",
		EventIntent: 64,
		EventData:   json.RawMessage(`{"outputActive":true}`),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"type":"obs","event":{"eventType":"StreamStateChanged","eventIntent":64,"eventData":{"outputActive":true}}}`
	if string(data) != want {
		t.Errorf("unexpected JSON:\n got %s\nwant %s", data, want)
	}
}
