package events

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

type EventType string

const (
	EventTypeOBS        EventType = "obs"
	EventTypeConnection EventType = "connection"
)

const subscriberBuffer = 64

type Event interface {
	GetType() EventType
}

// OBSEvent is an unsolicited event (op 5) pushed by OBS.
type OBSEvent struct {
	EventType   string          `json:"eventType"`
	EventIntent int             `json:"eventIntent"`
	EventData   json.RawMessage `json:"eventData,omitempty"`
}

func (e OBSEvent) GetType() EventType {
	return EventTypeOBS
}

type ConnectionEvent struct {
	Connected bool `json:"connected"`
}

func (e ConnectionEvent) GetType() EventType {
	return EventTypeConnection
}

// Envelope is the JSON shape events take when they leave the process.
type Envelope struct {
	Type  EventType `json:"type"`
	Event Event     `json:"event"`
}

func Wrap(event Event) Envelope {
	return Envelope{Type: event.GetType(), Event: event}
}

type EventBus struct {
	// closing a subscriber channel must not race a send on it
	mu          sync.RWMutex
	nextID      atomic.Uint64
	subscribers *xsync.MapOf[uint64, chan Event]
	dropped     *xsync.Counter
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: xsync.NewMapOf[uint64, chan Event](),
		dropped:     xsync.NewCounter(),
	}
}

// Publish never blocks. A subscriber that is not keeping up misses the event.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	eb.subscribers.Range(func(_ uint64, ch chan Event) bool {
		select {
		case ch <- event:
		default:
			eb.dropped.Inc()
		}
		return true
	})
}

func (eb *EventBus) Subscribe() (uint64, <-chan Event) {
	id := eb.nextID.Add(1)
	ch := make(chan Event, subscriberBuffer)
	eb.subscribers.Store(id, ch)
	return id, ch
}

func (eb *EventBus) Unsubscribe(id uint64) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if ch, loaded := eb.subscribers.LoadAndDelete(id); loaded {
		close(ch)
	}
}

func (eb *EventBus) Subscribers() int {
	return eb.subscribers.Size()
}

func (eb *EventBus) Dropped() int64 {
	return eb.dropped.Value()
}
