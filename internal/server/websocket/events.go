package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/USA-RedDragon/obs-remote/internal/events"
	"github.com/USA-RedDragon/obs-remote/internal/metrics"
	"github.com/USA-RedDragon/obs-remote/internal/websocket"
	gorillaWebsocket "github.com/gorilla/websocket"
	"github.com/puzpuzpuz/xsync/v3"
)

// ConnectionState reports whether OBS is currently reachable.
type ConnectionState interface {
	Connected() bool
}

// EventsWebsocket streams every bus event to each connected client as
// an events.Envelope.
type EventsWebsocket struct {
	websocket.Websocket
	bus           *events.EventBus
	state         ConnectionState
	metrics       *metrics.Metrics
	subscriptions *xsync.MapOf[*http.Request, uint64]
}

func CreateEventsWebsocket(bus *events.EventBus, state ConnectionState, metrics *metrics.Metrics) *EventsWebsocket {
	return &EventsWebsocket{
		bus:           bus,
		state:         state,
		metrics:       metrics,
		subscriptions: xsync.NewMapOf[*http.Request, uint64](),
	}
}

func (c *EventsWebsocket) OnMessage(_ context.Context, _ *http.Request, _ websocket.Writer, msg []byte, msgType int) {
	slog.Debug("Ignoring message on the event stream", "message", string(msg), "type", msgType)
}

func (c *EventsWebsocket) OnConnect(ctx context.Context, r *http.Request, w websocket.Writer) {
	id, ch := c.bus.Subscribe()
	c.subscriptions.Store(r, id)
	c.metrics.IncrementEventStreamClients()
	slog.Debug("Event stream client connected", "remote", r.RemoteAddr)

	if c.state != nil {
		write(w, events.ConnectionEvent{Connected: c.state.Connected()})
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, more := <-ch:
				if !more {
					return
				}
				write(w, event)
			}
		}
	}()
}

func (c *EventsWebsocket) OnDisconnect(_ context.Context, r *http.Request) {
	id, loaded := c.subscriptions.LoadAndDelete(r)
	if !loaded {
		return
	}
	c.bus.Unsubscribe(id)
	c.metrics.DecrementEventStreamClients()
	slog.Debug("Event stream client disconnected", "remote", r.RemoteAddr)
}

func write(w websocket.Writer, event events.Event) {
	data, err := json.Marshal(events.Wrap(event))
	if err != nil {
		slog.Warn("Error marshalling event", "error", err)
		return
	}
	w.WriteMessage(websocket.Message{
		Type: gorillaWebsocket.TextMessage,
		Data: data,
	})
}
