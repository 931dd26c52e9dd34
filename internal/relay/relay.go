package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/USA-RedDragon/obs-remote/internal/events"
	"github.com/nats-io/nats.go"
)

type Requester interface {
	Request(ctx context.Context, requestType string, requestData any) (json.RawMessage, error)
}

type Call struct {
	RequestType string          `json:"request_type"`
	RequestData json.RawMessage `json:"request_data,omitempty"`
}

type Reply struct {
	Success      bool            `json:"success"`
	ResponseData json.RawMessage `json:"response_data,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// Relay mirrors bus events onto NATS subjects and answers OBS requests
// that arrive on <prefix>.request.
type Relay struct {
	nc     *nats.Conn
	prefix string
	client Requester
	bus    *events.EventBus

	sub   *nats.Subscription
	busID uint64
}

func New(nc *nats.Conn, prefix string, client Requester, bus *events.EventBus) *Relay {
	return &Relay{
		nc:     nc,
		prefix: prefix,
		client: client,
		bus:    bus,
	}
}

func (r *Relay) Start() error {
	sub, err := r.nc.Subscribe(r.prefix+".request", func(msg *nats.Msg) {
		reply := r.HandleRequest(context.Background(), msg.Data)
		data, err := json.Marshal(reply)
		if err != nil {
			slog.Warn("Error marshalling relay reply", "error", err)
			return
		}
		if err := msg.Respond(data); err != nil {
			slog.Warn("Error responding to NATS", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s.request: %w", r.prefix, err)
	}
	r.sub = sub

	id, ch := r.bus.Subscribe()
	r.busID = id
	go func() {
		for event := range ch {
			r.publish(event)
		}
	}()
	return nil
}

func (r *Relay) Stop() {
	if r.sub != nil {
		if err := r.sub.Unsubscribe(); err != nil {
			slog.Warn("Error unsubscribing from NATS", "error", err)
		}
	}
	r.bus.Unsubscribe(r.busID)
}

func (r *Relay) publish(event events.Event) {
	data, err := json.Marshal(events.Wrap(event))
	if err != nil {
		slog.Warn("Error marshalling event", "error", err)
		return
	}
	if err := r.nc.Publish(Subject(r.prefix, event), data); err != nil {
		slog.Warn("Error publishing event to NATS", "error", err)
	}
}

// Subject names the NATS subject an event is published on.
func Subject(prefix string, event events.Event) string {
	if obsEvent, ok := event.(events.OBSEvent); ok {
		return prefix + ".event." + obsEvent.EventType
	}
	return prefix + ".event." + string(event.GetType())
}

func (r *Relay) HandleRequest(ctx context.Context, data []byte) Reply {
	var call Call
	if err := json.Unmarshal(data, &call); err != nil {
		return Reply{Error: "invalid request payload"}
	}
	if call.RequestType == "" {
		return Reply{Error: "request_type is required"}
	}

	var requestData any
	if len(call.RequestData) > 0 && string(call.RequestData) != "null" {
		requestData = call.RequestData
	}
	responseData, err := r.client.Request(ctx, call.RequestType, requestData)
	if err != nil {
		slog.Warn("Relayed OBS request failed", "request_type", call.RequestType, "error", err)
		return Reply{Error: err.Error()}
	}
	return Reply{Success: true, ResponseData: responseData}
}
