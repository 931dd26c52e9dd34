package obs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/USA-RedDragon/obs-remote/internal/events"
	"github.com/USA-RedDragon/obs-remote/internal/utils"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	defaultDialTimeout    = 5 * time.Second
	defaultRequestTimeout = 10 * time.Second
	bufferSize            = 1024
)

type Options struct {
	URL                string
	Password           string
	DialTimeout        time.Duration
	RequestTimeout     time.Duration
	EventSubscriptions int
}

// RequestRecord describes one finished request for observers.
type RequestRecord struct {
	RequestType string
	RequestID   string
	RequestData any
	Duration    time.Duration
	Err         error
}

type Observer interface {
	ObserveRequest(ctx context.Context, record RequestRecord)
	ObserveConnection(connected bool)
	ObserveEvent(eventType string)
}

// Client owns a single control connection to OBS. It is safe for
// concurrent use. The connection is opened lazily by the first request
// and is only re-opened by a later request or an explicit Reconnect.
type Client struct {
	options   Options
	dialer    *websocket.Dialer
	bus       *events.EventBus
	observers []Observer

	mu        sync.Mutex
	session   *session
	closed    bool
	connected atomic.Bool
}

type session struct {
	conn      *websocket.Conn
	responses chan RequestResponse
	watcher   *utils.ChannelWatcher[RequestResponse]
	done      chan struct{}
	closeOnce sync.Once
	writeMu   sync.Mutex
}

func newSession(conn *websocket.Conn) *session {
	responses := make(chan RequestResponse)
	return &session{
		conn:      conn,
		responses: responses,
		watcher:   utils.NewChannelWatcher(responses),
		done:      make(chan struct{}),
	}
}

// close discards the socket without a close handshake.
func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

func (s *session) write(payload []byte, timeout time.Duration) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

func NewClient(options Options, bus *events.EventBus, observers ...Observer) *Client {
	if options.DialTimeout <= 0 {
		options.DialTimeout = defaultDialTimeout
	}
	if options.RequestTimeout <= 0 {
		options.RequestTimeout = defaultRequestTimeout
	}
	if options.EventSubscriptions == 0 {
		options.EventSubscriptions = EventSubscriptionAll
	}
	return &Client{
		options: options,
		dialer: &websocket.Dialer{
			HandshakeTimeout: options.DialTimeout,
			ReadBufferSize:   bufferSize,
			WriteBufferSize:  bufferSize,
		},
		bus:       bus,
		observers: observers,
	}
}

func (c *Client) Connected() bool {
	return c.connected.Load()
}

// Connect opens the connection if it is not already open.
func (c *Client) Connect(ctx context.Context) error {
	_, err := c.ensureSession(ctx)
	return err
}

// Reconnect drops the current connection, if any, and dials again.
func (c *Client) Reconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.session != nil {
		c.session.close()
		c.session = nil
	}
	c.setConnected(false)
	_, err := c.connectLocked(ctx)
	return err
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.session == nil {
		return nil
	}
	s := c.session
	c.session = nil
	_ = s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	s.close()
	c.setConnected(false)
	return nil
}

// Request sends one request and waits for the reply with the same
// requestId. It returns the raw responseData, which may be empty.
func (c *Client) Request(ctx context.Context, requestType string, requestData any) (json.RawMessage, error) {
	start := time.Now()
	record := RequestRecord{
		RequestType: requestType,
		RequestData: requestData,
	}
	data, err := c.request(ctx, &record)
	record.Duration = time.Since(start)
	record.Err = err
	for _, observer := range c.observers {
		observer.ObserveRequest(ctx, record)
	}
	return data, err
}

func (c *Client) request(ctx context.Context, record *RequestRecord) (json.RawMessage, error) {
	record.RequestID = uuid.NewString()

	requestData, err := json.Marshal(record.RequestData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	// Typed nils marshal to null too. OBS always gets an object.
	if bytes.Equal(bytes.TrimSpace(requestData), []byte("null")) {
		requestData = []byte("{}")
		record.RequestData = map[string]any{}
	}

	payload, err := encode(OpRequest, Request{
		RequestType: record.RequestType,
		RequestID:   record.RequestID,
		RequestData: json.RawMessage(requestData),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	s, err := c.ensureSession(ctx)
	if err != nil {
		return nil, err
	}

	replies := make(chan RequestResponse, 1)
	s.watcher.Subscribe(record.RequestID, func(resp RequestResponse) {
		replies <- resp
	})
	defer s.watcher.Unsubscribe(record.RequestID)

	if err := s.write(payload, c.options.RequestTimeout); err != nil {
		slog.Warn("Failed to send OBS request", "request_type", record.RequestType, "error", err)
		c.drop(s)
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.options.RequestTimeout)
	defer cancel()
	select {
	case resp := <-replies:
		return unwrapResponse(resp)
	case <-s.done:
		// The reply may have landed just before the connection went away
		select {
		case resp := <-replies:
			return unwrapResponse(resp)
		default:
		}
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, ErrConnectionLost)
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Warn("OBS request timed out", "request_type", record.RequestType, "request_id", record.RequestID)
		return nil, fmt.Errorf("%s: %w", record.RequestType, ErrTimeout)
	}
}

func unwrapResponse(resp RequestResponse) (json.RawMessage, error) {
	if !resp.RequestStatus.Result {
		return nil, &RequestError{
			RequestType: resp.RequestType,
			Code:        resp.RequestStatus.Code,
			Comment:     resp.RequestStatus.Comment,
		}
	}
	return resp.ResponseData, nil
}

func (c *Client) ensureSession(ctx context.Context) (*session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if c.session != nil {
		return c.session, nil
	}
	return c.connectLocked(ctx)
}

func (c *Client) connectLocked(ctx context.Context) (*session, error) {
	dialCtx, cancel := context.WithTimeout(ctx, c.options.DialTimeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(dialCtx, c.options.URL, nil)
	if err != nil {
		c.setConnected(false)
		slog.Warn("Failed to connect to OBS", "url", c.options.URL, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	if err := c.identify(dialCtx, conn); err != nil {
		_ = conn.Close()
		c.setConnected(false)
		slog.Warn("OBS handshake failed", "url", c.options.URL, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	s := newSession(conn)
	c.session = s
	go s.watcher.WatchChannel(func(resp RequestResponse) string {
		return resp.RequestID
	})
	go c.readLoop(s)
	c.setConnected(true)
	slog.Info("Connected to OBS", "url", c.options.URL)
	return s, nil
}

func (c *Client) identify(ctx context.Context, conn *websocket.Conn) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		_ = conn.SetWriteDeadline(deadline)
		defer func() {
			_ = conn.SetReadDeadline(time.Time{})
			_ = conn.SetWriteDeadline(time.Time{})
		}()
	}

	var hello Hello
	if err := readOp(conn, OpHello, &hello); err != nil {
		return fmt.Errorf("waiting for Hello: %w", err)
	}

	identify := Identify{
		RPCVersion:         RPCVersion,
		EventSubscriptions: c.options.EventSubscriptions,
	}
	if hello.Authentication != nil {
		if c.options.Password == "" {
			return ErrAuthenticationRequired
		}
		identify.Authentication = authenticationString(c.options.Password, *hello.Authentication)
	}
	payload, err := encode(OpIdentify, identify)
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("sending Identify: %w", err)
	}

	var identified Identified
	if err := readOp(conn, OpIdentified, &identified); err != nil {
		if websocket.IsCloseError(err, CloseAuthenticationFailed) {
			return ErrAuthenticationFailed
		}
		return fmt.Errorf("waiting for Identified: %w", err)
	}
	slog.Debug("OBS handshake complete",
		"obs_websocket_version", hello.OBSWebSocketVersion,
		"rpc_version", identified.NegotiatedRPCVersion)
	return nil
}

func readOp(conn *websocket.Conn, want OpCode, v any) error {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return err
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpectedMessage, err)
	}
	if msg.Op != want {
		return fmt.Errorf("%w: got op %d, want %d", ErrUnexpectedMessage, msg.Op, want)
	}
	if err := json.Unmarshal(msg.D, v); err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpectedMessage, err)
	}
	return nil
}

// readLoop owns reads on the session. Replies go to the watcher, events
// go to the bus. Any read error or garbage frame ends the session.
func (c *Client) readLoop(s *session) {
	defer func() {
		close(s.responses)
		c.drop(s)
	}()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
			default:
				slog.Warn("OBS connection lost", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("Received a non-JSON frame from OBS", "error", err)
			return
		}

		switch msg.Op {
		case OpRequestResponse:
			var resp RequestResponse
			if err := json.Unmarshal(msg.D, &resp); err != nil {
				slog.Warn("Failed to decode OBS request response", "error", err)
				continue
			}
			select {
			case s.responses <- resp:
			case <-s.done:
				return
			}
		case OpEvent:
			var event events.OBSEvent
			if err := json.Unmarshal(msg.D, &event); err != nil {
				slog.Warn("Failed to decode OBS event", "error", err)
				continue
			}
			c.publishEvent(event)
		default:
			slog.Debug("Ignoring OBS message", "op", msg.Op)
		}
	}
}

// drop tears down s and clears it as the current session if it still is.
func (c *Client) drop(s *session) {
	s.close()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == s {
		c.session = nil
		c.setConnected(false)
	}
}

// setConnected must be called with c.mu held.
func (c *Client) setConnected(connected bool) {
	if c.connected.Swap(connected) == connected {
		return
	}
	for _, observer := range c.observers {
		observer.ObserveConnection(connected)
	}
	if c.bus != nil {
		c.bus.Publish(events.ConnectionEvent{Connected: connected})
	}
}

func (c *Client) publishEvent(event events.OBSEvent) {
	for _, observer := range c.observers {
		observer.ObserveEvent(event.EventType)
	}
	if c.bus != nil {
		c.bus.Publish(event)
	}
}
