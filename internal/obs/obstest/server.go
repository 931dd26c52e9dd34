// Package obstest runs an in-process obs-websocket v5 server for tests.
package obstest

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/USA-RedDragon/obs-remote/internal/obs"
	"github.com/gorilla/websocket"
)

const (
	salt      = "c2FsdHNhbHRzYWx0"
	challenge = "Y2hhbGxlbmdlY2hhbGxlbmdl"
)

// Reply is what a handler wants sent back. The zero value is a
// successful reply with no responseData.
type Reply struct {
	Status  obs.RequestStatus
	Data    any
	Raw     []byte
	NoReply bool
}

type HandlerFunc func(requestData json.RawMessage) Reply

type RecordedRequest struct {
	RequestType string
	RequestID   string
	RequestData json.RawMessage
}

type Option func(*Server)

func WithPassword(password string) Option {
	return func(s *Server) {
		s.password = password
	}
}

type Server struct {
	*httptest.Server

	password    string
	upgrader    websocket.Upgrader
	connections atomic.Int32

	mu       sync.Mutex
	handlers map[string]HandlerFunc
	requests []RecordedRequest
	conns    map[*conn]struct{}
}

type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func NewServer(opts ...Option) *Server {
	s := &Server{
		handlers: make(map[string]HandlerFunc),
		conns:    make(map[*conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// WebsocketURL returns the ws:// address of the server.
func (s *Server) WebsocketURL() string {
	return "ws" + strings.TrimPrefix(s.Server.URL, "http")
}

func (s *Server) Handle(requestType string, handler HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[requestType] = handler
}

// Respond registers a handler that always succeeds with data.
func (s *Server) Respond(requestType string, data any) {
	s.Handle(requestType, func(json.RawMessage) Reply {
		return Reply{Data: data}
	})
}

// Fail registers a handler that always fails with code and comment.
func (s *Server) Fail(requestType string, code int, comment string) {
	s.Handle(requestType, func(json.RawMessage) Reply {
		return Reply{Status: obs.RequestStatus{Result: false, Code: code, Comment: comment}}
	})
}

func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// Connections counts successful handshakes since the server started.
func (s *Server) Connections() int {
	return int(s.connections.Load())
}

// Emit pushes an event to every identified connection.
func (s *Server) Emit(eventType string, eventData any) error {
	raw, err := json.Marshal(eventData)
	if err != nil {
		return err
	}
	payload, err := message(obs.OpEvent, map[string]any{
		"eventType":   eventType,
		"eventIntent": 1,
		"eventData":   json.RawMessage(raw),
	})
	if err != nil {
		return err
	}
	for _, c := range s.live() {
		if err := c.write(payload); err != nil {
			return err
		}
	}
	return nil
}

// DropConnections closes every live socket without a close frame.
func (s *Server) DropConnections() {
	for _, c := range s.live() {
		_ = c.ws.Close()
	}
}

func (s *Server) Close() {
	s.DropConnections()
	s.Server.Close()
}

func (s *Server) live() []*conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*conn, 0, len(s.conns))
	for c := range s.conns {
		out = append(out, c)
	}
	return out
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &conn{ws: ws}
	defer func() {
		s.mu.Lock()
		delete(s.conns, c)
		s.mu.Unlock()
		_ = ws.Close()
	}()

	if !s.handshake(c) {
		return
	}
	s.connections.Add(1)
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		var msg obs.Message
		if err := json.Unmarshal(data, &msg); err != nil || msg.Op != obs.OpRequest {
			continue
		}
		var req struct {
			RequestType string          `json:"requestType"`
			RequestID   string          `json:"requestId"`
			RequestData json.RawMessage `json:"requestData"`
		}
		if err := json.Unmarshal(msg.D, &req); err != nil {
			continue
		}
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest(req))
		handler, ok := s.handlers[req.RequestType]
		s.mu.Unlock()

		reply := Reply{Status: obs.RequestStatus{Code: obs.StatusUnknownRequestType, Comment: "unknown request type"}}
		if ok {
			reply = handler(req.RequestData)
			if reply.Status == (obs.RequestStatus{}) {
				reply.Status = obs.RequestStatus{Result: true, Code: obs.StatusSuccess}
			}
		}
		if reply.NoReply {
			continue
		}
		if reply.Raw != nil {
			if err := c.write(reply.Raw); err != nil {
				return
			}
			continue
		}

		resp := map[string]any{
			"requestType":   req.RequestType,
			"requestId":     req.RequestID,
			"requestStatus": reply.Status,
		}
		if reply.Data != nil {
			resp["responseData"] = reply.Data
		}
		payload, err := message(obs.OpRequestResponse, resp)
		if err != nil {
			return
		}
		if err := c.write(payload); err != nil {
			return
		}
	}
}

func (s *Server) handshake(c *conn) bool {
	hello := obs.Hello{OBSWebSocketVersion: "5.5.0", RPCVersion: obs.RPCVersion}
	if s.password != "" {
		hello.Authentication = &obs.AuthenticationChallenge{Challenge: challenge, Salt: salt}
	}
	payload, err := message(obs.OpHello, hello)
	if err != nil || c.write(payload) != nil {
		return false
	}

	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return false
	}
	var msg obs.Message
	if err := json.Unmarshal(data, &msg); err != nil || msg.Op != obs.OpIdentify {
		return false
	}
	var identify obs.Identify
	if err := json.Unmarshal(msg.D, &identify); err != nil {
		return false
	}
	if s.password != "" && identify.Authentication != expectedAuth(s.password) {
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(obs.CloseAuthenticationFailed, "Authentication failed."),
			time.Now().Add(time.Second))
		return false
	}

	payload, err = message(obs.OpIdentified, obs.Identified{NegotiatedRPCVersion: obs.RPCVersion})
	if err != nil {
		return false
	}
	return c.write(payload) == nil
}

func expectedAuth(password string) string {
	secret := sha256.Sum256([]byte(password + salt))
	encoded := base64.StdEncoding.EncodeToString(secret[:])
	auth := sha256.Sum256([]byte(encoded + challenge))
	return base64.StdEncoding.EncodeToString(auth[:])
}

func message(op obs.OpCode, d any) ([]byte, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return json.Marshal(obs.Message{Op: op, D: raw})
}
