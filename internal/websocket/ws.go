package websocket

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/USA-RedDragon/obs-remote/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	bufferSize = 1024
	writeWait  = 10 * time.Second
)

type Message struct {
	Type int
	Data []byte
}

// Writer queues frames for the connection's write loop.
type Writer interface {
	WriteMessage(msg Message)
	Error(reason string)
}

type wsWriter struct {
	writer chan Message
	error  chan string
	done   chan struct{}
}

func (w wsWriter) WriteMessage(msg Message) {
	select {
	case w.writer <- msg:
	case <-w.done:
	}
}

func (w wsWriter) Error(reason string) {
	select {
	case w.error <- reason:
	case <-w.done:
	}
}

type Websocket interface {
	OnMessage(ctx context.Context, r *http.Request, w Writer, msg []byte, t int)
	OnConnect(ctx context.Context, r *http.Request, w Writer)
	OnDisconnect(ctx context.Context, r *http.Request)
}

type WSHandler struct {
	wsUpgrader websocket.Upgrader
	handler    Websocket
}

func CreateHandler(ws Websocket, config *config.Config) gin.HandlerFunc {
	handler := &WSHandler{
		wsUpgrader: websocket.Upgrader{
			ReadBufferSize:  bufferSize,
			WriteBufferSize: bufferSize,
			Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			},
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(r.Header.Get("Origin"), config.HTTP.CORSHosts)
			},
			EnableCompression: true,
		},
		handler: ws,
	}

	return func(c *gin.Context) {
		conn, err := handler.wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("Failed to set websocket upgrade", "error", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		ctx := c.Request.Context()
		defer func() {
			handler.handler.OnDisconnect(ctx, c.Request)
			_ = conn.Close()
		}()

		handler.handle(ctx, c.Request, conn)
	}
}

// originAllowed matches the Origin header against the configured CORS
// hosts. Entries are either full origins ("http://localhost:5173") or
// host[:port] ("obs.example.com:443"). No hosts means any origin, like
// the HTTP CORS middleware.
func originAllowed(origin string, corsHosts []string) bool {
	if origin == "" || len(corsHosts) == 0 {
		return true
	}
	u, err := url.Parse(strings.ToLower(origin))
	if err != nil || u.Host == "" {
		return false
	}
	originHost := hostPort(u)
	for _, host := range corsHosts {
		host = strings.ToLower(strings.TrimSpace(host))
		if strings.Contains(host, "://") {
			allowed, err := url.Parse(host)
			if err != nil {
				continue
			}
			if allowed.Scheme == u.Scheme && hostPort(allowed) == originHost {
				return true
			}
			continue
		}
		if _, _, err := net.SplitHostPort(host); err == nil {
			if host == originHost {
				return true
			}
		} else if host == u.Hostname() {
			return true
		}
	}
	return false
}

func hostPort(u *url.URL) string {
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https", "wss":
			port = "443"
		default:
			port = "80"
		}
	}
	return net.JoinHostPort(u.Hostname(), port)
}

func (h *WSHandler) handle(ctx context.Context, r *http.Request, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	writer := wsWriter{
		writer: make(chan Message, bufferSize),
		error:  make(chan string),
		done:   done,
	}
	h.handler.OnConnect(ctx, r, writer)

	go func() {
		for {
			t, msg, err := conn.ReadMessage()
			if err != nil {
				writer.Error("read failed")
				return
			}
			if strings.EqualFold(string(msg), "ping") {
				writer.WriteMessage(Message{
					Type: websocket.TextMessage,
					Data: []byte("PONG"),
				})
				continue
			}
			h.handler.OnMessage(ctx, r, writer, msg, t)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-writer.error:
			return
		case msg := <-writer.writer:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := conn.WriteMessage(msg.Type, msg.Data)
			if err != nil {
				return
			}
		}
	}
}
