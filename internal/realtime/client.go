package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/tracking"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	employeeID string // empty for the global room
}

// inboundMessage is what a websocket client may push: the same payload
// the REST ingest endpoints take, plus the type discriminator. Valid
// types are the three ingest actions.
type inboundMessage struct {
	Type tracking.Action `json:"type"`
	tracking.IngestRequest
}

// replyType maps an inbound ingest type to its response envelope type.
// Check actions get a "_response" suffix; location updates mirror the
// broadcast type.
func replyType(action tracking.Action) string {
	switch action {
	case tracking.ActionCheckIn:
		return "check_in_response"
	case tracking.ActionCheckOut:
		return "check_out_response"
	default:
		return string(tracking.ActionUpdateLocation)
	}
}

// ServeWS upgrades the request and attaches the client to the hub.
// employeeID selects the per-employee room; empty joins the global one.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, employeeID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := &Client{
		hub:        h,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
		employeeID: employeeID,
	}
	h.register(client)

	go client.writePump()
	go client.readPump()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is enforced by the CORS middleware in front of
	// the upgrade; the handshake itself accepts any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// readPump consumes inbound frames. Location payloads go through the
// normal ingest path; the result or error is echoed back to this client
// only. Ingest runs on a connection-scoped context, not the upgrade
// request's, which net/http cancels as soon as the handler returns.
func (c *Client) readPump() {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", slog.Any("error", err))
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.reply(errorEnvelope{Type: "error", Message: "malformed message"})
			continue
		}

		switch msg.Type {
		case tracking.ActionCheckIn, tracking.ActionCheckOut, tracking.ActionUpdateLocation:
		default:
			// Unrecognized types are dropped without a reply.
			continue
		}

		if c.hub.ingest == nil {
			c.reply(errorEnvelope{Type: "error", Message: "ingest not available"})
			continue
		}

		result, err := c.hub.ingest(ctx, msg.Type, msg.IngestRequest)
		if err != nil {
			c.reply(resultEnvelope{Type: replyType(msg.Type), Success: false, Message: err.Error()})
			continue
		}

		c.reply(resultEnvelope{Type: replyType(msg.Type), Success: true, Message: "ok", Data: result})
	}
}

func (c *Client) reply(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
