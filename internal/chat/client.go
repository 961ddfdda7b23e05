package chat

import (
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/ksuid"
)

const sendBufferSize = 256

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	// ID is a sortable unique id used to correlate log lines.
	ID string
	// Name is the display name the client connected with. It is not
	// authenticated and need not be unique.
	Name string

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient creates a client for conn. It is not registered until passed to
// Hub.Register.
func NewClient(hub *Hub, conn *websocket.Conn, name string) *Client {
	return &Client{
		ID:   ksuid.New().String(),
		Name: name,
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// ReadPump relays inbound frames to the hub until the connection fails, then
// unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Debug().Err(err).Str("client_id", c.ID).Msg("Chat read failed")
			}
			return
		}
		c.hub.Broadcast(c, data)
	}
}

// WritePump writes queued messages to the connection. It exits when the hub
// closes the send channel or a write fails.
func (c *Client) WritePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Debug().Err(err).Str("client_id", c.ID).Msg("Chat write failed")
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
