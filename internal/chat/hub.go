// Package chat implements the broadcast chat room. A single Hub goroutine owns
// the set of connected clients; every registration, removal and fan-out is a
// message to it, so the set is never touched concurrently.
package chat

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

type message struct {
	from *Client
	data []byte
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	// Registered clients. Only Run reads or writes it.
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan message

	// Closed when Run returns.
	done chan struct{}

	count atomic.Int64
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message),
		done:       make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns when ctx is
// cancelled, after closing every remaining client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.remove(client)
			}
			log.Info().Msg("Chat hub stopped")
			return
		case client := <-h.register:
			h.clients[client] = true
			h.count.Store(int64(len(h.clients)))
			log.Info().Str("client_id", client.ID).Str("name", client.Name).Int("total_clients", len(h.clients)).Msg("Chat client connected")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				log.Info().Str("client_id", client.ID).Int("total_clients", len(h.clients)).Msg("Chat client disconnected")
			}
		case msg := <-h.broadcast:
			if _, ok := h.clients[msg.from]; !ok {
				continue
			}
			for client := range h.clients {
				if client == msg.from {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					h.remove(client)
					log.Warn().Str("client_id", client.ID).Msg("Dropped chat client with full send buffer")
				}
			}
		}
	}
}

// Register adds a client. It returns false if the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its send channel. Unknown or already
// removed clients are ignored.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast relays text from a client to every other registered client as
// "name: text".
func (h *Hub) Broadcast(from *Client, text []byte) {
	select {
	case h.broadcast <- message{from: from, data: FormatMessage(from.Name, text)}:
	case <-h.done:
	}
}

// ClientCount reports how many clients are registered.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.count.Store(int64(len(h.clients)))
}
