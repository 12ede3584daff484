package ws

import (
	"encoding/json"
	"log"
)

// Hub keeps the set of connected clients and fans events out to all of them.
// Delivery is at-most-once: a client connected when Emit runs gets the event,
// anyone else never will. There is no queueing for disconnected clients.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run owns the client map; all map access happens on this goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("websocket client connected: %s", client.conn.RemoteAddr())

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("websocket client disconnected: %s", client.conn.RemoteAddr())
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client can't keep up, drop it.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Emit broadcasts an event envelope {"type": event, "payload": payload} to
// every connected client. Fire-and-forget: there is no delivery report.
func (h *Hub) Emit(event string, payload interface{}) {
	message, err := json.Marshal(map[string]interface{}{
		"type":    event,
		"payload": payload,
	})
	if err != nil {
		log.Printf("failed to marshal %s event: %v", event, err)
		return
	}
	h.broadcast <- message
}
