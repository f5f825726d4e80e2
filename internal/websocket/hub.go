// internal/websocket/hub.go
package websocket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Bets-Dmytro/Lab3-IoT/internal/data"
)

// Hub owns the set of active subscribers and delivers each committed batch
// to all of them. Membership changes and broadcasts are serialized by the
// Run loop; the mutex only guards the map against concurrent readers.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
		done:       make(chan struct{}),
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
}

// remove reports whether the client was still a member, so that its send
// channel is closed exactly once even when a disconnect and a failed send
// race each other.
func (h *Hub) remove(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return false
	}
	delete(h.clients, client)
	return true
}

// snapshot copies the membership so delivery iterates without holding the
// lock while sends are in flight.
func (h *Hub) snapshot() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	return clients
}

// ClientCount returns the current number of subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run services registrations, disconnects and broadcasts until Shutdown.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.add(client)
			log.Info().Str("client", client.ID.String()).Msg("websocket client registered")

		case client := <-h.unregister:
			if h.remove(client) {
				close(client.Send)
				log.Info().Str("client", client.ID.String()).Msg("websocket client unregistered")
			}

		case message := <-h.broadcast:
			for _, client := range h.snapshot() {
				select {
				case client.Send <- message:
				default:
					// Send buffer full or client gone: drop this
					// subscriber and keep delivering to the rest.
					if h.remove(client) {
						close(client.Send)
					}
					log.Warn().Str("client", client.ID.String()).Msg("websocket client not keeping up, removing")
				}
			}

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Shutdown stops the Run loop and drops every remaining subscriber.
func (h *Hub) Shutdown() {
	h.stopOnce.Do(func() { close(h.done) })
}

// RegisterClient hands a freshly upgraded connection to the Run loop.
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// UnregisterClient releases a client; safe to call more than once and after
// shutdown.
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastBatch delivers a freshly committed batch to every subscriber.
// It hands the payload to the Run loop and returns; the caller's request
// never waits on a slow subscriber.
func (h *Hub) BroadcastBatch(records []data.StoredAgentData) {
	message, err := json.Marshal(map[string]interface{}{"type": "data", "payload": records})
	if err != nil {
		log.Error().Err(err).Msg("error marshalling batch for broadcast")
		return
	}
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}
