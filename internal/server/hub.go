package server

import (
	"encoding/json"
	"log"
	"sync"

	"secrethitler/internal/protocol"
)

// Seat identifies the player a connection speaks for.
type Seat struct {
	SessionID string
	PlayerID  string
}

// Hub is the connection table. It maps each seat to the one connection
// currently attached to it and implements session.Notifier.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]Seat // every open connection; zero Seat if unseated
	seats   map[Seat]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]Seat),
		seats:   make(map[Seat]*Client),
	}
}

// Register adds a freshly opened connection.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = Seat{}
}

// Unregister drops a closed connection and closes its send queue. It
// returns the seat the connection still held, if it was the one attached.
func (h *Hub) Unregister(c *Client) (Seat, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	seat, ok := h.clients[c]
	if !ok {
		return Seat{}, false
	}
	delete(h.clients, c)
	close(c.send)
	if seat == (Seat{}) || h.seats[seat] != c {
		return Seat{}, false
	}
	delete(h.seats, seat)
	return seat, true
}

// Attach seats c. Any other connection on the same seat is unseated and
// returned so the caller can tell it.
func (h *Hub) Attach(c *Client, seat Seat) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return nil
	}
	if prev := h.clients[c]; prev != (Seat{}) && h.seats[prev] == c {
		delete(h.seats, prev)
	}
	old := h.seats[seat]
	if old == c {
		old = nil
	}
	if old != nil {
		h.clients[old] = Seat{}
	}
	h.seats[seat] = c
	h.clients[c] = seat
	return old
}

// Detach unseats c without closing it.
func (h *Hub) Detach(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	seat, ok := h.clients[c]
	if !ok || seat == (Seat{}) {
		return
	}
	if h.seats[seat] == c {
		delete(h.seats, seat)
	}
	h.clients[c] = Seat{}
}

// SeatOf returns the seat c currently holds.
func (h *Hub) SeatOf(c *Client) (Seat, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seat := h.clients[c]
	return seat, seat != (Seat{})
}

// Notify queues env for whoever holds the seat. It never blocks.
func (h *Hub) Notify(sessionID, playerID string, env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("hub: marshal %s: %v", env.Type, err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.seats[Seat{SessionID: sessionID, PlayerID: playerID}]
	if !ok {
		return
	}
	if !c.enqueue(data) {
		log.Printf("hub: send buffer full for player %s in %s, dropping %s", playerID, sessionID, env.Type)
	}
}

// Send queues env for one connection, seated or not.
func (h *Hub) Send(c *Client, env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("hub: marshal %s: %v", env.Type, err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	if !c.enqueue(data) {
		log.Printf("hub: send buffer full, dropping %s", env.Type)
	}
}

// Stats returns the number of open and seated connections.
func (h *Hub) Stats() (open, seated int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients), len(h.seats)
}
