package websocket

import (
	"sync"

	"go.uber.org/zap"
)

// Hub is the connection registry plus the event broadcaster. Every
// mutation endpoint fans its event out through a single shared Hub
// instance injected via the realtime service.
//
// Delivery is best-effort: no acknowledgment, no replay, no ordering
// guarantee across connections. A client that is offline during an
// event misses it until it refetches on demand.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	// userClients indexes open connections by user for targeted sends
	// (direct messages, personal notifications).
	userClients map[uint64][]*Client
	logger      *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		userClients: make(map[uint64][]*Client),
		logger:      logger,
	}
}

// Register adds an open connection to the registry.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client] {
		return
	}
	h.clients[client] = true
	h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
	h.logger.Debug("websocket client registered", zap.Uint64("userID", client.UserID))
}

// Unregister removes a connection and closes its send channel. Removing
// an already-removed client is a no-op.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unregisterLocked(client)
}

func (h *Hub) unregisterLocked(client *Client) {
	if !h.clients[client] {
		return
	}
	delete(h.clients, client)
	close(client.Send)

	clients := h.userClients[client.UserID]
	for i, c := range clients {
		if c == client {
			h.userClients[client.UserID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.userClients[client.UserID]) == 0 {
		delete(h.userClients, client.UserID)
	}
	h.logger.Debug("websocket client unregistered", zap.Uint64("userID", client.UserID))
}

// Broadcast serializes {type, data} once and writes it to every open
// connection. A client whose send buffer is full is dropped and
// unregistered rather than blocking the fan-out.
func (h *Hub) Broadcast(eventType string, data interface{}) error {
	message, err := Envelope{Type: eventType, Data: data}.Marshal()
	if err != nil {
		h.logger.Error("failed to marshal websocket event", zap.String("type", eventType), zap.Error(err))
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.Send <- message:
		default:
			h.unregisterLocked(client)
		}
	}
	return nil
}

// SendToUsers delivers an event only to the connections of the listed
// users. Users without open connections are skipped silently.
func (h *Hub) SendToUsers(userIDs []uint64, eventType string, data interface{}) error {
	message, err := Envelope{Type: eventType, Data: data}.Marshal()
	if err != nil {
		h.logger.Error("failed to marshal websocket event", zap.String("type", eventType), zap.Error(err))
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, userID := range userIDs {
		// Snapshot: unregistering mutates the slice in place.
		clients := append([]*Client(nil), h.userClients[userID]...)
		for _, client := range clients {
			select {
			case client.Send <- message:
			default:
				h.unregisterLocked(client)
			}
		}
	}
	return nil
}

// ClientCount reports the number of registered connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
