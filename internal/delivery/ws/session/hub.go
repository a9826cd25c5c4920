package ws_session

import (
	"log/slog"
	"sync"

	infra_metrics "github.com/humanbelnik/kinofav/core/internal/infra/metrics"
)

// Hub keeps track of the open tabs of every browser session.
type Hub struct {
	mu sync.RWMutex

	sessions map[string]map[*Client]bool

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		sessions: make(map[string]map[*Client]bool),
		logger:   logger,
	}
}

func (h *Hub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[client.sessionID]; !ok {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true
	infra_metrics.SessionClients.Inc()

	h.logger.Info("client registered",
		slog.String("session", client.sessionID),
		slog.Int("tabs", len(h.sessions[client.sessionID])),
	)
}

func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.sessions[client.sessionID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}
	infra_metrics.SessionClients.Dec()

	h.logger.Info("client unregistered", slog.String("session", client.sessionID))
}

// Clients reports how many tabs of the session are connected.
func (h *Hub) Clients(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Shutdown disconnects every client.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	all := make([]*Client, 0)
	for _, clients := range h.sessions {
		for c := range clients {
			all = append(all, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range all {
		c.close()
	}
}
