package notify

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub keeps one websocket per connected user
type Hub struct {
	clients map[string]*websocket.Conn
	mutex   sync.Mutex
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*websocket.Conn)}
}

// ServeWS upgrades the request and registers the connection under ?userId=
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade failed", "error", err)
		return
	}

	h.mutex.Lock()
	if old, ok := h.clients[userID]; ok {
		old.Close()
	}
	h.clients[userID] = conn
	h.mutex.Unlock()
	zap.S().Debugw("user connected to notifications", "userId", userID)

	for {
		if _, _, err := conn.NextReader(); err != nil {
			h.remove(userID, conn)
			return
		}
	}
}

// Connected reports whether userID has a live connection
func (h *Hub) Connected(userID string) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	_, ok := h.clients[userID]
	return ok
}

// SendToUser writes the event to the user's socket, dropping the connection on error
func (h *Hub) SendToUser(userID string, evt Event) {
	h.mutex.Lock()
	conn, exists := h.clients[userID]
	h.mutex.Unlock()
	if !exists {
		return
	}

	err := conn.WriteJSON(map[string]interface{}{
		"event": evt.Type,
		"data":  evt,
	})
	if err != nil {
		zap.S().Warnw("failed to send notification", "userId", userID, "error", err)
		h.remove(userID, conn)
	}
}

func (h *Hub) remove(userID string, conn *websocket.Conn) {
	h.mutex.Lock()
	if h.clients[userID] == conn {
		delete(h.clients, userID)
	}
	h.mutex.Unlock()
	conn.Close()
}
