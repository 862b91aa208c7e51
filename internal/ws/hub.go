package ws

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Upgrader returns the upgrader handlers use; browser clients connect from
// other origins, so the origin check is open
func Upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
}

// Event is the envelope every websocket frame carries
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Event types pushed to game subscribers
const (
	EventGameUpdate  = "game_update"
	EventChatMessage = "chat_message"
)

// Conn wraps a websocket connection so multiple publishers can write to it
// without interleaving frames
type Conn struct {
	writeMu sync.Mutex
	socket  *websocket.Conn
}

// NewConn wraps an upgraded websocket connection
func NewConn(socket *websocket.Conn) *Conn {
	return &Conn{socket: socket}
}

// Send writes one event to the connection
func (c *Conn) Send(event Event) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.socket.WriteJSON(event)
}

// Close closes the underlying connection
func (c *Conn) Close() error {
	return c.socket.Close()
}

// Hub fans events out to the connections subscribed to a topic. Topics are
// game IDs; a connection subscribes to exactly one.
type Hub struct {
	mu        sync.Mutex
	listeners map[string][]*Conn
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		listeners: make(map[string][]*Conn),
	}
}

// Register subscribes a connection to a topic
func (h *Hub) Register(topic string, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.listeners[topic] = append(h.listeners[topic], conn)
}

// Unregister removes a connection from a topic
func (h *Hub) Unregister(topic string, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.listeners[topic]
	for i, listener := range conns {
		if listener == conn {
			h.listeners[topic] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.listeners[topic]) == 0 {
		delete(h.listeners, topic)
	}
}

// Publish sends an event to every connection subscribed to the topic.
// Dead connections are dropped on the spot.
func (h *Hub) Publish(topic string, event Event) {
	h.mu.Lock()
	conns := make([]*Conn, len(h.listeners[topic]))
	copy(conns, h.listeners[topic])
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.Send(event); err != nil {
			h.Unregister(topic, conn)
			_ = conn.Close()
		}
	}
}

// ListenerCount reports how many connections a topic has
func (h *Hub) ListenerCount(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners[topic])
}
