package socket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// AdminDashboardRoom is the room admin sessions join to receive broadcasts
const AdminDashboardRoom = "admin-dashboard"

// Timeouts follow the gorilla chat example
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Per-session outbound buffer; a session that falls this far behind is
	// dropped (delivery is at-most-once, the dashboard's poll catches up)
	sendBuffer = 32
)

// wsConn is the subset of the websocket connection the hub needs. Both the
// fasthttp-side server conn and test fakes satisfy it.
type wsConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// session is one connected dashboard client. send is never closed: closing
// it would race concurrent broadcasters holding a stale membership snapshot,
// and a select send on a closed channel panics even with a default arm. The
// done channel carries the shutdown signal instead; a frame sent to a dead
// session just sits in the buffer until the session is collected.
type session struct {
	conn   wsConn
	send   chan []byte
	done   chan struct{}
	userID uint

	closeOnce sync.Once
}

func newSession(conn wsConn, userID uint) *session {
	return &session{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		userID: userID,
	}
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// writePump drains the send channel onto the wire and keeps the connection
// alive with pings. One writer goroutine per connection; the underlying
// conn does not allow concurrent writes.
func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case data := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Hub tracks room membership and fans events out to members. Room
// membership is per physical connection: a reconnecting client must re-join.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*session]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*session]struct{})}
}

func (h *Hub) join(s *session, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*session]struct{})
	}
	h.rooms[room][s] = struct{}{}
	log.Printf("[SOCKET] user %d joined room %q (%d members)", s.userID, room, len(h.rooms[room]))
}

func (h *Hub) leave(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, members := range h.rooms {
		if _, ok := members[s]; ok {
			delete(members, s)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
}

// Broadcast publishes the event to every member of the admin dashboard room
func (h *Hub) Broadcast(event Event) {
	h.BroadcastTo(AdminDashboardRoom, event)
}

// BroadcastTo publishes the event to every member of the named room.
// Best-effort, at-most-once: a session whose buffer is full is dropped.
func (h *Hub) BroadcastTo(room string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("[SOCKET] event marshal failed: %v", err)
		return
	}
	frame, err := json.Marshal(message{Event: msgAdminUpdate, Data: payload})
	if err != nil {
		log.Printf("[SOCKET] frame marshal failed: %v", err)
		return
	}

	h.mu.RLock()
	members := make([]*session, 0, len(h.rooms[room]))
	for s := range h.rooms[room] {
		members = append(members, s)
	}
	h.mu.RUnlock()

	for _, s := range members {
		select {
		case s.send <- frame:
		default:
			log.Printf("[SOCKET] dropping slow session for user %d", s.userID)
			h.leave(s)
			s.close()
		}
	}
}

// RoomSize reports current membership of a room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// UpgradeCheck rejects plain HTTP requests to the websocket endpoint
func (h *Hub) UpgradeCheck(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler upgrades the connection and services it until it drops. Auth
// middleware has already placed userId in Locals.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userId").(uint)
		s := newSession(conn, userID)
		go s.writePump()
		h.readPump(s)
	})
}

// readPump consumes client frames until the connection fails, honoring the
// join request and the pong deadline
func (h *Hub) readPump(s *session) {
	defer func() {
		h.leave(s)
		s.close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Event == msgJoinAdminDashboard {
			h.join(s, AdminDashboardRoom)
		}
	}
}
