package socket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultRetryDelay is how long the client waits before a reconnect attempt
const DefaultRetryDelay = time.Second

// Client is a dashboard-side connection to the broadcast hub. The hub does
// not preserve room membership across a physical disconnect, so the client
// re-emits the join request after every successful dial. Disconnects and
// dial errors both schedule a retry, with at most one pending attempt at a
// time.
type Client struct {
	url        string
	RetryDelay time.Duration

	onEvent func(Event)

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	retrying  bool
	closed    bool
}

// NewClient prepares a client for the given websocket URL (token already in
// the query string). onEvent receives every admin-update envelope; it may
// be nil.
func NewClient(url string, onEvent func(Event)) *Client {
	return &Client{url: url, RetryDelay: DefaultRetryDelay, onEvent: onEvent}
}

// Connect dials the hub and joins the admin dashboard room. A dial failure
// schedules a retry before returning the error, so one Connect call is
// enough to keep the client trying.
func (c *Client) Connect() error {
	c.mu.Lock()
	if c.closed || c.connected {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		log.Printf("[SOCKET-CLIENT] connect to %s failed: %v", c.url, err)
		c.scheduleReconnect()
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return nil
	}
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	// Membership is not preserved across disconnects: rejoin every time
	join, _ := json.Marshal(message{Event: msgJoinAdminDashboard})
	if err := conn.WriteMessage(websocket.TextMessage, join); err != nil {
		c.dropConn(conn)
		c.scheduleReconnect()
		return err
	}

	go c.readLoop(conn)
	return nil
}

// IsConnected reports whether a live connection exists. Consumers use it to
// fall back to polling while disconnected.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Close stops the client permanently
func (c *Client) Close() {
	c.mu.Lock()
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.connected = false
	c.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// PollFallback invokes refresh every interval while the socket is
// disconnected, as the compensating control for dropped events. The
// returned stop function ends the loop.
func (c *Client) PollFallback(interval time.Duration, refresh func()) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !c.IsConnected() {
					refresh()
				}
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

func (c *Client) readLoop(conn *websocket.Conn) {
	defer func() {
		c.dropConn(conn)
		c.scheduleReconnect()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Event != msgAdminUpdate || c.onEvent == nil {
			continue
		}
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			continue
		}
		c.onEvent(event)
	}
}

func (c *Client) dropConn(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.connected = false
	}
	c.mu.Unlock()
	conn.Close()
}

// scheduleReconnect arms a single delayed reconnect attempt. Disconnect and
// dial-error paths both land here; the retrying flag keeps them from
// stacking concurrent attempts against the same endpoint.
func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	if c.closed || c.retrying || c.connected {
		c.mu.Unlock()
		return
	}
	c.retrying = true
	delay := c.RetryDelay
	c.mu.Unlock()

	time.AfterFunc(delay, func() {
		c.mu.Lock()
		c.retrying = false
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}
		// Connect re-arms the retry on failure
		c.Connect()
	})
}
