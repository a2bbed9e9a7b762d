package socket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hubServer is a minimal hub endpoint for exercising the client: it tracks
// joins, pushes admin-update frames, and can kill connections server-side
type hubServer struct {
	upgrader websocket.Upgrader
	upgrades int32
	joins    int32

	mu    sync.Mutex
	conns []*websocket.Conn
}

func newHubServer(t *testing.T) (*hubServer, string) {
	t.Helper()
	hs := &hubServer{}
	srv := httptest.NewServer(http.HandlerFunc(hs.handle))
	t.Cleanup(srv.Close)
	return hs, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func (hs *hubServer) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := hs.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	atomic.AddInt32(&hs.upgrades, 1)
	hs.mu.Lock()
	hs.conns = append(hs.conns, conn)
	hs.mu.Unlock()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg message
		if json.Unmarshal(data, &msg) == nil && msg.Event == msgJoinAdminDashboard {
			atomic.AddInt32(&hs.joins, 1)
		}
	}
}

func (hs *hubServer) push(t *testing.T, event Event) {
	t.Helper()
	envelope, err := json.Marshal(event)
	require.NoError(t, err)
	frame, err := json.Marshal(message{Event: msgAdminUpdate, Data: envelope})
	require.NoError(t, err)

	hs.mu.Lock()
	defer hs.mu.Unlock()
	for _, conn := range hs.conns {
		conn.WriteMessage(websocket.TextMessage, frame)
	}
}

func (hs *hubServer) dropAll() {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	for _, conn := range hs.conns {
		conn.Close()
	}
	hs.conns = nil
}

func (hs *hubServer) joinCount() int32 { return atomic.LoadInt32(&hs.joins) }

func TestClientJoinsAndReceivesEvents(t *testing.T) {
	hs, url := newHubServer(t)

	var mu sync.Mutex
	var received []Event
	client := NewClient(url, func(e Event) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	})
	client.RetryDelay = 50 * time.Millisecond
	t.Cleanup(client.Close)

	require.NoError(t, client.Connect())
	require.Eventually(t, func() bool { return hs.joinCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, client.IsConnected())

	hs.push(t, Event{Type: EventDashboardStats, Payload: map[string]interface{}{"users": float64(3)}})
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, EventDashboardStats, received[0].Type)
	assert.Equal(t, float64(3), received[0].Payload["users"])
	mu.Unlock()
}

func TestClientReconnectsAndRejoins(t *testing.T) {
	hs, url := newHubServer(t)

	var events int32
	client := NewClient(url, func(Event) { atomic.AddInt32(&events, 1) })
	client.RetryDelay = 50 * time.Millisecond
	t.Cleanup(client.Close)

	require.NoError(t, client.Connect())
	require.Eventually(t, func() bool { return hs.joinCount() == 1 }, time.Second, 5*time.Millisecond)

	// Server-side drop: the client must come back and re-join on its own
	hs.dropAll()
	require.Eventually(t, func() bool { return hs.joinCount() == 2 }, 2*time.Second, 10*time.Millisecond,
		"client should reconnect and rejoin after a server-side close")
	require.Eventually(t, func() bool { return client.IsConnected() }, time.Second, 5*time.Millisecond)

	// Exactly one connection survives: an event arrives once, not per attempt
	hs.push(t, Event{Type: EventNewNotification})
	require.Eventually(t, func() bool { return atomic.LoadInt32(&events) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt32(&events))
	assert.EqualValues(t, 2, atomic.LoadInt32(&hs.upgrades), "a stable connection must not keep redialing")
}

func TestClientDialFailureSchedulesSingleRetry(t *testing.T) {
	client := NewClient("ws://127.0.0.1:1/ws/admin", nil)
	client.RetryDelay = time.Minute

	err := client.Connect()
	require.Error(t, err)
	assert.False(t, client.IsConnected())

	// Only one retry may be pending regardless of how many paths report the
	// failure
	client.scheduleReconnect()
	client.scheduleReconnect()
	client.mu.Lock()
	retrying := client.retrying
	client.mu.Unlock()
	assert.True(t, retrying)

	client.Close()
}

func TestClientCloseStopsRetrying(t *testing.T) {
	client := NewClient("ws://127.0.0.1:1/ws/admin", nil)
	client.RetryDelay = 10 * time.Millisecond

	require.Error(t, client.Connect())
	client.Close()

	time.Sleep(50 * time.Millisecond)
	assert.False(t, client.IsConnected())
}

func TestPollFallbackRunsOnlyWhileDisconnected(t *testing.T) {
	client := NewClient("ws://127.0.0.1:1/ws/admin", nil)

	var refreshes int32
	stop := client.PollFallback(10*time.Millisecond, func() { atomic.AddInt32(&refreshes, 1) })

	require.Eventually(t, func() bool { return atomic.LoadInt32(&refreshes) >= 2 }, time.Second, 5*time.Millisecond)

	stop()
	at := atomic.LoadInt32(&refreshes)
	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, at, atomic.LoadInt32(&refreshes), "stop must end the polling loop")
}
