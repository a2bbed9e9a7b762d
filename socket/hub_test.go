package socket

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn feeds scripted frames to readPump and records writes
type fakeConn struct {
	reads chan []byte

	mu     sync.Mutex
	writes [][]byte
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{reads: make(chan []byte, 8)}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	data, ok := <-f.reads
	if !ok {
		return 0, nil, errors.New("connection closed")
	}
	return 1, data, nil
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.New("connection closed")
	}
	f.writes = append(f.writes, data)
	return nil
}

func (f *fakeConn) SetReadLimit(limit int64)            {}
func (f *fakeConn) SetReadDeadline(t time.Time) error   { return nil }
func (f *fakeConn) SetWriteDeadline(t time.Time) error  { return nil }
func (f *fakeConn) SetPongHandler(h func(string) error) {}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func TestEventMarshalFlattensPayload(t *testing.T) {
	event := Event{Type: EventCompletion, Payload: map[string]interface{}{
		"user_id":        float64(7),
		"resource_title": "Intro to Excel",
	}}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, EventCompletion, m["type"])
	assert.Equal(t, "Intro to Excel", m["resource_title"])

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, event.Type, decoded.Type)
	assert.Equal(t, event.Payload, decoded.Payload)
}

func TestBroadcastDeliversAdminUpdateFrame(t *testing.T) {
	hub := NewHub()
	s := newSession(newFakeConn(), 1)
	hub.join(s, AdminDashboardRoom)

	hub.Broadcast(Event{Type: EventUserStatusChange, Payload: map[string]interface{}{
		"user_id": float64(42),
		"status":  "suspended",
	}})

	select {
	case frame := <-s.send:
		var msg message
		require.NoError(t, json.Unmarshal(frame, &msg))
		assert.Equal(t, msgAdminUpdate, msg.Event)

		var event Event
		require.NoError(t, json.Unmarshal(msg.Data, &event))
		assert.Equal(t, EventUserStatusChange, event.Type)
		assert.Equal(t, "suspended", event.Payload["status"])
	default:
		t.Fatal("expected a frame on the session's send channel")
	}
}

func TestBroadcastSkipsOtherRooms(t *testing.T) {
	hub := NewHub()
	member := newSession(newFakeConn(), 1)
	outsider := newSession(newFakeConn(), 2)
	hub.join(member, AdminDashboardRoom)
	hub.join(outsider, "some-other-room")

	hub.Broadcast(Event{Type: EventDashboardStats})

	assert.Len(t, member.send, 1)
	assert.Len(t, outsider.send, 0)
}

func TestBroadcastDropsSlowSession(t *testing.T) {
	hub := NewHub()
	slow := newSession(newFakeConn(), 1)
	hub.join(slow, AdminDashboardRoom)

	// Fill the outbound buffer without draining it
	for i := 0; i < sendBuffer; i++ {
		hub.Broadcast(Event{Type: EventDashboardStats})
	}
	require.Equal(t, 1, hub.RoomSize(AdminDashboardRoom))

	// One more and the session is gone instead of blocking the broadcast
	hub.Broadcast(Event{Type: EventDashboardStats})
	assert.Equal(t, 0, hub.RoomSize(AdminDashboardRoom))

	// The shutdown signal fires exactly once; a repeat close must not panic
	slow.close()
	select {
	case <-slow.done:
	default:
		t.Fatal("dropped session should be signalled done")
	}
}

func TestConcurrentBroadcastSurvivesSessionDrop(t *testing.T) {
	// Two broadcasters racing over a session that is being dropped must
	// never panic: one goroutine drops the slow session while the other
	// still holds it in its membership snapshot and sends to it.
	for i := 0; i < 200; i++ {
		hub := NewHub()

		slow := newSession(newFakeConn(), 99)
		hub.join(slow, AdminDashboardRoom)
		for j := 0; j < sendBuffer; j++ {
			slow.send <- []byte("backlog")
		}

		healthy := make([]*session, 4)
		for j := range healthy {
			healthy[j] = newSession(newFakeConn(), uint(j))
			hub.join(healthy[j], AdminDashboardRoom)
		}

		var wg sync.WaitGroup
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				hub.Broadcast(Event{Type: EventDashboardStats})
			}()
		}
		wg.Wait()

		assert.Equal(t, len(healthy), hub.RoomSize(AdminDashboardRoom),
			"only the slow session should have been dropped")
		for _, s := range healthy {
			assert.NotEmpty(t, s.send, "healthy sessions still receive frames")
		}
	}
}

func TestReadPumpHonorsJoinAndLeavesOnDisconnect(t *testing.T) {
	hub := NewHub()
	conn := newFakeConn()
	s := newSession(conn, 9)

	done := make(chan struct{})
	go func() {
		hub.readPump(s)
		close(done)
	}()

	join, _ := json.Marshal(message{Event: msgJoinAdminDashboard})
	conn.reads <- join

	require.Eventually(t, func() bool {
		return hub.RoomSize(AdminDashboardRoom) == 1
	}, time.Second, 5*time.Millisecond, "join frame should add the session to the room")

	// Garbage frames are ignored, not fatal
	conn.reads <- []byte("not json")
	assert.Equal(t, 1, hub.RoomSize(AdminDashboardRoom))

	close(conn.reads)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("readPump did not exit on connection error")
	}
	assert.Equal(t, 0, hub.RoomSize(AdminDashboardRoom), "disconnect must clear membership")
}
