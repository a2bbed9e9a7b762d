package socket

import "encoding/json"

// Event types broadcast to the admin dashboard room
const (
	EventUserStatusChange   = "user-status-change"
	EventUserDeleted        = "user-deleted"
	EventJobStatusChange    = "job-status-change"
	EventNewNotification    = "new-notification"
	EventNotificationUpdate = "notification-update"
	EventNotificationDelete = "notification-delete"
	EventProfileUpdate      = "profile-update"
	EventCompletion         = "completion"
	EventDashboardStats     = "dashboard-stats"
)

// Event is the typed envelope sent to room members. On the wire the payload
// fields sit alongside "type" at the top level: {"type": ..., field: ...}.
type Event struct {
	Type    string
	Payload map[string]interface{}
}

func (e Event) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		m[k] = v
	}
	m["type"] = e.Type
	return json.Marshal(m)
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if t, ok := m["type"].(string); ok {
		e.Type = t
	}
	delete(m, "type")
	e.Payload = m
	return nil
}

// Broadcaster publishes events to the admin dashboard room. Handlers that
// need to publish receive one explicitly; there is no ambient global.
type Broadcaster interface {
	Broadcast(event Event)
}

// message is the wire frame in both directions. Client to server it carries
// only an event name ("join-admin-dashboard"); server to client the event
// is "admin-update" and Data holds the envelope.
type message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Wire event names
const (
	msgJoinAdminDashboard = "join-admin-dashboard"
	msgAdminUpdate        = "admin-update"
)
