package realtime

import "encoding/json"

// Inbound event names recognized from a connected client.
const (
	EventAuthenticate = "authenticate"
	EventJoinRoom     = "join_room"
	EventLeaveRoom    = "leave_room"
	EventDashboardSub = "admin_dashboard_subscribe"
	EventUserActivity = "user_activity"
)

// Outbound event names pushed to clients.
const (
	EventConnectionEstablished = "connection_established"
	EventAuthSuccess           = "authentication_success"
	EventAuthError             = "authentication_error"
	EventRoomJoined            = "room_joined"
	EventRoomJoinError         = "room_join_error"
	EventRoomLeft              = "room_left"
	EventDashboardUpdate       = "dashboard_update"
	EventRealTimeAnalytics     = "real_time_analytics"
	EventActiveUsersCount      = "active_users_count"
	EventNotification          = "notification"
	EventError                 = "error"
)

// Envelope is the wire format for every frame in both directions:
// {"event": "...", "data": {...}}.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func encodeEvent(event string, data any) ([]byte, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
