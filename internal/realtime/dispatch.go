package realtime

import (
	"context"
	"encoding/json"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Dispatcher routes inbound client frames to hub operations and pushes the
// matching acknowledgment or error event back to the caller. Payloads are
// caller-controlled JSON; fields are extracted without binding the whole
// frame to a struct.
type Dispatcher struct {
	hub  *Hub
	snap *Snapshotter
	log  *zap.Logger
}

// NewDispatcher wires the dispatcher to the hub and the snapshotter (used
// for the immediate snapshot on dashboard subscribe).
func NewDispatcher(hub *Hub, snap *Snapshotter, log *zap.Logger) *Dispatcher {
	return &Dispatcher{hub: hub, snap: snap, log: log.With(zap.String("component", "realtime_dispatch"))}
}

// HandleMessage processes one inbound frame for a connection. Malformed or
// unknown frames produce an error event; they never terminate the
// connection.
func (d *Dispatcher) HandleMessage(ctx context.Context, connID string, raw []byte) {
	if !gjson.ValidBytes(raw) {
		d.hub.SendToConn(connID, EventError, map[string]any{"message": "invalid message format"})
		return
	}
	event := gjson.GetBytes(raw, "event").String()

	switch event {
	case EventAuthenticate:
		d.authenticate(ctx, connID, gjson.GetBytes(raw, "data.token").String())

	case EventJoinRoom:
		d.joinRoom(connID, gjson.GetBytes(raw, "data.room").String())

	case EventLeaveRoom:
		room := gjson.GetBytes(raw, "data.room").String()
		d.hub.LeaveRoom(connID, room)
		d.hub.SendToConn(connID, EventRoomLeft, map[string]any{"room": room})

	case EventDashboardSub:
		if err := d.hub.JoinRoom(connID, RoomAdminDashboard); err != nil {
			d.hub.SendToConn(connID, EventRoomJoinError, map[string]any{"message": err.Error()})
			return
		}
		d.hub.SendToConn(connID, EventRoomJoined, map[string]any{"room": RoomAdminDashboard})
		d.snap.PushTo(connID)

	case EventUserActivity:
		var payload map[string]any
		if data := gjson.GetBytes(raw, "data"); data.IsObject() {
			_ = json.Unmarshal([]byte(data.Raw), &payload)
		}
		d.hub.RecordActivity(connID, payload)

	default:
		d.log.Debug("unknown inbound event",
			zap.String("connection_id", connID),
			zap.String("event", event))
		d.hub.SendToConn(connID, EventError, map[string]any{"message": "unknown event: " + event})
	}
}

func (d *Dispatcher) authenticate(ctx context.Context, connID, token string) {
	ident, err := d.hub.Authenticate(ctx, connID, token)
	if err != nil {
		d.hub.SendToConn(connID, EventAuthError, map[string]any{"message": err.Error()})
		return
	}
	d.hub.SendToConn(connID, EventAuthSuccess, map[string]any{"user": ident})
}

func (d *Dispatcher) joinRoom(connID, room string) {
	if room == "" {
		d.hub.SendToConn(connID, EventRoomJoinError, map[string]any{"message": "room is required"})
		return
	}
	if err := d.hub.JoinRoom(connID, room); err != nil {
		d.hub.SendToConn(connID, EventRoomJoinError, map[string]any{"message": err.Error()})
		return
	}
	d.hub.SendToConn(connID, EventRoomJoined, map[string]any{"room": room})
}
