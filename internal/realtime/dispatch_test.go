package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestDispatcher() (*Dispatcher, *Hub) {
	hub, _ := newTestHub()
	snap := NewSnapshotter(hub, time.Minute, zap.NewNop())
	return NewDispatcher(hub, snap, zap.NewNop()), hub
}

// lastEvent drains the outbox and returns the final envelope.
func lastEvent(t *testing.T, s *Session) Envelope {
	t.Helper()
	var last Envelope
	found := false
	for {
		select {
		case frame := <-s.outbox:
			if err := json.Unmarshal(frame, &last); err != nil {
				t.Fatalf("bad frame: %v", err)
			}
			found = true
		default:
			if !found {
				t.Fatal("no event pushed")
			}
			return last
		}
	}
}

func TestDispatchAuthenticateSuccess(t *testing.T) {
	d, h := newTestDispatcher()
	s := h.Register(ClientMeta{})

	d.HandleMessage(context.Background(), s.ID, []byte(`{"event":"authenticate","data":{"token":"tok-u1"}}`))

	env := lastEvent(t, s)
	if env.Event != EventAuthSuccess {
		t.Fatalf("expected %s, got %s", EventAuthSuccess, env.Event)
	}
	var data struct {
		User Identity `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.User.UserID != "u1" || data.User.Role != "visitor" {
		t.Errorf("unexpected profile: %+v", data.User)
	}
}

func TestDispatchAuthenticateFailure(t *testing.T) {
	d, h := newTestDispatcher()
	s := h.Register(ClientMeta{})

	d.HandleMessage(context.Background(), s.ID, []byte(`{"event":"authenticate","data":{"token":"garbage"}}`))

	if env := lastEvent(t, s); env.Event != EventAuthError {
		t.Fatalf("expected %s, got %s", EventAuthError, env.Event)
	}
	if s.Authed {
		t.Error("session must remain anonymous")
	}
}

func TestDispatchJoinRoomDenied(t *testing.T) {
	// Visitor asking for the admins room gets room_join_error.
	d, h := newTestDispatcher()
	s := h.Register(ClientMeta{})
	d.HandleMessage(context.Background(), s.ID, []byte(`{"event":"authenticate","data":{"token":"tok-u1"}}`))

	d.HandleMessage(context.Background(), s.ID, []byte(`{"event":"join_room","data":{"room":"admins"}}`))

	if env := lastEvent(t, s); env.Event != EventRoomJoinError {
		t.Fatalf("expected %s, got %s", EventRoomJoinError, env.Event)
	}
}

func TestDispatchJoinRoomAllowed(t *testing.T) {
	d, h := newTestDispatcher()
	s := h.Register(ClientMeta{})

	d.HandleMessage(context.Background(), s.ID, []byte(`{"event":"join_room","data":{"room":"public_updates"}}`))

	env := lastEvent(t, s)
	if env.Event != EventRoomJoined {
		t.Fatalf("expected %s, got %s", EventRoomJoined, env.Event)
	}
}

func TestDispatchJoinRoomMissingName(t *testing.T) {
	d, h := newTestDispatcher()
	s := h.Register(ClientMeta{})

	d.HandleMessage(context.Background(), s.ID, []byte(`{"event":"join_room","data":{}}`))

	if env := lastEvent(t, s); env.Event != EventRoomJoinError {
		t.Fatalf("expected %s, got %s", EventRoomJoinError, env.Event)
	}
}

func TestDispatchLeaveRoom(t *testing.T) {
	d, h := newTestDispatcher()
	s := h.Register(ClientMeta{})
	d.HandleMessage(context.Background(), s.ID, []byte(`{"event":"join_room","data":{"room":"public_updates"}}`))

	d.HandleMessage(context.Background(), s.ID, []byte(`{"event":"leave_room","data":{"room":"public_updates"}}`))

	if env := lastEvent(t, s); env.Event != EventRoomLeft {
		t.Fatalf("expected %s, got %s", EventRoomLeft, env.Event)
	}
	if _, exists := h.rooms["public_updates"]; exists {
		t.Error("room should be gone after its last member left")
	}
}

func TestDispatchDashboardSubscribe(t *testing.T) {
	d, h := newTestDispatcher()
	s := h.Register(ClientMeta{})
	d.HandleMessage(context.Background(), s.ID, []byte(`{"event":"authenticate","data":{"token":"tok-admin"}}`))
	drainEvents(t, s)

	d.HandleMessage(context.Background(), s.ID, []byte(`{"event":"admin_dashboard_subscribe"}`))

	events := drainEvents(t, s)
	if len(events) != 2 || events[0] != EventRoomJoined || events[1] != EventDashboardUpdate {
		t.Fatalf("expected [room_joined dashboard_update], got %v", events)
	}
}

func TestDispatchDashboardSubscribeDeniedToVisitor(t *testing.T) {
	d, h := newTestDispatcher()
	s := h.Register(ClientMeta{})
	d.HandleMessage(context.Background(), s.ID, []byte(`{"event":"authenticate","data":{"token":"tok-u1"}}`))

	d.HandleMessage(context.Background(), s.ID, []byte(`{"event":"admin_dashboard_subscribe"}`))

	if env := lastEvent(t, s); env.Event != EventRoomJoinError {
		t.Fatalf("expected %s, got %s", EventRoomJoinError, env.Event)
	}
}

func TestDispatchUserActivity(t *testing.T) {
	d, h := newTestDispatcher()
	s := h.Register(ClientMeta{})
	before := s.LastSeen

	d.HandleMessage(context.Background(), s.ID, []byte(`{"event":"user_activity","data":{"page":"/projects"}}`))

	if !s.LastSeen.After(before) && !s.LastSeen.Equal(before) {
		t.Error("last activity timestamp must not go backwards")
	}
}

func TestDispatchMalformedAndUnknown(t *testing.T) {
	d, h := newTestDispatcher()
	s := h.Register(ClientMeta{})
	drainEvents(t, s)

	d.HandleMessage(context.Background(), s.ID, []byte(`not json`))
	if env := lastEvent(t, s); env.Event != EventError {
		t.Fatalf("expected error event for malformed frame, got %s", env.Event)
	}

	d.HandleMessage(context.Background(), s.ID, []byte(`{"event":"no_such_event"}`))
	if env := lastEvent(t, s); env.Event != EventError {
		t.Fatalf("expected error event for unknown event, got %s", env.Event)
	}
}
