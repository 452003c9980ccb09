package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
)

// --- fakes ---

type fakeVerifier struct {
	idents map[string]*Identity
}

func (f *fakeVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	if ident, ok := f.idents[token]; ok {
		return ident, nil
	}
	return nil, errors.New("invalid token")
}

type fakeSink struct {
	mu      sync.Mutex
	events  []string
	summary map[string]any
	fail    bool
}

func (f *fakeSink) Track(eventType string, _ map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
}

func (f *fakeSink) Summary(context.Context) (map[string]any, error) {
	if f.fail {
		return nil, errors.New("sink unavailable")
	}
	return f.summary, nil
}

func (f *fakeSink) tracked() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

func newTestHub() (*Hub, *fakeSink) {
	sink := &fakeSink{summary: map[string]any{"page_view": int64(7)}}
	verifier := &fakeVerifier{idents: map[string]*Identity{
		"tok-u1":         {UserID: "u1", Name: "User One", Role: "visitor"},
		"tok-admin":      {UserID: "a1", Name: "Admin", Role: "admin"},
		"tok-a1-demoted": {UserID: "a1", Name: "Admin", Role: "visitor"},
		"tok-u42":        {UserID: "u42", Name: "Forty Two", Role: "visitor"},
	}}
	return NewHub(verifier, sink, nil, zap.NewNop()), sink
}

// drainEvents empties a session's outbox and returns the event names seen.
func drainEvents(t *testing.T, s *Session) []string {
	t.Helper()
	var names []string
	for {
		select {
		case frame, ok := <-s.outbox:
			if !ok {
				return names
			}
			var env Envelope
			if err := json.Unmarshal(frame, &env); err != nil {
				t.Fatalf("bad frame %q: %v", frame, err)
			}
			names = append(names, env.Event)
		default:
			return names
		}
	}
}

// --- tests ---

func TestRegisterPushesAcknowledgment(t *testing.T) {
	h, sink := newTestHub()
	s := h.Register(ClientMeta{RemoteIP: "127.0.0.1", UserAgent: "test"})

	events := drainEvents(t, s)
	if len(events) != 1 || events[0] != EventConnectionEstablished {
		t.Fatalf("expected connection_established, got %v", events)
	}
	if got := sink.tracked(); len(got) != 1 || got[0] != "connection_opened" {
		t.Fatalf("expected connection_opened tracked, got %v", got)
	}
}

func TestAuthenticateValidToken(t *testing.T) {
	h, _ := newTestHub()
	s := h.Register(ClientMeta{})

	ident, err := h.Authenticate(context.Background(), s.ID, "tok-u1")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if ident.UserID != "u1" {
		t.Errorf("expected user u1, got %s", ident.UserID)
	}
	if !s.Authed || s.UserID != "u1" {
		t.Errorf("session not bound to user: authed=%v userID=%q", s.Authed, s.UserID)
	}
	if _, member := h.rooms[UserRoom("u1")][s.ID]; !member {
		t.Error("session not auto-joined to its user room")
	}
	if _, member := h.rooms[RoomAdmins][s.ID]; member {
		t.Error("visitor must not be in admins room")
	}
	if _, indexed := h.byUser["u1"][s.ID]; !indexed {
		t.Error("session missing from by-user index")
	}
}

func TestAuthenticateInvalidTokenLeavesSessionAnonymous(t *testing.T) {
	h, _ := newTestHub()
	s := h.Register(ClientMeta{})

	if _, err := h.Authenticate(context.Background(), s.ID, "garbage"); err == nil {
		t.Fatal("expected error for invalid token")
	}
	if s.Authed {
		t.Error("session must stay unauthenticated after failed auth")
	}
	if len(s.rooms) != 0 {
		t.Errorf("room memberships must be unchanged, got %v", s.rooms)
	}
	// The connection stays open: a retry with a valid token succeeds.
	if _, err := h.Authenticate(context.Background(), s.ID, "tok-u1"); err != nil {
		t.Fatalf("retry after failure should succeed: %v", err)
	}
}

func TestAuthenticateAdminJoinsAdminsRoom(t *testing.T) {
	h, _ := newTestHub()
	s := h.Register(ClientMeta{})

	if _, err := h.Authenticate(context.Background(), s.ID, "tok-admin"); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if _, member := h.rooms[RoomAdmins][s.ID]; !member {
		t.Error("admin session not auto-joined to admins room")
	}
}

func TestReauthenticateReplacesIdentity(t *testing.T) {
	h, _ := newTestHub()
	s := h.Register(ClientMeta{})

	if _, err := h.Authenticate(context.Background(), s.ID, "tok-u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Authenticate(context.Background(), s.ID, "tok-u42"); err != nil {
		t.Fatal(err)
	}

	if _, stale := h.byUser["u1"]; stale {
		t.Error("old user index entry must be removed on re-auth")
	}
	if len(h.byUser["u42"]) != 1 {
		t.Errorf("expected exactly one index entry for u42, got %d", len(h.byUser["u42"]))
	}
	if _, member := h.rooms[UserRoom("u1")]; member {
		t.Error("old user room membership must be removed on re-auth")
	}
	if _, member := h.rooms[UserRoom("u42")][s.ID]; !member {
		t.Error("session must be in the new user room")
	}
}

func TestReauthenticateDemotedRoleLeavesAdminRooms(t *testing.T) {
	h, _ := newTestHub()
	s := h.Register(ClientMeta{})

	if _, err := h.Authenticate(context.Background(), s.ID, "tok-admin"); err != nil {
		t.Fatal(err)
	}
	if err := h.JoinRoom(s.ID, RoomAdminDashboard); err != nil {
		t.Fatal(err)
	}

	// Same user, token refreshed without the admin role.
	if _, err := h.Authenticate(context.Background(), s.ID, "tok-a1-demoted"); err != nil {
		t.Fatal(err)
	}

	if _, member := h.rooms[RoomAdmins][s.ID]; member {
		t.Error("demoted session must be removed from admins room")
	}
	if _, member := h.rooms[RoomAdminDashboard][s.ID]; member {
		t.Error("demoted session must be removed from admin_dashboard room")
	}
	if _, member := h.rooms[UserRoom("a1")][s.ID]; !member {
		t.Error("demoted session must keep its own user room")
	}
	if _, _, admins := h.Counts(); admins != 0 {
		t.Errorf("expected 0 admins after demotion, got %d", admins)
	}
}

func TestReauthenticateSameUserNoDuplicates(t *testing.T) {
	h, _ := newTestHub()
	s := h.Register(ClientMeta{})

	for i := 0; i < 3; i++ {
		if _, err := h.Authenticate(context.Background(), s.ID, "tok-u1"); err != nil {
			t.Fatal(err)
		}
	}
	if len(h.byUser["u1"]) != 1 {
		t.Errorf("token refresh must not duplicate index entries, got %d", len(h.byUser["u1"]))
	}
}

func TestUnregisterCleansAllTables(t *testing.T) {
	h, sink := newTestHub()
	s := h.Register(ClientMeta{})
	if _, err := h.Authenticate(context.Background(), s.ID, "tok-u1"); err != nil {
		t.Fatal(err)
	}
	if err := h.JoinRoom(s.ID, "public_lobby"); err != nil {
		t.Fatal(err)
	}

	h.Unregister(s.ID)

	if _, ok := h.sessions[s.ID]; ok {
		t.Error("session still in connection table")
	}
	for room, members := range h.rooms {
		if _, ok := members[s.ID]; ok {
			t.Errorf("dangling membership in room %q", room)
		}
	}
	if _, ok := h.byUser["u1"]; ok {
		t.Error("by-user index entry must be removed with the last connection")
	}

	tracked := sink.tracked()
	if tracked[len(tracked)-1] != "connection_closed" {
		t.Errorf("expected connection_closed tracked last, got %v", tracked)
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	h, _ := newTestHub()
	s := h.Register(ClientMeta{})
	h.Unregister(s.ID)
	h.Unregister(s.ID) // second call must be a harmless no-op
	h.Unregister("never-registered")
}

func TestOperationsOnUnknownConnectionAreNoOps(t *testing.T) {
	h, _ := newTestHub()

	if _, err := h.Authenticate(context.Background(), "nope", "tok-u1"); err == nil {
		t.Error("expected error authenticating unknown connection")
	}
	if err := h.JoinRoom("nope", "public_x"); err == nil {
		t.Error("expected error joining room on unknown connection")
	}
	h.LeaveRoom("nope", "public_x")
	h.RecordActivity("nope", map[string]any{"k": "v"})
}

func TestJoinRoomDeniedDoesNotMutateMembership(t *testing.T) {
	h, _ := newTestHub()
	s := h.Register(ClientMeta{})
	if _, err := h.Authenticate(context.Background(), s.ID, "tok-u1"); err != nil {
		t.Fatal(err)
	}

	if err := h.JoinRoom(s.ID, RoomAdminDashboard); err == nil {
		t.Fatal("visitor must be denied admin_dashboard")
	}
	if _, exists := h.rooms[RoomAdminDashboard]; exists {
		t.Error("denied join must not create the room")
	}
}

func TestJoinRoomIdempotent(t *testing.T) {
	h, _ := newTestHub()
	s := h.Register(ClientMeta{})

	if err := h.JoinRoom(s.ID, "public_lobby"); err != nil {
		t.Fatal(err)
	}
	if err := h.JoinRoom(s.ID, "public_lobby"); err != nil {
		t.Fatalf("repeat join must succeed: %v", err)
	}
	if len(h.rooms["public_lobby"]) != 1 {
		t.Errorf("expected one member, got %d", len(h.rooms["public_lobby"]))
	}
}

func TestLeaveRoomNeverJoinedIsNoOp(t *testing.T) {
	h, _ := newTestHub()
	s := h.Register(ClientMeta{})
	h.LeaveRoom(s.ID, "public_lobby")
}

func TestSendToUserReachesAllConnections(t *testing.T) {
	h, _ := newTestHub()
	c1 := h.Register(ClientMeta{})
	c2 := h.Register(ClientMeta{})
	for _, s := range []*Session{c1, c2} {
		if _, err := h.Authenticate(context.Background(), s.ID, "tok-u42"); err != nil {
			t.Fatal(err)
		}
		drainEvents(t, s)
	}

	if n := h.SendToUser("u42", EventNotification, map[string]any{"title": "hi"}); n != 2 {
		t.Fatalf("expected delivery to 2 connections, got %d", n)
	}
	for _, s := range []*Session{c1, c2} {
		events := drainEvents(t, s)
		if len(events) != 1 || events[0] != EventNotification {
			t.Errorf("connection %s expected notification, got %v", s.ID, events)
		}
	}

	// After one disconnects, only the survivor is reached.
	h.Unregister(c1.ID)
	if n := h.SendToUser("u42", EventNotification, nil); n != 1 {
		t.Fatalf("expected delivery to 1 connection after disconnect, got %d", n)
	}
}

func TestSendToUserNoLiveConnections(t *testing.T) {
	h, _ := newTestHub()
	if n := h.SendToUser("ghost", EventNotification, nil); n != 0 {
		t.Fatalf("expected 0 deliveries, got %d", n)
	}
}

func TestBroadcastAllCountsOnlyRegistered(t *testing.T) {
	h, _ := newTestHub()
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, h.Register(ClientMeta{}).ID)
	}
	for _, id := range ids {
		h.Unregister(id)
	}
	if n := h.BroadcastAll(EventActiveUsersCount, nil); n != 0 {
		t.Fatalf("expected 0 deliveries after all unregistered, got %d", n)
	}
}

func TestCounts(t *testing.T) {
	h, _ := newTestHub()
	h.Register(ClientMeta{})
	s2 := h.Register(ClientMeta{})
	s3 := h.Register(ClientMeta{})
	if _, err := h.Authenticate(context.Background(), s2.ID, "tok-u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Authenticate(context.Background(), s3.ID, "tok-admin"); err != nil {
		t.Fatal(err)
	}

	total, authed, admins := h.Counts()
	if total != 3 || authed != 2 || admins != 1 {
		t.Fatalf("expected (3,2,1), got (%d,%d,%d)", total, authed, admins)
	}
}

func TestAnonymousLifecycle(t *testing.T) {
	// Scenario: register, never authenticate; activity and unregister
	// still succeed.
	h, sink := newTestHub()
	s := h.Register(ClientMeta{})
	h.RecordActivity(s.ID, map[string]any{"page": "/projects"})
	h.Unregister(s.ID)

	want := []string{"connection_opened", "user_activity", "connection_closed"}
	got := sink.tracked()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestConcurrentChurn(t *testing.T) {
	h, _ := newTestHub()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := h.Register(ClientMeta{})
			_, _ = h.Authenticate(context.Background(), s.ID, "tok-u42")
			_ = h.JoinRoom(s.ID, "public_churn")
			h.RecordActivity(s.ID, nil)
			h.SendToRoom("public_churn", EventActiveUsersCount, nil)
			h.Unregister(s.ID)
		}()
	}
	wg.Wait()

	total, _, _ := h.Counts()
	if total != 0 {
		t.Fatalf("expected empty hub after churn, got %d sessions", total)
	}
	if len(h.rooms) != 0 {
		t.Fatalf("expected no rooms after churn, got %v", len(h.rooms))
	}
	if len(h.byUser) != 0 {
		t.Fatalf("expected empty user index after churn, got %v", len(h.byUser))
	}
}
