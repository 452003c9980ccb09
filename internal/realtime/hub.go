package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luizFelippedev/portfolio-backend/internal/errs"
)

const outboxSize = 256

// Hub is the authoritative in-memory record of live connections, their
// authentication state and room memberships, plus the broadcast router
// over them. The connection table, room table and by-user session index
// are guarded by one mutex so removal on disconnect is atomic with
// respect to concurrent room operations. Nothing here is persisted; the
// tables are rebuilt empty on process restart.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*Session            // connection id -> session
	rooms    map[string]map[string]*Session // room name -> connection id -> session
	byUser   map[string]map[string]*Session // user id -> connection id -> session

	verifier TokenVerifier
	sink     AnalyticsSink
	geo      GeoResolver
	log      *zap.Logger
}

// NewHub creates a hub with its external collaborators injected. geo may
// be nil; the sink and verifier must not be.
func NewHub(verifier TokenVerifier, sink AnalyticsSink, geo GeoResolver, log *zap.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		rooms:    make(map[string]map[string]*Session),
		byUser:   make(map[string]map[string]*Session),
		verifier: verifier,
		sink:     sink,
		geo:      geo,
		log:      log.With(zap.String("component", "realtime_hub")),
	}
}

// Register records a newly accepted connection as anonymous and pushes the
// connection_established acknowledgment. Always succeeds.
func (h *Hub) Register(meta ClientMeta) *Session {
	if h.geo != nil && meta.Location == "" {
		// Best-effort; an unresolved location is not an error.
		meta.Location = h.geo.Resolve(meta.RemoteIP)
	}
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		Meta:      meta,
		CreatedAt: now,
		LastSeen:  now,
		rooms:     make(map[string]struct{}),
		outbox:    make(chan []byte, outboxSize),
	}

	h.mu.Lock()
	h.sessions[s.ID] = s
	live := len(h.sessions)
	h.push(s, EventConnectionEstablished, map[string]any{
		"connectionId": s.ID,
		"serverTime":   now.UTC().Format(time.RFC3339),
		"liveCount":    live,
	})
	h.mu.Unlock()

	h.sink.Track("connection_opened", map[string]any{
		"connection_id": s.ID,
		"ip":            meta.RemoteIP,
		"user_agent":    meta.UserAgent,
		"location":      meta.Location,
	})
	h.log.Info("connection registered",
		zap.String("connection_id", s.ID),
		zap.String("ip", meta.RemoteIP))
	return s
}

// Authenticate verifies the token and, on success, binds the session to the
// user: it is indexed under the user id and auto-joined to its per-user room
// (and to the admins room for admin roles). Safe to call again on an already
// authenticated session; the identity is replaced, never duplicated. The
// verifier call happens before any state is touched so the hub never blocks
// on I/O while holding its lock.
func (h *Hub) Authenticate(ctx context.Context, connID, token string) (*Identity, error) {
	ident, err := h.verifier.Verify(ctx, token)
	if err != nil {
		h.log.Info("authentication failed",
			zap.String("connection_id", connID),
			zap.Error(err))
		return nil, errs.ErrInvalidToken
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[connID]
	if !ok {
		h.log.Warn("authenticate on unknown connection", zap.String("connection_id", connID))
		return nil, errs.ErrUnknownConnection
	}

	// Token refresh may carry a different identity; drop the old index
	// entry first so it never holds duplicates.
	if s.Authed && s.UserID != ident.UserID {
		h.unindexUser(s)
	}

	s.Authed = true
	s.UserID = ident.UserID
	s.Name = ident.Name
	s.Role = ident.Role
	s.LastSeen = time.Now()

	if h.byUser[s.UserID] == nil {
		h.byUser[s.UserID] = make(map[string]*Session)
	}
	h.byUser[s.UserID][s.ID] = s

	// Memberships granted under the previous identity may not hold under
	// the new one (a demoted role, a different user id); sweep them out
	// before granting the standing rooms.
	for room := range s.rooms {
		if !authorizeRoom(room, s.UserID, s.Role, true) {
			h.leaveRoomLocked(s, room)
		}
	}
	h.joinRoomLocked(s, UserRoom(s.UserID))
	if s.Role == RoleAdmin {
		h.joinRoomLocked(s, RoomAdmins)
	}

	h.log.Info("connection authenticated",
		zap.String("connection_id", s.ID),
		zap.String("user_id", s.UserID),
		zap.String("role", s.Role))
	return ident, nil
}

// JoinRoom adds the connection to a room after the authorization check.
// Joining a room the connection is already in succeeds silently; a denial
// never mutates the membership set.
func (h *Hub) JoinRoom(connID, room string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[connID]
	if !ok {
		h.log.Warn("join_room on unknown connection", zap.String("connection_id", connID))
		return errs.ErrUnknownConnection
	}
	if !authorizeRoom(room, s.UserID, s.Role, s.Authed) {
		h.log.Info("room join denied",
			zap.String("connection_id", connID),
			zap.String("room", room),
			zap.String("role", s.Role))
		return errs.ErrRoomDenied
	}
	h.joinRoomLocked(s, room)
	return nil
}

// LeaveRoom removes the membership if present; leaving a room the
// connection never joined is not an error.
func (h *Hub) LeaveRoom(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[connID]
	if !ok {
		return
	}
	h.leaveRoomLocked(s, room)
}

// RecordActivity bumps the session's last-activity timestamp and forwards
// the opaque payload to the analytics sink tagged with the (possibly empty)
// user id.
func (h *Hub) RecordActivity(connID string, payload map[string]any) {
	h.mu.Lock()
	s, ok := h.sessions[connID]
	var userID string
	if ok {
		s.LastSeen = time.Now()
		userID = s.UserID
	}
	h.mu.Unlock()

	if !ok {
		h.log.Warn("activity on unknown connection", zap.String("connection_id", connID))
		return
	}
	attrs := map[string]any{"connection_id": connID, "user_id": userID}
	for k, v := range payload {
		attrs[k] = v
	}
	h.sink.Track("user_activity", attrs)
}

// Unregister is the terminal operation for a connection: it removes the
// session from the connection table, every room it belonged to and the
// by-user index in one critical section, then emits the closing analytics
// event. Safe to call for ids that were already cleaned up.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	s, ok := h.sessions[connID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.sessions, connID)
	for room := range s.rooms {
		h.leaveRoomLocked(s, room)
	}
	if s.Authed {
		h.unindexUser(s)
	}
	s.closed = true
	close(s.outbox)
	h.mu.Unlock()

	h.sink.Track("connection_closed", map[string]any{
		"connection_id":    connID,
		"user_id":          s.UserID,
		"authenticated":    s.Authed,
		"duration_seconds": time.Since(s.CreatedAt).Seconds(),
	})
	h.log.Info("connection unregistered",
		zap.String("connection_id", connID),
		zap.Bool("authenticated", s.Authed),
		zap.Duration("session_duration", time.Since(s.CreatedAt)))
}

// SendToConn delivers one event to a single connection. Unknown ids drop
// silently: the transport's own disconnect detection is about to reap them.
func (h *Hub) SendToConn(connID, event string, data any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[connID]; ok {
		h.push(s, event, data)
	}
}

// SendToUser delivers an event to every connection currently authenticated
// as the user. Zero live connections is not an error.
func (h *Hub) SendToUser(userID, event string, data any) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, s := range h.byUser[userID] {
		h.push(s, event, data)
		n++
	}
	return n
}

// SendToRoom delivers an event to every member of the room at the moment of
// the call. There is no buffering for future joiners.
func (h *Hub) SendToRoom(room, event string, data any) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, s := range h.rooms[room] {
		h.push(s, event, data)
		n++
	}
	return n
}

// BroadcastAll delivers an event to every registered connection.
func (h *Hub) BroadcastAll(event string, data any) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, s := range h.sessions {
		h.push(s, event, data)
		n++
	}
	return n
}

// Counts reports total, authenticated and admin connection counts.
func (h *Hub) Counts() (total, authed, admins int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	total = len(h.sessions)
	for _, s := range h.sessions {
		if s.Authed {
			authed++
			if s.Role == RoleAdmin {
				admins++
			}
		}
	}
	return total, authed, admins
}

// --- internals; all require h.mu held ---

func (h *Hub) joinRoomLocked(s *Session, room string) {
	if _, member := s.rooms[room]; member {
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[string]*Session)
	}
	h.rooms[room][s.ID] = s
	s.rooms[room] = struct{}{}
}

func (h *Hub) leaveRoomLocked(s *Session, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, s.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(s.rooms, room)
}

func (h *Hub) unindexUser(s *Session) {
	if conns, ok := h.byUser[s.UserID]; ok {
		delete(conns, s.ID)
		if len(conns) == 0 {
			delete(h.byUser, s.UserID)
		}
	}
}

// push marshals the envelope and hands it to the session's write pump
// without blocking. A full outbox means the client is too slow; the frame
// is dropped and the transport layer will disconnect it in due course.
func (h *Hub) push(s *Session, event string, data any) {
	if s.closed {
		return
	}
	frame, err := encodeEvent(event, data)
	if err != nil {
		h.log.Error("encode event failed", zap.String("event", event), zap.Error(err))
		return
	}
	select {
	case s.outbox <- frame:
	default:
		h.log.Warn("outbox full, frame dropped",
			zap.String("connection_id", s.ID),
			zap.String("event", event))
	}
}
