package realtime

import (
	"context"
	"time"
)

// Identity is the sanitized profile returned by the token verifier.
type Identity struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// TokenVerifier validates a credential token. Expired or garbage tokens
// must come back as an error value, never a panic.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// AnalyticsSink receives fire-and-forget usage events and serves the
// aggregate summary pushed to admins. Track failures are the sink's own
// problem; the hub never consumes a return value from it.
type AnalyticsSink interface {
	Track(eventType string, attrs map[string]any)
	Summary(ctx context.Context) (map[string]any, error)
}

// GeoResolver maps a source address to a coarse location. Best-effort:
// implementations may always return empty.
type GeoResolver interface {
	Resolve(ip string) string
}

// ClientMeta is transport-level metadata captured at accept time.
type ClientMeta struct {
	RemoteIP  string
	UserAgent string
	Location  string
}

// Session is one live real-time connection tracked by the hub. Identity
// fields are written only while the hub mutex is held; the websocket
// handler reads frames off Outbox and must not touch anything else.
type Session struct {
	ID        string
	Meta      ClientMeta
	UserID    string
	Name      string
	Role      string
	Authed    bool
	CreatedAt time.Time
	LastSeen  time.Time

	rooms  map[string]struct{}
	outbox chan []byte
	closed bool
}

// Outbox is the frame stream for this session's write pump. It is closed
// exactly once, when the session is unregistered.
func (s *Session) Outbox() <-chan []byte {
	return s.outbox
}
