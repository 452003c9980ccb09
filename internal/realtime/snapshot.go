package realtime

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const summaryFetchTimeout = 2 * time.Second

// DashboardSnapshot is the aggregate pushed to the admin dashboard room.
type DashboardSnapshot struct {
	TotalConnections int    `json:"total_connections"`
	Authenticated    int    `json:"authenticated"`
	AdminConnections int    `json:"admin_connections"`
	Timestamp        string `json:"timestamp"`
}

// Snapshotter is the hub's only background activity: on a fixed interval it
// pushes connection counts to the admin dashboard, the latest analytics
// summary to admins and the live connection count to everyone. Staleness is
// bounded by the interval; a slow or failed summary fetch degrades to the
// last known value instead of delaying the tick.
type Snapshotter struct {
	hub      *Hub
	interval time.Duration
	log      *zap.Logger

	lastSummary map[string]any
	done        chan struct{}
}

// NewSnapshotter creates the periodic snapshot loop. Call Run to start it.
func NewSnapshotter(hub *Hub, interval time.Duration, log *zap.Logger) *Snapshotter {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Snapshotter{
		hub:      hub,
		interval: interval,
		log:      log.With(zap.String("component", "snapshotter")),
		done:     make(chan struct{}),
	}
}

// Run blocks, ticking until ctx is cancelled. It is tied to the application
// context so shutdown leaves no orphaned timer.
func (sn *Snapshotter) Run(ctx context.Context) {
	ticker := time.NewTicker(sn.interval)
	defer ticker.Stop()
	defer close(sn.done)

	for {
		select {
		case <-ctx.Done():
			sn.log.Info("snapshot loop stopped")
			return
		case <-ticker.C:
			sn.Tick(ctx)
		}
	}
}

// Done is closed once the loop has exited.
func (sn *Snapshotter) Done() <-chan struct{} {
	return sn.done
}

// Tick runs one snapshot round. Exported so the dashboard-subscribe
// shorthand can push an immediate snapshot to a fresh subscriber.
func (sn *Snapshotter) Tick(ctx context.Context) {
	total, authed, admins := sn.hub.Counts()

	sn.hub.SendToRoom(RoomAdminDashboard, EventDashboardUpdate, sn.dashboard(total, authed, admins))

	if summary := sn.summary(ctx); summary != nil {
		sn.hub.SendToRoom(RoomAdmins, EventRealTimeAnalytics, summary)
	}

	sn.hub.BroadcastAll(EventActiveUsersCount, map[string]any{"count": total})
}

// PushTo sends the current dashboard snapshot to one connection.
func (sn *Snapshotter) PushTo(connID string) {
	total, authed, admins := sn.hub.Counts()
	sn.hub.SendToConn(connID, EventDashboardUpdate, sn.dashboard(total, authed, admins))
}

func (sn *Snapshotter) dashboard(total, authed, admins int) DashboardSnapshot {
	return DashboardSnapshot{
		TotalConnections: total,
		Authenticated:    authed,
		AdminConnections: admins,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	}
}

func (sn *Snapshotter) summary(ctx context.Context) map[string]any {
	fetchCtx, cancel := context.WithTimeout(ctx, summaryFetchTimeout)
	defer cancel()

	summary, err := sn.hub.sink.Summary(fetchCtx)
	if err != nil {
		sn.log.Warn("analytics summary fetch failed, using last known", zap.Error(err))
		return sn.lastSummary
	}
	sn.lastSummary = summary
	return summary
}
