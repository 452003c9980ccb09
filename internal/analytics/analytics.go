package analytics

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/luizFelippedev/portfolio-backend/internal/realtime"
)

const (
	counterTTL   = 48 * time.Hour
	trackTimeout = 2 * time.Second
)

// Event types aggregated into the dashboard summary.
var summaryEvents = []string{
	"page_view",
	"connection_opened",
	"connection_closed",
	"user_activity",
	"contact_submitted",
}

// Service is a Redis-backed analytics sink: daily counters with expiry.
// Track is best-effort and never surfaces an error to the caller; a dead
// Redis degrades observability, not connection lifecycle.
type Service struct {
	rdb *redis.Client
	log *zap.Logger
}

// NewService creates the analytics service.
func NewService(rdb *redis.Client, log *zap.Logger) *Service {
	return &Service{rdb: rdb, log: log.With(zap.String("component", "analytics"))}
}

var _ realtime.AnalyticsSink = (*Service)(nil)

// Track increments today's counter for the event type. Attributes are
// logged, not stored per occurrence; this is a counter store, not an audit
// trail. Failures are logged and dropped.
func (s *Service) Track(eventType string, attrs map[string]any) {
	ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
	defer cancel()

	key := dayKey(eventType, time.Now())
	pipe := s.rdb.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, counterTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn("track failed", zap.String("event", eventType), zap.Error(err))
		return
	}
	s.log.Debug("tracked", zap.String("event", eventType), zap.Any("attrs", attrs))
}

// Summary returns today's counters for the known event types.
func (s *Service) Summary(ctx context.Context) (map[string]any, error) {
	now := time.Now()
	keys := make([]string, len(summaryEvents))
	for i, ev := range summaryEvents {
		keys[i] = dayKey(ev, now)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	summary := make(map[string]any, len(summaryEvents)+1)
	for i, ev := range summaryEvents {
		count := int64(0)
		if str, ok := vals[i].(string); ok {
			count, _ = strconv.ParseInt(str, 10, 64)
		}
		summary[ev] = count
	}
	summary["date"] = now.UTC().Format("2006-01-02")
	return summary, nil
}

func dayKey(eventType string, t time.Time) string {
	return "analytics:events:" + eventType + ":" + t.UTC().Format("2006-01-02")
}
