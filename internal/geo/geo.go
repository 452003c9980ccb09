// Package geo resolves a source address to a coarse location. The resolver
// is a heuristic convenience with no correctness contract: callers must
// tolerate an empty or "unknown" answer.
package geo

import (
	"net"

	"github.com/luizFelippedev/portfolio-backend/internal/realtime"
)

// Resolver is the default implementation: it distinguishes local traffic
// from the rest and leaves everything else unknown. A GeoIP-database-backed
// implementation can be swapped in without touching the hub.
type Resolver struct{}

// NewResolver creates the default resolver.
func NewResolver() *Resolver { return &Resolver{} }

var _ realtime.GeoResolver = (*Resolver)(nil)

// Resolve never fails; unresolvable input maps to "unknown".
func (r *Resolver) Resolve(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "unknown"
	}
	if parsed.IsLoopback() || parsed.IsPrivate() {
		return "local"
	}
	return "unknown"
}
