package constants

// Well-known HTTP paths.
const (
	PathHealth    = "/health"
	PathReady     = "/ready"
	PathWebSocket = "/ws"
)
