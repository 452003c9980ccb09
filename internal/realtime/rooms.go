package realtime

import "strings"

// Well-known room names.
const (
	RoomAdmins         = "admins"
	RoomAdminDashboard = "admin_dashboard"

	userRoomPrefix   = "user:"
	adminRoomPrefix  = "admin_"
	publicRoomPrefix = "public_"

	RoleAdmin = "admin"
)

// UserRoom returns the per-user room a session auto-joins on authentication.
func UserRoom(userID string) string {
	return userRoomPrefix + userID
}

// authorizeRoom decides whether a caller may join a room. Pure function of
// the room name and the caller's identity. Precedence: admin-restricted
// names first, then per-user rooms, then public rooms; everything else is
// denied.
func authorizeRoom(room, userID, role string, authed bool) bool {
	isAdmin := authed && role == RoleAdmin

	if room == RoomAdmins || strings.HasPrefix(room, adminRoomPrefix) {
		return isAdmin
	}
	if uid, ok := strings.CutPrefix(room, userRoomPrefix); ok {
		return isAdmin || (authed && userID == uid)
	}
	if strings.HasPrefix(room, publicRoomPrefix) {
		return true
	}
	return false
}
