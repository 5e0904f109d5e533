package model

import "time"

// PlayerSnapshot is a player as seen by every member of the room.
// is_host is the single authoritative host marker; clients never
// re-derive host status from other fields.
type PlayerSnapshot struct {
	ID          string    `json:"id"`
	Nickname    string    `json:"nickname"`
	Avatar      string    `json:"avatar"`
	Score       int       `json:"score"`
	IsHost      bool      `json:"is_host"`
	IsReady     bool      `json:"is_ready"`
	IsConnected bool      `json:"is_connected"`
	JoinedAt    time.Time `json:"joined_at"`
}

// JoinResponse is returned when a join (or rejoin) succeeds.
type JoinResponse struct {
	Player   PlayerSnapshot `json:"player"`
	Room     RoomSnapshot   `json:"room"`
	Rejoined bool           `json:"rejoined"`
}
