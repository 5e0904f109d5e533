package model

import "time"

type RoomStatus string

const (
	RoomWaiting    RoomStatus = "waiting"
	RoomInProgress RoomStatus = "in_progress"
	RoomFinished   RoomStatus = "finished"
)

// RoomSettings is the host-configurable part of a room. Durations are
// seconds on the wire, matching the create-room payload.
type RoomSettings struct {
	Name           string `json:"name" bson:"name"`
	IsPrivate      bool   `json:"is_private" bson:"is_private"`
	MinPlayers     int    `json:"min_players" bson:"min_players"`
	MaxPlayers     int    `json:"max_players" bson:"max_players"`
	TotalRounds    int    `json:"total_rounds" bson:"total_rounds"`
	DiscussionTime int    `json:"discussion_time" bson:"discussion_time"`
	VotingTime     int    `json:"voting_time" bson:"voting_time"`
	ResultsTime    int    `json:"results_time" bson:"results_time"`
	AllowRejoining bool   `json:"allow_rejoining" bson:"allow_rejoining"`
	Category       string `json:"category,omitempty" bson:"category,omitempty"`
	Difficulty     int    `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
}

// RoomSnapshot is the full self-describing room state returned by every
// room read. Clients never need a prior snapshot to render it.
type RoomSnapshot struct {
	ID           string           `json:"id"`
	Code         string           `json:"room_code"`
	Status       RoomStatus       `json:"status"`
	Settings     RoomSettings     `json:"settings"`
	HostID       string           `json:"host_player_id"`
	CurrentRound int              `json:"current_round"`
	Players      []PlayerSnapshot `json:"players"`
	CreatedAt    time.Time        `json:"created_at"`
	StartedAt    *time.Time       `json:"started_at,omitempty"`
	FinishedAt   *time.Time       `json:"finished_at,omitempty"`
}

// RoomSummary is the public lobby listing entry.
type RoomSummary struct {
	ID          string     `json:"id"`
	Code        string     `json:"room_code"`
	Name        string     `json:"name"`
	Status      RoomStatus `json:"status"`
	PlayerCount int        `json:"player_count"`
	MaxPlayers  int        `json:"max_players"`
	IsPrivate   bool       `json:"is_private"`
	CreatedAt   time.Time  `json:"created_at"`
}
