package model

import "time"

type EventType string

const (
	EventPlayerJoined      EventType = "player_joined"
	EventPlayerLeft        EventType = "player_left"
	EventGameStarted       EventType = "game_started"
	EventRoundStarted      EventType = "round_started"
	EventAnswerSubmitted   EventType = "answer_submitted"
	EventDiscussionStarted EventType = "discussion_started"
	EventVotingStarted     EventType = "voting_started"
	EventVoteSubmitted     EventType = "vote_submitted"
	EventRoundEnded        EventType = "round_ended"
	EventGameEnded         EventType = "game_ended"
)

// GameEvent is one entry in a room's append-only activity log.
type GameEvent struct {
	Type      EventType      `json:"event_type"`
	PlayerID  string         `json:"player_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
