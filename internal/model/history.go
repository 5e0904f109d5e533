package model

import "time"

// PlayerResult is one player's final line in an archived game.
type PlayerResult struct {
	IdentityID      string `json:"identity_id" bson:"identity_id"`
	Nickname        string `json:"nickname" bson:"nickname"`
	Score           int    `json:"score" bson:"score"`
	RoundsAsOdd     int    `json:"rounds_as_odd" bson:"rounds_as_odd"`
	CorrectVotes    int    `json:"correct_votes" bson:"correct_votes"`
	VotesCast       int    `json:"votes_cast" bson:"votes_cast"`
	Won             bool   `json:"won" bson:"won"`
}

// RoundSummary is the archived outcome of one round.
type RoundSummary struct {
	RoundNumber    int    `json:"round_number" bson:"round_number"`
	OddPlayerID    string `json:"odd_player_id" bson:"odd_player_id"`
	ImposterCaught bool   `json:"imposter_caught" bson:"imposter_caught"`
	QuestionText   string `json:"question_text" bson:"question_text"`
}

// GameRecord is a finished game persisted for history and totals.
type GameRecord struct {
	ID          string         `json:"id" bson:"_id,omitempty"`
	RoomID      string         `json:"room_id" bson:"room_id"`
	RoomCode    string         `json:"room_code" bson:"room_code"`
	RoomName    string         `json:"room_name" bson:"room_name"`
	TotalRounds int            `json:"total_rounds" bson:"total_rounds"`
	Players     []PlayerResult `json:"players" bson:"players"`
	Rounds      []RoundSummary `json:"rounds" bson:"rounds"`
	StartedAt   time.Time      `json:"started_at" bson:"started_at"`
	FinishedAt  time.Time      `json:"finished_at" bson:"finished_at"`
}

// PlayerStats are cumulative per-identity totals across games.
type PlayerStats struct {
	IdentityID string    `json:"identity_id" bson:"_id"`
	Username   string    `json:"username" bson:"username"`
	TotalGames int       `json:"total_games" bson:"total_games"`
	TotalWins  int       `json:"total_wins" bson:"total_wins"`
	TotalScore int       `json:"total_score" bson:"total_score"`
	LastPlayed time.Time `json:"last_played" bson:"last_played"`
}
