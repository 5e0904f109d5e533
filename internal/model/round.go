package model

import "time"

type RoundPhase string

const (
	PhaseAnswering  RoundPhase = "answering"
	PhaseDiscussion RoundPhase = "discussion"
	PhaseVoting     RoundPhase = "voting"
	PhaseResults    RoundPhase = "results"
)

// AnswerView is a submitted answer as exposed to room members. The
// is_odd tag is populated only once the round reaches results.
type AnswerView struct {
	PlayerID    string    `json:"player_id"`
	Nickname    string    `json:"nickname"`
	Value       int       `json:"value"`
	IsOdd       bool      `json:"is_odd"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// VoteView is a cast vote as exposed in the results reveal.
type VoteView struct {
	VoterID     string    `json:"voter_id"`
	AccusedID   string    `json:"accused_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// RoundResults is the frozen outcome of a round.
type RoundResults struct {
	OddPlayerID    string         `json:"odd_player_id"`
	MostVotedID    string         `json:"most_voted_id,omitempty"`
	ImposterCaught bool           `json:"imposter_caught"`
	VoteCounts     map[string]int `json:"vote_counts"`
	Votes          []VoteView     `json:"votes"`
	ScoreDeltas    map[string]int `json:"score_deltas"`
	RealQuestion   Question       `json:"real_question"`
	DecoyQuestion  Question       `json:"decoy_question"`
}

// RoundSnapshot is the current round scoped to one requester: their own
// question and role are always present, other players' answers appear
// once the phase is discussion or later, and the odd-player identity is
// withheld until results.
type RoundSnapshot struct {
	RoundNumber   int           `json:"round_number"`
	Phase         RoundPhase    `json:"phase"`
	PhaseDeadline time.Time     `json:"phase_deadline"`
	Question      Question      `json:"question"`
	IsOddPlayer   bool          `json:"is_odd_player"`
	HasAnswered   bool          `json:"has_answered"`
	HasVoted      bool          `json:"has_voted"`
	AnswerCount   int           `json:"answer_count"`
	VoteCount     int           `json:"vote_count"`
	Answers       []AnswerView  `json:"answers,omitempty"`
	Results       *RoundResults `json:"results,omitempty"`
}

// NextRoundResponse is returned by the next-round command: either the
// number of the round just opened or the session-finished marker.
type NextRoundResponse struct {
	GameEnded   bool           `json:"game_ended"`
	NextRound   int            `json:"next_round,omitempty"`
	FinalScores map[string]int `json:"final_scores,omitempty"`
}
