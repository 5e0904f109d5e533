package game

import "errors"

// Kind classifies engine errors for the gateway. Every rejected command
// is a no-op: the engine never leaves partial state behind an error.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuthorization
	KindNotFound
	KindCapacity
	KindTransient
)

// Error is an engine error with a stable machine-readable code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrInvalidConfiguration = &Error{KindValidation, "invalid_configuration", "invalid room configuration"}
	ErrInvalidAnswer        = &Error{KindValidation, "invalid_answer", "answer must be an integer"}
	ErrInvalidVoteTarget    = &Error{KindValidation, "invalid_vote_target", "cannot vote for that player"}
	ErrDuplicateNickname    = &Error{KindValidation, "duplicate_nickname", "nickname already taken in this room"}

	ErrRoomNotJoinable        = &Error{KindConflict, "room_not_joinable", "room is not accepting players"}
	ErrAlreadyStarted         = &Error{KindConflict, "already_started", "game has already started"}
	ErrInvalidPhaseTransition = &Error{KindConflict, "invalid_phase", "command not valid in current phase"}
	ErrNotStarted             = &Error{KindConflict, "not_started", "game has not started"}

	ErrNotHost     = &Error{KindAuthorization, "not_host", "only the host may do that"}
	ErrBadPassword = &Error{KindAuthorization, "bad_password", "invalid room password"}

	ErrRoomNotFound   = &Error{KindNotFound, "room_not_found", "room not found"}
	ErrPlayerNotFound = &Error{KindNotFound, "player_not_found", "you are not in this room"}
	ErrRoundNotFound  = &Error{KindNotFound, "round_not_found", "round not found"}

	ErrRoomFull            = &Error{KindCapacity, "room_full", "room is full"}
	ErrInsufficientPlayers = &Error{KindCapacity, "insufficient_players", "not enough connected players to start"}

	ErrCodeSpaceExhausted = &Error{KindTransient, "code_space_exhausted", "could not allocate a unique room code"}
	ErrNoQuestions        = &Error{KindTransient, "no_questions", "question bank is empty"}
)

// KindOf reports the Kind of err, or KindTransient for errors the
// engine did not classify (storage hiccups and the like).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransient
}

// CodeOf reports the stable error code of err, or "internal".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal"
}
