package game

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mohammadf16/numberhunt/internal/model"
)

// Join seats an identity in the room, or reactivates its existing seat
// when rejoining is allowed. The first player to join becomes host.
func (r *Room) Join(identity, nickname, avatar, password string) (*model.JoinResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collapseExpired()
	r.lastActivity = r.clock.Now()

	if len(r.passwordHash) > 0 {
		if bcrypt.CompareHashAndPassword(r.passwordHash, []byte(password)) != nil {
			return nil, ErrBadPassword
		}
	}

	if existing := r.findByIdentity(identity); existing != nil {
		rejoinable := r.status == model.RoomWaiting ||
			(r.status == model.RoomInProgress && r.settings.AllowRejoining)
		if !rejoinable {
			return nil, ErrRoomNotJoinable
		}
		existing.IsConnected = true
		existing.LastSeen = r.clock.Now()
		r.reassignHost()
		return &model.JoinResponse{
			Player:   r.playerSnapshot(existing),
			Room:     *r.snapshotLocked(),
			Rejoined: true,
		}, nil
	}

	if r.status != model.RoomWaiting {
		return nil, ErrRoomNotJoinable
	}
	if len(r.players) >= r.settings.MaxPlayers {
		return nil, ErrRoomFull
	}
	for _, p := range r.players {
		if strings.EqualFold(p.Nickname, nickname) {
			return nil, ErrDuplicateNickname
		}
	}

	now := r.clock.Now()
	p := &Player{
		ID:          "p_" + uuid.New().String()[:8],
		Identity:    identity,
		Nickname:    nickname,
		Avatar:      avatar,
		IsHost:      len(r.players) == 0,
		IsConnected: true,
		JoinedAt:    now,
		LastSeen:    now,
	}
	r.players = append(r.players, p)
	r.appendEvent(model.EventPlayerJoined, p.ID, map[string]any{"nickname": p.Nickname})

	return &model.JoinResponse{
		Player: r.playerSnapshot(p),
		Room:   *r.snapshotLocked(),
	}, nil
}

// Leave removes the seat while waiting, or marks it disconnected while
// a game is in progress so scores and role history stay consistent.
func (r *Room) Leave(identity string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collapseExpired()
	r.lastActivity = r.clock.Now()

	p := r.findByIdentity(identity)
	if p == nil {
		return ErrPlayerNotFound
	}
	r.appendEvent(model.EventPlayerLeft, p.ID, map[string]any{"nickname": p.Nickname})

	if r.status == model.RoomWaiting {
		for i, other := range r.players {
			if other == p {
				r.players = append(r.players[:i], r.players[i+1:]...)
				break
			}
		}
		if p.IsHost {
			p.IsHost = false
			r.reassignHost()
		}
		return nil
	}

	p.IsConnected = false
	p.LastSeen = r.clock.Now()
	if p.IsHost {
		r.reassignHost()
	}
	// A departure can be the last thing a phase was waiting on.
	r.collapseExpired()
	return nil
}

// ToggleReady flips the requester's ready flag. Valid only while the
// room is waiting; readiness is advisory and never gates Start.
func (r *Room) ToggleReady(identity string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(identity)

	if r.status != model.RoomWaiting {
		return false, ErrInvalidPhaseTransition
	}
	p := r.findByIdentity(identity)
	if p == nil {
		return false, ErrPlayerNotFound
	}
	p.IsReady = !p.IsReady
	return p.IsReady, nil
}

// Start moves the room into play and opens round 1. Only the host may
// start, and only with at least min_players connected; ready flags are
// a lobby affordance, not a gate.
func (r *Room) Start(identity string, pairs []model.QuestionPair) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(identity)

	switch r.status {
	case model.RoomInProgress, model.RoomFinished:
		return ErrAlreadyStarted
	}
	p := r.findByIdentity(identity)
	if p == nil {
		return ErrPlayerNotFound
	}
	if !p.IsHost {
		return ErrNotHost
	}
	if r.connectedCount() < r.settings.MinPlayers {
		return ErrInsufficientPlayers
	}
	if len(pairs) < r.settings.TotalRounds {
		return ErrNoQuestions
	}

	r.status = model.RoomInProgress
	r.startedAt = r.clock.Now()
	r.questions = pairs
	r.currentRound = 1
	r.appendEvent(model.EventGameStarted, p.ID, map[string]any{"player_count": r.connectedCount()})
	r.openRound(1)
	return nil
}

func (r *Room) playerSnapshot(p *Player) model.PlayerSnapshot {
	return model.PlayerSnapshot{
		ID:          p.ID,
		Nickname:    p.Nickname,
		Avatar:      p.Avatar,
		Score:       p.Score,
		IsHost:      p.IsHost,
		IsReady:     p.IsReady,
		IsConnected: p.IsConnected,
		JoinedAt:    p.JoinedAt,
	}
}

// finishGame freezes final scores, closes the session and builds the
// archive record handed out through PendingRecord.
func (r *Room) finishGame() {
	r.status = model.RoomFinished
	r.finishedAt = r.clock.Now()
	r.round = nil

	scores := make(map[string]int, len(r.players))
	best := 0
	for _, p := range r.players {
		scores[p.Nickname] = p.Score
		if p.Score > best {
			best = p.Score
		}
	}
	r.appendEvent(model.EventGameEnded, "", map[string]any{"final_scores": scores})

	rec := &model.GameRecord{
		RoomID:      r.id,
		RoomCode:    r.code,
		RoomName:    r.settings.Name,
		TotalRounds: r.settings.TotalRounds,
		StartedAt:   r.startedAt,
		FinishedAt:  r.finishedAt,
	}
	for _, p := range r.players {
		rec.Players = append(rec.Players, model.PlayerResult{
			IdentityID:   p.Identity,
			Nickname:     p.Nickname,
			Score:        p.Score,
			RoundsAsOdd:  p.RoundsAsOdd,
			CorrectVotes: p.CorrectVotes,
			VotesCast:    p.VotesCast,
			Won:          p.Score == best && best > 0,
		})
	}
	rec.Rounds = r.roundSummaries
	r.record = rec
}
