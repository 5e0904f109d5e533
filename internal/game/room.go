package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mohammadf16/numberhunt/internal/model"
)

const maxEvents = 100

// Rules are engine-level tunables shared by every room.
type Rules struct {
	DetectionBonus int
	EvasionBonus   int
	AnswerTime     time.Duration
	PlayerTimeout  time.Duration
}

// DefaultRules mirrors the classic scoring: correct accusers earn 2,
// an uncaught odd player earns 3.
func DefaultRules() Rules {
	return Rules{
		DetectionBonus: 2,
		EvasionBonus:   3,
		AnswerTime:     2 * time.Minute,
		PlayerTimeout:  90 * time.Second,
	}
}

// Player is a seat in a room. Seats survive disconnects while a game is
// in progress so scores and role history stay consistent.
type Player struct {
	ID          string
	Identity    string
	Nickname    string
	Avatar      string
	Score       int
	IsHost      bool
	IsReady     bool
	IsConnected bool
	JoinedAt    time.Time
	LastSeen    time.Time

	RoundsAsOdd  int
	CorrectVotes int
	VotesCast    int
}

// Room is the authoritative aggregate for one game session. All access
// goes through its mutex: two commands against the same room never
// interleave, and expired phase deadlines are collapsed at the top of
// every command and read.
type Room struct {
	mu sync.Mutex

	id             string
	code           string
	settings       model.RoomSettings
	passwordHash   []byte
	status         model.RoomStatus
	players        []*Player
	currentRound   int
	round          *round
	prevOddID      string
	questions      []model.QuestionPair
	events         []model.GameEvent
	roundSummaries []model.RoundSummary

	createdAt    time.Time
	startedAt    time.Time
	finishedAt   time.Time
	lastActivity time.Time

	clock clockwork.Clock
	rng   *rand.Rand
	rules Rules

	record *model.GameRecord
}

// ID returns the room's opaque server-generated id.
func (r *Room) ID() string { return r.id }

// Code returns the human-shareable room code.
func (r *Room) Code() string { return r.code }

// DrawSpec reports what a question draw for this room needs.
func (r *Room) DrawSpec() (category string, difficulty, rounds int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings.Category, r.settings.Difficulty, r.settings.TotalRounds
}

func (r *Room) findByIdentity(identity string) *Player {
	for _, p := range r.players {
		if p.Identity == identity {
			return p
		}
	}
	return nil
}

func (r *Room) findByID(playerID string) *Player {
	for _, p := range r.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (r *Room) connectedCount() int {
	n := 0
	for _, p := range r.players {
		if p.IsConnected {
			n++
		}
	}
	return n
}

func (r *Room) host() *Player {
	for _, p := range r.players {
		if p.IsHost {
			return p
		}
	}
	return nil
}

// touch refreshes the requester's heartbeat. A seated identity showing
// up again counts as reconnected.
func (r *Room) touch(identity string) {
	now := r.clock.Now()
	r.lastActivity = now
	if p := r.findByIdentity(identity); p != nil {
		p.LastSeen = now
		if !p.IsConnected {
			p.IsConnected = true
		}
	}
}

// refreshConnections flags players silent past the player timeout as
// disconnected and keeps the single-host invariant intact.
func (r *Room) refreshConnections() {
	now := r.clock.Now()
	for _, p := range r.players {
		if p.IsConnected && now.Sub(p.LastSeen) > r.rules.PlayerTimeout {
			p.IsConnected = false
		}
	}
	r.reassignHost()
}

// reassignHost hands the host role to the earliest-joined connected
// player when the current host is gone. Exactly one player holds
// is_host while the room has any players.
func (r *Room) reassignHost() {
	if len(r.players) == 0 {
		return
	}
	h := r.host()
	if h != nil && h.IsConnected {
		return
	}
	for _, p := range r.players {
		if p.IsConnected {
			if h != nil {
				h.IsHost = false
			}
			p.IsHost = true
			return
		}
	}
	// Nobody connected: the previous host keeps the seat so a rejoin
	// restores a well-formed room.
	if h == nil {
		r.players[0].IsHost = true
	}
}

func (r *Room) appendEvent(t model.EventType, playerID string, data map[string]any) {
	r.events = append(r.events, model.GameEvent{
		Type:      t,
		PlayerID:  playerID,
		Data:      data,
		Timestamp: r.clock.Now(),
	})
	if len(r.events) > maxEvents {
		r.events = r.events[len(r.events)-maxEvents:]
	}
}

func (r *Room) playerSnapshots() []model.PlayerSnapshot {
	out := make([]model.PlayerSnapshot, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, model.PlayerSnapshot{
			ID:          p.ID,
			Nickname:    p.Nickname,
			Avatar:      p.Avatar,
			Score:       p.Score,
			IsHost:      p.IsHost,
			IsReady:     p.IsReady,
			IsConnected: p.IsConnected,
			JoinedAt:    p.JoinedAt,
		})
	}
	return out
}

func (r *Room) snapshotLocked() *model.RoomSnapshot {
	snap := &model.RoomSnapshot{
		ID:           r.id,
		Code:         r.code,
		Status:       r.status,
		Settings:     r.settings,
		CurrentRound: r.currentRound,
		Players:      r.playerSnapshots(),
		CreatedAt:    r.createdAt,
	}
	if h := r.host(); h != nil {
		snap.HostID = h.ID
	}
	if !r.startedAt.IsZero() {
		t := r.startedAt
		snap.StartedAt = &t
	}
	if !r.finishedAt.IsZero() {
		t := r.finishedAt
		snap.FinishedAt = &t
	}
	return snap
}

// Snapshot returns the full room state, refreshing the requester's
// heartbeat and collapsing any expired phase first.
func (r *Room) Snapshot(identity string) *model.RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(identity)
	r.collapseExpired()
	return r.snapshotLocked()
}

// Summary returns the public lobby listing entry.
func (r *Room) Summary() model.RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collapseExpired()
	return model.RoomSummary{
		ID:          r.id,
		Code:        r.code,
		Name:        r.settings.Name,
		Status:      r.status,
		PlayerCount: r.connectedCount(),
		MaxPlayers:  r.settings.MaxPlayers,
		IsPrivate:   r.settings.IsPrivate,
		CreatedAt:   r.createdAt,
	}
}

// Events returns the most recent game events, newest last.
func (r *Room) Events(identity string, limit int) ([]model.GameEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(identity)
	r.collapseExpired()
	if r.findByIdentity(identity) == nil {
		return nil, ErrPlayerNotFound
	}
	evs := r.events
	if limit > 0 && len(evs) > limit {
		evs = evs[len(evs)-limit:]
	}
	out := make([]model.GameEvent, len(evs))
	copy(out, evs)
	return out, nil
}

// PendingRecord returns the archive record exactly once after the room
// finishes; subsequent calls return nil.
func (r *Room) PendingRecord() *model.GameRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.record
	r.record = nil
	return rec
}

// Reapable reports whether the room can be removed from the registry:
// finished with nobody seated, or idle past the given timeout with
// nobody connected.
func (r *Room) Reapable(idleTimeout time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshConnections()
	if r.status == model.RoomFinished && len(r.players) == 0 {
		return true
	}
	return r.connectedCount() == 0 && r.clock.Now().Sub(r.lastActivity) > idleTimeout
}
