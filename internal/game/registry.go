package game

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mohammadf16/numberhunt/internal/model"
)

const (
	codeChars    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLen      = 6
	codeAttempts = 10
)

// Registry owns every live room, indexed by id and by shareable code.
// Rooms are fully independent: the registry lock only guards the maps,
// never a room's own state.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	byCode map[string]string

	clock       clockwork.Clock
	rng         *rand.Rand
	rngMu       sync.Mutex
	rules       Rules
	idleTimeout time.Duration
	log         zerolog.Logger
}

// NewRegistry creates an empty registry. The rand source feeds both
// code generation and each room's odd-player selection.
func NewRegistry(clock clockwork.Clock, src rand.Source, rules Rules, idleTimeout time.Duration, log zerolog.Logger) *Registry {
	return &Registry{
		rooms:       make(map[string]*Room),
		byCode:      make(map[string]string),
		clock:       clock,
		rng:         rand.New(src),
		rules:       rules,
		idleTimeout: idleTimeout,
		log:         log,
	}
}

func applyDefaults(s *model.RoomSettings) {
	if s.MinPlayers == 0 {
		s.MinPlayers = 3
	}
	if s.MaxPlayers == 0 {
		s.MaxPlayers = 8
	}
	if s.TotalRounds == 0 {
		s.TotalRounds = 5
	}
	if s.DiscussionTime == 0 {
		s.DiscussionTime = 180
	}
	if s.VotingTime == 0 {
		s.VotingTime = 60
	}
	if s.ResultsTime == 0 {
		s.ResultsTime = 30
	}
}

// Create validates settings, allocates a room code and seats the
// creator as host.
func (g *Registry) Create(identity, nickname, avatar, password string, settings model.RoomSettings) (*Room, error) {
	applyDefaults(&settings)
	if settings.Name == "" ||
		settings.MinPlayers < 1 ||
		settings.MinPlayers > settings.MaxPlayers ||
		settings.TotalRounds < 1 ||
		(settings.IsPrivate && password == "") {
		return nil, ErrInvalidConfiguration
	}

	var hash []byte
	if settings.IsPrivate {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	code, err := g.generateCode()
	if err != nil {
		return nil, err
	}

	now := g.clock.Now()
	g.rngMu.Lock()
	seed := g.rng.Int63()
	g.rngMu.Unlock()

	room := &Room{
		id:           uuid.New().String(),
		code:         code,
		settings:     settings,
		passwordHash: hash,
		status:       model.RoomWaiting,
		createdAt:    now,
		lastActivity: now,
		clock:        g.clock,
		rng:          rand.New(rand.NewSource(seed)),
		rules:        g.rules,
	}

	p := &Player{
		ID:          "p_" + uuid.New().String()[:8],
		Identity:    identity,
		Nickname:    nickname,
		Avatar:      avatar,
		IsHost:      true,
		IsReady:     true,
		IsConnected: true,
		JoinedAt:    now,
		LastSeen:    now,
	}
	room.players = append(room.players, p)
	room.appendEvent(model.EventPlayerJoined, p.ID, map[string]any{"nickname": p.Nickname, "host": true})

	g.rooms[room.id] = room
	g.byCode[room.code] = room.id

	g.log.Info().Str("room_id", room.id).Str("room_code", room.code).Str("name", settings.Name).Msg("room created")
	return room, nil
}

// generateCode retries on collision; exhaustion is practically
// unreachable at expected scale. Callers hold g.mu.
func (g *Registry) generateCode() (string, error) {
	g.rngMu.Lock()
	defer g.rngMu.Unlock()
	for attempt := 0; attempt < codeAttempts; attempt++ {
		b := make([]byte, codeLen)
		for i := range b {
			b[i] = codeChars[g.rng.Intn(len(codeChars))]
		}
		code := string(b)
		if _, taken := g.byCode[code]; !taken {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

// ByID looks a room up by its opaque id.
func (g *Registry) ByID(id string) (*Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// ByCode looks a room up by its shareable code.
func (g *Registry) ByCode(code string) (*Room, error) {
	g.mu.RLock()
	id, ok := g.byCode[code]
	g.mu.RUnlock()
	if !ok {
		return nil, ErrRoomNotFound
	}
	return g.ByID(id)
}

// List returns joinable public room summaries, newest first.
func (g *Registry) List() []model.RoomSummary {
	g.mu.RLock()
	rooms := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		rooms = append(rooms, r)
	}
	g.mu.RUnlock()

	out := make([]model.RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		s := r.Summary()
		if s.IsPrivate || s.Status == model.RoomFinished {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Sweep removes rooms that finished and emptied out, or idled past the
// registry timeout with nobody connected.
func (g *Registry) Sweep() int {
	g.mu.Lock()
	candidates := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		candidates = append(candidates, r)
	}
	g.mu.Unlock()

	removed := 0
	for _, r := range candidates {
		if !r.Reapable(g.idleTimeout) {
			continue
		}
		g.mu.Lock()
		delete(g.rooms, r.id)
		delete(g.byCode, r.code)
		g.mu.Unlock()
		removed++
		g.log.Info().Str("room_id", r.id).Str("room_code", r.code).Msg("room reaped")
	}
	return removed
}
