package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mohammadf16/numberhunt/internal/cache"
	"github.com/mohammadf16/numberhunt/internal/game"
	"github.com/mohammadf16/numberhunt/internal/model"
	"github.com/mohammadf16/numberhunt/internal/question"
	"github.com/mohammadf16/numberhunt/internal/repository"
)

// GameService fronts the game engine for the gateway: it resolves
// rooms, drives commands through them, and archives finished games.
// History, stats and leaderboard are optional; a nil dependency just
// skips that side effect.
type GameService struct {
	registry    *game.Registry
	bank        question.Bank
	history     repository.HistoryRepo
	stats       repository.StatsRepo
	leaderboard cache.LeaderboardCache
	log         zerolog.Logger
}

// NewGameService creates a game service.
func NewGameService(
	registry *game.Registry,
	bank question.Bank,
	history repository.HistoryRepo,
	stats repository.StatsRepo,
	leaderboard cache.LeaderboardCache,
	log zerolog.Logger,
) *GameService {
	return &GameService{
		registry:    registry,
		bank:        bank,
		history:     history,
		stats:       stats,
		leaderboard: leaderboard,
		log:         log,
	}
}

// CreateRoom creates a room with the requester as host.
func (s *GameService) CreateRoom(ctx context.Context, identity, nickname, avatar, password string, settings model.RoomSettings) (*model.RoomSnapshot, error) {
	room, err := s.registry.Create(identity, nickname, avatar, password, settings)
	if err != nil {
		return nil, err
	}
	return room.Snapshot(identity), nil
}

// ListRooms lists joinable public rooms.
func (s *GameService) ListRooms(ctx context.Context) []model.RoomSummary {
	return s.registry.List()
}

// Join seats the requester in the room with the given id.
func (s *GameService) Join(ctx context.Context, roomID, identity, nickname, avatar, password string) (*model.JoinResponse, error) {
	room, err := s.registry.ByID(roomID)
	if err != nil {
		return nil, err
	}
	return room.Join(identity, nickname, avatar, password)
}

// JoinByCode is Join keyed by the shareable room code.
func (s *GameService) JoinByCode(ctx context.Context, code, identity, nickname, avatar, password string) (*model.JoinResponse, error) {
	room, err := s.registry.ByCode(code)
	if err != nil {
		return nil, err
	}
	return room.Join(identity, nickname, avatar, password)
}

// Leave removes or disconnects the requester's seat.
func (s *GameService) Leave(ctx context.Context, roomID, identity string) error {
	room, err := s.registry.ByID(roomID)
	if err != nil {
		return err
	}
	if err := room.Leave(identity); err != nil {
		return err
	}
	s.archiveIfFinished(ctx, room)
	return nil
}

// ToggleReady flips the requester's ready flag.
func (s *GameService) ToggleReady(ctx context.Context, roomID, identity string) (bool, error) {
	room, err := s.registry.ByID(roomID)
	if err != nil {
		return false, err
	}
	return room.ToggleReady(identity)
}

// Start draws this room's questions and opens round 1.
func (s *GameService) Start(ctx context.Context, roomID, identity string) (*model.RoomSnapshot, error) {
	room, err := s.registry.ByID(roomID)
	if err != nil {
		return nil, err
	}
	category, difficulty, rounds := room.DrawSpec()
	pairs, err := s.bank.DrawPairs(ctx, category, difficulty, rounds)
	if err != nil {
		return nil, fmt.Errorf("draw questions: %w", err)
	}
	if err := room.Start(identity, pairs); err != nil {
		return nil, err
	}
	s.log.Info().Str("room_code", room.Code()).Msg("game started")
	return room.Snapshot(identity), nil
}

// Snapshot returns the full room state for the requester.
func (s *GameService) Snapshot(ctx context.Context, roomID, identity string) (*model.RoomSnapshot, error) {
	room, err := s.registry.ByID(roomID)
	if err != nil {
		return nil, err
	}
	snap := room.Snapshot(identity)
	s.archiveIfFinished(ctx, room)
	return snap, nil
}

// RoundSnapshot returns the current round scoped to the requester.
func (s *GameService) RoundSnapshot(ctx context.Context, roomID, identity string) (*model.RoundSnapshot, error) {
	room, err := s.registry.ByID(roomID)
	if err != nil {
		return nil, err
	}
	snap, err := room.RoundSnapshot(identity)
	s.archiveIfFinished(ctx, room)
	return snap, err
}

// SubmitAnswer records the requester's answer for the given round.
func (s *GameService) SubmitAnswer(ctx context.Context, roomID, identity string, roundNumber, value int) error {
	room, err := s.registry.ByID(roomID)
	if err != nil {
		return err
	}
	err = room.SubmitAnswer(identity, roundNumber, value)
	s.archiveIfFinished(ctx, room)
	return err
}

// StartVoting moves the given round into voting.
func (s *GameService) StartVoting(ctx context.Context, roomID, identity string, roundNumber int) error {
	room, err := s.registry.ByID(roomID)
	if err != nil {
		return err
	}
	return room.StartVoting(identity, roundNumber)
}

// SubmitVote records the requester's accusation for the given round.
func (s *GameService) SubmitVote(ctx context.Context, roomID, identity string, roundNumber int, accusedID string) error {
	room, err := s.registry.ByID(roomID)
	if err != nil {
		return err
	}
	err = room.SubmitVote(identity, roundNumber, accusedID)
	s.archiveIfFinished(ctx, room)
	return err
}

// NextRound continues past results; after the final round it ends the
// session and archives the game.
func (s *GameService) NextRound(ctx context.Context, roomID, identity string) (*model.NextRoundResponse, error) {
	room, err := s.registry.ByID(roomID)
	if err != nil {
		return nil, err
	}
	resp, err := room.Continue(identity)
	if err != nil {
		return nil, err
	}
	s.archiveIfFinished(ctx, room)
	return resp, nil
}

// Events returns the room's recent activity log.
func (s *GameService) Events(ctx context.Context, roomID, identity string, limit int) ([]model.GameEvent, error) {
	room, err := s.registry.ByID(roomID)
	if err != nil {
		return nil, err
	}
	return room.Events(identity, limit)
}

// Leaderboard returns global cumulative totals, preferring the redis
// mirror and falling back to the archive.
func (s *GameService) Leaderboard(ctx context.Context, limit int) ([]model.PlayerStats, error) {
	if s.leaderboard != nil {
		entries, err := s.leaderboard.Top(ctx, limit)
		if err == nil && len(entries) > 0 {
			out := make([]model.PlayerStats, len(entries))
			for i, e := range entries {
				out[i] = model.PlayerStats{IdentityID: e.IdentityID, TotalScore: e.Score}
			}
			return out, nil
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("leaderboard cache read failed, falling back")
		}
	}
	if s.stats == nil {
		return nil, nil
	}
	return s.stats.Top(ctx, limit)
}

// RunSweeper reaps dead rooms until ctx is cancelled.
func (s *GameService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.registry.Sweep(); n > 0 {
				s.log.Debug().Int("removed", n).Msg("sweep complete")
			}
		}
	}
}

// archiveIfFinished persists the one-shot finish record a room emits
// when its session ends. Best effort: archive failures are logged, the
// game result the players saw is already final.
func (s *GameService) archiveIfFinished(ctx context.Context, room *game.Room) {
	rec := room.PendingRecord()
	if rec == nil {
		return
	}
	s.log.Info().Str("room_code", rec.RoomCode).Int("players", len(rec.Players)).Msg("game finished")

	if s.history != nil {
		if err := s.history.Save(ctx, rec); err != nil {
			s.log.Error().Err(err).Str("room_code", rec.RoomCode).Msg("archive game record failed")
		}
	}
	for _, pr := range rec.Players {
		if s.stats != nil {
			if err := s.stats.Apply(ctx, pr, rec.FinishedAt); err != nil {
				s.log.Error().Err(err).Str("identity_id", pr.IdentityID).Msg("apply player stats failed")
			}
		}
		if s.leaderboard != nil && pr.Score != 0 {
			if err := s.leaderboard.AddScore(ctx, pr.IdentityID, pr.Score); err != nil {
				s.log.Error().Err(err).Str("identity_id", pr.IdentityID).Msg("leaderboard update failed")
			}
		}
	}
}
