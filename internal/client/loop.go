package client

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/mohammadf16/numberhunt/internal/model"
)

// ViewState is the client's coarse UI state. Only lobby and playing
// poll the server; menu is idle.
type ViewState string

const (
	ViewMenu    ViewState = "menu"
	ViewLobby   ViewState = "lobby"
	ViewPlaying ViewState = "playing"
)

const (
	pollRetries   = 3
	pollRetryBase = 500 * time.Millisecond
)

// Loop drives the client's polling state machine. All server traffic
// goes through the scheduler, so user commands and background polls
// share one paced request stream.
type Loop struct {
	api   *API
	sched *Scheduler
	store *Store
	clock clockwork.Clock
	log   zerolog.Logger

	view   ViewState
	roomID string

	room  *model.RoomSnapshot
	round *model.RoundSnapshot
}

// NewLoop creates a loop in the menu state.
func NewLoop(api *API, sched *Scheduler, store *Store, clock clockwork.Clock, log zerolog.Logger) *Loop {
	return &Loop{
		api:   api,
		sched: sched,
		store: store,
		clock: clock,
		log:   log,
		view:  ViewMenu,
	}
}

// View returns the current view state.
func (l *Loop) View() ViewState { return l.view }

// RoomID returns the room the loop is tracking, empty in the menu.
func (l *Loop) RoomID() string { return l.roomID }

// Room returns the last room snapshot seen, nil in the menu.
func (l *Loop) Room() *model.RoomSnapshot { return l.room }

// Round returns the last round snapshot seen, nil outside playing.
func (l *Loop) Round() *model.RoundSnapshot { return l.round }

// Resume runs exactly once at startup: if a marker survives from a
// previous run, re-fetch the room and pick up where the client left
// off. A stale marker (room gone, game over, seat lost) is cleared and
// the loop stays in the menu.
func (l *Loop) Resume(ctx context.Context) (ViewState, error) {
	marker, ok, err := l.store.Load()
	if err != nil {
		return l.view, err
	}
	if !ok {
		return l.view, nil
	}

	var snap *model.RoomSnapshot
	err = l.sched.Do(ctx, func(ctx context.Context) error {
		var err error
		snap, err = l.api.Room(ctx, marker.RoomID)
		return err
	})
	if err != nil {
		if IsNotFound(err) {
			l.log.Info().Str("room_id", marker.RoomID).Msg("saved room no longer exists")
			return l.view, l.store.Clear()
		}
		return l.view, err
	}
	if snap.Status == model.RoomFinished {
		return l.view, l.store.Clear()
	}

	l.enterRoom(snap)
	l.log.Info().Str("room_id", snap.ID).Str("view", string(l.view)).Msg("resumed session")
	return l.view, nil
}

// EnterRoom installs a freshly joined or created room and persists the
// marker.
func (l *Loop) EnterRoom(snap *model.RoomSnapshot) {
	l.enterRoom(snap)
	l.saveMarker()
}

func (l *Loop) enterRoom(snap *model.RoomSnapshot) {
	l.roomID = snap.ID
	l.room = snap
	l.applyStatus(snap.Status)
}

// LeaveRoom returns to the menu and clears the marker.
func (l *Loop) LeaveRoom() {
	l.roomID = ""
	l.room = nil
	l.round = nil
	l.view = ViewMenu
	if err := l.store.Clear(); err != nil {
		l.log.Warn().Err(err).Msg("clear session marker failed")
	}
}

// Poll performs one synchronization step: fetch the room (and, while
// playing, the round), apply any view transition, and refresh the
// marker. Transient failures are retried with backoff before being
// surfaced.
func (l *Loop) Poll(ctx context.Context) error {
	if l.view == ViewMenu {
		return nil
	}

	snap, err := l.fetchRoom(ctx)
	if err != nil {
		if IsNotFound(err) {
			l.log.Info().Str("room_id", l.roomID).Msg("room gone, returning to menu")
			l.LeaveRoom()
			return nil
		}
		return err
	}
	l.room = snap

	if snap.Status == model.RoomFinished {
		l.log.Info().Str("room_id", snap.ID).Msg("game over")
		l.LeaveRoom()
		return nil
	}

	prev := l.view
	l.applyStatus(snap.Status)
	if l.view != prev {
		l.saveMarker()
	}

	if l.view == ViewPlaying {
		round, err := l.fetchRound(ctx)
		if err != nil {
			return err
		}
		l.round = round
	}
	return nil
}

// Run polls until ctx is cancelled or the loop falls back to the menu.
// The scheduler's pacing gap is the effective poll interval.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.view == ViewMenu {
			return nil
		}
		if err := l.Poll(ctx); err != nil {
			return err
		}
	}
}

func (l *Loop) applyStatus(status model.RoomStatus) {
	switch status {
	case model.RoomInProgress:
		l.view = ViewPlaying
	case model.RoomWaiting:
		l.view = ViewLobby
	default:
		l.view = ViewMenu
	}
}

func (l *Loop) saveMarker() {
	if l.roomID == "" {
		return
	}
	if err := l.store.Save(Marker{RoomID: l.roomID, ViewState: string(l.view)}); err != nil {
		l.log.Warn().Err(err).Msg("save session marker failed")
	}
}

func (l *Loop) fetchRoom(ctx context.Context) (*model.RoomSnapshot, error) {
	var snap *model.RoomSnapshot
	err := l.withRetry(ctx, func(ctx context.Context) error {
		var err error
		snap, err = l.api.Room(ctx, l.roomID)
		return err
	})
	return snap, err
}

func (l *Loop) fetchRound(ctx context.Context) (*model.RoundSnapshot, error) {
	var snap *model.RoundSnapshot
	err := l.withRetry(ctx, func(ctx context.Context) error {
		var err error
		snap, err = l.api.Round(ctx, l.roomID)
		return err
	})
	return snap, err
}

func (l *Loop) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < pollRetries; attempt++ {
		if attempt > 0 {
			backoff := pollRetryBase << (attempt - 1)
			select {
			case <-l.clock.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		err = l.sched.Do(ctx, fn)
		if err == nil || !IsTransient(err) {
			return err
		}
		l.log.Warn().Err(err).Int("attempt", attempt+1).Msg("poll failed, retrying")
	}
	return err
}
