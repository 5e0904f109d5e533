package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/mohammadf16/numberhunt/internal/model"
)

// fakeServer serves room and round snapshots that tests mutate between
// polls.
type fakeServer struct {
	mu    sync.Mutex
	room  model.RoomSnapshot
	round model.RoundSnapshot
	gone  bool
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/rooms/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if f.gone {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "room not found", "code": "room_not_found"})
			return
		}
		if filepath.Base(r.URL.Path) == "round" {
			json.NewEncoder(w).Encode(f.round)
			return
		}
		json.NewEncoder(w).Encode(f.room)
	})
	return mux
}

func (f *fakeServer) setStatus(status model.RoomStatus) {
	f.mu.Lock()
	f.room.Status = status
	f.mu.Unlock()
}

func newTestLoop(t *testing.T, baseURL string) (*Loop, *Store) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	sched := NewScheduler(clock, 0)
	t.Cleanup(sched.Close)
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))
	api := NewAPI(baseURL)
	api.SetToken("test-token")
	return NewLoop(api, sched, store, clock, zerolog.Nop()), store
}

func TestResumeRestoresSession(t *testing.T) {
	fake := &fakeServer{room: model.RoomSnapshot{ID: "room-1", Status: model.RoomWaiting}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	loop, store := newTestLoop(t, srv.URL)
	if err := store.Save(Marker{RoomID: "room-1", ViewState: "lobby"}); err != nil {
		t.Fatal(err)
	}

	view, err := loop.Resume(context.Background())
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if view != ViewLobby {
		t.Errorf("view = %s, want lobby", view)
	}
	if loop.RoomID() != "room-1" {
		t.Errorf("room id = %s, want room-1", loop.RoomID())
	}
}

func TestResumeIntoRunningGame(t *testing.T) {
	fake := &fakeServer{
		room:  model.RoomSnapshot{ID: "room-1", Status: model.RoomInProgress, CurrentRound: 2},
		round: model.RoundSnapshot{RoundNumber: 2, Phase: model.PhaseDiscussion},
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	loop, store := newTestLoop(t, srv.URL)
	if err := store.Save(Marker{RoomID: "room-1", ViewState: "playing"}); err != nil {
		t.Fatal(err)
	}

	view, err := loop.Resume(context.Background())
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if view != ViewPlaying {
		t.Errorf("view = %s, want playing", view)
	}
}

func TestResumeClearsStaleMarker(t *testing.T) {
	fake := &fakeServer{gone: true}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	loop, store := newTestLoop(t, srv.URL)
	if err := store.Save(Marker{RoomID: "room-1", ViewState: "lobby"}); err != nil {
		t.Fatal(err)
	}

	view, err := loop.Resume(context.Background())
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if view != ViewMenu {
		t.Errorf("view = %s, want menu for a vanished room", view)
	}
	if _, ok, _ := store.Load(); ok {
		t.Error("stale marker not cleared")
	}
}

func TestResumeFinishedGameClearsMarker(t *testing.T) {
	fake := &fakeServer{room: model.RoomSnapshot{ID: "room-1", Status: model.RoomFinished}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	loop, store := newTestLoop(t, srv.URL)
	if err := store.Save(Marker{RoomID: "room-1", ViewState: "playing"}); err != nil {
		t.Fatal(err)
	}

	view, err := loop.Resume(context.Background())
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if view != ViewMenu {
		t.Errorf("view = %s, want menu for a finished game", view)
	}
	if _, ok, _ := store.Load(); ok {
		t.Error("marker for finished game not cleared")
	}
}

func TestPollFollowsGameLifecycle(t *testing.T) {
	fake := &fakeServer{
		room:  model.RoomSnapshot{ID: "room-1", Status: model.RoomWaiting},
		round: model.RoundSnapshot{RoundNumber: 1, Phase: model.PhaseAnswering},
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	loop, store := newTestLoop(t, srv.URL)
	loop.EnterRoom(&model.RoomSnapshot{ID: "room-1", Status: model.RoomWaiting})
	if loop.View() != ViewLobby {
		t.Fatalf("view = %s, want lobby after entering", loop.View())
	}

	// Host starts the game server-side.
	fake.setStatus(model.RoomInProgress)
	if err := loop.Poll(context.Background()); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if loop.View() != ViewPlaying {
		t.Errorf("view = %s, want playing", loop.View())
	}
	if loop.Round() == nil || loop.Round().RoundNumber != 1 {
		t.Errorf("round snapshot not tracked: %+v", loop.Round())
	}
	if m, ok, _ := store.Load(); !ok || m.ViewState != string(ViewPlaying) {
		t.Errorf("marker = %+v ok=%v, want playing", m, ok)
	}

	// Game over: back to menu, marker gone.
	fake.setStatus(model.RoomFinished)
	if err := loop.Poll(context.Background()); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if loop.View() != ViewMenu {
		t.Errorf("view = %s, want menu after finish", loop.View())
	}
	if _, ok, _ := store.Load(); ok {
		t.Error("marker survived game over")
	}
}

func TestPollRoomGoneReturnsToMenu(t *testing.T) {
	fake := &fakeServer{room: model.RoomSnapshot{ID: "room-1", Status: model.RoomWaiting}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	loop, _ := newTestLoop(t, srv.URL)
	loop.EnterRoom(&model.RoomSnapshot{ID: "room-1", Status: model.RoomWaiting})

	fake.mu.Lock()
	fake.gone = true
	fake.mu.Unlock()

	if err := loop.Poll(context.Background()); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if loop.View() != ViewMenu {
		t.Errorf("view = %s, want menu when the room is reaped", loop.View())
	}
}
