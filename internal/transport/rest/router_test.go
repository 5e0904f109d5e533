package rest_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/mohammadf16/numberhunt/internal/client"
	"github.com/mohammadf16/numberhunt/internal/game"
	"github.com/mohammadf16/numberhunt/internal/model"
	"github.com/mohammadf16/numberhunt/internal/question"
	"github.com/mohammadf16/numberhunt/internal/repository"
	"github.com/mohammadf16/numberhunt/internal/service"
	"github.com/mohammadf16/numberhunt/internal/transport/rest"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	registry := game.NewRegistry(clockwork.NewRealClock(), rand.NewSource(1), game.DefaultRules(), time.Hour, zerolog.Nop())
	bank := question.NewStaticBank(rand.NewSource(1), question.SeedQuestions(), question.SeedDecoys())
	authSvc := service.NewAuthService(repository.NewMemoryUserRepo(), "test-secret")
	gameSvc := service.NewGameService(registry, bank, nil, nil, nil, zerolog.Nop())

	srv := httptest.NewServer(rest.NewRouter(&rest.Container{
		AuthService: authSvc,
		GameService: gameSvc,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func registeredClient(t *testing.T, srv *httptest.Server, username string) *client.API {
	t.Helper()
	api := client.NewAPI(srv.URL)
	if err := api.Register(context.Background(), username, "password"); err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return api
}

func apiStatus(err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func apiCode(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	api := client.NewAPI(srv.URL)
	if err := api.Register(ctx, "alice", "password"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if api.Token() == "" {
		t.Fatal("register returned no token")
	}

	dup := client.NewAPI(srv.URL)
	if err := dup.Register(ctx, "alice", "password"); apiStatus(err) != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", apiStatus(err))
	}

	bad := client.NewAPI(srv.URL)
	if err := bad.Login(ctx, "alice", "wrong"); apiStatus(err) != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", apiStatus(err))
	}
	if err := bad.Login(ctx, "alice", "password"); err != nil {
		t.Errorf("login: %v", err)
	}
}

func TestRequestsRequireToken(t *testing.T) {
	srv := newTestServer(t)
	api := client.NewAPI(srv.URL)

	_, err := api.ListRooms(context.Background())
	if apiStatus(err) != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without token", apiStatus(err))
	}
}

func TestErrorMapping(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	host := registeredClient(t, srv, "host")
	other := registeredClient(t, srv, "other")

	// Missing room name fails validation before the engine.
	if _, err := host.CreateRoom(ctx, map[string]any{}); apiStatus(err) != http.StatusUnprocessableEntity {
		t.Errorf("create without name status = %d, want 422", apiStatus(err))
	}

	if _, err := host.Room(ctx, "no-such-room"); apiStatus(err) != http.StatusNotFound {
		t.Errorf("unknown room status = %d, want 404", apiStatus(err))
	}

	snap, err := host.CreateRoom(ctx, map[string]any{"name": "mapping", "min_players": 2, "max_players": 4})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Starting short-handed is a capacity conflict.
	if _, err := host.StartGame(ctx, snap.ID); apiStatus(err) != http.StatusConflict {
		t.Errorf("understaffed start status = %d, want 409", apiStatus(err))
	}

	if _, err := other.JoinByCode(ctx, snap.Code, "other", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	// Only the host may start.
	if _, err := other.StartGame(ctx, snap.ID); apiStatus(err) != http.StatusForbidden {
		t.Errorf("non-host start status = %d, want 403", apiStatus(err))
	}
	if code := apiCode(func() error { _, err := other.StartGame(ctx, snap.ID); return err }()); code != "not_host" {
		t.Errorf("non-host start code = %q, want not_host", code)
	}
}

func TestGameOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	host := registeredClient(t, srv, "host")
	snap, err := host.CreateRoom(ctx, map[string]any{
		"name":         "full game",
		"min_players":  3,
		"max_players":  4,
		"total_rounds": 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	apis := map[string]*client.API{"host": host}
	playerIDs := map[string]string{"host": snap.HostID}
	for _, name := range []string{"bob", "carol"} {
		api := registeredClient(t, srv, name)
		resp, err := api.JoinByCode(ctx, snap.Code, name, "")
		if err != nil {
			t.Fatalf("join %s: %v", name, err)
		}
		apis[name] = api
		playerIDs[name] = resp.Player.ID
	}

	if _, err := host.StartGame(ctx, snap.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Everyone answers; the round rolls into discussion on its own.
	for name, api := range apis {
		round, err := api.Round(ctx, snap.ID)
		if err != nil {
			t.Fatalf("round for %s: %v", name, err)
		}
		if round.Question.Text == "" {
			t.Fatalf("%s received an empty question", name)
		}
		if err := api.SubmitAnswer(ctx, snap.ID, round.RoundNumber, 42); err != nil {
			t.Fatalf("answer for %s: %v", name, err)
		}
	}
	round, err := host.Round(ctx, snap.ID)
	if err != nil {
		t.Fatalf("round: %v", err)
	}
	if round.Phase != model.PhaseDiscussion {
		t.Fatalf("phase = %s, want discussion once all answered", round.Phase)
	}
	if len(round.Answers) != 3 {
		t.Errorf("answers visible = %d, want 3", len(round.Answers))
	}

	if err := host.StartVoting(ctx, snap.ID, round.RoundNumber); err != nil {
		t.Fatalf("start voting: %v", err)
	}

	// Self-votes bounce; everyone else votes the host (the host votes
	// bob) so the round completes.
	if err := apis["bob"].Vote(ctx, snap.ID, round.RoundNumber, playerIDs["bob"]); apiStatus(err) != http.StatusUnprocessableEntity {
		t.Errorf("self vote status = %d, want 422", apiStatus(err))
	}
	for name, api := range apis {
		target := playerIDs["host"]
		if name == "host" {
			target = playerIDs["bob"]
		}
		if err := api.Vote(ctx, snap.ID, round.RoundNumber, target); err != nil {
			t.Fatalf("vote for %s: %v", name, err)
		}
	}

	round, err = host.Round(ctx, snap.ID)
	if err != nil {
		t.Fatalf("round: %v", err)
	}
	if round.Phase != model.PhaseResults {
		t.Fatalf("phase = %s, want results once all voted", round.Phase)
	}
	if round.Results == nil {
		t.Fatal("results missing at results phase")
	}

	next, err := host.NextRound(ctx, snap.ID)
	if err != nil {
		t.Fatalf("next round: %v", err)
	}
	if !next.GameEnded {
		t.Fatal("single-round game did not end")
	}
	if len(next.FinalScores) != 3 {
		t.Errorf("final scores = %d entries, want 3", len(next.FinalScores))
	}

	roomSnap, err := host.Room(ctx, snap.ID)
	if err != nil {
		t.Fatalf("room: %v", err)
	}
	if roomSnap.Status != model.RoomFinished {
		t.Errorf("status = %s, want finished", roomSnap.Status)
	}
}

func TestListRoomsOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	host := registeredClient(t, srv, "host")

	for i := 0; i < 2; i++ {
		if _, err := host.CreateRoom(ctx, map[string]any{"name": fmt.Sprintf("room %d", i)}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	rooms, err := host.ListRooms(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rooms) != 2 {
		t.Errorf("rooms = %d, want 2", len(rooms))
	}
}
