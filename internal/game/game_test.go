package game

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/mohammadf16/numberhunt/internal/model"
)

func newTestRegistry(clock clockwork.Clock) *Registry {
	return NewRegistry(clock, rand.NewSource(1), DefaultRules(), time.Hour, zerolog.Nop())
}

func testSettings() model.RoomSettings {
	return model.RoomSettings{
		Name:           "test room",
		MinPlayers:     3,
		MaxPlayers:     6,
		TotalRounds:    2,
		DiscussionTime: 60,
		VotingTime:     30,
		ResultsTime:    15,
		AllowRejoining: true,
	}
}

func testPairs(n int) []model.QuestionPair {
	pairs := make([]model.QuestionPair, n)
	for i := range pairs {
		pairs[i] = model.QuestionPair{
			Real:  model.Question{ID: fmt.Sprintf("q%d", i), Text: "How many real?"},
			Decoy: model.Question{ID: fmt.Sprintf("d%d", i), Text: "How many decoy?"},
		}
	}
	return pairs
}

// fillRoom seats n players (the creator included) and returns their
// identities in join order. Identity i is "id<i>", nickname "player<i>".
func fillRoom(t *testing.T, room *Room, n int) []string {
	t.Helper()
	ids := []string{"id0"}
	for i := 1; i < n; i++ {
		identity := fmt.Sprintf("id%d", i)
		if _, err := room.Join(identity, fmt.Sprintf("player%d", i), "", ""); err != nil {
			t.Fatalf("join %s: %v", identity, err)
		}
		ids = append(ids, identity)
	}
	return ids
}

// startedRoom creates a room with n players and an in-progress game.
func startedRoom(t *testing.T, clock clockwork.Clock, n, rounds int) (*Room, []string) {
	t.Helper()
	reg := newTestRegistry(clock)
	settings := testSettings()
	settings.TotalRounds = rounds
	room, err := reg.Create("id0", "player0", "", "", settings)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	ids := fillRoom(t, room, n)
	if err := room.Start("id0", testPairs(rounds)); err != nil {
		t.Fatalf("start game: %v", err)
	}
	return room, ids
}

// oddIdentity finds which seated identity drew the decoy question.
func oddIdentity(t *testing.T, room *Room, ids []string) string {
	t.Helper()
	for _, id := range ids {
		snap, err := room.RoundSnapshot(id)
		if err != nil {
			t.Fatalf("round snapshot %s: %v", id, err)
		}
		if snap.IsOddPlayer {
			return id
		}
	}
	t.Fatal("no odd player found")
	return ""
}

// playerID resolves an identity to its seat id.
func playerID(t *testing.T, room *Room, identity string) string {
	t.Helper()
	room.mu.Lock()
	defer room.mu.Unlock()
	p := room.findByIdentity(identity)
	if p == nil {
		t.Fatalf("identity %s not seated", identity)
	}
	return p.ID
}
