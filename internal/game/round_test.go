package game

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mohammadf16/numberhunt/internal/model"
)

func TestOddPlayerGetsDecoyQuestion(t *testing.T) {
	clock := clockwork.NewFakeClock()
	room, ids := startedRoom(t, clock, 4, 2)

	oddCount := 0
	for _, id := range ids {
		snap, err := room.RoundSnapshot(id)
		if err != nil {
			t.Fatalf("round snapshot: %v", err)
		}
		if snap.IsOddPlayer {
			oddCount++
			if snap.Question.ID != "d0" {
				t.Errorf("odd player sees question %s, want decoy d0", snap.Question.ID)
			}
		} else if snap.Question.ID != "q0" {
			t.Errorf("regular player sees question %s, want q0", snap.Question.ID)
		}
	}
	if oddCount != 1 {
		t.Errorf("odd players = %d, want exactly 1", oddCount)
	}
}

func TestAllAnsweredAdvancesToDiscussion(t *testing.T) {
	clock := clockwork.NewFakeClock()
	room, ids := startedRoom(t, clock, 3, 2)

	for i, id := range ids {
		if err := room.SubmitAnswer(id, 1, 10+i); err != nil {
			t.Fatalf("submit answer %s: %v", id, err)
		}
	}
	snap, err := room.RoundSnapshot(ids[0])
	if err != nil {
		t.Fatalf("round snapshot: %v", err)
	}
	if snap.Phase != model.PhaseDiscussion {
		t.Errorf("phase = %s, want discussion", snap.Phase)
	}
	if len(snap.Answers) != 3 {
		t.Errorf("answers visible = %d, want 3", len(snap.Answers))
	}
	for _, a := range snap.Answers {
		if a.IsOdd {
			t.Error("odd tag leaked before results")
		}
	}
}

func TestAnswerResubmitOverwrites(t *testing.T) {
	clock := clockwork.NewFakeClock()
	room, ids := startedRoom(t, clock, 3, 2)

	if err := room.SubmitAnswer(ids[0], 1, 5); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := room.SubmitAnswer(ids[0], 1, 9); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	snap, _ := room.RoundSnapshot(ids[0])
	if snap.AnswerCount != 1 {
		t.Errorf("answer count = %d, want 1 after overwrite", snap.AnswerCount)
	}

	// Finish the phase and check the surviving value.
	for _, id := range ids[1:] {
		if err := room.SubmitAnswer(id, 1, 7); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	snap, _ = room.RoundSnapshot(ids[0])
	found := false
	for _, a := range snap.Answers {
		if a.Nickname == "player0" {
			found = true
			if a.Value != 9 {
				t.Errorf("answer value = %d, want 9 (last write wins)", a.Value)
			}
		}
	}
	if !found {
		t.Fatal("player0's answer missing")
	}
}

func TestAnswerDeadlineCollapses(t *testing.T) {
	clock := clockwork.NewFakeClock()
	room, ids := startedRoom(t, clock, 3, 2)

	if err := room.SubmitAnswer(ids[0], 1, 5); err != nil {
		t.Fatalf("submit: %v", err)
	}
	clock.Advance(DefaultRules().AnswerTime + time.Second)

	snap, err := room.RoundSnapshot(ids[1])
	if err != nil {
		t.Fatalf("round snapshot: %v", err)
	}
	if snap.Phase != model.PhaseDiscussion {
		t.Errorf("phase = %s, want discussion after deadline", snap.Phase)
	}
	// The non-submitter keeps playing, just without an answer on record.
	if snap.AnswerCount != 1 {
		t.Errorf("answer count = %d, want 1", snap.AnswerCount)
	}
}

func TestLateAnswerRejected(t *testing.T) {
	clock := clockwork.NewFakeClock()
	room, ids := startedRoom(t, clock, 3, 2)

	clock.Advance(DefaultRules().AnswerTime + time.Second)
	if err := room.SubmitAnswer(ids[0], 1, 5); !errors.Is(err, ErrInvalidPhaseTransition) {
		t.Errorf("err = %v, want ErrInvalidPhaseTransition", err)
	}
}

func TestWrongRoundNumberRejected(t *testing.T) {
	clock := clockwork.NewFakeClock()
	room, ids := startedRoom(t, clock, 3, 2)

	if err := room.SubmitAnswer(ids[0], 2, 5); !errors.Is(err, ErrRoundNotFound) {
		t.Errorf("err = %v, want ErrRoundNotFound", err)
	}
}

func TestStartVotingHostOnly(t *testing.T) {
	clock := clockwork.NewFakeClock()
	room, ids := startedRoom(t, clock, 3, 2)
	answerAll(t, room, ids)

	if err := room.StartVoting(ids[1], 1); !errors.Is(err, ErrNotHost) {
		t.Errorf("err = %v, want ErrNotHost", err)
	}
	if err := room.StartVoting(ids[0], 1); err != nil {
		t.Fatalf("host start voting: %v", err)
	}
	snap, _ := room.RoundSnapshot(ids[0])
	if snap.Phase != model.PhaseVoting {
		t.Errorf("phase = %s, want voting", snap.Phase)
	}
}

func TestSelfVoteRejected(t *testing.T) {
	clock := clockwork.NewFakeClock()
	room, ids := startedRoom(t, clock, 3, 2)
	answerAll(t, room, ids)
	if err := room.StartVoting(ids[0], 1); err != nil {
		t.Fatalf("start voting: %v", err)
	}

	self := playerID(t, room, ids[1])
	if err := room.SubmitVote(ids[1], 1, self); !errors.Is(err, ErrInvalidVoteTarget) {
		t.Errorf("err = %v, want ErrInvalidVoteTarget", err)
	}
	snap, _ := room.RoundSnapshot(ids[1])
	if snap.HasVoted {
		t.Error("rejected self-vote was recorded")
	}
}

func TestVoteResubmitOverwrites(t *testing.T) {
	clock := clockwork.NewFakeClock()
	room, ids := startedRoom(t, clock, 4, 2)
	answerAll(t, room, ids)
	if err := room.StartVoting(ids[0], 1); err != nil {
		t.Fatalf("start voting: %v", err)
	}

	first := playerID(t, room, ids[1])
	second := playerID(t, room, ids[2])
	if err := room.SubmitVote(ids[0], 1, first); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if err := room.SubmitVote(ids[0], 1, second); err != nil {
		t.Fatalf("revote: %v", err)
	}
	snap, _ := room.RoundSnapshot(ids[0])
	if snap.VoteCount != 1 {
		t.Errorf("vote count = %d, want 1 after overwrite", snap.VoteCount)
	}
}

func TestScoringDetectionAndCapture(t *testing.T) {
	clock := clockwork.NewFakeClock()
	room, ids := startedRoom(t, clock, 4, 2)
	answerAll(t, room, ids)
	if err := room.StartVoting(ids[0], 1); err != nil {
		t.Fatalf("start voting: %v", err)
	}

	odd := oddIdentity(t, room, ids)
	oddPID := playerID(t, room, odd)
	var regulars []string
	for _, id := range ids {
		if id != odd {
			regulars = append(regulars, id)
		}
	}

	// Two regulars accuse the odd player, the third accuses a regular,
	// the odd player deflects elsewhere. Majority lands on the odd
	// player.
	mustVote(t, room, regulars[0], oddPID)
	mustVote(t, room, regulars[1], oddPID)
	mustVote(t, room, regulars[2], playerID(t, room, regulars[0]))
	mustVote(t, room, odd, playerID(t, room, regulars[2]))

	snap, err := room.RoundSnapshot(ids[0])
	if err != nil {
		t.Fatalf("round snapshot: %v", err)
	}
	if snap.Phase != model.PhaseResults {
		t.Fatalf("phase = %s, want results once all voted", snap.Phase)
	}
	res := snap.Results
	if !res.ImposterCaught {
		t.Fatal("majority on odd player not counted as caught")
	}
	if res.OddPlayerID != oddPID {
		t.Errorf("odd player id = %s, want %s", res.OddPlayerID, oddPID)
	}

	for i, id := range regulars {
		pid := playerID(t, room, id)
		want := 0
		if i < 2 {
			want = DefaultRules().DetectionBonus
		}
		if res.ScoreDeltas[pid] != want {
			t.Errorf("regular %d delta = %d, want %d", i, res.ScoreDeltas[pid], want)
		}
	}
	if res.ScoreDeltas[oddPID] != 0 {
		t.Errorf("caught odd player delta = %d, want 0", res.ScoreDeltas[oddPID])
	}
}

func TestScoringEvasionBonus(t *testing.T) {
	clock := clockwork.NewFakeClock()
	room, ids := startedRoom(t, clock, 4, 2)
	answerAll(t, room, ids)
	if err := room.StartVoting(ids[0], 1); err != nil {
		t.Fatalf("start voting: %v", err)
	}

	odd := oddIdentity(t, room, ids)
	var regulars []string
	for _, id := range ids {
		if id != odd {
			regulars = append(regulars, id)
		}
	}

	// Everyone misses: the regulars pile on one of their own.
	scapegoat := playerID(t, room, regulars[0])
	mustVote(t, room, regulars[1], scapegoat)
	mustVote(t, room, regulars[2], scapegoat)
	mustVote(t, room, regulars[0], playerID(t, room, regulars[1]))
	mustVote(t, room, odd, scapegoat)

	snap, _ := room.RoundSnapshot(ids[0])
	res := snap.Results
	if res.ImposterCaught {
		t.Fatal("odd player marked caught without majority")
	}
	oddPID := playerID(t, room, odd)
	if res.ScoreDeltas[oddPID] != DefaultRules().EvasionBonus {
		t.Errorf("evading odd player delta = %d, want %d", res.ScoreDeltas[oddPID], DefaultRules().EvasionBonus)
	}
}

func TestNonSubmitterExcludedFromScoring(t *testing.T) {
	clock := clockwork.NewFakeClock()
	room, ids := startedRoom(t, clock, 4, 2)

	// Everyone but ids[3] answers; the deadline drags the round on.
	for _, id := range ids[:3] {
		if err := room.SubmitAnswer(id, 1, 5); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	clock.Advance(DefaultRules().AnswerTime + time.Second)
	// The long silence tripped the player timeout; a poll from each
	// player reconnects everyone before voting.
	for _, id := range ids {
		room.Snapshot(id)
	}
	if err := room.StartVoting(ids[0], 1); err != nil {
		t.Fatalf("start voting: %v", err)
	}

	odd := oddIdentity(t, room, ids)
	oddPID := playerID(t, room, odd)
	if odd == ids[3] {
		t.Skip("non-submitter drew the odd role; scenario needs a regular")
	}

	// Every other player accuses the odd player correctly, including
	// the non-submitter.
	for _, id := range ids {
		if id == odd {
			mustVote(t, room, odd, playerID(t, room, ids[0]))
			continue
		}
		mustVote(t, room, id, oddPID)
	}

	snap, _ := room.RoundSnapshot(ids[0])
	res := snap.Results
	lateP := playerID(t, room, ids[3])
	if res.ScoreDeltas[lateP] != 0 {
		t.Errorf("non-submitter delta = %d, want 0", res.ScoreDeltas[lateP])
	}
	for _, id := range ids[:3] {
		if id == odd {
			continue
		}
		pid := playerID(t, room, id)
		if res.ScoreDeltas[pid] != DefaultRules().DetectionBonus {
			t.Errorf("answered accuser delta = %d, want %d", res.ScoreDeltas[pid], DefaultRules().DetectionBonus)
		}
	}
}

func TestTieBreakEarliestAccusation(t *testing.T) {
	clock := clockwork.NewFakeClock()
	room, ids := startedRoom(t, clock, 4, 2)
	answerAll(t, room, ids)
	if err := room.StartVoting(ids[0], 1); err != nil {
		t.Fatalf("start voting: %v", err)
	}

	odd := oddIdentity(t, room, ids)
	oddPID := playerID(t, room, odd)
	var regulars []string
	for _, id := range ids {
		if id != odd {
			regulars = append(regulars, id)
		}
	}
	scapegoat := playerID(t, room, regulars[1])

	// Votes split 2-2 between the odd player and a regular. The side
	// accused earliest wins the tie-break.
	mustVote(t, room, regulars[0], oddPID)
	clock.Advance(time.Second)
	mustVote(t, room, regulars[2], scapegoat)
	clock.Advance(time.Second)
	mustVote(t, room, odd, scapegoat)
	clock.Advance(time.Second)
	mustVote(t, room, regulars[1], oddPID)

	snap, _ := room.RoundSnapshot(ids[0])
	res := snap.Results
	if res.VoteCounts[oddPID] != 2 || res.VoteCounts[scapegoat] != 2 {
		t.Fatalf("expected a 2-2 tie, got %v", res.VoteCounts)
	}
	if res.MostVotedID != oddPID {
		t.Errorf("most voted = %s, want %s (accused first)", res.MostVotedID, oddPID)
	}
	if !res.ImposterCaught {
		t.Error("tie resolved to odd player but not marked caught")
	}
}

func TestResultsGraceAdvancesRound(t *testing.T) {
	clock := clockwork.NewFakeClock()
	room, ids := startedRoom(t, clock, 3, 2)
	playRoundToResults(t, clock, room, ids)

	clock.Advance(time.Duration(testSettings().ResultsTime)*time.Second + time.Second)
	snap, err := room.RoundSnapshot(ids[1])
	if err != nil {
		t.Fatalf("round snapshot: %v", err)
	}
	if snap.RoundNumber != 2 {
		t.Errorf("round = %d, want 2 after results grace", snap.RoundNumber)
	}
	if snap.Phase != model.PhaseAnswering {
		t.Errorf("phase = %s, want answering", snap.Phase)
	}
}

func TestOddPlayerDoesNotRepeat(t *testing.T) {
	clock := clockwork.NewFakeClock()
	room, ids := startedRoom(t, clock, 4, 3)

	firstOdd := oddIdentity(t, room, ids)
	playRoundToResults(t, clock, room, ids)
	if _, err := room.Continue(ids[0]); err != nil {
		t.Fatalf("continue: %v", err)
	}

	secondOdd := oddIdentity(t, room, ids)
	if firstOdd == secondOdd {
		t.Errorf("odd player repeated across consecutive rounds: %s", firstOdd)
	}
}

func TestContinueHostOnly(t *testing.T) {
	clock := clockwork.NewFakeClock()
	room, ids := startedRoom(t, clock, 3, 2)
	playRoundToResults(t, clock, room, ids)

	if _, err := room.Continue(ids[1]); !errors.Is(err, ErrNotHost) {
		t.Errorf("err = %v, want ErrNotHost", err)
	}
	resp, err := room.Continue(ids[0])
	if err != nil {
		t.Fatalf("host continue: %v", err)
	}
	if resp.GameEnded || resp.NextRound != 2 {
		t.Errorf("resp = %+v, want next_round 2", resp)
	}
}

func TestFullGameLifecycle(t *testing.T) {
	clock := clockwork.NewFakeClock()
	room, ids := startedRoom(t, clock, 3, 3)

	var resp *model.NextRoundResponse
	var err error
	for n := 1; n <= 3; n++ {
		playRoundToResults(t, clock, room, ids)
		resp, err = room.Continue(ids[0])
		if err != nil {
			t.Fatalf("continue after round %d: %v", n, err)
		}
		if n < 3 && resp.NextRound != n+1 {
			t.Fatalf("next round = %d, want %d", resp.NextRound, n+1)
		}
	}
	if !resp.GameEnded {
		t.Fatal("game did not end after the final round")
	}
	if len(resp.FinalScores) != 3 {
		t.Errorf("final scores = %d entries, want 3", len(resp.FinalScores))
	}

	snap := room.Snapshot(ids[0])
	if snap.Status != model.RoomFinished {
		t.Errorf("status = %s, want finished", snap.Status)
	}

	rec := room.PendingRecord()
	if rec == nil {
		t.Fatal("no archive record after finish")
	}
	if rec.TotalRounds != 3 || len(rec.Players) != 3 || len(rec.Rounds) != 3 {
		t.Errorf("record rounds=%d players=%d summaries=%d", rec.TotalRounds, len(rec.Players), len(rec.Rounds))
	}
	if room.PendingRecord() != nil {
		t.Error("archive record handed out twice")
	}

	// Finished rooms answer Continue idempotently.
	resp, err = room.Continue(ids[0])
	if err != nil {
		t.Fatalf("continue after finish: %v", err)
	}
	if !resp.GameEnded {
		t.Error("continue after finish lost the game-over marker")
	}
}

func TestAbandonedRoomFinishesEarly(t *testing.T) {
	clock := clockwork.NewFakeClock()
	room, ids := startedRoom(t, clock, 3, 3)
	playRoundToResults(t, clock, room, ids)

	// Everyone walks away mid-game with rounds still to play.
	for _, id := range ids {
		if err := room.Leave(id); err != nil {
			t.Fatalf("leave %s: %v", id, err)
		}
	}
	clock.Advance(time.Duration(testSettings().ResultsTime+1) * time.Second)

	// The next touch is an anonymous read with nobody to reconnect.
	sum := room.Summary()
	if sum.Status != model.RoomFinished {
		t.Errorf("status = %s, want finished once everyone left", sum.Status)
	}
	if rec := room.PendingRecord(); rec == nil {
		t.Error("abandoned game was not archived")
	}
}

func answerAll(t *testing.T, room *Room, ids []string) {
	t.Helper()
	for i, id := range ids {
		if err := room.SubmitAnswer(id, currentRound(t, room, id), 10+i); err != nil {
			t.Fatalf("submit answer %s: %v", id, err)
		}
	}
}

func currentRound(t *testing.T, room *Room, identity string) int {
	t.Helper()
	snap, err := room.RoundSnapshot(identity)
	if err != nil {
		t.Fatalf("round snapshot: %v", err)
	}
	return snap.RoundNumber
}

func mustVote(t *testing.T, room *Room, identity, accusedID string) {
	t.Helper()
	if err := room.SubmitVote(identity, currentRound(t, room, identity), accusedID); err != nil {
		t.Fatalf("vote %s -> %s: %v", identity, accusedID, err)
	}
}

// playRoundToResults walks the current round to the results phase:
// everyone answers, the host opens voting, everyone votes for the host
// (or the host's neighbor when the host is the target).
func playRoundToResults(t *testing.T, clock clockwork.Clock, room *Room, ids []string) {
	t.Helper()
	answerAll(t, room, ids)
	n := currentRound(t, room, ids[0])
	if err := room.StartVoting(ids[0], n); err != nil {
		t.Fatalf("start voting: %v", err)
	}
	hostPID := playerID(t, room, ids[0])
	otherPID := playerID(t, room, ids[1])
	for _, id := range ids {
		target := hostPID
		if id == ids[0] {
			target = otherPID
		}
		mustVote(t, room, id, target)
	}
	snap, err := room.RoundSnapshot(ids[0])
	if err != nil {
		t.Fatalf("round snapshot: %v", err)
	}
	if snap.Phase != model.PhaseResults {
		t.Fatalf("phase = %s, want results", snap.Phase)
	}
}
