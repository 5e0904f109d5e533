package game

import (
	"sort"
	"time"

	"github.com/mohammadf16/numberhunt/internal/model"
)

type answer struct {
	value       int
	submittedAt time.Time
}

type vote struct {
	accusedID   string
	submittedAt time.Time
}

// round is one question cycle inside an in-progress room. It is owned
// by the room and only ever touched under the room mutex; it reads the
// player list but membership stays the room's to mutate.
type round struct {
	number   int
	phase    model.RoundPhase
	pair     model.QuestionPair
	oddID    string
	answers  map[string]*answer
	votes    map[string]*vote
	deadline time.Time
	results  *model.RoundResults
}

// openRound creates round n using the pre-drawn question pair and picks
// the odd player. The previous round's odd player is excluded whenever
// more than one connected candidate exists; with nobody connected the
// draw falls back to the full seat list.
func (r *Room) openRound(n int) {
	pair := r.questions[n-1]

	var candidates []*Player
	for _, p := range r.players {
		if p.IsConnected && p.ID != r.prevOddID {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		for _, p := range r.players {
			if p.IsConnected {
				candidates = append(candidates, p)
			}
		}
	}
	if len(candidates) == 0 {
		candidates = r.players
	}
	odd := candidates[r.rng.Intn(len(candidates))]
	odd.RoundsAsOdd++
	r.prevOddID = odd.ID

	r.round = &round{
		number:   n,
		phase:    model.PhaseAnswering,
		pair:     pair,
		oddID:    odd.ID,
		answers:  make(map[string]*answer),
		votes:    make(map[string]*vote),
		deadline: r.clock.Now().Add(r.rules.AnswerTime),
	}
	r.appendEvent(model.EventRoundStarted, "", map[string]any{
		"round_number": n,
		"category":     pair.Real.Category,
	})
}

// collapseExpired advances the current round past any elapsed deadline.
// Expiry is evaluated lazily here, at the top of every command and
// read, rather than by per-round timers; a loop is needed because an
// idle room may owe several transitions at once.
func (r *Room) collapseExpired() {
	r.refreshConnections()
	if r.status != model.RoomInProgress || r.round == nil {
		return
	}
	for {
		rd := r.round
		if rd == nil {
			return
		}
		now := r.clock.Now()
		switch rd.phase {
		case model.PhaseAnswering:
			if r.allConnectedAnswered() {
				r.toDiscussion()
				continue
			}
			if now.After(rd.deadline) {
				// Late non-submitters keep their vote; they just
				// have no answer on record this round.
				r.toDiscussion()
				continue
			}
		case model.PhaseDiscussion:
			if now.After(rd.deadline) {
				r.toVoting()
				continue
			}
		case model.PhaseVoting:
			if r.allConnectedVoted() || now.After(rd.deadline) {
				r.toResults()
				continue
			}
		case model.PhaseResults:
			if now.After(rd.deadline) {
				r.advanceRound()
				continue
			}
		}
		return
	}
}

func (r *Room) allConnectedAnswered() bool {
	for _, p := range r.players {
		if p.IsConnected {
			if _, ok := r.round.answers[p.ID]; !ok {
				return false
			}
		}
	}
	return true
}

func (r *Room) allConnectedVoted() bool {
	for _, p := range r.players {
		if p.IsConnected {
			if _, ok := r.round.votes[p.ID]; !ok {
				return false
			}
		}
	}
	return true
}

func (r *Room) toDiscussion() {
	rd := r.round
	rd.phase = model.PhaseDiscussion
	rd.deadline = r.clock.Now().Add(time.Duration(r.settings.DiscussionTime) * time.Second)
	r.appendEvent(model.EventDiscussionStarted, "", map[string]any{"total_answers": len(rd.answers)})
}

func (r *Room) toVoting() {
	rd := r.round
	rd.phase = model.PhaseVoting
	rd.deadline = r.clock.Now().Add(time.Duration(r.settings.VotingTime) * time.Second)
	r.appendEvent(model.EventVotingStarted, "", nil)
}

// toResults tallies votes, applies score deltas and freezes the reveal.
func (r *Room) toResults() {
	rd := r.round

	counts := make(map[string]int)
	firstVoteAt := make(map[string]time.Time)
	views := make([]model.VoteView, 0, len(rd.votes))
	for voterID, v := range rd.votes {
		counts[v.accusedID]++
		if t, ok := firstVoteAt[v.accusedID]; !ok || v.submittedAt.Before(t) {
			firstVoteAt[v.accusedID] = v.submittedAt
		}
		views = append(views, model.VoteView{
			VoterID:     voterID,
			AccusedID:   v.accusedID,
			SubmittedAt: v.submittedAt,
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].SubmittedAt.Before(views[j].SubmittedAt) })

	// Majority accusee; ties go to whoever was accused earliest.
	mostVoted := ""
	for id, n := range counts {
		if mostVoted == "" {
			mostVoted = id
			continue
		}
		if n > counts[mostVoted] ||
			(n == counts[mostVoted] && firstVoteAt[id].Before(firstVoteAt[mostVoted])) {
			mostVoted = id
		}
	}
	caught := mostVoted != "" && mostVoted == rd.oddID

	deltas := make(map[string]int)
	for _, p := range r.players {
		deltas[p.ID] = 0
	}
	for voterID, v := range rd.votes {
		voter := r.findByID(voterID)
		if voter == nil {
			continue
		}
		voter.VotesCast++
		if v.accusedID == rd.oddID {
			voter.CorrectVotes++
			// Players with no answer on record stay vote-eligible but
			// are excluded from scoring this round.
			if _, answered := rd.answers[voterID]; answered {
				deltas[voterID] += r.rules.DetectionBonus
			}
		}
	}
	if _, answered := rd.answers[rd.oddID]; answered && !caught {
		deltas[rd.oddID] += r.rules.EvasionBonus
	}
	for id, d := range deltas {
		if d != 0 {
			if p := r.findByID(id); p != nil {
				p.Score += d
			}
		}
	}

	rd.results = &model.RoundResults{
		OddPlayerID:    rd.oddID,
		MostVotedID:    mostVoted,
		ImposterCaught: caught,
		VoteCounts:     counts,
		Votes:          views,
		ScoreDeltas:    deltas,
		RealQuestion:   rd.pair.Real,
		DecoyQuestion:  rd.pair.Decoy,
	}
	rd.phase = model.PhaseResults
	rd.deadline = r.clock.Now().Add(time.Duration(r.settings.ResultsTime) * time.Second)

	r.roundSummaries = append(r.roundSummaries, model.RoundSummary{
		RoundNumber:    rd.number,
		OddPlayerID:    rd.oddID,
		ImposterCaught: caught,
		QuestionText:   rd.pair.Real.Text,
	})
	r.appendEvent(model.EventRoundEnded, "", map[string]any{
		"round_number":    rd.number,
		"imposter_caught": caught,
		"most_voted_id":   mostVoted,
	})
}

// advanceRound opens the next round or finishes the session once
// total_rounds have been played. A room everyone has left has no one
// to seat as the odd player, so it finishes early instead.
func (r *Room) advanceRound() {
	if r.currentRound >= r.settings.TotalRounds || r.connectedCount() == 0 {
		r.finishGame()
		return
	}
	r.currentRound++
	r.openRound(r.currentRound)
}

// SubmitAnswer records the requester's answer for round n. Resubmitting
// before the deadline overwrites; it never duplicates.
func (r *Room) SubmitAnswer(identity string, roundNumber, value int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(identity)
	r.collapseExpired()

	rd, p, err := r.commandRound(identity, roundNumber)
	if err != nil {
		return err
	}
	if rd.phase != model.PhaseAnswering {
		return ErrInvalidPhaseTransition
	}
	rd.answers[p.ID] = &answer{value: value, submittedAt: r.clock.Now()}
	r.appendEvent(model.EventAnswerSubmitted, p.ID, nil)

	if r.allConnectedAnswered() {
		r.toDiscussion()
	}
	return nil
}

// StartVoting moves the round from discussion to voting. Host only.
func (r *Room) StartVoting(identity string, roundNumber int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(identity)
	r.collapseExpired()

	rd, p, err := r.commandRound(identity, roundNumber)
	if err != nil {
		return err
	}
	if !p.IsHost {
		return ErrNotHost
	}
	if rd.phase != model.PhaseDiscussion {
		return ErrInvalidPhaseTransition
	}
	r.toVoting()
	return nil
}

// SubmitVote records the requester's accusation. Re-voting before the
// deadline overwrites; self-votes are rejected and leave any prior
// vote untouched.
func (r *Room) SubmitVote(identity string, roundNumber int, accusedID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(identity)
	r.collapseExpired()

	rd, p, err := r.commandRound(identity, roundNumber)
	if err != nil {
		return err
	}
	if rd.phase != model.PhaseVoting {
		return ErrInvalidPhaseTransition
	}
	accused := r.findByID(accusedID)
	if accused == nil {
		return ErrPlayerNotFound
	}
	if accused.ID == p.ID {
		return ErrInvalidVoteTarget
	}
	rd.votes[p.ID] = &vote{accusedID: accusedID, submittedAt: r.clock.Now()}
	r.appendEvent(model.EventVoteSubmitted, p.ID, map[string]any{"accused_id": accusedID})

	if r.allConnectedVoted() {
		r.toResults()
	}
	return nil
}

// Continue moves past results into the next round, or ends the game
// after the final round. Host only; the results grace period advances
// lagging rooms on their next touch regardless.
func (r *Room) Continue(identity string) (*model.NextRoundResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(identity)
	r.collapseExpired()

	if r.status == model.RoomFinished {
		return r.finishedResponse(), nil
	}
	if r.status != model.RoomInProgress || r.round == nil {
		return nil, ErrNotStarted
	}
	p := r.findByIdentity(identity)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	if !p.IsHost {
		return nil, ErrNotHost
	}
	if r.round.phase != model.PhaseResults {
		return nil, ErrInvalidPhaseTransition
	}

	r.advanceRound()
	if r.status == model.RoomFinished {
		return r.finishedResponse(), nil
	}
	return &model.NextRoundResponse{NextRound: r.currentRound}, nil
}

func (r *Room) finishedResponse() *model.NextRoundResponse {
	scores := make(map[string]int, len(r.players))
	for _, p := range r.players {
		scores[p.Nickname] = p.Score
	}
	return &model.NextRoundResponse{GameEnded: true, FinalScores: scores}
}

// commandRound resolves the common preconditions of round commands:
// game in progress, requester seated, round number current.
func (r *Room) commandRound(identity string, roundNumber int) (*round, *Player, error) {
	if r.status != model.RoomInProgress || r.round == nil {
		if r.status == model.RoomWaiting {
			return nil, nil, ErrNotStarted
		}
		return nil, nil, ErrRoundNotFound
	}
	p := r.findByIdentity(identity)
	if p == nil {
		return nil, nil, ErrPlayerNotFound
	}
	if roundNumber != r.round.number {
		return nil, nil, ErrRoundNotFound
	}
	return r.round, p, nil
}

// RoundSnapshot returns the current round scoped to the requester: own
// question and role always, other players' answers from discussion on,
// odd-player tags and the full reveal only at results.
func (r *Room) RoundSnapshot(identity string) (*model.RoundSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(identity)
	r.collapseExpired()

	if r.status == model.RoomWaiting {
		return nil, ErrNotStarted
	}
	p := r.findByIdentity(identity)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	rd := r.round
	if rd == nil {
		return nil, ErrRoundNotFound
	}

	isOdd := p.ID == rd.oddID
	q := rd.pair.Real
	if isOdd {
		q = rd.pair.Decoy
	}
	_, hasAnswered := rd.answers[p.ID]
	_, hasVoted := rd.votes[p.ID]

	snap := &model.RoundSnapshot{
		RoundNumber:   rd.number,
		Phase:         rd.phase,
		PhaseDeadline: rd.deadline,
		Question:      q,
		IsOddPlayer:   isOdd,
		HasAnswered:   hasAnswered,
		HasVoted:      hasVoted,
		AnswerCount:   len(rd.answers),
		VoteCount:     len(rd.votes),
	}

	if rd.phase != model.PhaseAnswering {
		reveal := rd.phase == model.PhaseResults
		for _, other := range r.players {
			a, ok := rd.answers[other.ID]
			if !ok {
				continue
			}
			snap.Answers = append(snap.Answers, model.AnswerView{
				PlayerID:    other.ID,
				Nickname:    other.Nickname,
				Value:       a.value,
				IsOdd:       reveal && other.ID == rd.oddID,
				SubmittedAt: a.submittedAt,
			})
		}
		sort.Slice(snap.Answers, func(i, j int) bool {
			return snap.Answers[i].Value < snap.Answers[j].Value
		})
	}
	if rd.phase == model.PhaseResults {
		snap.Results = rd.results
	}
	return snap, nil
}
