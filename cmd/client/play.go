package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mohammadf16/numberhunt/internal/client"
	"github.com/mohammadf16/numberhunt/internal/model"
)

func playRoom(ctx context.Context, opts *options, api *client.API, snap *model.RoomSnapshot) error {
	loop, sched := newSession(opts, api)
	defer sched.Close()
	loop.EnterRoom(snap)
	return runSession(ctx, api, sched, loop)
}

// runSession is the interactive play loop. Each iteration polls the
// server, renders the current state, and reads one command; pressing
// enter with no command just refreshes.
func runSession(ctx context.Context, api *client.API, sched *client.Scheduler, loop *client.Loop) error {
	in := bufio.NewScanner(os.Stdin)
	for {
		if err := loop.Poll(ctx); err != nil {
			return err
		}
		if loop.View() == client.ViewMenu {
			fmt.Println("returned to menu")
			return nil
		}

		switch loop.View() {
		case client.ViewLobby:
			renderLobby(loop.Room())
			fmt.Print("[r]eady  [s]tart  [q]uit  (enter to refresh) > ")
			if !in.Scan() {
				return nil
			}
			if err := lobbyCommand(ctx, api, sched, loop, strings.TrimSpace(in.Text())); err != nil {
				fmt.Println("error:", err)
			}
		case client.ViewPlaying:
			round := loop.Round()
			if round == nil {
				continue
			}
			renderRound(loop.Room(), round)
			if err := roundCommand(ctx, api, sched, loop, round, in); err != nil {
				fmt.Println("error:", err)
			}
		}

		if loop.View() == client.ViewMenu {
			return nil
		}
	}
}

func lobbyCommand(ctx context.Context, api *client.API, sched *client.Scheduler, loop *client.Loop, cmd string) error {
	switch cmd {
	case "r":
		return sched.Do(ctx, func(ctx context.Context) error {
			return api.ToggleReady(ctx, loop.RoomID())
		})
	case "s":
		return sched.Do(ctx, func(ctx context.Context) error {
			_, err := api.StartGame(ctx, loop.RoomID())
			return err
		})
	case "q":
		err := sched.Do(ctx, func(ctx context.Context) error {
			return api.Leave(ctx, loop.RoomID())
		})
		loop.LeaveRoom()
		return err
	default:
		return nil
	}
}

func roundCommand(ctx context.Context, api *client.API, sched *client.Scheduler, loop *client.Loop, round *model.RoundSnapshot, in *bufio.Scanner) error {
	switch round.Phase {
	case model.PhaseAnswering:
		if round.HasAnswered {
			fmt.Print("waiting for other answers (enter to refresh) > ")
			in.Scan()
			return nil
		}
		fmt.Print("your answer > ")
		if !in.Scan() {
			return nil
		}
		value, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err != nil {
			return fmt.Errorf("answers are numbers")
		}
		return sched.Do(ctx, func(ctx context.Context) error {
			return api.SubmitAnswer(ctx, loop.RoomID(), round.RoundNumber, value)
		})

	case model.PhaseDiscussion:
		fmt.Print("[v] start voting (host)  (enter to refresh) > ")
		if !in.Scan() || strings.TrimSpace(in.Text()) != "v" {
			return nil
		}
		return sched.Do(ctx, func(ctx context.Context) error {
			return api.StartVoting(ctx, loop.RoomID(), round.RoundNumber)
		})

	case model.PhaseVoting:
		if round.HasVoted {
			fmt.Print("waiting for other votes (enter to refresh) > ")
			in.Scan()
			return nil
		}
		players := loop.Room().Players
		for i, p := range players {
			fmt.Printf("  %d. %s\n", i+1, p.Nickname)
		}
		fmt.Print("vote for imposter (number) > ")
		if !in.Scan() {
			return nil
		}
		idx, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err != nil || idx < 1 || idx > len(players) {
			return fmt.Errorf("pick a player number")
		}
		return sched.Do(ctx, func(ctx context.Context) error {
			return api.Vote(ctx, loop.RoomID(), round.RoundNumber, players[idx-1].ID)
		})

	case model.PhaseResults:
		fmt.Print("[n] next round (host)  (enter to refresh) > ")
		if !in.Scan() || strings.TrimSpace(in.Text()) != "n" {
			return nil
		}
		var resp *model.NextRoundResponse
		err := sched.Do(ctx, func(ctx context.Context) error {
			var err error
			resp, err = api.NextRound(ctx, loop.RoomID())
			return err
		})
		if err != nil {
			return err
		}
		if resp.GameEnded {
			fmt.Println("game over! final scores:")
			for id, score := range resp.FinalScores {
				fmt.Printf("  %s: %d\n", nicknameFor(loop.Room(), id), score)
			}
			loop.LeaveRoom()
		}
		return nil
	}
	return nil
}

func renderLobby(room *model.RoomSnapshot) {
	fmt.Printf("\n== %s (code %s) ==\n", room.Settings.Name, room.Code)
	for _, p := range room.Players {
		tags := []string{}
		if p.IsHost {
			tags = append(tags, "host")
		}
		if p.IsReady {
			tags = append(tags, "ready")
		}
		if !p.IsConnected {
			tags = append(tags, "away")
		}
		suffix := ""
		if len(tags) > 0 {
			suffix = " (" + strings.Join(tags, ", ") + ")"
		}
		fmt.Printf("  %s%s\n", p.Nickname, suffix)
	}
}

func renderRound(room *model.RoomSnapshot, round *model.RoundSnapshot) {
	fmt.Printf("\n== round %d/%d — %s ==\n", round.RoundNumber, room.Settings.TotalRounds, round.Phase)
	fmt.Printf("your question: %s\n", round.Question.Text)

	if len(round.Answers) > 0 {
		fmt.Println("answers:")
		for _, a := range round.Answers {
			tag := ""
			if a.IsOdd {
				tag = "  <- imposter"
			}
			fmt.Printf("  %-16s %d%s\n", a.Nickname, a.Value, tag)
		}
	}

	if round.Results != nil {
		res := round.Results
		fmt.Printf("the imposter was %s", nicknameFor(room, res.OddPlayerID))
		if res.ImposterCaught {
			fmt.Println(" — caught!")
		} else {
			fmt.Println(" — they got away")
		}
		fmt.Printf("their question: %s\n", res.DecoyQuestion.Text)
		fmt.Println("scores:")
		for _, p := range room.Players {
			fmt.Printf("  %-16s %d (%+d)\n", p.Nickname, p.Score, res.ScoreDeltas[p.ID])
		}
	}

	switch round.Phase {
	case model.PhaseAnswering:
		fmt.Printf("answers in: %d/%d\n", round.AnswerCount, len(room.Players))
	case model.PhaseVoting:
		fmt.Printf("votes in: %d/%d\n", round.VoteCount, len(room.Players))
	}
}

func nicknameFor(room *model.RoomSnapshot, playerID string) string {
	for _, p := range room.Players {
		if p.ID == playerID {
			return p.Nickname
		}
	}
	return playerID
}
