package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mohammadf16/numberhunt/internal/client"
)

// pollGap is the minimum spacing between requests; it doubles as the
// effective poll interval while waiting in a room.
const pollGap = 2 * time.Second

type options struct {
	server   string
	dataDir  string
	nickname string
	verbose  bool
}

func (o *options) tokenPath() string   { return filepath.Join(o.dataDir, "token") }
func (o *options) sessionPath() string { return filepath.Join(o.dataDir, "session.json") }

func (o *options) logger() zerolog.Logger {
	level := zerolog.WarnLevel
	if o.verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func (o *options) api() (*client.API, error) {
	api := client.NewAPI(strings.TrimRight(o.server, "/"))
	token, err := os.ReadFile(o.tokenPath())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	api.SetToken(strings.TrimSpace(string(token)))
	return api, nil
}

func (o *options) saveToken(token string) error {
	if err := os.MkdirAll(o.dataDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(o.tokenPath(), []byte(token), 0o600)
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".numberhunt"
	}
	return filepath.Join(dir, "numberhunt")
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "numberhunt",
		Short:         "Terminal client for the Number Hunt party game.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := cmd.PersistentFlags()
	pf.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	pf.StringVarP(&opts.server, "server", "s", "http://localhost:8080", "game server base URL")
	pf.StringVar(&opts.dataDir, "data-dir", defaultDataDir(), "directory for the token and session marker")
	pf.StringVarP(&opts.nickname, "nickname", "n", "", "nickname to play under (defaults to your username)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "display additional output")

	cmd.AddCommand(
		newRegisterCmd(opts),
		newLoginCmd(opts),
		newRoomsCmd(opts),
		newCreateCmd(opts),
		newJoinCmd(opts),
		newResumeCmd(opts),
		newLeaderboardCmd(opts),
	)

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	return cmd
}

func newRegisterCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Create an account and log in.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.api()
			if err != nil {
				return err
			}
			if err := api.Register(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			if err := opts.saveToken(api.Token()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered as %s\n", args[0])
			return nil
		},
	}
}

func newLoginCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Log in to the game server.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.api()
			if err != nil {
				return err
			}
			if err := api.Login(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			if err := opts.saveToken(api.Token()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", args[0])
			return nil
		},
	}
}

func newRoomsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List joinable public rooms.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.api()
			if err != nil {
				return err
			}
			rooms, err := api.ListRooms(cmd.Context())
			if err != nil {
				return err
			}
			if len(rooms) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no open rooms")
				return nil
			}
			for _, r := range rooms {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s %d/%d players  [%s]\n",
					r.Code, r.Name, r.PlayerCount, r.MaxPlayers, r.Status)
			}
			return nil
		},
	}
}

func newCreateCmd(opts *options) *cobra.Command {
	var (
		name     string
		private  bool
		password string
		minP     int
		maxP     int
		rounds   int
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a room and wait for players.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.api()
			if err != nil {
				return err
			}
			req := map[string]any{
				"name":         name,
				"is_private":   private,
				"min_players":  minP,
				"max_players":  maxP,
				"total_rounds": rounds,
			}
			if password != "" {
				req["password"] = password
			}
			if opts.nickname != "" {
				req["nickname"] = opts.nickname
			}
			snap, err := api.CreateRoom(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "room created, code %s\n", snap.Code)
			return playRoom(cmd.Context(), opts, api, snap)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&name, "name", "Number Hunt", "room name")
	fs.BoolVar(&private, "private", false, "hide the room from the public listing")
	fs.StringVar(&password, "password", "", "room password")
	fs.IntVar(&minP, "min-players", 0, "minimum players to start (0 = server default)")
	fs.IntVar(&maxP, "max-players", 0, "maximum players (0 = server default)")
	fs.IntVar(&rounds, "rounds", 0, "number of rounds (0 = server default)")
	return cmd
}

func newJoinCmd(opts *options) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "join <room-code>",
		Short: "Join a room by its shareable code.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.api()
			if err != nil {
				return err
			}
			resp, err := api.JoinByCode(cmd.Context(), strings.ToUpper(args[0]), opts.nickname, password)
			if err != nil {
				return err
			}
			if resp.Rejoined {
				fmt.Fprintln(cmd.OutOrStdout(), "rejoined room")
			}
			return playRoom(cmd.Context(), opts, api, &resp.Room)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "room password")
	return cmd
}

func newResumeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume the game saved from a previous run.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.api()
			if err != nil {
				return err
			}
			return resumeRoom(cmd.Context(), opts, api)
		},
	}
}

func newLeaderboardCmd(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the global score ranking.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.api()
			if err != nil {
				return err
			}
			stats, err := api.Leaderboard(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no scores yet")
				return nil
			}
			for i, s := range stats {
				name := s.Username
				if name == "" {
					name = s.IdentityID
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %-20s %d\n", i+1, name, s.TotalScore)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of entries to show")
	return cmd
}

func newSession(opts *options, api *client.API) (*client.Loop, *client.Scheduler) {
	clock := clockwork.NewRealClock()
	sched := client.NewScheduler(clock, pollGap)
	store := client.NewStore(opts.sessionPath())
	loop := client.NewLoop(api, sched, store, clock, opts.logger())
	return loop, sched
}

func resumeRoom(ctx context.Context, opts *options, api *client.API) error {
	loop, sched := newSession(opts, api)
	defer sched.Close()

	view, err := loop.Resume(ctx)
	if err != nil {
		return err
	}
	if view == client.ViewMenu {
		return errors.New("no saved game to resume")
	}
	return runSession(ctx, api, sched, loop)
}
