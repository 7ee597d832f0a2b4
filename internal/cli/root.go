// Package cli implements the lyricsync command line.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/llehouerou/lyricsync/internal/config"
	"github.com/llehouerou/lyricsync/internal/player"
	"github.com/llehouerou/lyricsync/internal/state"
)

// flags holds the persistent flag values.
type flags struct {
	config   string
	interval time.Duration
	offset   int64
	player   string
	backend  string
	logLevel string
	verbose  bool
}

// env holds what commands take from the outside world, so tests can swap it.
type env struct {
	isTerminal func() bool
	openState  func(cfg *config.Config) (state.Interface, error)
	newFinder  func(cfg *config.Config) (player.Finder, io.Closer, error)
}

func defaultEnv() *env {
	return &env{
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
		openState: func(cfg *config.Config) (state.Interface, error) {
			return state.Open(cfg.MissTTL())
		},
		newFinder: newFinder,
	}
}

// Execute runs the command line until ctx is cancelled.
func Execute(ctx context.Context) error {
	return newRootCommand(defaultEnv()).ExecuteContext(ctx)
}

func newRootCommand(e *env) *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "lyricsync",
		Short:         "Show synced lyrics for the song your media player is playing",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if e.isTerminal() {
				return runTUI(cmd, e, f)
			}
			return runPipe(cmd, e, f)
		},
	}

	f.register(root.PersistentFlags())
	root.AddCommand(
		newPipeCommand(e, f),
		newServeCommand(e, f),
		newPlayersCommand(e, f),
		newCacheCommand(e, f),
	)
	return root
}

func (f *flags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.config, "config", "", "config file (default "+config.Path()+")")
	fs.DurationVar(&f.interval, "interval", 0, "sync interval, e.g. 100ms")
	fs.Int64Var(&f.offset, "offset", 0, "lyric offset in milliseconds; positive shows lines earlier")
	fs.StringVar(&f.player, "player", "", "player to prefer, e.g. spotify")
	fs.StringVar(&f.backend, "backend", "", "player backend: mpris or mpd")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log at debug level")
}

// loadConfig reads the config and applies flag overrides.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.config != "" {
		cfg, err = config.LoadFile(f.config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("interval") {
		cfg.Interval = f.interval
	}
	if changed("offset") {
		cfg.Lyrics.OffsetMs = f.offset
	}
	if changed("player") {
		cfg.Player.Prefer = f.player
	}
	if changed("backend") {
		cfg.Player.Backend = f.backend
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if f.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
