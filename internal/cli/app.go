package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/llehouerou/lyricsync/internal/config"
	"github.com/llehouerou/lyricsync/internal/engine"
	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/logging"
	"github.com/llehouerou/lyricsync/internal/lrclib"
	"github.com/llehouerou/lyricsync/internal/lyrics"
	"github.com/llehouerou/lyricsync/internal/notify"
	"github.com/llehouerou/lyricsync/internal/overflow"
	"github.com/llehouerou/lyricsync/internal/player"
	"github.com/llehouerou/lyricsync/internal/player/mpd"
	"github.com/llehouerou/lyricsync/internal/player/mpris"
	"github.com/llehouerou/lyricsync/internal/state"
)

// app is the wired set of collaborators shared by the sync commands.
type app struct {
	cfg      *config.Config
	logger   *log.Logger
	state    state.Interface
	pipeline *lyrics.Pipeline
	finder   player.Finder
	reporter *notify.Reporter
	offsetMs int64

	closers []io.Closer
}

// setup wires config, logging, state, lyrics and the player finder.
// logToFile keeps the terminal free for the TUI.
func setup(cmd *cobra.Command, e *env, f *flags, logToFile bool) (*app, error) {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return nil, err
	}

	logOpts := logging.Options{Level: cfg.Log.Level, File: cfg.Log.File, Writer: cmd.ErrOrStderr()}
	if logToFile {
		logOpts.File = cfg.LogFile()
	}
	logger, logCloser, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, closers: []io.Closer{logCloser}}

	a.state, err = e.openState(cfg)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("%s: %w", errmsg.Format(errmsg.OpInitialize, err), err)
	}
	a.closers = append(a.closers, a.state)

	a.offsetMs = cfg.Lyrics.OffsetMs
	if !cmd.Flags().Changed("offset") {
		if saved, ok, err := a.state.LyricOffset(); err != nil {
			logger.Warn("could not read saved offset", "err", err)
		} else if ok {
			a.offsetMs = saved
		}
	}
	if cfg.Player.Prefer == "" {
		last, err := a.state.LastPlayer()
		if err != nil {
			logger.Warn("could not read last player", "err", err)
		}
		cfg.Player.Prefer = last
	}

	finder, finderCloser, err := e.newFinder(cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if finderCloser != nil {
		a.closers = append(a.closers, finderCloser)
	}
	a.finder = player.Filter(finder, cfg.Player.Prefer, cfg.Ignored)

	cache := lyrics.NewCache(cfg.CacheDir())
	client := lrclib.New(cfg.Lyrics.LrclibURL, cfg.Lyrics.Timeout)
	a.pipeline = lyrics.NewPipeline(lyrics.NewSource(client, cache, a.state), cache)

	notifier, err := notify.New()
	if err != nil {
		logger.Warn("desktop notifications unavailable", "err", err)
		notifier = nil
	}
	a.reporter = notify.NewReporter(notifier)

	logger.Debug("initialized",
		"backend", cfg.Player.Backend,
		"prefer", cfg.Player.Prefer,
		"offset_ms", a.offsetMs,
		"cache", cache.Dir(),
	)
	return a, nil
}

// newLoop builds the sync loop for host.
func (a *app) newLoop(host engine.Host) *engine.Loop {
	return engine.New(host, a.finder, a.pipeline, engine.Options{
		Interval:     a.cfg.Interval,
		FetchTimeout: a.cfg.Lyrics.Timeout,
		Logger:       a.logger,
		Reporter:     a.reporter,
		Settings:     a.state,
	})
}

func (a *app) overflowMode() overflow.Mode {
	return overflow.Mode(a.cfg.Display.Overflow)
}

// Close releases everything in reverse setup order.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// newFinder connects the configured player backend.
func newFinder(cfg *config.Config) (player.Finder, io.Closer, error) {
	switch cfg.Player.Backend {
	case config.BackendMPD:
		f := mpd.NewFinder(cfg.MPD.Address, cfg.MPD.Password)
		return f, f, nil
	default:
		f, err := mpris.Connect()
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil
	}
}
