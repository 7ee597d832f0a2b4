package cli

import (
	"github.com/spf13/cobra"

	"github.com/llehouerou/lyricsync/internal/feed"
	"github.com/llehouerou/lyricsync/internal/icons"
	"github.com/llehouerou/lyricsync/internal/pipe"
	"github.com/llehouerou/lyricsync/internal/ui"
)

func newPipeCommand(e *env, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "pipe",
		Short: "Print the current lyric line to stdout on every change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipe(cmd, e, f)
		},
	}
}

func newServeCommand(e *env, f *flags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream lyrics to WebSocket clients, e.g. a stream overlay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd, e, f, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.cfg.Feed.Address
			}
			host := feed.New(a.offsetMs, a.cfg.Lyrics.Cache, feed.Options{
				Length:   a.cfg.Display.Length,
				Overflow: a.overflowMode(),
				Logger:   a.logger,
			})
			return host.Run(cmd.Context(), addr, a.newLoop(host))
		},
	}
	cmd.Flags().StringVar(&addr, "address", "", "listen address (default from feed.address)")
	return cmd
}

func runPipe(cmd *cobra.Command, e *env, f *flags) error {
	a, err := setup(cmd, e, f, false)
	if err != nil {
		return err
	}
	defer a.Close()

	host := pipe.New(cmd.OutOrStdout(), a.offsetMs, a.cfg.Lyrics.Cache, pipe.Options{
		Length:   a.cfg.Display.Length,
		Overflow: a.overflowMode(),
	})
	return host.Run(cmd.Context(), a.newLoop(host))
}

func runTUI(cmd *cobra.Command, e *env, f *flags) error {
	a, err := setup(cmd, e, f, true)
	if err != nil {
		return err
	}
	defer a.Close()

	icons.Init(a.cfg.Display.Icons)
	w := ui.NewWindow(a.offsetMs, a.cfg.Lyrics.Cache)
	return w.Run(cmd.Context(), a.newLoop(w), ui.Options{
		Length:   a.cfg.Display.Length,
		Overflow: a.overflowMode(),
		Reporter: a.reporter,
	})
}
