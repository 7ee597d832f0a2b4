package cli

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/lyrics"
)

func newCacheCommand(e *env, f *flags) *cobra.Command {
	var clearAll bool
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show or clear the lyrics cache and remembered misses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			st, err := e.openState(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			out := cmd.OutOrStdout()
			dir := cfg.CacheDir()
			cache := lyrics.NewCache(dir)

			if clearAll {
				if err := errors.Join(cache.Clear(), st.ClearMisses()); err != nil {
					return errors.New(errmsg.Format(errmsg.OpCacheClear, err))
				}
				fmt.Fprintln(out, "cache cleared")
				return nil
			}

			if dir == "" {
				fmt.Fprintln(out, "cache: disabled")
			} else {
				entries, size, err := cache.Stats()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "cache: %s\n", dir)
				fmt.Fprintf(out, "  %s, %s\n", english.Plural(entries, "entry", "entries"), humanize.IBytes(uint64(size)))
			}

			misses, err := st.MissCount()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "misses: %s (kept %s)\n",
				english.Plural(misses, "track", ""), english.Plural(cfg.Lyrics.MissTTLDays, "day", ""))
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete cached lyrics and remembered misses")
	return cmd
}
