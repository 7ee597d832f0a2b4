package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/player"
)

func newPlayersCommand(e *env, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "List available players and mark the one that would be followed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			finder, closer, err := e.newFinder(cfg)
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpPlayerList, err))
			}
			if closer != nil {
				defer closer.Close()
			}
			finder = player.Filter(finder, cfg.Player.Prefer, cfg.Ignored)

			ids, err := finder.List()
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpPlayerList, err))
			}
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, "no players found")
				return nil
			}

			active := ""
			if p, err := finder.FindActive(); err == nil {
				active = p.Identity()
			}
			for _, id := range ids {
				mark := " "
				if id == active {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %s\n", mark, id)
			}
			return nil
		},
	}
}
