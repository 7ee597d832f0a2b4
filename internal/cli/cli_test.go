package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/lyricsync/internal/config"
	"github.com/llehouerou/lyricsync/internal/player"
	"github.com/llehouerou/lyricsync/internal/state"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testEnv(t *testing.T, players ...*player.Mock) *env {
	t.Helper()
	statePath := filepath.Join(t.TempDir(), "state.db")
	return &env{
		isTerminal: func() bool { return false },
		openState: func(cfg *config.Config) (state.Interface, error) {
			return state.OpenPath(statePath, cfg.MissTTL())
		},
		newFinder: func(*config.Config) (player.Finder, io.Closer, error) {
			return player.NewMockFinder(players...), nil, nil
		},
	}
}

func run(t *testing.T, e *env, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(e)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mockPlayer(identity string, status player.Status) *player.Mock {
	p := player.NewMock(identity)
	p.SetStatus(status)
	return p
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	path := writeConfig(t, `
interval = "250ms"

[player]
backend = "mpd"
prefer = "mpv"

[lyrics]
offset_ms = 100
`)
	f := &flags{}
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd.Flags())
	require.NoError(t, cmd.Flags().Parse([]string{
		"--config", path, "--offset", "-300", "--player", "spotify", "-v",
	}))

	cfg, err := loadConfig(cmd, f)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Interval, "unset flags keep file values")
	assert.Equal(t, config.BackendMPD, cfg.Player.Backend)
	assert.Equal(t, int64(-300), cfg.Lyrics.OffsetMs)
	assert.Equal(t, "spotify", cfg.Player.Prefer)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_InvalidFlag(t *testing.T) {
	path := writeConfig(t, "")
	f := &flags{}
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd.Flags())
	require.NoError(t, cmd.Flags().Parse([]string{"--config", path, "--interval", "0s"}))

	_, err := loadConfig(cmd, f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interval")
}

func TestPlayers(t *testing.T) {
	path := writeConfig(t, "")
	e := testEnv(t, mockPlayer("mpv", player.Playing), mockPlayer("spotify", player.Paused))

	out, err := run(t, e, "players", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "* mpv\n  spotify\n", out)

	out, err = run(t, e, "players", "--config", path, "--player", "spotify")
	require.NoError(t, err)
	assert.Equal(t, "  mpv\n* spotify\n", out)
}

func TestPlayers_Ignored(t *testing.T) {
	path := writeConfig(t, "[player]\nignore = [\"MPV\"]\n")
	e := testEnv(t, mockPlayer("mpv", player.Playing), mockPlayer("spotify", player.Paused))

	out, err := run(t, e, "players", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "* spotify\n", out)
}

func TestPlayers_None(t *testing.T) {
	out, err := run(t, testEnv(t), "players", "--config", writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "no players found\n", out)
}

func TestPlayers_BadBackend(t *testing.T) {
	_, err := run(t, testEnv(t), "players", "--config", writeConfig(t, ""), "--backend", "winamp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "winamp")
}

func TestCache(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "lyrics")
	require.NoError(t, os.MkdirAll(filepath.Join(cacheDir, "Artist"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "Artist", "Song.lrc"), []byte("[00:01.00]hi"), 0o600))
	path := writeConfig(t, "[lyrics]\ncache_dir = \""+filepath.ToSlash(cacheDir)+"\"\n")

	e := testEnv(t)
	st, err := e.openState(&config.Config{})
	require.NoError(t, err)
	require.NoError(t, st.RecordMiss("artist\x00song"))
	require.NoError(t, st.Close())

	out, err := run(t, e, "cache", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "cache: "+cacheDir)
	assert.Contains(t, out, "1 entry, 12 B")
	assert.Contains(t, out, "misses: 1 track (kept 7 days)")

	out, err = run(t, e, "cache", "--config", path, "--clear")
	require.NoError(t, err)
	assert.Equal(t, "cache cleared\n", out)
	assert.NoDirExists(t, cacheDir)

	out, err = run(t, e, "cache", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "0 entries, 0 B")
	assert.Contains(t, out, "misses: 0 tracks")
}

func TestCache_Disabled(t *testing.T) {
	path := writeConfig(t, "[lyrics]\ncache = false\n")

	out, err := run(t, testEnv(t), "cache", "--config", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "cache: disabled\n"))
}

func TestSetup_OffsetAndPlayerFromState(t *testing.T) {
	path := writeConfig(t, "[lyrics]\noffset_ms = 100\n")
	e := testEnv(t)
	st, err := e.openState(&config.Config{})
	require.NoError(t, err)
	require.NoError(t, st.SaveLyricOffset(-250))
	require.NoError(t, st.SaveLastPlayer("spotify"))
	require.NoError(t, st.Close())

	newCmd := func(args ...string) (*cobra.Command, *flags) {
		f := &flags{}
		cmd := &cobra.Command{Use: "test"}
		cmd.SetErr(io.Discard)
		f.register(cmd.Flags())
		require.NoError(t, cmd.Flags().Parse(args))
		return cmd, f
	}

	cmd, f := newCmd("--config", path)
	a, err := setup(cmd, e, f, false)
	require.NoError(t, err)
	assert.Equal(t, int64(-250), a.offsetMs, "saved offset wins over the config")
	assert.Equal(t, "spotify", a.cfg.Player.Prefer)
	require.NoError(t, a.Close())

	cmd, f = newCmd("--config", path, "--offset", "40", "--player", "mpv")
	a, err = setup(cmd, e, f, false)
	require.NoError(t, err)
	assert.Equal(t, int64(40), a.offsetMs, "flag wins over saved offset")
	assert.Equal(t, "mpv", a.cfg.Player.Prefer)
	require.NoError(t, a.Close())
}

func TestSetup_ClosesState(t *testing.T) {
	st := state.NewMock()
	require.NoError(t, st.SaveLyricOffset(75))
	e := testEnv(t)
	e.openState = func(*config.Config) (state.Interface, error) { return st, nil }

	f := &flags{}
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd.Flags())
	require.NoError(t, cmd.Flags().Parse([]string{"--config", writeConfig(t, "")}))

	a, err := setup(cmd, e, f, false)
	require.NoError(t, err)
	assert.Equal(t, int64(75), a.offsetMs)
	assert.False(t, st.IsClosed())

	require.NoError(t, a.Close())
	assert.True(t, st.IsClosed())
}
