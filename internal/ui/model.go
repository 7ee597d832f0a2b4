package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/lyricsync/internal/engine"
	"github.com/llehouerou/lyricsync/internal/keymap"
	"github.com/llehouerou/lyricsync/internal/overflow"
	"github.com/llehouerou/lyricsync/internal/track"
)

// offsetStep is the lyric offset change per key press, in milliseconds.
const offsetStep = 100

// Controller receives user actions. *engine.Loop implements it.
type Controller interface {
	Disconnect()
	Connect(identity string)
	Reload()
	Refetch()
	RemoveLyric()
	ImportLyric(path string)
	AdjustOffset(deltaMs int64)
}

// labelSource is the part of the surface the view reads.
type labelSource interface {
	Labels() (above, below string)
	LyricOffset() int64
}

type promptKind int

const (
	promptNone promptKind = iota
	promptConnect
	promptImport
)

// Model is the bubbletea model of the lyric window.
type Model struct {
	labels labelSource
	ctl    Controller
	sub    *engine.Subscription
	keys   *keymap.Resolver

	length int
	mode   overflow.Mode

	width  int
	height int

	player  string
	track   *track.Meta
	status  string
	reason  string
	lyrics  *engine.LyricsChange
	message string

	prompt promptKind
	input  textinput.Model
}

func newModel(labels labelSource, ctl Controller, sub *engine.Subscription, opts Options) *Model {
	ti := textinput.New()
	ti.CharLimit = 1024
	ti.Width = 50
	return &Model{
		labels: labels,
		ctl:    ctl,
		sub:    sub,
		keys:   keymap.NewResolver(keymap.All),
		length: opts.Length,
		mode:   opts.Overflow,
		input:  ti,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return watchEvents(m.sub)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m, m.handlePromptKey(msg)
		}
		return m, m.handleKey(msg)
	case labelsMsg:
		return m, nil
	case statusMsg:
		m.message = string(msg)
		return m, nil
	case loopDoneMsg:
		return m, tea.Quit
	case engine.StatusChange:
		m.status, m.reason = msg.Current, msg.Reason
	case engine.PlayerChange:
		m.player = msg.Identity
	case engine.TrackChange:
		m.track = msg.Current
		m.lyrics = nil
	case engine.LyricsChange:
		m.lyrics = &msg
		if msg.Cleared {
			m.lyrics = nil
		}
	default:
		if m.prompt != promptNone {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	return m, watchEvents(m.sub)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	action := m.keys.Resolve(msg.String())
	switch action {
	case "":
		return nil
	case keymap.ActionQuit:
		return tea.Quit
	}

	m.message = ""
	switch action {
	case keymap.ActionDisconnect:
		m.ctl.Disconnect()
	case keymap.ActionReload:
		m.ctl.Reload()
	case keymap.ActionRefetch:
		m.ctl.Refetch()
	case keymap.ActionRemove:
		m.ctl.RemoveLyric()
	case keymap.ActionOffsetUp:
		m.ctl.AdjustOffset(offsetStep)
	case keymap.ActionOffsetDown:
		m.ctl.AdjustOffset(-offsetStep)
	case keymap.ActionConnect:
		return m.openPrompt(promptConnect, "player name")
	case keymap.ActionImport:
		return m.openPrompt(promptImport, "path to .lrc file")
	}
	return nil
}

func (m *Model) openPrompt(kind promptKind, placeholder string) tea.Cmd {
	m.prompt = kind
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.input.Focus()
	return textinput.Blink
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.closePrompt()
		return nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		kind := m.prompt
		m.closePrompt()
		if value == "" {
			return nil
		}
		switch kind {
		case promptConnect:
			m.ctl.Connect(value)
		case promptImport:
			m.ctl.ImportLyric(value)
		}
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}
