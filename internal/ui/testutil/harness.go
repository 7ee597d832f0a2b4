package testutil

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Harness drives a tea.Model by hand: messages go through Update, commands
// are collected and can be run synchronously.
type Harness struct {
	model tea.Model
	cmds  []tea.Cmd
}

// NewHarness initializes m and captures its init command.
func NewHarness(m tea.Model) *Harness {
	h := &Harness{model: m}
	if cmd := m.Init(); cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return h
}

// Model returns the current model for type assertion.
func (h *Harness) Model() tea.Model {
	return h.model
}

// View returns the rendered model without ANSI codes.
func (h *Harness) View() string {
	return StripANSI(h.model.View())
}

// ViewContains reports whether the plain view contains substr.
func (h *Harness) ViewContains(substr string) bool {
	return strings.Contains(h.View(), substr)
}

// Send passes msg to Update and returns the resulting command.
func (h *Harness) Send(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.model, cmd = h.model.Update(msg)
	if cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return cmd
}

// SendKey sends printable runes, e.g. "q" or "R".
func (h *Harness) SendKey(key string) tea.Cmd {
	return h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

// Type sends each rune of text as its own key press.
func (h *Harness) Type(text string) {
	for _, r := range text {
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// SendSpecial sends a non-printable key (enter, escape, ctrl+c, ...).
func (h *Harness) SendSpecial(keyType tea.KeyType) tea.Cmd {
	return h.Send(tea.KeyMsg{Type: keyType})
}

// Resize sends a window size message.
func (h *Harness) Resize(width, height int) tea.Cmd {
	return h.Send(tea.WindowSizeMsg{Width: width, Height: height})
}

// LastCommand returns the most recent command, or nil.
func (h *Harness) LastCommand() tea.Cmd {
	if len(h.cmds) == 0 {
		return nil
	}
	return h.cmds[len(h.cmds)-1]
}

// ClearCommands drops collected commands.
func (h *Harness) ClearCommands() {
	h.cmds = nil
}

// ExecuteCmd runs cmd and returns its message. Batches are not expanded.
func ExecuteCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// IsQuit reports whether cmd produces tea.QuitMsg.
func IsQuit(cmd tea.Cmd) bool {
	_, ok := ExecuteCmd(cmd).(tea.QuitMsg)
	return ok
}
