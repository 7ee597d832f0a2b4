// Package ui is the terminal host of the sync engine: a bubbletea program
// rendering the current and next lyric line of its single surface.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/lyricsync/internal/engine"
)

// labelsMsg is sent when the surface labels change.
type labelsMsg struct{}

// statusMsg carries a user-facing action failure.
type statusMsg string

// loopDoneMsg is sent when the sync loop has stopped.
type loopDoneMsg struct{}

// watchEvents waits for the next engine event and returns it as a message.
// Engine event types are used as messages directly.
func watchEvents(sub *engine.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StatusChanged:
			return e
		case e := <-sub.PlayerChanged:
			return e
		case e := <-sub.TrackChanged:
			return e
		case e := <-sub.LyricsChanged:
			return e
		case <-sub.Done:
			return loopDoneMsg{}
		}
	}
}
