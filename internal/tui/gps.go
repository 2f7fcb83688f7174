package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"trenchmap/internal/gps"
)

// gpsMsg carries one event from the position source into Update; ok is
// false once the source has closed its channel.
type gpsMsg struct {
	ev gps.Event
	ok bool
}

func waitForGPS(ch <-chan gps.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		return gpsMsg{ev: ev, ok: ok}
	}
}
