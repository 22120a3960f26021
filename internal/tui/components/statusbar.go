package components

import (
	"fmt"
	"time"

	"github.com/allbin/pandad/internal/tui/styles"
	"github.com/allbin/pandad/internal/usbdev"
)

// StatusBar summarizes the current board population and the last
// refresh, shown below the board table.
type StatusBar struct {
	boards      []usbdev.BoardInfo
	lastRefresh time.Time
	err         error
}

// NewStatusBar creates an empty status bar.
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// SetBoards updates the summary counts.
func (s *StatusBar) SetBoards(boards []usbdev.BoardInfo) {
	s.boards = boards
	s.lastRefresh = time.Now()
	s.err = nil
}

// SetError records a scan failure to display instead of counts.
func (s *StatusBar) SetError(err error) {
	s.err = err
}

// View renders the status line.
func (s *StatusBar) View(spinner string) string {
	if s.err != nil {
		return styles.ErrorStyle.Render(fmt.Sprintf("scan failed: %v", s.err))
	}

	var app, bootstub, dfu int
	for _, b := range s.boards {
		switch b.Mode {
		case usbdev.ModeApp:
			app++
		case usbdev.ModeBootstub:
			bootstub++
		case usbdev.ModeDFU:
			dfu++
		}
	}

	status := fmt.Sprintf("%s %d board(s): %d app, %d bootstub, %d dfu",
		spinner, len(s.boards), app, bootstub, dfu)
	if !s.lastRefresh.IsZero() {
		status += fmt.Sprintf("  •  refreshed %s", s.lastRefresh.Format("15:04:05"))
	}
	return styles.StatusBarStyle.Render(status)
}
