/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cli

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/allbin/pandad/internal/tui/models"
)

var monitorInterval time.Duration

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch attached boards in real-time",
	Long: `Watch attached boards in a live terminal UI.

The board table refreshes periodically and shows each board's serial,
boot mode and bus address. Boards dropping into bootstub or DFU mode
show up as they re-enumerate, which makes this useful while flashing or
debugging bring-up issues. Press q or Ctrl+C to quit, r to refresh
immediately.

Examples:
  pandad monitor
  pandad monitor --interval 500ms`,
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger()
		driver, _ := newDriver(log)

		model := models.NewMonitorModel(driver.Describe, monitorInterval)
		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error running monitor: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().DurationVarP(&monitorInterval, "interval", "i", time.Second,
		"Refresh interval for the board table")
}
