/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/allbin/pandad/internal/usbdev"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List attached boards",
	Long: `List all attached boards on the system.

This command scans the USB bus for boards in any boot state:
- app: running application firmware
- bootstub: stuck in the bootstub, awaiting a flash
- dfu: in ROM recovery mode (no serial number available)

Boards in DFU mode are identified by bus:device address only.`,
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger()
		driver, _ := newDriver(log)

		boards, err := driver.Describe()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing boards: %v\n", err)
			os.Exit(1)
		}

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")

		filtered := filterBoards(boards, filterType)

		if len(filtered) == 0 {
			if filterType != "" && filterType != "all" {
				fmt.Printf("No boards found matching filter: %s\n", filterType)
			} else {
				fmt.Println("No boards found")
			}
			return
		}

		if tableFormat {
			renderTable(filtered)
		} else {
			renderSimple(filtered)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by boot mode: app, bootstub, dfu, all")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// filterBoards filters the board list based on the specified boot mode
func filterBoards(boards []usbdev.BoardInfo, filterType string) []usbdev.BoardInfo {
	if filterType == "" || filterType == "all" {
		return boards
	}

	var filtered []usbdev.BoardInfo
	for _, board := range boards {
		if string(board.Mode) == strings.ToLower(filterType) {
			filtered = append(filtered, board)
		}
	}
	return filtered
}

// renderTable renders the board list in a styled static table format
func renderTable(boards []usbdev.BoardInfo) {
	fmt.Printf("Found %d board(s):\n\n", len(boards))

	serialWidth := 20
	modeWidth := 12
	addrWidth := 10

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("240")).
		PaddingBottom(1)

	cellStyle := lipgloss.NewStyle().
		PaddingRight(2)

	header := fmt.Sprintf("%-*s %-*s %-*s",
		serialWidth, "Serial",
		modeWidth, "Mode",
		addrWidth, "Address")
	fmt.Println(headerStyle.Render(header))

	for _, board := range boards {
		serial := board.Serial
		if serial == "" {
			serial = "-"
		}
		row := fmt.Sprintf("%-*s %-*s %-*s",
			serialWidth, serial,
			modeWidth, string(board.Mode),
			addrWidth, board.Address())
		fmt.Println(cellStyle.Render(row))
	}
}

// renderSimple renders the board list in simple text format
func renderSimple(boards []usbdev.BoardInfo) {
	for _, board := range boards {
		if board.Serial == "" {
			fmt.Printf("%s (%s)\n", board.Address(), board.Mode)
			continue
		}
		fmt.Printf("%s (%s)\n", board.Serial, board.Mode)
	}
}
