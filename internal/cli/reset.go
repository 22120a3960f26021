/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/allbin/pandad"
	"github.com/allbin/pandad/internal/usbdev"
	"github.com/spf13/cobra"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset <serial>",
	Short: "Reset a board over USB",
	Long: `Perform a USB-level reset on a board. This can recover boards that
are hung or unresponsive without physically unplugging them.

The board will re-enumerate after reset, which changes its bus:device
address. Serial numbers remain stable across resets.

Requirements:
- usbreset utility must be installed (from usbutils package)
- Root/sudo permissions required for USB operations

Examples:
  sudo pandad reset 2f001d000c51363038363036`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !usbdev.IsUSBResetAvailable() {
			fmt.Fprintln(os.Stderr, "Error: usbreset utility not available")
			fmt.Fprintln(os.Stderr, "Install with: sudo apt-get install usbutils")
			os.Exit(1)
		}

		log := newLogger()
		driver, _ := newDriver(log)

		serial := args[0]
		fmt.Printf("Resetting board with serial: %s\n", serial)

		if err := driver.ResetBySerial(serial); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if errors.Is(err, pandad.ErrBoardNotFound) {
				fmt.Fprintln(os.Stderr, "No attached board has that serial number")
			}
			os.Exit(1)
		}

		fmt.Println("Board reset successfully")
		fmt.Println("Device will re-enumerate (bus address may change)")
		fmt.Println("\nUse 'pandad list --table' to see the updated board list")
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
