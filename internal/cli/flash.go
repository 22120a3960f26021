/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/allbin/pandad"
	"github.com/spf13/cobra"
)

// flashCmd represents the flash command
var flashCmd = &cobra.Command{
	Use:   "flash [serial]",
	Short: "Verify and flash a board's firmware",
	Long: `Verify a board's firmware signature against the signed image on disk
and flash the board if they differ. Boards already running the expected
firmware are left untouched.

A board stuck in the bootstub is flashed and, if that does not bring the
application up, recovered through DFU mode. This matches one cycle of
what the run command does for every board.

Examples:
  sudo pandad flash 2f001d000c51363038363036  # Flash one board by serial
  sudo pandad flash --all                     # Flash every attached board`,
	Args: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) != 1 {
			return errors.New("requires either a serial argument or --all flag")
		}
		if all && len(args) > 0 {
			return errors.New("cannot specify both a serial and --all flag")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger()
		driver, fw := newDriver(log)

		var serials []string
		if all, _ := cmd.Flags().GetBool("all"); all {
			var err error
			serials, err = driver.ListNormal()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error listing boards: %v\n", err)
				os.Exit(1)
			}
			if len(serials) == 0 {
				fmt.Println("No boards found")
				return
			}
		} else {
			serials = args
		}

		failed := false
		for _, serial := range serials {
			dev, err := driver.Open(serial)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", serial, err)
				failed = true
				continue
			}

			board, err := pandad.FlashBoard(dev, fw, log)
			dev.Close()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error flashing %s: %v\n", serial, err)
				failed = true
				continue
			}

			fmt.Printf("%s: %s (%s) verified\n", board.Serial, board.Type, board.Mcu)
		}

		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(flashCmd)

	flashCmd.Flags().BoolP("all", "a", false, "Flash every attached board")
}
