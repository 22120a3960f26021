/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/allbin/pandad"
	"github.com/allbin/pandad/internal/usbdev"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pandad",
	Short: "Board bring-up orchestrator and daemon supervisor",
	Long: `pandad discovers attached interface boards over USB, brings them into
a verified firmware state (flashing and recovering as needed) and hands
the ordered serial list to the downstream communication daemon, which it
supervises for the life of the process.

It also provides one-shot tooling for the same hardware: listing
attached boards in any boot mode, flashing, USB-level resets and a live
monitor TUI.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pandad.yaml)")
	rootCmd.PersistentFlags().String("firmware-dir", "/usr/share/panda", "directory containing the signed firmware images")
	rootCmd.PersistentFlags().String("dfu-mcu", "f4", "MCU family assumed for boards found in DFU mode (f4 or h7)")
	rootCmd.PersistentFlags().Bool("log-json", false, "log in JSON format")
	rootCmd.PersistentFlags().Bool("log-debug", false, "log debug messages")

	viper.BindPFlag("firmware-dir", rootCmd.PersistentFlags().Lookup("firmware-dir"))
	viper.BindPFlag("dfu-mcu", rootCmd.PersistentFlags().Lookup("dfu-mcu"))
	viper.BindPFlag("log-json", rootCmd.PersistentFlags().Lookup("log-json"))
	viper.BindPFlag("log-debug", rootCmd.PersistentFlags().Lookup("log-debug"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pandad")
	}

	viper.SetEnvPrefix("PANDAD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the structured log sink from the log-* settings.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("log-debug") {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if viper.GetBool("log-json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// newDriver wires the firmware resolver and the Linux USB driver from
// the current settings.
func newDriver(log *slog.Logger) (*usbdev.Driver, *pandad.FirmwareResolver) {
	fw := pandad.NewFirmwareResolver(viper.GetString("firmware-dir"), log)
	driver := usbdev.NewDriver(fw, log)
	if viper.GetString("dfu-mcu") == "h7" {
		driver.SetDFUMcu(pandad.McuH7)
	}
	return driver, fw
}
