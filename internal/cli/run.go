/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/allbin/pandad"
	"github.com/allbin/pandad/internal/params"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Bring up boards and supervise the communication daemon",
	Long: `Run the full orchestration loop.

Each cycle discovers attached boards (recovering any stuck in DFU mode),
verifies that every board runs the expected signed firmware, flashes and
recovers boards that do not, checks board health, resets each board and
starts the communication daemon with the ordered serial list. When the
daemon exits the cycle starts over.

The loop runs until interrupted (SIGINT/SIGTERM) or a board becomes
unresponsive, which is treated as fatal so the process supervisor can
restart from a clean slate.`,
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger()
		driver, fw := newDriver(log)

		store, err := params.Open(viper.GetString("params-dir"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening params dir: %v\n", err)
			os.Exit(1)
		}

		launch := pandad.ProcessLauncher(
			viper.GetString("daemon"),
			viper.GetString("daemon-dir"),
		)

		opts := []pandad.Option{
			pandad.WithLogger(log),
			pandad.WithStore(store),
		}
		if d := viper.GetDuration("poll-interval"); d > 0 {
			opts = append(opts, pandad.WithPollInterval(d))
		}

		orch, err := pandad.New(driver, fw, launch, opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			log.Info("shutting down")
			cancel()
		}()

		if err := orch.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("orchestration failed", "err", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("daemon", "./boardd", "communication daemon executable to launch")
	runCmd.Flags().String("daemon-dir", "", "working directory for the daemon (default is the current directory)")
	runCmd.Flags().String("params-dir", "/data/params", "directory for persisted key/value flags")
	runCmd.Flags().Duration("poll-interval", 0, "wait between discovery polls (0 uses the built-in default)")

	viper.BindPFlag("daemon", runCmd.Flags().Lookup("daemon"))
	viper.BindPFlag("daemon-dir", runCmd.Flags().Lookup("daemon-dir"))
	viper.BindPFlag("params-dir", runCmd.Flags().Lookup("params-dir"))
	viper.BindPFlag("poll-interval", runCmd.Flags().Lookup("poll-interval"))
}
