package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bsid.es/alarmclock"
	"bsid.es/alarmclock/internal/config"
	"bsid.es/alarmclock/internal/logger"
)

var (
	// Global flags
	configPath string
	assumeYes  bool
	verbose    bool

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "alarmclock",
	Short: "A single-alarm clock",
	Long: `alarmclock keeps one wake-up time. Set it with "alarmclock set", keep
"alarmclock run" going in the background to deliver it, and stop it with
"alarmclock dismiss" or Enter in the daemon's terminal.

Run without arguments to show the alarm that is set.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if assumeYes {
			cfg.App.AssumeYes = true
		}

		level := cfg.Log.Level
		switch {
		case verbose:
			level = "debug"
		case level == "" && cmd.Name() == "run":
			level = "info"
		case level == "":
			level = "warn"
		}
		log, err = logger.New(level, cfg.App.Env)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	RunE: runStatus,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/alarmclock/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "grant permissions without asking")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		statusCmd,
		setCmd,
		deleteCmd,
		dismissCmd,
		alertCmd,
		runCmd,
		configCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		switch alarmclock.ErrorCode(err) {
		case alarmclock.ErrPermission, alarmclock.ErrInvalid:
			fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint(alarmclock.ErrorDescription(err)))
		default:
			fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("Error: "), err)
		}
		os.Exit(1)
	}
}
