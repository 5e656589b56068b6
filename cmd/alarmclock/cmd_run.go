package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bsid.es/alarmclock/app"
)

// runCmd delivers the alarm
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Deliver the alarm when it is due",
	Long: `Runs in the foreground until interrupted. When the alarm is due it posts a
notification, plays the alarm sound and shows the alert screen. The alarm
rings until it is dismissed, either with Enter in this terminal or with
"alarmclock dismiss" from anywhere else.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := checkPermissions(cmd, d); err != nil {
		return err
	}

	interactive := app.IsTerminal(os.Stdin)
	out := cmd.OutOrStdout()

	daemon := app.NewDaemon(d.svc, d.sched, cfg.Store.Path)
	daemon.Logger = log
	daemon.Resync = cfg.Daemon.Resync
	daemon.Debounce = cfg.Daemon.Debounce
	daemon.OnRing = func(at time.Time) {
		app.RenderAlert(out, at, interactive)
	}

	if interactive {
		// Not joined on exit: the read blocks until the process ends.
		go dismissOnEnter(ctx, daemon)
	}
	return daemon.Run(ctx)
}

func dismissOnEnter(ctx context.Context, daemon *app.Daemon) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		if !daemon.Ringing() {
			continue
		}
		if err := daemon.Dismiss(ctx); err != nil {
			log.Error("dismiss", zap.Error(err))
		}
	}
}
