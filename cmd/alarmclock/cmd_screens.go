package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bsid.es/alarmclock"
	"bsid.es/alarmclock/app"
)

// statusCmd shows the alarm that is set
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the alarm that is set",
	Long: `Shows the next alarm time, or that no alarm is set. An alarm whose time
has passed is cleared first, silencing it if it is still ringing.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

var setCmd = &cobra.Command{
	Use:   "set HH:MM",
	Short: "Set the alarm, replacing the one set before",
	Long: `Sets the alarm for the next time the clock reads HH:MM: today if that is
still ahead, otherwise tomorrow.

Examples:
  alarmclock set 07:30
  alarmclock set 7:30 pm`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSet,
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the alarm",
	Args:  cobra.NoArgs,
	RunE:  runDelete,
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss",
	Short: "Stop the ringing alarm",
	Args:  cobra.NoArgs,
	RunE:  runDismiss,
}

var alertCmd = &cobra.Command{
	Use:   "alert",
	Short: "Show the alert screen",
	Args:  cobra.NoArgs,
	RunE:  runAlert,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	},
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := checkPermissions(cmd, d); err != nil {
		return err
	}
	st, err := d.svc.Status(ctx)
	if err != nil {
		return err
	}
	app.RenderStatus(cmd.OutOrStdout(), st)
	return nil
}

func runSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	hour, minute, err := alarmclock.ParseTimeOfDay(strings.Join(args, " "))
	if err != nil {
		return err
	}

	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := checkPermissions(cmd, d); err != nil {
		return err
	}
	sc, err := d.svc.SetAlarm(ctx, hour, minute)
	if err != nil {
		return err
	}
	app.RenderScheduled(cmd.OutOrStdout(), sc)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.svc.DeleteAlarm(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), app.DeleteAlarmText)
	return nil
}

func runDismiss(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.svc.Dismiss(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), color.New(color.Faint).Sprint("Alarm stopped"))
	return nil
}

func runAlert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	text, err := d.svc.AlertText(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), color.New(color.FgRed, color.Bold).Sprint("ALARM"))
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func checkPermissions(cmd *cobra.Command, d *deps) error {
	prompter := app.NewTerminalPrompter(os.Stdin, cmd.ErrOrStderr())
	prompter.AssumeYes = cfg.App.AssumeYes
	return d.svc.CheckPermissions(cmd.Context(), prompter)
}
