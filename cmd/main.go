// minput - change display monitor input sources over DDC/CI.
//
// Positional arguments are lookup or assignment tokens:
//
//	minput                  print all monitors
//	minput Dell             print monitors whose identifier contains "Dell"
//	minput Dell=Hdmi1       switch those monitors to HDMI 1
//	minput 0=DP1,Hdmi1      toggle monitor 0 between DisplayPort 1 and HDMI 1
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"minput/internal/cli"
	"minput/internal/config"
	"minput/internal/monitor"
	"minput/internal/osutils"
	"minput/internal/tray"
)

var version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opts cli.Options
	var service, showVersion bool

	flagSet := pflag.NewFlagSet("minput", pflag.ContinueOnError)
	flagSet.StringVarP(&opts.Backend, "backend", "b", "", "filter monitors by backend name")
	flagSet.BoolVarP(&opts.NeedsCapabilities, "capabilities", "c", false, "get capabilities from the display monitors")
	flagSet.BoolVarP(&opts.DryRun, "dry-run", "n", false, "log intended changes without applying them")
	flagSet.CountVarP(&opts.Verbose, "verbose", "v", "show verbose information")
	flagSet.BoolVar(&service, "service", false, "run resident with a system tray menu of profiles")
	flagSet.BoolVar(&showVersion, "version", false, "print version and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if showVersion {
		fmt.Printf("minput version %s\n", version)
		return nil
	}

	initLogger(opts.Verbose)

	if service {
		return runService(opts)
	}

	monitors, err := monitor.Enumerate(opts.DryRun)
	if err != nil {
		return fmt.Errorf("enumerate monitors: %w", err)
	}
	return cli.New(monitors, opts).Run(flagSet.Args())
}

// initLogger configures the default slog logger from the -v count.
func initLogger(verbose int) {
	level := slog.LevelInfo
	if verbose >= 1 {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: verbose >= 2,
	})
	slog.SetDefault(slog.New(handler))
}

// runService keeps the process resident with a tray menu entry per
// configured profile. Clicking an entry applies that profile's arguments
// against a fresh enumeration.
func runService(opts cli.Options) error {
	manager, err := config.NewManager()
	if err != nil {
		return err
	}
	if err := manager.Load(); err != nil {
		return err
	}
	profiles := manager.Get().Profiles
	if len(profiles) == 0 {
		return fmt.Errorf("no profiles configured in %s", manager.Path())
	}

	t := tray.New("minput", "minput - monitor input switcher")
	for _, profile := range profiles {
		profile := profile
		t.AddMenuItem("Switch to "+profile.Name, func() {
			slog.Info("applying profile", "profile", profile.Name)
			if err := applyProfile(opts, profile); err != nil {
				slog.Error("profile switch failed", "profile", profile.Name, "error", err)
			}
		})
	}
	t.AddSeparator()
	t.AddMenuItem("Quit", t.Stop)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutting down")
		t.Stop()
	}()

	slog.Info("service running", "profiles", len(profiles))
	t.Run()
	return nil
}

func applyProfile(opts cli.Options, profile config.Profile) error {
	// Displays that went to sleep may ignore DDC until the system is awake.
	osutils.WakeUp()
	time.Sleep(100 * time.Millisecond)

	monitors, err := monitor.Enumerate(opts.DryRun)
	if err != nil {
		return fmt.Errorf("enumerate monitors: %w", err)
	}
	return cli.New(monitors, opts).Run(profile.Args)
}
