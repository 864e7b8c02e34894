package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"marsclock/darian"
	"marsclock/internal/config"
	"marsclock/internal/export"
	appLog "marsclock/internal/log"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	zone       string
	at         string
	mars       string
	once       bool
	doExport   bool
	exportOut  string
}

func main() {
	appLog.Info("marsclock starting", "version", "0.1.0-dev")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	// CLI -zone overrides the configured display zone.
	if flags.zone != "" {
		conf.Zone = flags.zone
	}
	zone, err := conf.DisplayZone()
	if err != nil {
		appLog.Error("failed to resolve display zone", err, "zone", conf.Zone)
		os.Exit(1)
	}

	appLog.Info("effective config",
		"zone", conf.Zone,
		"refresh", conf.RefreshCron,
		"zones", len(conf.Zones),
		"events", len(conf.Events),
		"once", flags.once,
		"export", flags.doExport,
	)

	switch {
	case flags.doExport:
		if err := runExport(conf, flags); err != nil {
			appLog.Error("export failed", err)
			os.Exit(1)
		}
	case flags.mars != "":
		if err := runReverse(zone, flags.mars, conf.LeapShift()); err != nil {
			appLog.Error("conversion failed", err)
			os.Exit(1)
		}
	case flags.once || flags.at != "":
		if err := runOnce(zone, flags.at, conf.LeapShift()); err != nil {
			appLog.Error("conversion failed", err)
			os.Exit(1)
		}
	default:
		if err := runDaemon(conf, zone); err != nil {
			appLog.Error("daemon failed", err)
			os.Exit(1)
		}
	}

	appLog.Info("marsclock exiting")
}

// runOnce prints the Martian reading of one terrestrial instant: the
// current time, or the -at argument (RFC 3339).
func runOnce(zone darian.Zone, at string, shift time.Duration) error {
	earth := time.Now()
	if at != "" {
		var err error
		if earth, err = time.Parse(time.RFC3339, at); err != nil {
			return fmt.Errorf("parse -at: %w", err)
		}
	}
	line, err := describe(earth.Add(shift), zone)
	if err != nil {
		return err
	}
	fmt.Println(line)
	return nil
}

// runReverse converts a Martian wall time in the display zone back to a
// terrestrial instant.
func runReverse(zone darian.Zone, mars string, shift time.Duration) error {
	var year, month, sol, hour, minute, second int
	if _, err := fmt.Sscanf(mars, "%d-%d-%d %d:%d:%d",
		&year, &month, &sol, &hour, &minute, &second); err != nil {
		return fmt.Errorf("parse -mars %q (want \"YYYY-MM-DD hh:mm:ss\"): %w", mars, err)
	}
	mdt, err := darian.NewDateTime(year, month, sol, hour, minute, second, 0, zone)
	if err != nil {
		return err
	}
	earth, err := mdt.Time()
	if err != nil {
		return err
	}
	earth = earth.Add(-shift)
	name, _ := mdt.ZoneName()
	fmt.Printf("%s [%s] = %s\n", mdt.String(), name, earth.UTC().Format(time.RFC3339Nano))
	return nil
}

// runDaemon ticks on the configured cron schedule, logging the current
// Martian time until interrupted.
func runDaemon(conf *config.Config, zone darian.Zone) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	tick := func() {
		line, err := describe(time.Now().Add(conf.LeapShift()), zone)
		if err != nil {
			appLog.Error("tick failed", err)
			return
		}
		appLog.Info("mars time", "now", line)
	}

	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, tick); err != nil {
		return fmt.Errorf("schedule %q: %w", conf.RefreshCron, err)
	}
	tick()
	c.Start()
	<-ctx.Done()
	stopped := c.Stop()
	<-stopped.Done()
	return nil
}

// runExport writes the configured ICS window starting now.
func runExport(conf *config.Config, flags flagConfig) error {
	path := conf.Export.Path
	if flags.exportOut != "" {
		path = flags.exportOut
	}
	if path == "" {
		return fmt.Errorf("no export path: set -out or export.path")
	}
	b, err := export.NewBuilder(conf)
	if err != nil {
		return err
	}
	start := time.Now().UTC()
	end := start.Add(time.Duration(conf.Export.HorizonDays) * 24 * time.Hour)
	cal, err := b.Build(start, end)
	if err != nil {
		return err
	}
	if err := export.WriteFile(path, cal); err != nil {
		return err
	}
	appLog.Info("calendar exported", "path", path, "events", len(cal.Events()),
		"from", start.Format(time.RFC3339), "to", end.Format(time.RFC3339))
	return nil
}

func describe(earth time.Time, zone darian.Zone) (string, error) {
	mdt, err := darian.FromTime(earth)
	if err != nil {
		return "", err
	}
	local, err := mdt.AsZone(zone)
	if err != nil {
		return "", err
	}
	name, _ := local.ZoneName()
	return fmt.Sprintf("%s [%s] %s", local.String(), name, export.FormatSol(local.Date())), nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/marsclock/config.yaml", "Path to config file")
	flag.StringVar(&cfg.zone, "zone", "", "Display zone name (overrides config if set)")
	flag.StringVar(&cfg.at, "at", "", "Convert a terrestrial RFC 3339 instant instead of now")
	flag.StringVar(&cfg.mars, "mars", "", `Convert a Martian "YYYY-MM-DD hh:mm:ss" wall time back to UTC`)
	flag.BoolVar(&cfg.once, "once", false, "Print the current Martian time and exit")
	flag.BoolVar(&cfg.doExport, "export", false, "Write the ICS calendar and exit")
	flag.StringVar(&cfg.exportOut, "out", "", "Export output path (overrides export.path)")

	flag.Parse()

	return cfg
}
