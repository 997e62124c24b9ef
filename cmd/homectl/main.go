package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danmuck/homectl/internal/engine"
	"github.com/danmuck/homectl/internal/logging"
	"github.com/danmuck/homectl/internal/observability"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	configPath := flag.String("config", "", "path to TOML run config")
	controlFile := flag.String("control", "", "control file path (overrides config)")
	logDir := flag.String("logdir", "", "log directory (overrides config)")
	adhoc := flag.Bool("adhoc", false, "ad-hoc mode: only finalize-flagged records")
	dryRun := flag.Bool("dry-run", false, "evaluate eligibility without migrating")
	statusAddr := flag.String("status-addr", "", "status listener address (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("homectl %s (commit: %s)\n", version, commit)
		return
	}

	logging.ConfigureRuntime()
	logger := observability.InitLogger("homectl")

	cfg := engine.DefaultServiceConfig()
	if *configPath != "" {
		loaded, err := loadServiceConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "homectl: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Flags explicitly set on the command line win over config file values.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "control":
			cfg.ControlFile = *controlFile
		case "logdir":
			cfg.LogDir = *logDir
		case "adhoc":
			cfg.AdHoc = *adhoc
		case "dry-run":
			cfg.DryRun = *dryRun
		case "status-addr":
			cfg.StatusAddr = *statusAddr
		}
	})

	if err := validateServiceConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "homectl: %v\n", err)
		os.Exit(1)
	}

	svc := engine.NewServiceWithConfig(cfg)
	if err := svc.Run(); err != nil {
		logger.Error().Err(err).Msg("migration run aborted")
		os.Exit(1)
	}
}
