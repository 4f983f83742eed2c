package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/isgwatch/isgwatch/internal/config"
	"github.com/isgwatch/isgwatch/internal/fetcher"
	"github.com/isgwatch/isgwatch/internal/notifier"
	"github.com/isgwatch/isgwatch/internal/runner"
	"github.com/isgwatch/isgwatch/internal/snapshot"
	"github.com/isgwatch/isgwatch/internal/version"
	"github.com/rs/zerolog"
)

// Exit codes: 0 for completed runs (baseline, no change, or notified),
// 1 for aborted runs (bad config, fetch failure, corrupt state, failed
// send). A failed snapshot save after a confirmed send logs a warning and
// still exits 0; the next run simply renotifies.
func main() {
	configPath := flag.String("config", "/etc/isgwatch/config.yaml", "Path to configuration file")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	simulate := flag.Bool("simulate", false, "Send a test email with a fake entry and exit (no fetch)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("isgwatch " + version.GetFullVersion())
		return
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logLevelParsed, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		logLevelParsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevelParsed)

	logger := zerolog.New(os.Stderr).With().
		Timestamp().
		Str("version", version.GetVersion()).
		Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("config_path", *configPath).
			Msg("Failed to load configuration")
	}

	mailer := notifier.NewMailer(cfg.SMTP, logger)
	ctx := context.Background()

	if *simulate {
		if err := mailer.SendTest(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Could not send simulation email")
		}
		logger.Info().Str("to", cfg.SMTP.To).Msg("Simulation email sent")
		return
	}

	store, err := snapshot.Open(snapshot.Config{
		Driver:      cfg.State.Driver,
		Path:        cfg.State.Path,
		BusyTimeout: cfg.State.BusyTimeout.Duration,
	}, logger)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("driver", cfg.State.Driver).
			Str("path", cfg.State.Path).
			Msg("Failed to open snapshot store")
	}

	fetch := fetcher.NewISG(cfg.Monitor.URL, cfg.Monitor.FetchTimeout.Duration, logger)
	run := runner.New(fetch, store, mailer, logger)

	_, err = run.Run(ctx)
	if cerr := store.Close(); cerr != nil {
		logger.Warn().Err(cerr).Msg("Error closing snapshot store")
	}
	if err != nil {
		logger.Error().Err(err).Msg("Run aborted")
		os.Exit(1)
	}
}
