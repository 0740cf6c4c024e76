package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/janmarkuslanger/clubin-prerender/internal/auth"
	"github.com/janmarkuslanger/clubin-prerender/internal/config"
	"github.com/janmarkuslanger/clubin-prerender/internal/logging"
	"github.com/janmarkuslanger/clubin-prerender/internal/store"
	"github.com/janmarkuslanger/graft/graft"
)

const defaultLedgerPath = "data/prerender.db"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(envOrDefault("PRERENDER_CONFIG", "prerender.yaml"))
	if err != nil {
		logrus.Fatal(err)
	}
	log := logging.New("server", cfg.LogLevel, cfg.LogFormat)

	if cfg.LedgerPath == "" {
		cfg.LedgerPath = defaultLedgerPath
	}
	ledger, err := store.NewStore(cfg.LedgerPath)
	if err != nil {
		log.WithError(err).Fatal("could not open ledger")
	}

	app := graft.New()
	app.UseModule(bootModule{
		Ledger:    ledger,
		OutputDir: cfg.OutputDir,
		Log:       log,
	})
	app.UseModule(staticModule{OutputDir: cfg.OutputDir})
	app.UseModule(publicModule(publicDeps{OutputDir: cfg.OutputDir}))

	verifier, err := auth.NewTokenVerifier(cfg.BuildTokenHash)
	switch {
	case errors.Is(err, auth.ErrNoTokenHash):
		log.Warn("BUILD_TOKEN_HASH not set, build endpoints disabled")
	case err != nil:
		log.WithError(err).Fatal("invalid build token hash")
	default:
		app.UseModule(buildModule(buildDeps{
			Ledger:   ledger,
			Verifier: verifier,
			Debounce: cfg.BuildDebounce,
			Log:      log,
		}))
	}

	log.WithField("output", cfg.OutputDir).Infof("%s preview server running on :8080", appName())
	app.Run()
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
