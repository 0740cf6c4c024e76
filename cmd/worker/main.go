package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/janmarkuslanger/clubin-prerender/internal/config"
	"github.com/janmarkuslanger/clubin-prerender/internal/logging"
	"github.com/janmarkuslanger/clubin-prerender/internal/metrics"
	"github.com/janmarkuslanger/clubin-prerender/internal/pipeline"
	"github.com/janmarkuslanger/clubin-prerender/internal/site"
	"github.com/janmarkuslanger/clubin-prerender/internal/store"
)

const defaultLedgerPath = "data/prerender.db"

type builder interface {
	Run(ctx context.Context, cached bool) (site.Stats, error)
}

type taskQueue interface {
	ClaimBuildTask(at time.Time) (store.BuildTask, bool, error)
	RescheduleBuildTask(id uint, delay time.Duration) error
	CompleteBuildTask(id uint) error
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(envOrDefault("PRERENDER_CONFIG", "prerender.yaml"))
	if err != nil {
		logrus.Fatal(err)
	}
	log := logging.New("worker", cfg.LogLevel, cfg.LogFormat)

	if cfg.LedgerPath == "" {
		cfg.LedgerPath = defaultLedgerPath
	}
	ledger, err := store.NewStore(cfg.LedgerPath)
	if err != nil {
		log.WithError(err).Fatal("could not open ledger")
	}
	defer ledger.Close()

	prom := metrics.NewPrometheus()
	runner := pipeline.Runner{Config: cfg, Logger: log, Metrics: prom, Ledger: ledger}

	nextNightly, err := nextNightlyRun(time.Now(), cfg.NightlyAt)
	if err != nil {
		log.WithError(err).Fatal("invalid nightly schedule")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	log.WithField("nightly_at", cfg.NightlyAt).Info("build worker started")

	for {
		now := time.Now()
		if !now.Before(nextNightly) {
			if _, err := ledger.EnqueueBuildTask(0); err != nil {
				log.WithError(err).Warn("nightly enqueue failed")
			} else {
				log.Info("nightly build enqueued")
			}
			nextNightly, _ = nextNightlyRun(now.Add(time.Minute), cfg.NightlyAt)
		}

		ran, err := processBuildQueue(ctx, ledger, runner, cfg.Cached, cfg.RetryDelay, log)
		if err != nil {
			log.WithError(err).Warn("build queue error")
		}
		if ran && cfg.MetricsFile != "" {
			if err := prom.WriteTextfile(cfg.MetricsFile); err != nil {
				log.WithError(err).Warn("could not write metrics textfile")
			}
		}

		select {
		case <-ctx.Done():
			log.Info("build worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// processBuildQueue runs at most one due task and reports whether it did.
func processBuildQueue(ctx context.Context, queue taskQueue, b builder, cached bool, retryDelay time.Duration, log *logrus.Entry) (bool, error) {
	task, ok, err := queue.ClaimBuildTask(time.Now().UTC())
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	log = log.WithFields(logrus.Fields{"task_id": task.ID, "attempt": task.Attempts})
	log.Info("build task claimed")

	stats, err := b.Run(ctx, cached)
	if err != nil {
		log.WithError(err).WithField("retry_in", retryDelay.String()).Warn("build failed")
		return true, queue.RescheduleBuildTask(task.ID, retryDelay)
	}

	if err := queue.CompleteBuildTask(task.ID); err != nil {
		return true, err
	}

	log.WithField("pages", stats.Pages).Info("build finished")
	return true, nil
}

func nextNightlyRun(now time.Time, at string) (time.Time, error) {
	parts := strings.Split(at, ":")
	if len(parts) != 2 {
		return time.Time{}, errors.New("BUILD_NIGHTLY_AT must be HH:MM")
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, errors.New("BUILD_NIGHTLY_AT hour invalid")
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, errors.New("BUILD_NIGHTLY_AT minute invalid")
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next, nil
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
