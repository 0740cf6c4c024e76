// Package pipeline wires configuration, the API client, the build ledger and
// metrics around a single site build.
package pipeline

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/janmarkuslanger/clubin-prerender/internal/api"
	"github.com/janmarkuslanger/clubin-prerender/internal/config"
	"github.com/janmarkuslanger/clubin-prerender/internal/logging"
	"github.com/janmarkuslanger/clubin-prerender/internal/metrics"
	"github.com/janmarkuslanger/clubin-prerender/internal/site"
	"github.com/janmarkuslanger/clubin-prerender/internal/store"
)

// Runner runs builds with a fixed configuration. Ledger is optional.
type Runner struct {
	Config  config.Config
	Logger  *logrus.Entry
	Metrics metrics.Recorder
	Ledger  *store.Store
}

// Run performs one build. cached selects the cache-reuse data source.
func (r Runner) Run(ctx context.Context, cached bool) (site.Stats, error) {
	log := r.Logger
	if log == nil {
		log = logging.Discard()
	}
	rec := r.Metrics
	if rec == nil {
		rec = metrics.NoOp{}
	}

	client := api.NewClient(api.ClientOptions{
		BaseURL:   r.Config.APIRoot(),
		UserAgent: r.Config.UserAgent,
		Timeout:   r.Config.RequestTimeout,
		RateLimit: r.Config.APIRateLimit,
		Logger:    log,
		Metrics:   rec,
	})

	opts := site.BuildOptions{
		Config:     r.Config,
		Source:     api.NewSource(client, r.Config.CacheDir, cached, log),
		ShortLinks: client,
		Logger:     log,
		Metrics:    rec,
	}

	if r.Ledger == nil {
		return site.Build(ctx, opts)
	}

	run, err := r.Ledger.StartRun(cached)
	if err != nil {
		return site.Stats{}, err
	}
	log = log.WithField("run_id", run.ID)
	opts.Logger = log
	opts.Recorder = r.Ledger.Recorder(run.ID)

	stats, buildErr := site.Build(ctx, opts)

	finished, err := r.Ledger.FinishRun(run.ID, store.RunCounts{
		Pages:           stats.Pages,
		Clubs:           stats.Clubs,
		Events:          stats.Events,
		Promoters:       stats.Promoters,
		ClubShortLinks:  stats.ClubShortLinks,
		EventShortLinks: stats.EventShortLinks,
	}, buildErr)
	if err != nil {
		log.WithError(err).Warn("could not finish ledger run")
	} else {
		log.WithFields(logrus.Fields{
			"status":        finished.Status,
			"changed_pages": finished.ChangedPages,
		}).Info("ledger run recorded")
	}

	return stats, buildErr
}
