package site

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/janmarkuslanger/clubin-prerender/internal/api"
	"github.com/janmarkuslanger/clubin-prerender/internal/config"
	"github.com/janmarkuslanger/clubin-prerender/internal/logging"
	"github.com/janmarkuslanger/clubin-prerender/internal/metrics"
	"github.com/janmarkuslanger/clubin-prerender/internal/seo"
)

// ShortLinker hands out short codes for clubs and events.
type ShortLinker interface {
	RegisterShortLink(ctx context.Context, kind api.ShortLinkKind, targetID string) (string, bool)
}

// PageRecorder is notified of every page written.
type PageRecorder interface {
	RecordPage(route, kind, html string) error
}

type BuildOptions struct {
	Config     config.Config
	Source     api.Source
	ShortLinks ShortLinker
	Logger     *logrus.Entry
	Metrics    metrics.Recorder
	Recorder   PageRecorder
}

// Stats counts what a build produced.
type Stats struct {
	Pages           int `json:"pages"`
	Cities          int `json:"cities"`
	Clubs           int `json:"clubs"`
	Events          int `json:"events"`
	Promoters       int `json:"promoters"`
	ClubShortLinks  int `json:"club_short_links"`
	EventShortLinks int `json:"event_short_links"`
}

type builder struct {
	opts     BuildOptions
	template string
	writer   Writer
	injector seo.Injector
	pages    pages
	sitemap  *sitemap
	log      *logrus.Entry
	stats    Stats
}

// Build renders every route into opts.Config.OutputDir. A missing template is
// returned as ErrTemplateMissing before anything is fetched; API failures only
// shrink the output.
func Build(ctx context.Context, opts BuildOptions) (Stats, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoOp{}
	}
	cfg := opts.Config
	started := time.Now()

	template, err := LoadTemplate(cfg.OutputDir)
	if err != nil {
		return Stats{}, err
	}

	b := &builder{
		opts:     opts,
		template: template,
		writer:   NewWriter(cfg.OutputDir),
		injector: seo.Injector{DefaultImage: cfg.DefaultImage},
		pages: pages{
			site:         cfg.SiteRoot(),
			defaultImage: cfg.DefaultImage,
			cities:       cfg.Cities,
		},
		log: opts.Logger,
	}
	if cfg.Sitemap {
		b.sitemap = newSitemap(cfg.SiteRoot())
	}

	b.log.Info("fetching API data")
	clubs := api.LoadClubs(ctx, opts.Source, b.log)
	events := api.LoadEvents(ctx, opts.Source, b.log)
	promoters := api.CollectPromoters(clubs, events)
	clubs = withIDs(b.log, "club", clubs, func(c api.Club) string { return c.ID })
	events = withIDs(b.log, "event", events, func(e api.Event) string { return e.ID })

	b.stats.Cities = len(cfg.Cities)
	b.stats.Clubs = len(clubs)
	b.stats.Events = len(events)
	b.stats.Promoters = promoters.Len()

	if _, err := b.render(b.pages.cityIndex()); err != nil {
		return b.stats, err
	}
	for _, city := range cfg.Cities {
		if _, err := b.render(b.pages.city(city)); err != nil {
			return b.stats, err
		}
	}

	for _, club := range clubs {
		html, err := b.render(b.pages.club(club))
		if err != nil {
			return b.stats, err
		}
		ok, err := b.alias(ctx, api.ShortLinkClub, club.ID, "c", KindClubShortLink, html)
		if err != nil {
			return b.stats, err
		}
		if ok {
			b.stats.ClubShortLinks++
		}
	}

	for _, event := range events {
		html, err := b.render(b.pages.event(event))
		if err != nil {
			return b.stats, err
		}
		ok, err := b.alias(ctx, api.ShortLinkEvent, event.ID, "e", KindEventShortLink, html)
		if err != nil {
			return b.stats, err
		}
		if ok {
			b.stats.EventShortLinks++
		}
	}

	for _, promoter := range promoters.All() {
		if _, err := b.render(b.pages.promoter(promoter)); err != nil {
			return b.stats, err
		}
	}

	if b.sitemap != nil {
		if err := b.sitemap.write(cfg.OutputDir); err != nil {
			return b.stats, err
		}
	}

	finished := time.Now()
	opts.Metrics.BuildFinished(finished.Sub(started), finished)
	b.log.WithFields(logrus.Fields{
		"pages":             b.stats.Pages,
		"cities":            b.stats.Cities,
		"clubs":             b.stats.Clubs,
		"events":            b.stats.Events,
		"promoters":         b.stats.Promoters,
		"club_short_links":  b.stats.ClubShortLinks,
		"event_short_links": b.stats.EventShortLinks,
		"output":            cfg.OutputDir,
	}).Info("pre-rendered pages")

	return b.stats, nil
}

// render injects p into the template and writes its canonical route.
func (b *builder) render(p page) (string, error) {
	html, err := b.injector.Inject(b.template, p.meta)
	if err != nil {
		return "", errors.Wrapf(err, "render %s", p.route)
	}
	written, err := b.write(p.route, p.kind, html)
	if err != nil {
		return "", err
	}
	if written && b.sitemap != nil {
		b.sitemap.add(p)
	}
	return html, nil
}

// alias requests a short code and, when granted, writes html under it too.
func (b *builder) alias(ctx context.Context, kind api.ShortLinkKind, targetID, prefix string, pageKind PageKind, html string) (bool, error) {
	if b.opts.ShortLinks == nil {
		return false, nil
	}
	code, ok := b.opts.ShortLinks.RegisterShortLink(ctx, kind, targetID)
	if !ok {
		return false, nil
	}
	route, ok := aliasRoute(prefix, code)
	if !ok {
		b.log.WithFields(logrus.Fields{"kind": kind, "code": code}).Warn("ignoring unusable short code")
		return false, nil
	}
	return b.write(route, pageKind, html)
}

func (b *builder) write(route string, kind PageKind, html string) (bool, error) {
	written, err := b.writer.WriteRoute(route, html)
	if errors.Is(err, ErrInvalidRoute) {
		b.log.WithField("route", route).Warn("skipping route outside output directory")
		return false, nil
	}
	if err != nil || !written {
		return false, err
	}

	b.stats.Pages++
	b.opts.Metrics.PageWritten(string(kind))
	if b.opts.Recorder != nil {
		if err := b.opts.Recorder.RecordPage(route, string(kind), html); err != nil {
			b.log.WithError(err).WithField("route", route).Warn("could not record page in ledger")
		}
	}
	return true, nil
}

// withIDs drops records whose id is not a single path segment. Their detail
// route would collapse onto a listing page.
func withIDs[T any](log *logrus.Entry, kind string, items []T, id func(T) string) []T {
	kept := items[:0:0]
	for _, item := range items {
		if !isSegment(strings.TrimSpace(id(item))) {
			log.WithFields(logrus.Fields{"kind": kind, "id": id(item)}).Warn("skipping record without usable id")
			continue
		}
		kept = append(kept, item)
	}
	return kept
}
