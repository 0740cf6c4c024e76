package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives build events. Implementations must tolerate being called
// for every page written.
type Recorder interface {
	PageWritten(kind string)
	APIFailure(op string)
	BuildFinished(duration time.Duration, at time.Time)
}

// Prometheus keeps build metrics in a private registry so they can be dumped
// to a node-exporter textfile after each run.
type Prometheus struct {
	registry      *prometheus.Registry
	pages         *prometheus.CounterVec
	apiFailures   *prometheus.CounterVec
	buildDuration prometheus.Gauge
	lastBuild     prometheus.Gauge
}

func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prerender_pages_written_total",
			Help: "Pages written to the output directory, by page kind.",
		}, []string{"kind"}),
		apiFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prerender_api_failures_total",
			Help: "API calls that failed and were degraded to missing data.",
		}, []string{"op"}),
		buildDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prerender_last_build_duration_seconds",
			Help: "Wall time of the last completed build.",
		}),
		lastBuild: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prerender_last_build_timestamp_seconds",
			Help: "Unix time the last build completed.",
		}),
	}
	p.registry.MustRegister(p.pages, p.apiFailures, p.buildDuration, p.lastBuild)
	return p
}

func (p *Prometheus) PageWritten(kind string) {
	p.pages.WithLabelValues(kind).Inc()
}

func (p *Prometheus) APIFailure(op string) {
	p.apiFailures.WithLabelValues(op).Inc()
}

func (p *Prometheus) BuildFinished(duration time.Duration, at time.Time) {
	p.buildDuration.Set(duration.Seconds())
	p.lastBuild.Set(float64(at.Unix()))
}

// Registry exposes the underlying registry, mainly for tests.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// WriteTextfile writes the current metric values in the text exposition format.
func (p *Prometheus) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return errors.Wrapf(err, "write metrics textfile %s", path)
	}
	return nil
}

type NoOp struct{}

func (NoOp) PageWritten(string)                     {}
func (NoOp) APIFailure(string)                      {}
func (NoOp) BuildFinished(time.Duration, time.Time) {}
