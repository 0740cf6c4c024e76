package api

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	clubsCacheFile  = "prerender_clubs.json"
	eventsCacheFile = "prerender_events.json"
)

// Resource names one cacheable collection endpoint.
type Resource struct {
	Path      string
	CacheFile string
}

var (
	Clubs  = Resource{Path: "/clubs", CacheFile: clubsCacheFile}
	Events = Resource{Path: "/events", CacheFile: eventsCacheFile}
)

// Source yields the raw JSON payload of a collection, or false when nothing
// could be obtained.
type Source interface {
	Load(ctx context.Context, res Resource) ([]byte, bool)
}

// LiveSource always fetches from the API and snapshots successful payloads
// into cacheDir.
type LiveSource struct {
	client   *Client
	cacheDir string
	log      *logrus.Entry
}

// CachedSource serves a snapshot verbatim when one exists and falls back to a
// live fetch otherwise.
type CachedSource struct {
	live *LiveSource
}

// NewSource picks the data-source strategy once, at startup.
func NewSource(client *Client, cacheDir string, cached bool, log *logrus.Entry) Source {
	live := &LiveSource{client: client, cacheDir: cacheDir, log: log}
	if cached {
		return &CachedSource{live: live}
	}
	return live
}

func (s *LiveSource) Load(ctx context.Context, res Resource) ([]byte, bool) {
	body, ok := s.client.FetchRaw(ctx, s.client.URL(res.Path))
	if !ok {
		return nil, false
	}
	if err := s.snapshot(res, body); err != nil {
		s.log.WithError(err).WithField("path", s.cachePath(res)).Warn("could not write cache snapshot")
	}
	return body, true
}

func (s *LiveSource) snapshot(res Resource, body []byte) error {
	path := s.cachePath(res)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create cache dir")
	}
	return errors.Wrap(os.WriteFile(path, body, 0o644), "write cache file")
}

func (s *LiveSource) cachePath(res Resource) string {
	return filepath.Join(s.cacheDir, res.CacheFile)
}

func (s *CachedSource) Load(ctx context.Context, res Resource) ([]byte, bool) {
	path := s.live.cachePath(res)
	body, err := os.ReadFile(path)
	if err == nil {
		s.live.log.WithField("path", path).Debug("using cached payload")
		return body, true
	}
	if !os.IsNotExist(err) {
		s.live.log.WithError(err).WithField("path", path).Warn("could not read cache snapshot")
	}
	return s.live.Load(ctx, res)
}

// LoadClubs returns the club collection, empty when it could not be loaded.
func LoadClubs(ctx context.Context, src Source, log *logrus.Entry) []Club {
	clubs := []Club{}
	decodeCollection(ctx, src, Clubs, &clubs, log)
	if clubs == nil {
		return []Club{}
	}
	return clubs
}

// LoadEvents returns the event collection, empty when it could not be loaded.
func LoadEvents(ctx context.Context, src Source, log *logrus.Entry) []Event {
	events := []Event{}
	decodeCollection(ctx, src, Events, &events, log)
	if events == nil {
		return []Event{}
	}
	return events
}

func decodeCollection[T any](ctx context.Context, src Source, res Resource, out *[]T, log *logrus.Entry) {
	body, ok := src.Load(ctx, res)
	if !ok {
		return
	}
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		log.WithError(err).WithField("resource", res.Path).Warn("payload is not a list, using empty collection")
		return
	}
	*out = items
}
