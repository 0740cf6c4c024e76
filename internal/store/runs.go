package store

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

type BuildRun struct {
	ID              string     `json:"id" gorm:"primaryKey;size:36"`
	StartedAt       time.Time  `json:"started_at" gorm:"index;not null"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	Cached          bool       `json:"cached"`
	Status          RunStatus  `json:"status" gorm:"size:16;not null"`
	Error           string     `json:"error,omitempty"`
	Pages           int        `json:"pages"`
	ChangedPages    int        `json:"changed_pages"`
	Clubs           int        `json:"clubs"`
	Events          int        `json:"events"`
	Promoters       int        `json:"promoters"`
	ClubShortLinks  int        `json:"club_short_links"`
	EventShortLinks int        `json:"event_short_links"`
}

// PageRecord is one written route within a run.
type PageRecord struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	RunID     string    `json:"run_id" gorm:"index;size:36;not null"`
	Route     string    `json:"route" gorm:"index;not null"`
	Kind      string    `json:"kind" gorm:"size:32;not null"`
	Checksum  string    `json:"checksum" gorm:"size:64;not null"`
	Changed   bool      `json:"changed"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// RunCounts is what a finished run reports back.
type RunCounts struct {
	Pages           int
	Clubs           int
	Events          int
	Promoters       int
	ClubShortLinks  int
	EventShortLinks int
}

func (s *Store) StartRun(cached bool) (BuildRun, error) {
	run := BuildRun{
		ID:        uuid.NewString(),
		StartedAt: now(),
		Cached:    cached,
		Status:    RunRunning,
	}
	if err := s.db.Create(&run).Error; err != nil {
		return BuildRun{}, errors.Wrap(err, "start run")
	}
	return run, nil
}

// FinishRun stores counts and the outcome of runID. A nil buildErr marks the
// run as succeeded.
func (s *Store) FinishRun(runID string, counts RunCounts, buildErr error) (BuildRun, error) {
	var run BuildRun
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&run, "id = ?", runID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRunNotFound
			}
			return err
		}

		var changed int64
		if err := tx.Model(&PageRecord{}).Where("run_id = ? AND changed = ?", runID, true).Count(&changed).Error; err != nil {
			return err
		}

		finished := now()
		run.FinishedAt = &finished
		run.Status = RunSucceeded
		run.Error = ""
		if buildErr != nil {
			run.Status = RunFailed
			run.Error = buildErr.Error()
		}
		run.Pages = counts.Pages
		run.ChangedPages = int(changed)
		run.Clubs = counts.Clubs
		run.Events = counts.Events
		run.Promoters = counts.Promoters
		run.ClubShortLinks = counts.ClubShortLinks
		run.EventShortLinks = counts.EventShortLinks
		return tx.Save(&run).Error
	})
	if err != nil {
		return BuildRun{}, errors.Wrapf(err, "finish run %s", runID)
	}
	return run, nil
}

func (s *Store) GetRun(runID string) (BuildRun, bool) {
	var run BuildRun
	if err := s.db.First(&run, "id = ?", runID).Error; err != nil {
		return BuildRun{}, false
	}
	return run, true
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]BuildRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []BuildRun
	if err := s.db.Order("started_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, errors.Wrap(err, "list runs")
	}
	return runs, nil
}

// LastPage returns the most recent record of route across all runs.
func (s *Store) LastPage(route string) (PageRecord, bool) {
	var rec PageRecord
	if err := s.db.Where("route = ?", route).Order("id desc").First(&rec).Error; err != nil {
		return PageRecord{}, false
	}
	return rec, true
}

func (s *Store) RunPages(runID string) ([]PageRecord, error) {
	var recs []PageRecord
	if err := s.db.Where("run_id = ?", runID).Order("id asc").Find(&recs).Error; err != nil {
		return nil, errors.Wrap(err, "list run pages")
	}
	return recs, nil
}

// PageLedger records the pages of a single run.
type PageLedger struct {
	store *Store
	runID string
}

func (s *Store) Recorder(runID string) *PageLedger {
	return &PageLedger{store: s, runID: runID}
}

// RecordPage stores a checksum of html and flags it as changed when it differs
// from the last recorded write of the same route.
func (l *PageLedger) RecordPage(route, kind, html string) error {
	sum := sha256.Sum256([]byte(html))
	checksum := hex.EncodeToString(sum[:])

	changed := true
	if prev, ok := l.store.LastPage(route); ok {
		changed = prev.Checksum != checksum
	}

	rec := PageRecord{
		RunID:    l.runID,
		Route:    route,
		Kind:     kind,
		Checksum: checksum,
		Changed:  changed,
	}
	return errors.Wrapf(l.store.db.Create(&rec).Error, "record page %s", route)
}
