package main

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/janmarkuslanger/clubin-prerender/internal/store"
	"github.com/janmarkuslanger/graft/router"
)

// bootModule queues a first build when the output has never been pre-rendered.
type bootModule struct {
	Ledger    *store.Store
	OutputDir string
	Log       *logrus.Entry
}

func (m bootModule) BuildRoutes(r router.Router) {}

func (m bootModule) OnStart() {
	if m.Ledger == nil || prerendered(m.OutputDir) {
		return
	}

	task, err := m.Ledger.EnqueueBuildTask(0)
	if err != nil {
		m.Log.WithError(err).Fatal("could not queue initial build")
	}
	m.Log.WithField("task_id", task.ID).Info("no pre-rendered pages found, initial build queued")
}

func prerendered(outputDir string) bool {
	_, err := os.Stat(filepath.Join(outputDir, "clubs", "index.html"))
	return err == nil
}
