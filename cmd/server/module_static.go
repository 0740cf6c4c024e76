package main

import (
	"path/filepath"

	"github.com/janmarkuslanger/graft/router"
)

// prerenderedPrefixes are the route trees the build writes into OutputDir.
var prerenderedPrefixes = []string{"clubs", "events", "promoters", "c", "e", "assets"}

type staticModule struct {
	OutputDir string
}

func (m staticModule) BuildRoutes(r router.Router) {
	if m.OutputDir == "" {
		return
	}
	for _, prefix := range prerenderedPrefixes {
		r.Static("/"+prefix, filepath.Join(m.OutputDir, prefix))
	}
}
