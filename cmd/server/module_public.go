package main

import (
	"net/http"
	"path/filepath"

	"github.com/janmarkuslanger/graft/module"
	"github.com/janmarkuslanger/graft/router"
)

type publicDeps struct {
	OutputDir string
}

func publicModule(deps publicDeps) *module.Module[publicDeps] {
	mod := &module.Module[publicDeps]{
		Name:     "public",
		BasePath: "",
		Deps:     deps,
		Routes: []module.Route[publicDeps]{
			{Method: http.MethodGet, Path: "/", Handler: handleHome},
			{Method: http.MethodGet, Path: "/sitemap.xml", Handler: handleSitemap},
		},
	}
	return mod
}

func handleHome(ctx router.Context, deps publicDeps) {
	serveHome(ctx.Writer, ctx.Request, deps)
}

func handleSitemap(ctx router.Context, deps publicDeps) {
	serveSitemap(ctx.Writer, ctx.Request, deps)
}

// serveHome answers the root document, which the build never rewrites.
func serveHome(w http.ResponseWriter, r *http.Request, deps publicDeps) {
	serveFile(w, r, filepath.Join(deps.OutputDir, "index.html"), "text/html; charset=utf-8")
}

func serveSitemap(w http.ResponseWriter, r *http.Request, deps publicDeps) {
	serveFile(w, r, filepath.Join(deps.OutputDir, "sitemap.xml"), "application/xml; charset=utf-8")
}
