package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/janmarkuslanger/clubin-prerender/internal/auth"
	"github.com/janmarkuslanger/clubin-prerender/internal/store"
	"github.com/janmarkuslanger/graft/module"
	"github.com/janmarkuslanger/graft/router"
)

const defaultRunsLimit = 20

type buildLedger interface {
	EnqueueBuildTask(delay time.Duration) (store.BuildTask, error)
	RecentRuns(limit int) ([]store.BuildRun, error)
}

type buildDeps struct {
	Ledger   buildLedger
	Verifier *auth.TokenVerifier
	Debounce time.Duration
	Log      *logrus.Entry
}

func buildModule(deps buildDeps) *module.Module[buildDeps] {
	mod := &module.Module[buildDeps]{
		Name:        "build",
		BasePath:    "",
		Deps:        deps,
		Middlewares: []router.Middleware{requireToken(deps.Verifier)},
		Routes: []module.Route[buildDeps]{
			{Method: http.MethodPost, Path: "/build", Handler: handleBuild},
			{Method: http.MethodGet, Path: "/builds", Handler: handleBuilds},
		},
	}
	return mod
}

func handleBuild(ctx router.Context, deps buildDeps) {
	enqueueBuild(ctx.Writer, ctx.Request, deps)
}

func handleBuilds(ctx router.Context, deps buildDeps) {
	listBuilds(ctx.Writer, ctx.Request, deps)
}

// enqueueBuild queues a rebuild for the worker. Repeated calls within the
// debounce window collapse into one task.
func enqueueBuild(w http.ResponseWriter, _ *http.Request, deps buildDeps) {
	task, err := deps.Ledger.EnqueueBuildTask(deps.Debounce)
	if err != nil {
		deps.Log.WithError(err).Error("enqueue build failed")
		writeError(w, http.StatusInternalServerError, "could not enqueue build")
		return
	}

	deps.Log.WithFields(logrus.Fields{"task_id": task.ID, "next_run_at": task.NextRunAt}).Info("build enqueued")
	writeJSON(w, http.StatusAccepted, task)
}

func listBuilds(w http.ResponseWriter, r *http.Request, deps buildDeps) {
	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = parsed
	}

	runs, err := deps.Ledger.RecentRuns(limit)
	if err != nil {
		deps.Log.WithError(err).Error("list builds failed")
		writeError(w, http.StatusInternalServerError, "could not list builds")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func requireToken(verifier *auth.TokenVerifier) router.Middleware {
	return func(ctx router.Context, next router.HandlerFunc) {
		if !authorized(verifier, ctx.Request) {
			writeError(ctx.Writer, http.StatusUnauthorized, "invalid build token")
			return
		}
		next(ctx)
	}
}

func authorized(verifier *auth.TokenVerifier, r *http.Request) bool {
	return verifier != nil && verifier.VerifyRequest(r)
}
