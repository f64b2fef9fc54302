package ui

import (
	"net/http"
	"time"

	"arbodash/internal"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// ProfilingHandler serves net/http/pprof under /debug on its own mux so
// the dashboard router never exposes it
func ProfilingHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.NoCache)
	r.Mount("/debug", chimw.Profiler())
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/debug/pprof/", http.StatusFound)
	})
	return r
}

// StartProfiling serves the profiling mux on addr in the background
func StartProfiling(addr string, logger *internal.Logger) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           ProfilingHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("pprof listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("pprof server stopped: %v", err)
		}
	}()
	return srv
}
