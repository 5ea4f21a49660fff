// Package server wires the HTTP/WebSocket surface (§6) onto the session
// orchestrator: request/response compute, a streaming WS session, bundled
// preset discovery, and the visualizer's static asset mounts.
package server

import (
	"net/http"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gorilla/mux"

	"github.com/caba-llero/pytellite/config"
)

// Server bundles the dependencies every handler needs: the bundled
// defaults, the directory presets are read from, the visualizer's static
// asset roots, and a logger.
type Server struct {
	Defaults    config.SimulationConfig
	PresetsDir  string
	StaticDir   string
	TexturesDir string
	Logger      kitlog.Logger
}

// New constructs a Server; a nil logger becomes a no-op logger so callers
// always have a usable one.
func New(defaults config.SimulationConfig, presetsDir, staticDir, texturesDir string, logger kitlog.Logger) *Server {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Server{
		Defaults:    defaults,
		PresetsDir:  presetsDir,
		StaticDir:   staticDir,
		TexturesDir: texturesDir,
		Logger:      logger,
	}
}

// corsMiddleware allows the bundled visualizer to be served from a
// different origin during development, in the style of the pack's
// real-time-collaborative-task-board server.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Router builds the full mux.Router described by §6.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/api/defaults", s.handleDefaults).Methods(http.MethodGet)
	r.HandleFunc("/api/presets", s.handlePresets).Methods(http.MethodGet)
	r.HandleFunc("/api/presets/{filename}", s.handlePresetFile).Methods(http.MethodGet)
	r.HandleFunc("/api/compute", s.handleCompute).Methods(http.MethodPost)
	r.HandleFunc("/ws", s.handleWS)

	r.HandleFunc("/", s.servePage("config.html")).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleIndexHead).Methods(http.MethodHead)
	r.HandleFunc("/simulation", s.servePage("index.html")).Methods(http.MethodGet)
	r.HandleFunc("/loading", s.servePage("loading.html")).Methods(http.MethodGet)

	for _, asset := range []string{
		"/logo.png", "/apple-touch-icon.png", "/favicon-32x32.png",
		"/favicon-16x16.png", "/site.webmanifest",
	} {
		r.HandleFunc(asset, s.serveStaticFile(asset)).Methods(http.MethodGet)
	}

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(s.StaticDir))))
	r.PathPrefix("/textures/").Handler(http.StripPrefix("/textures/", http.FileServer(http.Dir(s.TexturesDir))))

	return corsMiddleware(r)
}
