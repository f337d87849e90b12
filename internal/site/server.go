package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"

	"github.com/ziadkadry99/canvasdoc/internal/db"
	"github.com/ziadkadry99/canvasdoc/internal/logging"
)

// ServeConfig holds dev server configuration.
type ServeConfig struct {
	Dir  string // generated site directory
	Port int
	Open bool // open a browser once listening

	// State exposes build state on /api/pages. Optional.
	State *db.DB
}

// Server serves a generated site with live reload.
type Server struct {
	cfg    ServeConfig
	hub    *Hub
	router chi.Router
	logger *log.Logger
}

// NewServer creates a Server for cfg.
func NewServer(cfg ServeConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{cfg: cfg, hub: NewHub(logger), logger: logger}
	s.router = s.buildRouter()
	return s
}

// Hub returns the live reload hub. Broadcast on it after a rebuild.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the HTTP handler serving the site.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/livereload", s.hub.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/api/pages", s.handlePages)
	})

	r.Handle("/*", http.FileServer(http.Dir(s.cfg.Dir)))
	return r
}

// pagesResponse is the JSON response for GET /api/pages.
type pagesResponse struct {
	Build *db.Build `json:"build"`
	Pages []db.Page `json:"pages"`
}

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	if s.cfg.State == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "build state unavailable"})
		return
	}
	ctx := r.Context()

	build, err := s.cfg.State.LatestBuild(ctx)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		s.logger.Error("reading latest build", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "reading build state"})
		return
	}
	pages, err := s.cfg.State.ListPages(ctx, r.URL.Query().Get("kind"))
	if err != nil {
		s.logger.Error("listing pages", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "reading build state"})
		return
	}
	if pages == nil {
		pages = []db.Page{}
	}
	writeJSON(w, http.StatusOK, pagesResponse{Build: build, Pages: pages})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Serve starts a local HTTP server for the static site and blocks until
// ctx is cancelled.
func Serve(ctx context.Context, s *Server) error {
	logger := logging.FromContext(ctx)
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	url := fmt.Sprintf("http://localhost:%d", s.cfg.Port)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	logger.Info("serving site", "url", url, "dir", s.cfg.Dir)
	if s.cfg.Open {
		go openBrowser(url)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
