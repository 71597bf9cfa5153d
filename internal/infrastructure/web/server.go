package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"nexaplan/internal/application/port/input"
	"nexaplan/internal/application/port/output"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

//go:embed static
var staticFiles embed.FS

type Config struct {
	Addr string
	// JSONAccessLog switches the access log from concise text to JSON.
	JSONAccessLog bool
}

type Server struct {
	runner input.PipelineRunner
	store  output.RunStore
	hub    *Hub
	logger output.LoggerPort
	cfg    Config
}

// NewServer builds the web front end. store may be nil, which disables the
// history endpoints.
func NewServer(runner input.PipelineRunner, store output.RunStore, hub *Hub, logger output.LoggerPort, cfg Config) *Server {
	return &Server{
		runner: runner,
		store:  store,
		hub:    hub,
		logger: logger,
		cfg:    cfg,
	}
}

func (s *Server) Handler() (http.Handler, error) {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("static fs: %w", err)
	}

	accessLog := httplog.NewLogger("nexaplan", httplog.Options{
		JSON:    s.cfg.JSONAccessLog,
		Concise: !s.cfg.JSONAccessLog,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(accessLog))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/options", s.getOptions)
		r.Post("/runs", s.createRun)
		r.Get("/runs", s.listRuns)
		r.Get("/runs/{id}", s.getRun)
		r.Get("/ws", s.handleWebSocket)
	})

	r.Handle("/*", http.FileServer(http.FS(staticFS)))

	return r, nil
}

func (s *Server) Start(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	go s.hub.Run(ctx)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("web server listening", "addr", s.cfg.Addr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
