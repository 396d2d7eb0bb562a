package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kepler-college/campusbot/internal/audit"
	"github.com/kepler-college/campusbot/internal/chat"
	"github.com/kepler-college/campusbot/internal/dashboard"
	"github.com/kepler-college/campusbot/internal/session"
)

// Config holds server configuration.
type Config struct {
	Port        int
	Logo        string // path to the sidebar logo image
	AllowAll    bool   // allow all CORS and websocket origins (dev mode)
	ExposeAudit bool   // mount /api/audit when an audit store is present
}

// Server is the CampusBot web server.
type Server struct {
	cfg        Config
	bot        *chat.Bot
	sessions   *session.Store
	audit      *audit.Store
	router     chi.Router
	httpServer *http.Server
}

// New creates a server for bot. auditStore may be nil. The audit API is only
// mounted when auditStore is set and cfg.ExposeAudit is true.
func New(cfg Config, bot *chat.Bot, sessions *session.Store, auditStore *audit.Store) *Server {
	s := &Server{
		cfg:      cfg,
		bot:      bot,
		sessions: sessions,
		audit:    auditStore,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware. No request timeout: provider calls run as long as the
	// client stays connected.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	dashboard.New(s.bot, s.sessions, s.cfg.Logo, s.cfg.AllowAll).RegisterRoutes(r)

	if s.audit != nil && s.cfg.ExposeAudit {
		audit.RegisterRoutes(r, s.audit)
	}

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Sessions returns the session store.
func (s *Server) Sessions() *session.Store { return s.sessions }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("campusbot server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
