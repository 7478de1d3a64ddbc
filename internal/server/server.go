package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"secrethitler/internal/config"
	"secrethitler/internal/session"
)

const shutdownTimeout = 10 * time.Second

// Server ties together HTTP serving, WebSocket handling and the session
// registry.
type Server struct {
	cfg      config.Config
	hub      *Hub
	registry *session.Registry
	handlers *Handlers
}

func New(cfg config.Config) *Server {
	hub := NewHub()
	opts := session.DefaultOptions()
	opts.ChatLogSize = cfg.ChatLogSize
	opts.IdleTimeout = cfg.IdleTimeout
	registry := session.NewRegistry(opts, hub)

	return &Server{
		cfg:      cfg,
		hub:      hub,
		registry: registry,
		handlers: NewHandlers(registry, hub, cfg.PublicURL, cfg.AllowedOrigins),
	}
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	m := mux.NewRouter()
	// WebSocket for all game traffic.
	m.HandleFunc("/ws", s.handlers.HandleWS).Methods("GET")
	// Join link as a QR code.
	m.HandleFunc("/api/sessions/{id}/qr", s.handlers.HandleQR).Methods("GET")
	m.HandleFunc("/healthz", s.handlers.HandleHealth).Methods("GET")
	return m
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.registry.Run(ctx, s.cfg.SweepInterval)

	errc := make(chan error, 1)
	go func() {
		log.Printf("secret hitler server listening on %s", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
