package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gdg-garage/campus-events-api/internal/auth"
	"github.com/gdg-garage/campus-events-api/internal/config"
	"github.com/gdg-garage/campus-events-api/internal/events"
	"github.com/gdg-garage/campus-events-api/internal/handlers"
	"github.com/gdg-garage/campus-events-api/internal/registration"
	"github.com/gdg-garage/campus-events-api/internal/users"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Server wires the services to the HTTP router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux

	Users         *users.Repository
	Sessions      *auth.SessionService
	Events        *events.Service
	Registrations *registration.Service
}

func New(cfg *config.Config, db *gorm.DB) *Server {
	userRepo := users.NewRepository(db, cfg.StorageTimeout)
	tokens := auth.NewTokenManager(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	sessions := auth.NewSessionService(userRepo, tokens, auth.NewPasswordHasher(0))
	authenticator := auth.NewAuthenticator(tokens, userRepo)

	eventService := events.NewService(db, cfg.StorageTimeout)
	registrationService := registration.NewService(db, eventService, cfg.StorageTimeout)

	router := handlers.NewRouter(cfg, authenticator, handlers.Handlers{
		Users:         handlers.NewUserHandler(sessions, userRepo, tokens, cfg.CookieSecure),
		Events:        handlers.NewEventHandler(eventService),
		Registrations: handlers.NewRegistrationHandler(registrationService),
		Health:        handlers.NewHealthHandler(db),
	})

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:        router,
		Users:         userRepo,
		Sessions:      sessions,
		Events:        eventService,
		Registrations: registrationService,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
