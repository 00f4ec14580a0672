package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/campus-events-api/internal/auth"
	"github.com/gdg-garage/campus-events-api/internal/authz"
	"github.com/gdg-garage/campus-events-api/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Users         *UserHandler
	Events        *EventHandler
	Registrations *RegistrationHandler
	Health        *HealthHandler
}

// NewRouter builds the chi router with the shared middleware stack and every
// API operation mounted.
func NewRouter(cfg *config.Config, authn *auth.Authenticator, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{cfg.CORSOrigin},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Use(authn.Middleware)

	api := NewAPI(r)
	RegisterRoutes(api, h)
	return r
}

func RegisterRoutes(api huma.API, h Handlers) {
	registerPublic(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Service health",
		Tags:        []string{"Health"},
	}, h.Health.HandleHealth)

	// Accounts
	registerPublic(api, huma.Operation{
		OperationID:   "register-user",
		Method:        http.MethodPost,
		Path:          "/users/register",
		Summary:       "Create an account",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusCreated,
	}, h.Users.HandleRegister)
	registerPublic(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/users/login",
		Summary:     "Log in with email and password",
		Tags:        []string{"Users"},
	}, h.Users.HandleLogin)
	registerPublic(api, huma.Operation{
		OperationID: "refresh-token",
		Method:      http.MethodPost,
		Path:        "/users/refresh-token",
		Summary:     "Exchange a refresh token for a new token pair",
		Tags:        []string{"Users"},
	}, h.Users.HandleRefresh)
	register(api, authz.Logout, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/users/logout",
		Summary:     "Revoke the current session",
		Tags:        []string{"Users"},
	}, h.Users.HandleLogout)
	register(api, authz.ViewProfile, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/users/me",
		Summary:     "Current user",
		Tags:        []string{"Users"},
	}, h.Users.HandleMe)

	// Events
	register(api, authz.ListEvents, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "List events",
		Tags:        []string{"Events"},
	}, h.Events.HandleList)
	register(api, authz.ViewEventStats, huma.Operation{
		OperationID: "event-stats",
		Method:      http.MethodGet,
		Path:        "/events/admin/stats/all",
		Summary:     "Registration totals for every event",
		Tags:        []string{"Events", "Admin"},
	}, h.Registrations.HandleStats)
	register(api, authz.ReadEvent, huma.Operation{
		OperationID: "get-event",
		Method:      http.MethodGet,
		Path:        "/events/{id}",
		Summary:     "Get an event",
		Tags:        []string{"Events"},
	}, h.Events.HandleGet)
	register(api, authz.CreateEvent, huma.Operation{
		OperationID:   "create-event",
		Method:        http.MethodPost,
		Path:          "/events",
		Summary:       "Create an event",
		Tags:          []string{"Events", "Admin"},
		DefaultStatus: http.StatusCreated,
	}, h.Events.HandleCreate)
	register(api, authz.UpdateEvent, huma.Operation{
		OperationID: "update-event",
		Method:      http.MethodPut,
		Path:        "/events/{id}",
		Summary:     "Update an event",
		Tags:        []string{"Events", "Admin"},
	}, h.Events.HandleUpdate)
	register(api, authz.DeleteEvent, huma.Operation{
		OperationID: "delete-event",
		Method:      http.MethodDelete,
		Path:        "/events/{id}",
		Summary:     "Delete an event and its registrations",
		Tags:        []string{"Events", "Admin"},
	}, h.Events.HandleDelete)

	// Registrations
	register(api, authz.RegisterForEvent, huma.Operation{
		OperationID:   "register-for-event",
		Method:        http.MethodPost,
		Path:          "/registrations/register/{eventId}",
		Summary:       "Register the current user for an event",
		Tags:          []string{"Registrations"},
		DefaultStatus: http.StatusCreated,
	}, h.Registrations.HandleRegister)
	register(api, authz.ListOwnRegistrations, huma.Operation{
		OperationID: "my-registrations",
		Method:      http.MethodGet,
		Path:        "/registrations/my",
		Summary:     "Events the current user is registered for",
		Tags:        []string{"Registrations"},
	}, h.Registrations.HandleMine)
	register(api, authz.CheckOwnRegistration, huma.Operation{
		OperationID: "check-registration",
		Method:      http.MethodGet,
		Path:        "/registrations/check/{eventId}",
		Summary:     "Whether the current user is registered for an event",
		Tags:        []string{"Registrations"},
	}, h.Registrations.HandleCheck)
	register(api, authz.ViewEventRegistrations, huma.Operation{
		OperationID: "event-registrations",
		Method:      http.MethodGet,
		Path:        "/registrations/admin/{eventId}",
		Summary:     "Registrants of an event",
		Tags:        []string{"Registrations", "Admin"},
	}, h.Registrations.HandleEventRegistrants)
}
