package stubapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jewelapp/jewel-client/internal/auth"
	domainerrors "github.com/jewelapp/jewel-client/internal/errors"
	"github.com/jewelapp/jewel-client/internal/validation"
)

// Server is the development backend HTTP server.
type Server struct {
	store     *Store
	tokens    *auth.TokenService
	validator *validation.Validator
	router    *chi.Mux
	api       huma.API
	logger    *slog.Logger
}

// NewServer creates the development backend with all routes configured.
func NewServer(store *Store, tokens *auth.TokenService, logger *slog.Logger) *Server {
	s := &Server{
		store:     store,
		tokens:    tokens,
		validator: validation.New(),
		router:    chi.NewRouter(),
		logger:    logger,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(s.authContext)

	humaConfig := huma.DefaultConfig("Jewel Dev API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	s.api = humachi.New(s.router, humaConfig)
	registerErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerCartRoutes()
	s.registerWishlistRoutes()
	s.registerProductRoutes()
	s.registerOrderRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API for tests.
func (s *Server) API() huma.API {
	return s.api
}

// apiError implements huma.StatusError over the domain error shape, so
// client-side code sees the same {code, message} body everywhere.
type apiError struct {
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

func (e *apiError) Error() string {
	return e.Message
}

func (e *apiError) GetStatus() int {
	return e.status
}

func (e *apiError) ContentType(_ string) string {
	return "application/json"
}

// registerErrorHandler configures huma to emit domain errors.
// Call after creating the huma.API but before registering routes.
func registerErrorHandler() {
	huma.NewError = func(status int, message string, errList ...error) huma.StatusError {
		for _, err := range errList {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				return &apiError{
					status:  domainErr.HTTPStatus(),
					Code:    string(domainErr.Code),
					Message: domainErr.Message,
					Details: domainErr.Details,
				}
			}
		}
		return &apiError{
			status:  status,
			Code:    statusToCode(status),
			Message: message,
		}
	}
}

func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(domainerrors.CodeValidation)
	case http.StatusUnauthorized:
		return string(domainerrors.CodeUnauthorized)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	default:
		return string(domainerrors.CodeInternal)
	}
}
