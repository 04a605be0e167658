package stubapi

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jewelapp/jewel-client/internal/auth"
	"github.com/jewelapp/jewel-client/internal/domain"
	errs "github.com/jewelapp/jewel-client/internal/errors"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, func(_ context.Context, _ *struct{}) (*HealthOutput, error) {
		return &HealthOutput{Body: HealthResponse{Status: "ok"}}, nil
	})
}

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "signup",
		Method:      http.MethodPost,
		Path:        "/api/auth/signup",
		Summary:     "Create account",
		Tags:        []string{"Auth"},
	}, s.handleSignup)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Log in",
		Tags:        []string{"Auth"},
	}, s.handleLogin)
}

// === DTOs ===

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status string `json:"status" doc:"Server status"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

// SignupRequest is the request body for account creation.
type SignupRequest struct {
	Username       string `json:"username" validate:"required,min=3,max=50" doc:"Unique username"`
	Password       string `json:"password" validate:"required,min=8,max=128" doc:"Password"`
	WhatsappNumber string `json:"whatsappNumber,omitempty" validate:"omitempty,min=8,max=20" doc:"Contact number"`
}

// SignupInput wraps the signup request for Huma.
type SignupInput struct {
	Body SignupRequest
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Username string `json:"username" validate:"required" doc:"Username"`
	Password string `json:"password" validate:"required" doc:"Password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// AuthResponse carries a session token and its user.
type AuthResponse struct {
	Token string       `json:"token" doc:"PASETO access token"`
	User  *domain.User `json:"user" doc:"Authenticated user"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// === Handlers ===

func (s *Server) handleSignup(ctx context.Context, input *SignupInput) (*AuthOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Body.Password)
	if err != nil {
		return nil, errs.Wrap(err, errs.CodeInternal, "hash password")
	}

	user := &domain.User{
		Username:       input.Body.Username,
		WhatsappNumber: input.Body.WhatsappNumber,
		Role:           domain.RoleCustomer,
	}
	if err := s.store.CreateUser(ctx, user, hash); err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, errs.Wrap(err, errs.CodeInternal, "issue token")
	}

	s.logger.Info("user signed up", "user_id", user.ID, "username", user.Username)
	return &AuthOutput{Body: AuthResponse{Token: token, User: user}}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	record, err := s.store.GetUserByUsername(ctx, input.Body.Username)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, errs.InvalidCredentials("invalid username or password")
		}
		return nil, err
	}

	if !auth.VerifyPassword(record.PasswordHash, input.Body.Password) {
		return nil, errs.InvalidCredentials("invalid username or password")
	}

	token, err := s.tokens.GenerateAccessToken(&record.User)
	if err != nil {
		return nil, errs.Wrap(err, errs.CodeInternal, "issue token")
	}

	return &AuthOutput{Body: AuthResponse{Token: token, User: &record.User}}, nil
}
