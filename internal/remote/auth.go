package remote

import (
	"context"
	"net/http"

	"github.com/jewelapp/jewel-client/internal/domain"
)

// AuthService performs credential exchange against the backend.
type AuthService struct {
	client *Client
}

func NewAuthService(client *Client) *AuthService {
	return &AuthService{client: client}
}

// Credentials is a username and password pair.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupRequest carries the fields collected at registration.
type SignupRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	WhatsappNumber string `json:"whatsappNumber,omitempty"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login exchanges credentials for a session.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (*domain.Session, error) {
	var resp authResponse
	if err := s.client.doJSON(ctx, http.MethodPost, "/api/auth/login", nil, creds, &resp); err != nil {
		return nil, err
	}
	return &domain.Session{Token: resp.Token, User: resp.User}, nil
}

// Signup registers a new account and returns its first session.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*domain.Session, error) {
	var resp authResponse
	if err := s.client.doJSON(ctx, http.MethodPost, "/api/auth/signup", nil, req, &resp); err != nil {
		return nil, err
	}
	return &domain.Session{Token: resp.Token, User: resp.User}, nil
}
