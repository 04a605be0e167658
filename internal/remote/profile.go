package remote

import (
	"context"
	"net/http"

	"github.com/jewelapp/jewel-client/internal/domain"
)

// ProfileService fetches and updates the authenticated user's profile.
// Unlike the list services it surfaces errors as-is: callers care about
// the difference between an expired session and a flaky network.
type ProfileService struct {
	client *Client
}

func NewProfileService(client *Client) *ProfileService {
	return &ProfileService{client: client}
}

// Me returns the profile of the user the session token belongs to.
func (s *ProfileService) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := s.client.doJSON(ctx, http.MethodGet, "/api/user/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update sends changed profile fields and returns the updated profile.
func (s *ProfileService) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	var updated domain.User
	if err := s.client.doJSON(ctx, http.MethodPut, "/api/user/update", nil, user, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
