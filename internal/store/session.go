package store

import "github.com/jewelapp/jewel-client/internal/domain"

// Session assembles the cached login state from the token and user keys.
// Either piece failing to read simply leaves it absent; the Session type
// itself enforces that a user without a token carries no identity.
func (s *Store) Session() *domain.Session {
	sess := &domain.Session{}

	var token string
	if s.getCache(keyToken, &token) {
		sess.Token = token
	}

	var user domain.User
	if s.getCache(keyUser, &user) {
		sess.User = &user
	}

	return sess
}

// Token returns the session token, or empty when logged out.
// Implements the remote client's token source.
func (s *Store) Token() string {
	var token string
	if !s.getCache(keyToken, &token) {
		return ""
	}
	return token
}

// SaveSession persists a fresh login: token and user together.
// The two writes are not atomic as a group; Session tolerates reading a
// half-written pair.
func (s *Store) SaveSession(token string, user *domain.User) error {
	if err := s.set(keyToken, token); err != nil {
		return err
	}
	if user != nil {
		return s.set(keyUser, user)
	}
	return nil
}

// SaveUser overwrites the cached user object, keeping the token unchanged.
// Used when a profile fetch or update returns a fuller object.
func (s *Store) SaveUser(user *domain.User) error {
	return s.set(keyUser, user)
}

// ClearSession removes the token and user, returning to anonymous mode.
// Cached lists are deliberately left in place, matching the storefront's
// logout behavior.
func (s *Store) ClearSession() error {
	if err := s.delete(keyToken); err != nil {
		return err
	}
	return s.delete(keyUser)
}
