// Package session owns the login and logout flows.
package session

import (
	"context"
	"log/slog"

	"github.com/jewelapp/jewel-client/internal/domain"
	errs "github.com/jewelapp/jewel-client/internal/errors"
	"github.com/jewelapp/jewel-client/internal/notify"
	"github.com/jewelapp/jewel-client/internal/remote"
)

// Store is the slice of the local store the session flow needs.
type Store interface {
	Session() *domain.Session
	SaveSession(token string, user *domain.User) error
	ClearSession() error
}

// AuthBackend exchanges credentials for a session.
type AuthBackend interface {
	Login(ctx context.Context, creds remote.Credentials) (*domain.Session, error)
	Signup(ctx context.Context, req remote.SignupRequest) (*domain.Session, error)
}

// Merger folds the anonymous local lists into the account after login.
type Merger interface {
	MergeOnLogin(ctx context.Context) error
}

// Resetter is notified when the session changes owners.
type Resetter interface {
	Reset()
}

// Emitter receives session events.
type Emitter interface {
	Emit(event notify.Event)
}

// Service logs users in and out and keeps the cached session, the
// identity resolver and the list caches consistent while doing so.
type Service struct {
	store    Store
	auth     AuthBackend
	merger   Merger
	resolver Resetter
	emitter  Emitter
	logger   *slog.Logger
}

// NewService creates a session service.
func NewService(store Store, auth AuthBackend, merger Merger, resolver Resetter, emitter Emitter, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		auth:     auth,
		merger:   merger,
		resolver: resolver,
		emitter:  emitter,
		logger:   logger,
	}
}

// Current returns the cached session.
func (s *Service) Current() *domain.Session {
	return s.store.Session()
}

// Login authenticates, persists the session, and folds the anonymous
// local lists into the account. A failed merge does not fail the
// login; the lists are marked diverged and reconcile on the next sync.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, error) {
	sess, err := s.auth.Login(ctx, remote.Credentials{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, sess)
}

// Signup registers a new account and establishes its first session.
func (s *Service) Signup(ctx context.Context, username, password, whatsappNumber string) (*domain.User, error) {
	sess, err := s.auth.Signup(ctx, remote.SignupRequest{
		Username:       username,
		Password:       password,
		WhatsappNumber: whatsappNumber,
	})
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, sess)
}

func (s *Service) establish(ctx context.Context, sess *domain.Session) (*domain.User, error) {
	if sess.Token == "" {
		return nil, errs.Internal("backend returned a session without a token")
	}

	if err := s.store.SaveSession(sess.Token, sess.User); err != nil {
		return nil, errs.Wrap(err, errs.CodeInternal, "persist session")
	}
	s.resolver.Reset()

	if err := s.merger.MergeOnLogin(ctx); err != nil {
		s.logger.Warn("list merge after login failed", "error", err)
	}

	s.emitter.Emit(notify.NewEvent(notify.EventSessionLogin, notify.SessionEventData{
		User: sess.User,
	}))
	return sess.User, nil
}

// Logout clears the session token and cached profile. The cached cart
// and wishlist stay; an anonymous visitor keeps browsing with them.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.ClearSession(); err != nil {
		return errs.Wrap(err, errs.CodeInternal, "clear session")
	}
	s.resolver.Reset()

	s.emitter.Emit(notify.NewEvent(notify.EventSessionLogout, notify.SessionEventData{}))
	return nil
}
