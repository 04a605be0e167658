// Package identity resolves the user identifier that keys every
// backend list call.
//
// The backend accepts several historical identifier shapes, so the
// resolver walks the cached profile in a fixed priority order and pins
// the first identity it resolves for the lifetime of the session. A
// profile whose identifier fields later disagree with the pinned value
// is logged and ignored; lists must never silently switch owners
// mid-session.
package identity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jewelapp/jewel-client/internal/domain"
)

// SessionStore provides the cached session and accepts recovered
// profile data. The local store implements this.
type SessionStore interface {
	Session() *domain.Session
	SaveUser(user *domain.User) error
}

// ProfileFetcher retrieves the authenticated user's profile from the
// backend. The remote profile service implements this.
type ProfileFetcher interface {
	Me(ctx context.Context) (*domain.User, error)
}

// Resolver determines the user identity for backend list calls.
type Resolver struct {
	sessions SessionStore
	profile  ProfileFetcher
	logger   *slog.Logger

	mu        sync.Mutex
	pinned    domain.UserIdentity
	recovered bool
}

// NewResolver creates an identity resolver backed by the given session
// store and profile fetcher.
func NewResolver(sessions SessionStore, profile ProfileFetcher, logger *slog.Logger) *Resolver {
	return &Resolver{
		sessions: sessions,
		profile:  profile,
		logger:   logger,
	}
}

// Resolve returns the identity to key backend calls with, and whether
// one is available. Without a session token it always reports no
// identity, even when stale profile data is still cached.
//
// When a token exists but the cached profile has no usable identifier,
// Resolve attempts profile recovery from the backend once per session.
func (r *Resolver) Resolve(ctx context.Context) (domain.UserIdentity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess := r.sessions.Session()
	if !sess.IsLoggedIn() {
		return domain.None, false
	}

	id := sess.Identity()
	if id.IsZero() && !r.recovered {
		id = r.recoverProfile(ctx, sess.User)
	}
	if id.IsZero() {
		return domain.None, false
	}

	if r.pinned.IsZero() {
		r.pinned = id
		r.logger.Debug("identity pinned", "identity", id.String())
	} else if r.pinned != id {
		r.logger.Warn("identity flapped, keeping pinned value",
			"pinned", r.pinned.String(),
			"resolved", id.String())
	}
	return r.pinned, true
}

// recoverProfile fetches the profile from the backend and merges it
// over the cached user. It runs at most once per session regardless of
// outcome; a backend that keeps failing should not be hammered on
// every list operation.
func (r *Resolver) recoverProfile(ctx context.Context, cached *domain.User) domain.UserIdentity {
	r.recovered = true

	fetched, err := r.profile.Me(ctx)
	if err != nil {
		r.logger.Warn("profile recovery failed", "error", err)
		return domain.None
	}

	merged := *fetched
	if cached != nil {
		merged = cached.Merge(fetched)
	}
	if err := r.sessions.SaveUser(&merged); err != nil {
		r.logger.Warn("caching recovered profile failed", "error", err)
	}
	return domain.IdentityOf(&merged)
}

// Reset clears the pinned identity and the recovery marker. Call it on
// login and logout, when the session genuinely changes owners.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pinned = domain.None
	r.recovered = false
}
