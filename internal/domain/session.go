package domain

// Session is the locally cached login state: an opaque bearer token and the
// user object the backend returned at login time.
type Session struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// IsLoggedIn reports whether a session token is present.
func (s *Session) IsLoggedIn() bool {
	return s != nil && s.Token != ""
}

// Identity returns the canonical identity for this session.
// Invariant: a cached user object without a token is stale and must be
// ignored, so the identity is None whenever the token is absent.
func (s *Session) Identity() UserIdentity {
	if !s.IsLoggedIn() {
		return None
	}
	return IdentityOf(s.User)
}
