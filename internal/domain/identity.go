package domain

// UserIdentity is the canonical identity value used to key server-held lists.
// It is produced exactly once per resolution by IdentityOf rather than by
// ad hoc fallback chains at call sites.
type UserIdentity string

// None is the zero identity, meaning anonymous.
const None UserIdentity = ""

// IsZero reports whether the identity is absent.
func (id UserIdentity) IsZero() bool {
	return id == None
}

// String returns the identity as a plain string for URL building.
func (id UserIdentity) String() string {
	return string(id)
}

// IdentityOf derives the canonical identity from a user object.
// Field priority: id, userId, _id, username, whatsappNumber.
// Returns None when no field is populated.
func IdentityOf(u *User) UserIdentity {
	if u == nil {
		return None
	}
	for _, candidate := range []string{u.ID, u.UserID, u.MongoID, u.Username, u.WhatsappNumber} {
		if candidate != "" {
			return UserIdentity(candidate)
		}
	}
	return None
}
