package domain

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants access to the back-office endpoints.
	RoleAdmin Role = "ADMIN"
	// RoleCustomer grants standard storefront access.
	RoleCustomer Role = "CUSTOMER"
)

// User represents a storefront account as returned by the backend.
//
// Identity fields are deliberately loose: different backend versions have
// keyed users by id, userId, _id, username, or whatsappNumber. IdentityOf
// collapses them into a single canonical value at the session boundary.
type User struct {
	ID              string `json:"id,omitempty"`
	UserID          string `json:"userId,omitempty"`
	MongoID         string `json:"_id,omitempty"`
	Username        string `json:"username,omitempty"`
	WhatsappNumber  string `json:"whatsappNumber,omitempty"`
	AlternateNumber string `json:"alternateNumber,omitempty"`
	Address         string `json:"address,omitempty"`
	Pincode         string `json:"pincode,omitempty"`
	State           string `json:"state,omitempty"`
	District        string `json:"district,omitempty"`
	Role            Role   `json:"role,omitempty"`
}

// IsAdmin returns true if the user has back-office privileges.
// The username fallback mirrors legacy accounts created before roles existed.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Username == "admin"
}

// Merge overlays non-empty fields of other onto a copy of u.
// Used when a profile recovery fetch returns a fuller user object than
// the one cached locally.
func (u User) Merge(other *User) User {
	if other == nil {
		return u
	}
	merged := u
	if other.ID != "" {
		merged.ID = other.ID
	}
	if other.UserID != "" {
		merged.UserID = other.UserID
	}
	if other.MongoID != "" {
		merged.MongoID = other.MongoID
	}
	if other.Username != "" {
		merged.Username = other.Username
	}
	if other.WhatsappNumber != "" {
		merged.WhatsappNumber = other.WhatsappNumber
	}
	if other.AlternateNumber != "" {
		merged.AlternateNumber = other.AlternateNumber
	}
	if other.Address != "" {
		merged.Address = other.Address
	}
	if other.Pincode != "" {
		merged.Pincode = other.Pincode
	}
	if other.State != "" {
		merged.State = other.State
	}
	if other.District != "" {
		merged.District = other.District
	}
	if other.Role != "" {
		merged.Role = other.Role
	}
	return merged
}
