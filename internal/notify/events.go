// Package notify broadcasts state-change events to in-process subscribers.
//
// Views subscribe once and re-render whenever the lists or session
// change; nothing in the client ever polls the store. Events carry the
// full payload needed to render so subscribers do not have to read the
// store back inside the handler.
package notify

import (
	"time"

	"github.com/jewelapp/jewel-client/internal/domain"
)

// EventType represents the type of a client event.
type EventType string

const (
	// EventCartUpdated fires after any cart mutation or refresh.
	EventCartUpdated EventType = "cart.updated"
	// EventWishlistUpdated fires after any wishlist mutation or refresh.
	EventWishlistUpdated EventType = "wishlist.updated"

	// EventSessionLogin fires after a successful login, once the
	// local lists have been merged into the account.
	EventSessionLogin EventType = "session.login"
	// EventSessionLogout fires after the session has been cleared.
	EventSessionLogout EventType = "session.logout"

	// EventCatalogUpdated fires after a catalog refresh.
	EventCatalogUpdated EventType = "catalog.updated"

	// EventOrderPlaced fires after checkout completes.
	EventOrderPlaced EventType = "order.placed"

	// EventPrefsUpdated fires when a display preference changes.
	EventPrefsUpdated EventType = "prefs.updated"
)

// Event is a single client event delivered to subscribers.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// CartEventData is the payload for cart events. Badge carries the
// total unit count for header-style counters.
type CartEventData struct {
	Items domain.Cart      `json:"items"`
	State domain.SyncState `json:"state"`
	Badge int              `json:"badge"`
}

// WishlistEventData is the payload for wishlist events.
type WishlistEventData struct {
	ProductIDs domain.Wishlist  `json:"productIds"`
	State      domain.SyncState `json:"state"`
	Badge      int              `json:"badge"`
}

// SessionEventData is the payload for login and logout events.
type SessionEventData struct {
	User *domain.User `json:"user,omitempty"`
}

// CatalogEventData is the payload for catalog refresh events.
type CatalogEventData struct {
	Products int `json:"products"`
}

// OrderEventData is the payload for order events.
type OrderEventData struct {
	Order *domain.Order `json:"order"`
}

// PrefsEventData is the payload for preference events.
type PrefsEventData struct {
	DarkMode bool `json:"darkMode"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(eventType EventType, data any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}
