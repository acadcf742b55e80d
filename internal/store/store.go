// Package store persists the client-side state the browser front end kept
// in localStorage and sessionStorage: the auth token, the current-user
// snapshot, and short-lived caches.
package store

import (
	"github.com/Likhith-Bhargav/talent-link/internal/models"
)

// Credentials is the durable slice of session state. Token and User are
// saved and cleared together.
type Credentials struct {
	Token string       `json:"token"`
	User  *models.User `json:"user,omitempty"`
}

// Store owns the durable credential snapshot.
type Store interface {
	// Load returns the stored credentials, or (nil, nil) when none exist.
	Load() (*Credentials, error)
	// Save replaces the stored credentials wholesale.
	Save(*Credentials) error
	// Clear removes any stored credentials.
	Clear() error
}
