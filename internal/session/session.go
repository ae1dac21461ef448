// Package session implements server-side sessions persisted in a MongoDB
// collection with a fixed 24-hour expiry, referenced by an HMAC-signed
// cookie. The session payload carries only non-sensitive identity fields and
// a one-shot flash queue.
package session

import (
	"time"
)

const (
	// TTL is the fixed session lifetime.
	TTL = 24 * time.Hour

	// CookieName holds the signed session id on the client.
	CookieName = "car_market_session"
)

// Flash is a one-shot notice: rendered on the next page, then discarded.
type Flash struct {
	Type    string `bson:"type" json:"type"` // "success" or "error"
	Message string `bson:"message" json:"message"`
}

// Identity is the signed-in user's non-sensitive payload. The password hash
// never enters the session.
type Identity struct {
	UserID    string `bson:"user_id" json:"user_id"`
	FirstName string `bson:"first_name" json:"first_name"`
	LastName  string `bson:"last_name" json:"last_name"`
	Email     string `bson:"email" json:"email"`
}

// Session is one live browser session.
type Session struct {
	ID        string    `bson:"_id"`
	User      *Identity `bson:"user,omitempty"`
	Flashes   []Flash   `bson:"flashes,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// Authenticated reports whether a user is signed in on this session.
func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil
}
