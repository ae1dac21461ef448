package domain

import "time"

// DefaultAvatarURL is assigned to new accounts until a custom avatar is set.
const DefaultAvatarURL = "/images/default-avatar.png"

type Location struct {
	City    string
	Country string
}

// User is a marketplace account. PasswordHash is the bcrypt hash; the
// plaintext never leaves the registration/login request.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Phone        string
	WhatsApp     string
	Location     Location
	AvatarURL    string
	IsVerified   bool
	JoinedAt     time.Time
	UpdatedAt    time.Time
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// ProfileUpdate carries the self-service editable fields. Identity fields
// (email, password) are not updatable through this path.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Phone     string
	WhatsApp  string
	Location  Location
}
