package domain

import (
	"time"
)

// User represents a registered user in the storefront. Name and Image are
// nullable display attributes: a nil pointer is a cleared field and is
// serialized as JSON null.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          *string    `json:"name"`
	Image         *string    `json:"image"`
	EmailVerified *time.Time `json:"email_verified"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ProfileUpdate describes a sparse update to a user's display attributes.
// The Set flags distinguish an absent key from an explicit null: an absent
// key leaves the column untouched, an explicit null clears it.
type ProfileUpdate struct {
	NameSet  bool
	Name     *string
	ImageSet bool
	Image    *string
}

// Empty reports whether the update carries no keys at all.
func (p ProfileUpdate) Empty() bool {
	return !p.NameSet && !p.ImageSet
}

// VerificationToken is a single-use token backing a magic sign-in link.
// TokenHash stores an HMAC of the raw token; the raw value is only ever
// sent in the email.
type VerificationToken struct {
	Identifier string    `json:"identifier"`
	TokenHash  string    `json:"-"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// Expired reports whether the token's lifetime has elapsed at the given time.
func (v VerificationToken) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
