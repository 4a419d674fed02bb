package domain

import "time"

// User is the identity record held in the directory. Email is unique across
// the directory. PasswordHash is an argon2 PHC string and must never appear
// in an outward-facing response; Sanitize strips it before a record crosses
// the service boundary.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sanitize returns a copy safe to hand to callers and serializers.
func (u User) Sanitize() User {
	u.PasswordHash = ""
	return u
}
