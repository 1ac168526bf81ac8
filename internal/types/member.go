package types

import "time"

// Identity is what a verified ID token tells us about the caller.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
	AuthTime      time.Time
}

type Member struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
