package domain

import "time"

// Claims is the identity payload embedded in signed tokens. The shape is
// closed: Sub, Email, Username and Role are all required for a token to be
// accepted.
type Claims struct {
	Sub       string    `json:"sub"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// Complete reports whether every required claim field is present.
func (c Claims) Complete() bool {
	return c.Sub != "" && c.Email != "" && c.Username != "" && c.Role != ""
}
