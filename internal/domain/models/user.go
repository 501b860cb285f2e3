package models

import "time"

// User is a registered account. PasswordHash is a bcrypt digest and is never
// serialized in responses.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
