package models

import "time"

// User is the root record; a TraktToken and any UsageLog rows belong to it
// and are removed by cascade when it is deleted.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}
