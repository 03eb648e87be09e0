package models

import "time"

// UsageLog is one addon installation-link issuance by one user.
// Rows are append-only and never updated.
type UsageLog struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
}
