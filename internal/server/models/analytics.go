package models

// UsageByDay is an aggregated usage count for one calendar day.
type UsageByDay struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// ActiveUser pairs a user email with its total usage count.
type ActiveUser struct {
	Email string `json:"email"`
	Count int64  `json:"count"`
}
