package models

import "time"

// Income is a single income record owned by a user.
type Income struct {
	ID        string
	UserID    string
	Icon      string
	Source    string
	Amount    float64
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expense is a single expense record owned by a user.
type Expense struct {
	ID        string
	UserID    string
	Icon      string
	Category  string
	Amount    float64
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
