package repository

import "time"

// User represents a user row.
type User struct {
	ID   int64
	Name string
}

// Order represents an order row.
type Order struct {
	ID     int64
	UserID int64
	Total  float64
}

// Pref represents a key-value preference row.
type Pref struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
