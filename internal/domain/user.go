package domain

import "time"

// User represents a shipper who posts cargo listings.
type User struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Company   string
	CreatedAt time.Time
}
