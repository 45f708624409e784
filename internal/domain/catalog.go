package domain

import "time"

// Service is an entry in the shop's service catalog.
type Service struct {
	ID           string
	Name         string
	Price        float64
	DurationMins int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Settings is the single global shop configuration document. Its absence
// is tolerated by every caller.
type Settings struct {
	ShopName     string
	Currency     string
	OpeningHours string
	UpdatedAt    time.Time
}
