package domain

import "time"

// MatchStatus represents the current status of a match.
type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusAccepted  MatchStatus = "accepted"
	MatchStatusRejected  MatchStatus = "rejected"
	MatchStatusCompleted MatchStatus = "completed"
)

// MatchCandidate is a derived pairing of two mutual-reverse listings.
// Listing1 always carries the smaller identifier.
type MatchCandidate struct {
	ID                 int
	Listing1           *CargoListing
	Listing2           *CargoListing
	Listing1Route      string
	Listing2Route      string
	ExchangePoint      string
	Distance           int
	Coordinates        *Coordinates
	CostSavings        int
	CompatibilityScore int
	Status             MatchStatus
}

// MatchSummary is the narrow status view over a match run.
type MatchSummary struct {
	MatchesFound int
	TotalCargo   int
}

// Match is an accepted pairing persisted by the matches table.
type Match struct {
	ID                 string
	Listing1ID         string
	Listing2ID         string
	ExchangePoint      string
	CostSavings        float64
	CompatibilityScore int
	Status             MatchStatus
	CreatedAt          time.Time
}
