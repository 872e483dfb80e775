package service

import (
	"math"
	"sort"

	"cargoexchange/internal/domain"
)

const (
	// DefaultCompatibilityScore is reported for every candidate until real scoring exists.
	DefaultCompatibilityScore = 85

	// DefaultSavingsRate is the share of the average budget reported as savings.
	DefaultSavingsRate = 0.3
)

// PairMatcher finds mutual-reverse pairs in a snapshot of cargo listings.
type PairMatcher struct {
	savingsRate        float64
	compatibilityScore int
}

// NewPairMatcher creates a PairMatcher. Non-positive arguments use the defaults.
func NewPairMatcher(savingsRate float64, compatibilityScore int) *PairMatcher {
	if savingsRate <= 0 {
		savingsRate = DefaultSavingsRate
	}
	if compatibilityScore <= 0 {
		compatibilityScore = DefaultCompatibilityScore
	}
	return &PairMatcher{
		savingsRate:        savingsRate,
		compatibilityScore: compatibilityScore,
	}
}

// FindMatches returns every unordered pair of active listings whose routes are
// exact reverses of each other. Each pair appears once, with the smaller ID
// as Listing1; pairs follow the newest-first order of the listings.
func (m *PairMatcher) FindMatches(listings []*domain.CargoListing) []*domain.MatchCandidate {
	active := activeSnapshot(listings)

	var matches []*domain.MatchCandidate
	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			if !active[i].IsReverseOf(active[j]) {
				continue
			}
			matches = append(matches, m.newCandidate(len(matches)+1, active[i], active[j]))
		}
	}

	return matches
}

// CountMatches reports how many pairs FindMatches would return and how many
// active listings were considered.
func (m *PairMatcher) CountMatches(listings []*domain.CargoListing) domain.MatchSummary {
	return domain.MatchSummary{
		MatchesFound: len(m.FindMatches(listings)),
		TotalCargo:   len(activeSnapshot(listings)),
	}
}

// ReverseCounterparts returns the active listings that run opposite to target.
func (m *PairMatcher) ReverseCounterparts(target *domain.CargoListing, listings []*domain.CargoListing) []*domain.CargoListing {
	var out []*domain.CargoListing
	for _, l := range activeSnapshot(listings) {
		if l.ID != target.ID && target.IsReverseOf(l) {
			out = append(out, l)
		}
	}
	return out
}

// Candidate builds the match record for an explicit pair.
func (m *PairMatcher) Candidate(a, b *domain.CargoListing) *domain.MatchCandidate {
	return m.newCandidate(1, a, b)
}

func (m *PairMatcher) newCandidate(id int, a, b *domain.CargoListing) *domain.MatchCandidate {
	first, second := a, b
	if second.ID < first.ID {
		first, second = second, first
	}

	// The exchange point is anchored on the first listing's route only.
	exchange := ComputeExchange(first.OriginCoords, first.DestinationCoords, first.Origin, first.Destination)

	return &domain.MatchCandidate{
		ID:                 id,
		Listing1:           first,
		Listing2:           second,
		Listing1Route:      first.Route(),
		Listing2Route:      second.Route(),
		ExchangePoint:      exchange.ExchangePoint,
		Distance:           exchange.Distance,
		Coordinates:        exchange.Coordinates,
		CostSavings:        int(math.Round((first.Budget + second.Budget) / 2 * m.savingsRate)),
		CompatibilityScore: m.compatibilityScore,
		Status:             domain.MatchStatusPending,
	}
}

// activeSnapshot keeps the first occurrence of each active listing and
// stable-sorts the result by creation time, newest first.
func activeSnapshot(listings []*domain.CargoListing) []*domain.CargoListing {
	seen := make(map[string]struct{}, len(listings))
	active := make([]*domain.CargoListing, 0, len(listings))
	for _, l := range listings {
		if l == nil || l.Status != domain.CargoStatusActive {
			continue
		}
		if _, dup := seen[l.ID]; dup {
			continue
		}
		seen[l.ID] = struct{}{}
		active = append(active, l)
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})

	return active
}
