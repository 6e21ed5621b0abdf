package domain

import (
	"strings"
	"time"
)

// Location represents a physical service point of a business.
// Address fields are immutable after registration; only the primary
// flag is mutable.
type Location struct {
	ID         int64
	BusinessID int64
	Address    string
	Area       string // Neighbourhood / district keyword, e.g. "Downtown"
	IsPrimary  bool
	CreatedAt  time.Time
}

// MatchesHint returns true if the free-text hint matches this location.
// Matching is a case-insensitive substring check against area and address.
func (l *Location) MatchesHint(hint string) bool {
	h := strings.ToLower(strings.TrimSpace(hint))
	if h == "" {
		return false
	}
	return strings.Contains(strings.ToLower(l.Area), h) ||
		strings.Contains(strings.ToLower(l.Address), h)
}

// MatchLocations returns the locations matching the given hint
func MatchLocations(locations []*Location, hint string) []*Location {
	matched := make([]*Location, 0)
	for _, loc := range locations {
		if loc.MatchesHint(hint) {
			matched = append(matched, loc)
		}
	}
	return matched
}
