// Package search implements the in-memory movie filter used by the public
// search surface. It operates over the fully loaded movie list; nothing is
// pushed down to the data layer. All functions are pure so the same logic
// can back an API endpoint or be shipped to any front end.
package search

import (
	"sort"
	"strings"

	"github.com/mgaillard/cinema-listings/internal/repository"
)

// Criteria is the active filter set. An empty string or a zero duration
// bound makes the corresponding clause vacuously true, so the zero Criteria
// matches every movie.
type Criteria struct {
	Term        string // case-insensitive substring of title, director or any actor
	City        string // case-insensitive equality against some screening's city
	Language    string // case-insensitive equality against the movie's language
	MinDuration int    // inclusive lower bound in minutes, 0 = unset
	MaxDuration int    // inclusive upper bound in minutes, 0 = unset
}

// Matches reports whether a movie satisfies every clause of the criteria.
// The filter is a conjunction: all supplied clauses must hold.
func Matches(m repository.Movie, c Criteria) bool {
	return matchesTerm(m, c.Term) &&
		matchesCity(m, c.City) &&
		matchesLanguage(m, c.Language) &&
		matchesDuration(m, c.MinDuration, c.MaxDuration)
}

// Filter returns the movies matching the criteria, preserving input order.
func Filter(movies []repository.Movie, c Criteria) []repository.Movie {
	out := []repository.Movie{}
	for _, m := range movies {
		if Matches(m, c) {
			out = append(out, m)
		}
	}
	return out
}

// Cities collects the sorted distinct screening cities present in the
// loaded movie set. It feeds the city pick-list on the search page.
func Cities(movies []repository.Movie) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, m := range movies {
		for _, s := range m.Screenings {
			if !seen[s.City] {
				seen[s.City] = true
				out = append(out, s.City)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Languages collects the sorted distinct movie languages present in the
// loaded movie set.
func Languages(movies []repository.Movie) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, m := range movies {
		if !seen[m.Language] {
			seen[m.Language] = true
			out = append(out, m.Language)
		}
	}
	sort.Strings(out)
	return out
}

func matchesTerm(m repository.Movie, term string) bool {
	if term == "" {
		return true
	}
	t := strings.ToLower(term)
	if strings.Contains(strings.ToLower(m.Title), t) {
		return true
	}
	if strings.Contains(strings.ToLower(m.Director), t) {
		return true
	}
	for _, actor := range m.Actors {
		if strings.Contains(strings.ToLower(actor), t) {
			return true
		}
	}
	return false
}

func matchesCity(m repository.Movie, city string) bool {
	if city == "" {
		return true
	}
	for _, s := range m.Screenings {
		if strings.EqualFold(s.City, city) {
			return true
		}
	}
	return false
}

func matchesLanguage(m repository.Movie, language string) bool {
	if language == "" {
		return true
	}
	return strings.EqualFold(m.Language, language)
}

func matchesDuration(m repository.Movie, min, max int) bool {
	if min > 0 && m.Duration < min {
		return false
	}
	if max > 0 && m.Duration > max {
		return false
	}
	return true
}
