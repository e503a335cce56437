package search

import (
	"reflect"
	"testing"

	"github.com/mgaillard/cinema-listings/internal/repository"
)

func inception() repository.Movie {
	return repository.Movie{
		ID:       1,
		Title:    "Inception",
		Duration: 148,
		Language: "Anglais",
		Director: "Christopher Nolan",
		Actors:   []string{"Leonardo DiCaprio", "Ellen Page", "Tom Hardy"},
		Screenings: []repository.Screening{
			{ID: 1, MovieID: 1, City: "Paris"},
		},
	}
}

func amelie() repository.Movie {
	return repository.Movie{
		ID:       2,
		Title:    "Le Fabuleux Destin d'Amélie Poulain",
		Duration: 122,
		Language: "Français",
		Director: "Jean-Pierre Jeunet",
		Actors:   []string{"Audrey Tautou"},
		Screenings: []repository.Screening{
			{ID: 2, MovieID: 2, City: "Lyon"},
			{ID: 3, MovieID: 2, City: "Paris"},
		},
	}
}

func TestMatchesConjunction(t *testing.T) {
	m := inception()
	c := Criteria{
		Term:        "nolan",
		City:        "Paris",
		Language:    "Anglais",
		MinDuration: 100,
		MaxDuration: 150,
	}
	if !Matches(m, c) {
		t.Fatalf("expected full criteria set to match")
	}

	c.City = "Lyon"
	if Matches(m, c) {
		t.Fatalf("changing city to Lyon must exclude the movie")
	}
}

func TestEmptyCriteriaMatchesAll(t *testing.T) {
	movies := []repository.Movie{inception(), amelie()}
	got := Filter(movies, Criteria{})
	if len(got) != len(movies) {
		t.Fatalf("empty criteria: got %d movies, want %d", len(got), len(movies))
	}
}

func TestTermMatchesTitleDirectorOrActor(t *testing.T) {
	m := inception()
	for _, term := range []string{"incep", "NOLAN", "dicaprio", "Tom Hardy"} {
		if !Matches(m, Criteria{Term: term}) {
			t.Errorf("term %q should match", term)
		}
	}
	if Matches(m, Criteria{Term: "tarantino"}) {
		t.Errorf("term without any occurrence should not match")
	}
}

func TestCityIsExactCaseInsensitive(t *testing.T) {
	m := inception()
	if !Matches(m, Criteria{City: "paris"}) {
		t.Errorf("city match must be case-insensitive")
	}
	if Matches(m, Criteria{City: "par"}) {
		t.Errorf("city match must not be a substring match")
	}
}

func TestLanguageCaseInsensitive(t *testing.T) {
	if !Matches(inception(), Criteria{Language: "anglais"}) {
		t.Errorf("language match must be case-insensitive")
	}
	if Matches(inception(), Criteria{Language: "Français"}) {
		t.Errorf("different language must not match")
	}
}

func TestDurationBoundsAreInclusive(t *testing.T) {
	m := inception() // 148 minutes
	cases := []struct {
		min, max int
		want     bool
	}{
		{148, 148, true},
		{0, 147, false},
		{149, 0, false},
		{100, 150, true},
		{0, 0, true},
	}
	for _, tc := range cases {
		if got := Matches(m, Criteria{MinDuration: tc.min, MaxDuration: tc.max}); got != tc.want {
			t.Errorf("bounds [%d,%d]: got %v, want %v", tc.min, tc.max, got, tc.want)
		}
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	movies := []repository.Movie{inception(), amelie()}
	got := Filter(movies, Criteria{City: "Paris"})
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("filter must preserve input order, got %+v", got)
	}
}

func TestCitiesSortedDistinct(t *testing.T) {
	movies := []repository.Movie{inception(), amelie()}
	got := Cities(movies)
	want := []string{"Lyon", "Paris"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Cities: got %v, want %v", got, want)
	}
}

func TestLanguagesSortedDistinct(t *testing.T) {
	movies := []repository.Movie{inception(), amelie(), inception()}
	got := Languages(movies)
	want := []string{"Anglais", "Français"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Languages: got %v, want %v", got, want)
	}
}
