package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mgaillard/cinema-listings/internal/repository"
)

func TestSearchAppliesCriteriaAndDerivesPickLists(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	movieCols := []string{"id", "user_id", "title", "duration", "language", "subtitles", "director", "actors", "min_age", "poster"}
	screeningCols := []string{"id", "movie_id", "start_date", "end_date", "week_days", "start_time", "city", "address"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM movies ORDER BY id ASC")).
		WillReturnRows(sqlmock.NewRows(movieCols).
			AddRow(1, 1, "Inception", 148, "Anglais", nil, "Christopher Nolan", []byte(`["Leonardo DiCaprio"]`), nil, nil).
			AddRow(2, 1, "Amélie", 122, "Français", nil, "Jean-Pierre Jeunet", []byte(`["Audrey Tautou"]`), nil, nil))
	mock.ExpectQuery(regexp.QuoteMeta("FROM screenings WHERE movie_id IN")).
		WillReturnRows(sqlmock.NewRows(screeningCols).
			AddRow(5, 1, "2024-03-01", "2024-03-31", []byte(`["MONDAY"]`), "20:00", "Paris", "addr").
			AddRow(6, 2, "2024-04-01", "2024-04-30", []byte(`["SUNDAY"]`), "18:00", "Lyon", "addr"))

	h := NewMovieHandler(repository.NewMovieRepo(db), repository.NewScreeningRepo(db), nil)
	c, rec := jsonContext(t, http.MethodGet,
		"/api/search?term=nolan&city=Paris&language=Anglais&minDuration=100&maxDuration=150", "")
	if err := h.Search(c); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var resp struct {
		Movies    []repository.Movie `json:"movies"`
		Cities    []string           `json:"cities"`
		Languages []string           `json:"languages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Movies) != 1 || resp.Movies[0].Title != "Inception" {
		t.Fatalf("criteria should narrow to Inception, got %+v", resp.Movies)
	}
	// Pick-lists derive from the full loaded set, not the filtered one.
	if len(resp.Cities) != 2 || resp.Cities[0] != "Lyon" || resp.Cities[1] != "Paris" {
		t.Fatalf("cities pick-list wrong: %v", resp.Cities)
	}
	if len(resp.Languages) != 2 || resp.Languages[0] != "Anglais" {
		t.Fatalf("languages pick-list wrong: %v", resp.Languages)
	}
}
