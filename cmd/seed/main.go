// Command seed resets the database and loads the demo data set: one
// operator account and one movie with its Paris screening. Deletes run in
// dependency order (screenings, movies, users) since the schema has no
// cascading foreign keys.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/mgaillard/cinema-listings/internal/auth"
	"github.com/mgaillard/cinema-listings/internal/config"
	"github.com/mgaillard/cinema-listings/internal/database"
	"github.com/mgaillard/cinema-listings/internal/repository"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("db schema: %v", err)
	}

	for _, table := range []string{"screenings", "movies", "users"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			log.Fatalf("reset %s: %v", table, err)
		}
	}

	hash, err := auth.HashPassword("password123", cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	users := repository.NewUserRepo(db)
	uid, err := users.Create(ctx, &repository.User{
		Email:         "cinema@test.com",
		PasswordHash:  hash,
		Name:          "Cinéma Test",
		CinemaName:    "Grand Rex",
		CinemaAddress: "1 Boulevard Poissonnière, 75002 Paris",
	})
	if err != nil {
		log.Fatalf("seed user: %v", err)
	}

	movies := repository.NewMovieRepo(db)
	movie := &repository.Movie{
		UserID:    uid,
		Title:     "Inception",
		Duration:  148,
		Language:  "Anglais",
		Subtitles: "Français",
		Director:  "Christopher Nolan",
		Actors:    []string{"Leonardo DiCaprio", "Ellen Page", "Tom Hardy"},
		MinAge:    12,
		Poster:    "https://example.com/inception-poster.jpg",
	}
	screening := &repository.Screening{
		StartDate: "2024-03-01",
		EndDate:   "2024-03-31",
		WeekDays:  []string{"MONDAY", "WEDNESDAY", "FRIDAY"},
		StartTime: "20:00",
		City:      "Paris",
		Address:   "1 Boulevard Poissonnière, 75002 Paris",
	}
	if err := movies.Create(ctx, movie, screening); err != nil {
		log.Fatalf("seed movie: %v", err)
	}

	log.Printf("seeded operator %d and movie %d", uid, movie.ID)
}
