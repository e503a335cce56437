// Package repository contains data access logic for the movie catalogue.
// This file defines the Movie model and its repository. A movie is created
// together with exactly one screening inside a single transaction; it is
// read-only afterwards, there is no update or single-delete path.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Movie mirrors the 'movies' table with its screenings eagerly attached.
// Actors is an ordered list persisted as a JSON column. Subtitles, MinAge
// and Poster are optional.
type Movie struct {
	ID         uint64      `json:"id"`
	UserID     uint64      `json:"userId"`
	Title      string      `json:"title"`
	Duration   int         `json:"duration"` // minutes
	Language   string      `json:"language"`
	Subtitles  string      `json:"subtitles,omitempty"`
	Director   string      `json:"director"`
	Actors     []string    `json:"actors"`
	MinAge     int         `json:"minAge,omitempty"`
	Poster     string      `json:"poster,omitempty"`
	Screenings []Screening `json:"screenings"`
}

// MovieOwner is the subset of operator profile data joined onto a single
// movie lookup.
type MovieOwner struct {
	Name       string `json:"name"`
	CinemaName string `json:"cinemaName"`
}

// MovieDetail is a movie plus its owning operator's display data.
type MovieDetail struct {
	Movie
	Owner MovieOwner `json:"user"`
}

// MovieRepo manages persistence for movies and their nested screenings.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// DB exposes the underlying sql.DB for callers that need transaction
// control spanning repositories.
func (r *MovieRepo) DB() *sql.DB {
	return r.db
}

const movieCols = `id, user_id, title, duration, language, subtitles, director, actors, min_age, poster`

// Create inserts a movie and its single screening in one transaction and
// assigns the generated IDs back to the structs. Either both rows exist
// afterwards or neither does; a movie is never persisted without its
// screening.
func (r *MovieRepo) Create(ctx context.Context, m *Movie, s *Screening) error {
	actors, err := json.Marshal(m.Actors)
	if err != nil {
		return err
	}
	weekDays, err := json.Marshal(s.WeekDays)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	res, err := tx.ExecContext(ctx,
		`INSERT INTO movies (user_id, title, duration, language, subtitles, director, actors, min_age, poster)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.UserID, m.Title, m.Duration, m.Language, nullString(m.Subtitles),
		m.Director, actors, nullInt(m.MinAge), nullString(m.Poster))
	if err != nil {
		return err
	}
	movieID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx,
		`INSERT INTO screenings (movie_id, start_date, end_date, week_days, start_time, city, address)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		movieID, s.StartDate, s.EndDate, weekDays, s.StartTime, s.City, s.Address)
	if err != nil {
		return err
	}
	screeningID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	m.ID = uint64(movieID)
	s.ID = uint64(screeningID)
	s.MovieID = m.ID
	m.Screenings = []Screening{*s}
	return nil
}

// ListAll returns every movie with its screenings nested, ordered by id.
// No pagination and no data-layer filtering: the search surface filters the
// fully loaded list in memory.
func (r *MovieRepo) ListAll(ctx context.Context) ([]Movie, error) {
	return r.list(ctx, `SELECT `+movieCols+` FROM movies ORDER BY id ASC`)
}

// ListByCity returns all movies having at least one screening in the given
// city. The match is case-insensitive full-string equality, not substring.
func (r *MovieRepo) ListByCity(ctx context.Context, city string) ([]Movie, error) {
	const q = `SELECT ` + movieCols + ` FROM movies m
		WHERE EXISTS (SELECT 1 FROM screenings s WHERE s.movie_id = m.id AND LOWER(s.city) = LOWER(?))
		ORDER BY m.id ASC`
	return r.list(ctx, q, city)
}

// GetByID retrieves a single movie with its screenings plus the owning
// operator's display name and cinema name. Returns ErrMovieNotFound when
// no row matches.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*MovieDetail, error) {
	const q = `SELECT m.id, m.user_id, m.title, m.duration, m.language, m.subtitles,
			m.director, m.actors, m.min_age, m.poster, u.name, u.cinema_name
		FROM movies m
		JOIN users u ON u.id = m.user_id
		WHERE m.id = ?`
	var (
		d         MovieDetail
		subtitles sql.NullString
		minAge    sql.NullInt64
		poster    sql.NullString
		actors    []byte
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.UserID, &d.Title, &d.Duration, &d.Language, &subtitles,
		&d.Director, &actors, &minAge, &poster, &d.Owner.Name, &d.Owner.CinemaName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	d.Subtitles = subtitles.String
	d.MinAge = int(minAge.Int64)
	d.Poster = poster.String
	if err := json.Unmarshal(actors, &d.Actors); err != nil {
		return nil, fmt.Errorf("decode actors: %w", err)
	}

	screenings, err := r.screeningsFor(ctx, []uint64{d.ID})
	if err != nil {
		return nil, err
	}
	d.Screenings = screenings[d.ID]
	if d.Screenings == nil {
		d.Screenings = []Screening{}
	}
	return &d, nil
}

// list runs a movie query and attaches screenings to every returned row.
func (r *MovieRepo) list(ctx context.Context, q string, args ...any) ([]Movie, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []Movie{}
	ids := []uint64{}
	for rows.Next() {
		var (
			m         Movie
			subtitles sql.NullString
			minAge    sql.NullInt64
			poster    sql.NullString
			actors    []byte
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.Title, &m.Duration, &m.Language,
			&subtitles, &m.Director, &actors, &minAge, &poster); err != nil {
			return nil, err
		}
		m.Subtitles = subtitles.String
		m.MinAge = int(minAge.Int64)
		m.Poster = poster.String
		if err := json.Unmarshal(actors, &m.Actors); err != nil {
			return nil, fmt.Errorf("decode actors: %w", err)
		}
		m.Screenings = []Screening{}
		movies = append(movies, m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return movies, nil
	}

	screenings, err := r.screeningsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range movies {
		if s, ok := screenings[movies[i].ID]; ok {
			movies[i].Screenings = s
		}
	}
	return movies, nil
}

// screeningsFor loads the screenings of the given movies grouped by movie id.
func (r *MovieRepo) screeningsFor(ctx context.Context, movieIDs []uint64) (map[uint64][]Screening, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(movieIDs)), ",")
	q := `SELECT id, movie_id, DATE_FORMAT(start_date, '%Y-%m-%d'), DATE_FORMAT(end_date, '%Y-%m-%d'),
			week_days, start_time, city, address
		FROM screenings WHERE movie_id IN (` + placeholders + `) ORDER BY movie_id ASC, id ASC`
	args := make([]any, len(movieIDs))
	for i, id := range movieIDs {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uint64][]Screening, len(movieIDs))
	for rows.Next() {
		var (
			s        Screening
			weekDays []byte
		)
		if err := rows.Scan(&s.ID, &s.MovieID, &s.StartDate, &s.EndDate,
			&weekDays, &s.StartTime, &s.City, &s.Address); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(weekDays, &s.WeekDays); err != nil {
			return nil, fmt.Errorf("decode week_days: %w", err)
		}
		out[s.MovieID] = append(out[s.MovieID], s)
	}
	return out, rows.Err()
}

// nullString maps "" to NULL for optional text columns.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullInt maps 0 to NULL for optional integer columns.
func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
