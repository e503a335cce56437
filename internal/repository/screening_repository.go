// This file defines the Screening model and repository. A screening is a
// recurring showtime pattern: a date range, a set of weekdays on which the
// showing repeats, and a single daily start time at one venue. Screenings
// are created alongside their movie and individually deletable; they are
// never updated.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Screening mirrors the 'screenings' table. Dates use "YYYY-MM-DD" and
// StartTime uses "HH:MM"; WeekDays holds values from the MONDAY..SUNDAY
// enum and is persisted as a JSON column.
type Screening struct {
	ID        uint64   `json:"id"`
	MovieID   uint64   `json:"movieId"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	WeekDays  []string `json:"weekDays"`
	StartTime string   `json:"startTime"`
	City      string   `json:"city"`
	Address   string   `json:"address"`
}

// ScreeningRepo manages persistence for screenings.
type ScreeningRepo struct {
	db *sql.DB
}

// NewScreeningRepo constructs a ScreeningRepo with the given DB handle.
func NewScreeningRepo(db *sql.DB) *ScreeningRepo {
	return &ScreeningRepo{db: db}
}

// DeleteByIDAndOwner removes a single screening when its parent movie
// belongs to the given operator. Sibling screenings and the movie itself
// are untouched. Returns ErrScreeningNotFound when the screening does not
// exist and ErrForbidden when it belongs to another operator's movie.
func (r *ScreeningRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	const q = `SELECT m.user_id FROM screenings s JOIN movies m ON m.id = s.movie_id WHERE s.id = ?`
	var movieOwner uint64
	err := r.db.QueryRowContext(ctx, q, id).Scan(&movieOwner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrScreeningNotFound
		}
		return err
	}
	if movieOwner != ownerID {
		return ErrForbidden
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM screenings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Deleted concurrently between the ownership check and the delete.
		return ErrScreeningNotFound
	}
	return nil
}

// DistinctCities returns the sorted distinct cities across all screenings.
// It backs the city autocomplete on the public pages.
func (r *ScreeningRepo) DistinctCities(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT city FROM screenings ORDER BY city ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}
