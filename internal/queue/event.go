// Package queue defines message payloads exchanged over the message broker.
package queue

// MovieCreatedEvent is published after a movie and its screening have been
// committed. It carries enough information for downstream consumers to log
// or trigger notifications without querying the primary database.
type MovieCreatedEvent struct {
	MovieID       uint64 `json:"movie_id"`
	Title         string `json:"title"`
	Language      string `json:"language"`
	Duration      int    `json:"duration"`
	City          string `json:"city"`
	OperatorID    uint64 `json:"operator_id"`
	OperatorEmail string `json:"operator_email"`
	CinemaName    string `json:"cinema_name"`
	CreatedAt     string `json:"created_at"`
}

// ScreeningDeletedEvent is published after a screening has been removed by
// its owning operator.
type ScreeningDeletedEvent struct {
	ScreeningID uint64 `json:"screening_id"`
	OperatorID  uint64 `json:"operator_id"`
	DeletedAt   string `json:"deleted_at"`
}
