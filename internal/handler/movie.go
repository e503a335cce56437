package handler // handler package contains the movie catalogue endpoints

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mgaillard/cinema-listings/internal/middleware"
	"github.com/mgaillard/cinema-listings/internal/queue"
	"github.com/mgaillard/cinema-listings/internal/repository"
)

// EventPublisher is the sink for catalogue domain events. Publishing is
// best-effort: handlers log failures and never fail the request over them.
type EventPublisher interface {
	MovieCreated(ctx context.Context, ev queue.MovieCreatedEvent) error
	ScreeningDeleted(ctx context.Context, ev queue.ScreeningDeletedEvent) error
}

// MovieHandler bundles the repositories and event sink for the catalogue
// endpoints. Events may be nil, in which case nothing is published.
type MovieHandler struct {
	Movies     *repository.MovieRepo
	Screenings *repository.ScreeningRepo
	Events     EventPublisher
}

func NewMovieHandler(movies *repository.MovieRepo, screenings *repository.ScreeningRepo, events EventPublisher) *MovieHandler {
	if movies == nil || screenings == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: movies, Screenings: screenings, Events: events}
}

// actorList accepts either a JSON array of names or a single string; a
// single value is normalized into a one-element list.
type actorList []string

func (a *actorList) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = actorList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*a = actorList(list)
	return nil
}

// createMovieReq is the typed request body for movie creation. The movie
// fields and the fields of its single screening arrive in one flat object.
type createMovieReq struct {
	Title     string    `json:"title"`
	Duration  int       `json:"duration"`
	Language  string    `json:"language"`
	Subtitles string    `json:"subtitles"`
	Director  string    `json:"director"`
	Actors    actorList `json:"actors"`
	MinAge    int       `json:"minAge"`
	Poster    string    `json:"poster"`

	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	WeekDays  []string `json:"weekDays"`
	StartTime string   `json:"startTime"`
	City      string   `json:"city"`
	Address   string   `json:"address"`
}

// validWeekDays is the weekday enum accepted in a screening schedule.
var validWeekDays = map[string]bool{
	"MONDAY": true, "TUESDAY": true, "WEDNESDAY": true, "THURSDAY": true,
	"FRIDAY": true, "SATURDAY": true, "SUNDAY": true,
}

// validate checks the request after decoding and returns a generic,
// field-agnostic message on the first violation.
func (r *createMovieReq) validate() string {
	if r.Title == "" || r.Duration == 0 || r.Language == "" || r.Director == "" || len(r.Actors) == 0 {
		return "missing required field"
	}
	if r.StartDate == "" || r.EndDate == "" || r.StartTime == "" || r.City == "" || r.Address == "" {
		return "missing required field"
	}
	if _, err := time.Parse("2006-01-02", r.StartDate); err != nil {
		return "invalid screening dates"
	}
	if _, err := time.Parse("2006-01-02", r.EndDate); err != nil {
		return "invalid screening dates"
	}
	if _, err := time.Parse("15:04", r.StartTime); err != nil {
		return "invalid start time"
	}
	if len(r.WeekDays) == 0 {
		return "week days required"
	}
	for _, d := range r.WeekDays {
		if !validWeekDays[strings.ToUpper(d)] {
			return "invalid week day"
		}
	}
	return ""
}

// Create handles POST /api/movies. The session is checked before anything
// else; validation runs only for authenticated operators. The movie and
// its single screening are persisted atomically and attributed to the
// caller.
func (h *MovieHandler) Create(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createMovieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	weekDays := make([]string, len(req.WeekDays))
	for i, d := range req.WeekDays {
		weekDays[i] = strings.ToUpper(d)
	}
	movie := &repository.Movie{
		UserID:    p.ID,
		Title:     req.Title,
		Duration:  req.Duration,
		Language:  req.Language,
		Subtitles: req.Subtitles,
		Director:  req.Director,
		Actors:    req.Actors,
		MinAge:    req.MinAge,
		Poster:    req.Poster,
	}
	screening := &repository.Screening{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		WeekDays:  weekDays,
		StartTime: req.StartTime,
		City:      req.City,
		Address:   req.Address,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Movies.Create(ctx, movie, screening); err != nil {
		log.Printf("movies: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}

	if h.Events != nil {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer pubCancel()
		_ = h.Events.MovieCreated(pubCtx, queue.MovieCreatedEvent{
			MovieID:       movie.ID,
			Title:         movie.Title,
			Language:      movie.Language,
			Duration:      movie.Duration,
			City:          screening.City,
			OperatorID:    p.ID,
			OperatorEmail: p.Email,
			CinemaName:    p.CinemaName,
			CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusOK, movie)
}

// List handles GET /api/movies. Every movie is returned with its
// screenings nested; the optional ?city= parameter narrows the list to
// movies with at least one screening in that city (case-insensitive exact
// match).
func (h *MovieHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	city := strings.TrimSpace(c.QueryParam("city"))
	var (
		movies []repository.Movie
		err    error
	)
	if city != "" {
		movies, err = h.Movies.ListByCity(ctx, city)
	} else {
		movies, err = h.Movies.ListAll(ctx)
	}
	if err != nil {
		log.Printf("movies: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list movies failed"})
	}
	return c.JSON(http.StatusOK, movies)
}

// Get handles GET /api/movies/:id and returns a single movie with its
// screenings and the owning operator's display data.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		log.Printf("movies: get %d failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get movie failed"})
	}
	return c.JSON(http.StatusOK, d)
}

// Cities handles GET /api/cities, the sorted distinct screening cities
// consumed by the city autocomplete.
func (h *MovieHandler) Cities(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cities, err := h.Screenings.DistinctCities(ctx)
	if err != nil {
		log.Printf("movies: cities failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list cities failed"})
	}
	return c.JSON(http.StatusOK, cities)
}

// DeleteScreening handles DELETE /api/screenings/:id. The screening is
// removed only when its parent movie belongs to the caller; the movie and
// any sibling screenings are left intact.
func (h *MovieHandler) DeleteScreening(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Screenings.DeleteByIDAndOwner(ctx, id, p.ID); err != nil {
		switch err {
		case repository.ErrScreeningNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			log.Printf("screenings: delete %d failed: %v", id, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}

	if h.Events != nil {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer pubCancel()
		_ = h.Events.ScreeningDeleted(pubCtx, queue.ScreeningDeletedEvent{
			ScreeningID: id,
			OperatorID:  p.ID,
			DeletedAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.NoContent(http.StatusNoContent)
}
