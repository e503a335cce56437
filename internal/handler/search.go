package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mgaillard/cinema-listings/internal/search"
)

// Search handles GET /api/search. It loads the full movie list and applies
// the in-memory filter: the term must appear in the title, director or an
// actor name, and the optional city, language and duration clauses must all
// hold. The response also carries the distinct city and language values of
// the loaded set so a front end can populate its pick-lists.
func (h *MovieHandler) Search(c echo.Context) error {
	minDuration, _ := strconv.Atoi(c.QueryParam("minDuration"))
	maxDuration, _ := strconv.Atoi(c.QueryParam("maxDuration"))
	criteria := search.Criteria{
		Term:        strings.TrimSpace(c.QueryParam("term")),
		City:        strings.TrimSpace(c.QueryParam("city")),
		Language:    strings.TrimSpace(c.QueryParam("language")),
		MinDuration: minDuration,
		MaxDuration: maxDuration,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	movies, err := h.Movies.ListAll(ctx)
	if err != nil {
		log.Printf("search: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"movies":    search.Filter(movies, criteria),
		"cities":    search.Cities(movies),
		"languages": search.Languages(movies),
	})
}
