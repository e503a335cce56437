// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mgaillard/cinema-listings/internal/config"
	"github.com/mgaillard/cinema-listings/internal/handler"
	"github.com/mgaillard/cinema-listings/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Register and login
// live under /api/auth and issue session tokens; /api/auth/me requires a
// valid session and echoes the resolved principal.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, sessionSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.GET("/me", a.Me, middleware.Session(sessionSecret))
}

// RegisterCatalogue registers the movie catalogue endpoints. Public reads
// are cached through Redis when a client is available; writes require a
// valid session and resolve the operator from the token on every request.
func RegisterCatalogue(e *echo.Echo, m *handler.MovieHandler, sessionSecret string, rdb *redis.Client, cacheCfg config.CacheConfig) {
	cached := middleware.ResponseCache(rdb, cacheCfg)

	e.GET("/api/movies", m.List, cached)
	e.GET("/api/movies/:id", m.Get)
	e.GET("/api/cities", m.Cities, cached)
	e.GET("/api/search", m.Search)

	session := middleware.Session(sessionSecret)
	e.POST("/api/movies", m.Create, session)
	e.DELETE("/api/screenings/:id", m.DeleteScreening, session)
}
