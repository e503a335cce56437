package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mgaillard/cinema-listings/internal/auth"
	"github.com/mgaillard/cinema-listings/internal/config"
	"github.com/mgaillard/cinema-listings/internal/middleware"
	"github.com/mgaillard/cinema-listings/internal/repository"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	Name          string `json:"name"`
	CinemaName    string `json:"cinemaName"`
	CinemaAddress string `json:"cinemaAddress"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	User    auth.Principal `json:"user"`
	Session sessionPart    `json:"session"`
}

// Register: create an operator account and return a session immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.CinemaName) == "" || strings.TrimSpace(req.CinemaAddress) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing required field"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	uid, err := h.Users.Create(ctx, &repository.User{
		Email:         req.Email,
		PasswordHash:  hash,
		Name:          strings.TrimSpace(req.Name),
		CinemaName:    strings.TrimSpace(req.CinemaName),
		CinemaAddress: strings.TrimSpace(req.CinemaAddress),
	})
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		log.Printf("auth: create user failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	p := auth.Principal{
		ID:            uid,
		Email:         req.Email,
		Name:          strings.TrimSpace(req.Name),
		CinemaName:    strings.TrimSpace(req.CinemaName),
		CinemaAddress: strings.TrimSpace(req.CinemaAddress),
	}
	tok, err := auth.NewSessionToken(h.Cfg.SessionSecret, p, h.Cfg.SessionTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	return c.JSON(http.StatusCreated, authResp{
		User:    p,
		Session: sessionPart{Token: tok.Token, Expires: tok.Exp},
	})
}

// Login verifies the credentials and returns a fresh session token. A
// missing account, an account without a stored hash, and a wrong password
// all produce the same generic failure so callers cannot enumerate users;
// the distinguishing detail goes to the server log only.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("auth: login failed for %q: unknown email", req.Email)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.PasswordHash == "" {
		log.Printf("auth: login failed for %q: no stored password hash", req.Email)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		log.Printf("auth: login failed for %q: password mismatch", req.Email)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	p := auth.Principal{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		CinemaName:    u.CinemaName,
		CinemaAddress: u.CinemaAddress,
	}
	tok, err := auth.NewSessionToken(h.Cfg.SessionSecret, p, h.Cfg.SessionTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	return c.JSON(http.StatusOK, authResp{
		User:    p,
		Session: sessionPart{Token: tok.Token, Expires: tok.Exp},
	})
}

// Me: simple protected endpoint echoing the resolved principal.
func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": p})
}
