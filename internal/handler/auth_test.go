package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/mgaillard/cinema-listings/internal/auth"
	"github.com/mgaillard/cinema-listings/internal/config"
	"github.com/mgaillard/cinema-listings/internal/repository"
)

var testCfg = config.Config{
	SessionSecret: "test-secret",
	SessionTTLMin: 15,
	BcryptCost:    bcrypt.MinCost,
}

var userCols = []string{"id", "email", "password_hash", "name", "cinema_name", "cinema_address", "created_at", "updated_at"}

func jsonContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	hash, err := auth.HashPassword("right-password", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	now := time.Now()

	// Unknown email.
	db1, mock1, _ := sqlmock.New()
	defer db1.Close()
	mock1.ExpectQuery(regexp.QuoteMeta("FROM users WHERE BINARY email=?")).
		WithArgs("nobody@test.com").
		WillReturnRows(sqlmock.NewRows(userCols)) // zero rows
	h1 := NewAuthHandler(testCfg, repository.NewUserRepo(db1))
	c1, rec1 := jsonContext(t, http.MethodPost, "/api/auth/login",
		`{"email":"nobody@test.com","password":"whatever"}`)
	if err := h1.Login(c1); err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Wrong password for an existing account.
	db2, mock2, _ := sqlmock.New()
	defer db2.Close()
	mock2.ExpectQuery(regexp.QuoteMeta("FROM users WHERE BINARY email=?")).
		WithArgs("cinema@test.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "cinema@test.com", hash, "Cinéma Test", "Grand Rex", "Paris", now, now))
	h2 := NewAuthHandler(testCfg, repository.NewUserRepo(db2))
	c2, rec2 := jsonContext(t, http.MethodPost, "/api/auth/login",
		`{"email":"cinema@test.com","password":"wrong-password"}`)
	if err := h2.Login(c2); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if rec1.Code != http.StatusUnauthorized || rec2.Code != http.StatusUnauthorized {
		t.Fatalf("statuses: got %d and %d, want 401 for both", rec1.Code, rec2.Code)
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("failure bodies differ: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
}

func TestLoginMissingStoredHashIsGenericFailure(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE BINARY email=?")).
		WithArgs("cinema@test.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "cinema@test.com", "", "Cinéma Test", "Grand Rex", "Paris", now, now))

	h := NewAuthHandler(testCfg, repository.NewUserRepo(db))
	c, rec := jsonContext(t, http.MethodPost, "/api/auth/login",
		`{"email":"cinema@test.com","password":"password123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid credentials") {
		t.Fatalf("body: %s", rec.Body.String())
	}
}

func TestLoginSuccessIssuesPrincipalToken(t *testing.T) {
	hash, err := auth.HashPassword("password123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	now := time.Now()

	db, mock, _ := sqlmock.New()
	defer db.Close()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE BINARY email=?")).
		WithArgs("cinema@test.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "cinema@test.com", hash, "Cinéma Test", "Grand Rex", "1 Boulevard Poissonnière, 75002 Paris", now, now))

	h := NewAuthHandler(testCfg, repository.NewUserRepo(db))
	c, rec := jsonContext(t, http.MethodPost, "/api/auth/login",
		`{"email":"cinema@test.com","password":"password123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		User    auth.Principal `json:"user"`
		Session struct {
			Token string `json:"token"`
		} `json:"session"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	p, err := auth.ParseSessionToken(testCfg.SessionSecret, resp.Session.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if p.ID != 1 || p.CinemaName != "Grand Rex" || p.Email != "cinema@test.com" {
		t.Fatalf("token claims wrong: %+v", p)
	}
	if resp.User != p {
		t.Fatalf("response user and token principal differ: %+v vs %+v", resp.User, p)
	}
}

func TestRegisterValidatesRequiredFields(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	h := NewAuthHandler(testCfg, repository.NewUserRepo(db))
	c, rec := jsonContext(t, http.MethodPost, "/api/auth/register",
		`{"email":"new@test.com","password":"pw"}`) // no profile fields
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
}
