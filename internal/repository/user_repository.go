package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// User mirrors the 'users' table. An operator account owns zero or more
// movies; the cinema name and address are profile data rendered on every
// movie detail page and therefore embedded into the session token.
type User struct {
	ID            uint64
	Email         string
	PasswordHash  string
	Name          string
	CinemaName    string
	CinemaAddress string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts an operator and returns its ID. The password hash must
// already be computed by the caller.
func (r *UserRepo) Create(ctx context.Context, u *User) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, name, cinema_name, cinema_address) VALUES (?,?,?,?,?)",
		u.Email, u.PasswordHash, u.Name, u.CinemaName, u.CinemaAddress)
	if err != nil {
		// MySQL duplicate key on the unique email index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by exact, case-sensitive email match. The
// BINARY cast forces a byte comparison regardless of column collation;
// credentials for "Cinema@test.com" never resolve the "cinema@test.com"
// account.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,name,cinema_name,cinema_address,created_at,updated_at FROM users WHERE BINARY email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CinemaName, &u.CinemaAddress, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,name,cinema_name,cinema_address,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CinemaName, &u.CinemaAddress, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
