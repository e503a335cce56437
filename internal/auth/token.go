package auth // package auth provides password hashing and session token handling

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Principal is the identity derived from a validated session token. The
// session is fully stateless: every claim needed to render the operator's
// profile travels inside the token and is re-derived on each request, so no
// server-side session store exists.
type Principal struct {
	ID            uint64 `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	CinemaName    string `json:"cinemaName"`
	CinemaAddress string `json:"cinemaAddress"`
}

// SessionToken represents a signed JWT along with its expiry. The Token
// field contains the serialized JWT string; Exp stores the UTC expiration.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// ErrInvalidToken is returned when a session token cannot be parsed,
// carries an unexpected signing method, or has expired.
var ErrInvalidToken = errors.New("invalid session token")

// NewSessionToken builds and signs an HS256 JWT carrying the operator's
// profile claims. Standard claims sub (operator ID), exp and iat are set
// alongside the profile fields.
func NewSessionToken(secret string, p Principal, ttlMin int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":            p.ID,
		"email":          p.Email,
		"name":           p.Name,
		"cinema_name":    p.CinemaName,
		"cinema_address": p.CinemaAddress,
		"exp":            exp.Unix(),
		"iat":            time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken validates a raw token string and re-derives the
// Principal from its claims. Tokens signed with anything other than HMAC
// are rejected.
func ParseSessionToken(secret, raw string) (Principal, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Principal{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, ErrInvalidToken
	}
	sub, ok := claims["sub"].(float64) // JWT numbers decode as float64
	if !ok || sub <= 0 {
		return Principal{}, ErrInvalidToken
	}
	return Principal{
		ID:            uint64(sub),
		Email:         stringClaim(claims, "email"),
		Name:          stringClaim(claims, "name"),
		CinemaName:    stringClaim(claims, "cinema_name"),
		CinemaAddress: stringClaim(claims, "cinema_address"),
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
