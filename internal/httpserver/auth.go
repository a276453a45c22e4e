package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSecret is returned by SignToken when no secret is configured.
var ErrNoSecret = errors.New("httpserver: SOLVER_JWT_SECRET is not set")

// SignToken creates an HS256 JWT for subject that expires after ttl.
func SignToken(secret, subject string, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, ErrNoSecret
	}
	now := time.Now()
	exp := now.Add(ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString([]byte(secret))
	return ss, exp, err
}

// parseToken validates an HS256 token signed with secret.
func parseToken(secret, tokenStr string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// bearer extracts a bearer token from the Authorization header.
func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// requireToken enforces a valid bearer token when a secret is configured.
// Without a secret the API is open.
func (s *Server) requireToken() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if s.cfg.JWTSecret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearer(r)
			if tokenStr == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if _, err := parseToken(s.cfg.JWTSecret, tokenStr); err != nil {
				writeError(w, http.StatusUnauthorized, "invalid_token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
