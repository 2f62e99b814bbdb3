// Package auth issues and checks the administrator's bearer tokens.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const adminSubject = "admin"

var (
	ErrNotConfigured      = errors.New("admin authentication is not configured")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type contextKey string

const adminClaimsKey contextKey = "adminClaims"

type Authenticator struct {
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAuthenticator(passwordHash, secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		ttl:          ttl,
		now:          time.Now,
	}
}

// HashPassword produces the value expected in ADMIN_PASSWORD_HASH.
func HashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login checks the password and returns a signed token with its expiry.
func (a *Authenticator) Login(password string) (string, time.Time, error) {
	if len(a.passwordHash) == 0 || len(a.secret) == 0 {
		return "", time.Time{}, ErrNotConfigured
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := a.now()
	expires := now.Add(a.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Verify parses a token and checks signature, expiry and subject.
func (a *Authenticator) Verify(tokenString string) (jwt.RegisteredClaims, error) {
	claims := jwt.RegisteredClaims{}
	if len(a.secret) == 0 {
		return claims, ErrNotConfigured
	}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil || !token.Valid || claims.Subject != adminSubject {
		return claims, ErrInvalidToken
	}
	return claims, nil
}

// IsAdmin reports whether the request carries a valid admin bearer token.
func (a *Authenticator) IsAdmin(r *http.Request) bool {
	tokenString, ok := bearerToken(r)
	if !ok {
		return false
	}
	_, err := a.Verify(tokenString)
	return err == nil
}

// AdminJWT rejects requests without a valid admin token.
func (a *Authenticator) AdminJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			unauthorized(w, "missing authorization header")
			return
		}
		claims, err := a.Verify(tokenString)
		if err != nil {
			unauthorized(w, err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminClaimsFromContext returns admin JWT claims if present.
func AdminClaimsFromContext(ctx context.Context) (jwt.RegisteredClaims, bool) {
	claims, ok := ctx.Value(adminClaimsKey).(jwt.RegisteredClaims)
	return claims, ok
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return tok, tok != ""
}

func unauthorized(w http.ResponseWriter, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"details": details,
	})
}
