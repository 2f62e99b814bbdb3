// Package apitest runs the full HTTP API over in-memory repositories for
// tests of the API, its client and the booking workflow.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Lcsmrct/Henna-alicia/internal/api"
	"github.com/Lcsmrct/Henna-alicia/internal/auth"
	"github.com/Lcsmrct/Henna-alicia/internal/booking"
	"github.com/Lcsmrct/Henna-alicia/internal/contact"
	"github.com/Lcsmrct/Henna-alicia/internal/instagram"
	"github.com/Lcsmrct/Henna-alicia/internal/reviews"
	"github.com/Lcsmrct/Henna-alicia/pkg/logging"
)

const (
	AdminPassword = "henna-admin"
	jwtSecret     = "apitest-secret"
)

// Today is the server's current date in every Env.
var Today = time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)

type Env struct {
	Server       *httptest.Server
	Bookings     *booking.MemoryRepository
	Reviews      *reviews.MemoryRepository
	Contact      *contact.MemoryRepository
	Tokens       *instagram.MemoryTokenStore
	Auth         *auth.Authenticator
	BookingSvc   *booking.Service
	requestCount atomic.Int64
	graph        *httptest.Server
}

// New starts a server and closes it when the test ends.
func New(t testing.TB) *Env {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash admin password: %v", err)
	}

	env := &Env{
		Bookings: booking.NewMemoryRepository(),
		Reviews:  reviews.NewMemoryRepository(),
		Contact:  contact.NewMemoryRepository(),
		Tokens:   instagram.NewMemoryTokenStore(),
		Auth:     auth.NewAuthenticator(string(hash), jwtSecret, time.Hour),
	}

	env.graph = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
			{"id": "p1", "media_type": "IMAGE", "media_url": "https://cdn.example/p1.jpg", "timestamp": "2025-06-01T10:00:00+0000", "permalink": "https://instagram.com/p/p1"},
		}})
	}))
	igClient := instagram.NewClient()
	igClient.SetBaseURLs(env.graph.URL, env.graph.URL)

	logger := logging.Discard()
	env.BookingSvc = booking.NewService(env.Bookings, nil, booking.ServiceOptions{
		Logger:   logger,
		Location: time.UTC,
		Now:      func() time.Time { return Today },
	})

	router := api.NewRouter(api.RouterConfig{
		Bookings:  env.BookingSvc,
		Reviews:   reviews.NewService(env.Reviews, logger),
		Contact:   contact.NewService(env.Contact, logger),
		Instagram: instagram.NewService(instagram.Config{AppID: "app", AppSecret: "secret", RedirectURI: "https://hennalash.fr/instagram"}, igClient, env.Tokens, logger),
		Auth:      env.Auth,
		Health:    api.NewHealthHandler(nil, nil, "test", "dev"),
		Logger:    logger,
	})

	env.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.requestCount.Add(1)
		router.ServeHTTP(w, r)
	}))

	t.Cleanup(func() {
		env.Server.Close()
		env.graph.Close()
	})
	return env
}

func (e *Env) URL() string {
	return e.Server.URL
}

// Requests is the number of requests the API has received so far.
func (e *Env) Requests() int64 {
	return e.requestCount.Load()
}

// AdminToken returns a valid bearer token without going through the API.
func (e *Env) AdminToken(t testing.TB) string {
	t.Helper()
	token, _, err := e.Auth.Login(AdminPassword)
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	return token
}
