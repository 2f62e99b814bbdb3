package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("henna2024"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthenticator(string(hash), "secret", time.Hour)
}

func TestLogin(t *testing.T) {
	a := newTestAuthenticator(t)

	_, _, err := a.Login("wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, expires, err := a.Login("henna2024")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestLoginNotConfigured(t *testing.T) {
	_, _, err := NewAuthenticator("", "", time.Hour).Login("anything")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	a := NewAuthenticator(hash, "secret", time.Minute)
	_, _, err = a.Login("s3cret")
	assert.NoError(t, err)
}

func TestVerifyRejectsExpiredAndForeignTokens(t *testing.T) {
	a := newTestAuthenticator(t)
	token, _, err := a.Login("henna2024")
	require.NoError(t, err)

	a.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = a.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthenticator("", "other-secret", time.Hour)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "client",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	fresh := newTestAuthenticator(t)
	_, err = fresh.Verify(wrongSubject)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAdminJWTMiddleware(t *testing.T) {
	a := newTestAuthenticator(t)
	token, _, err := a.Login("henna2024")
	require.NoError(t, err)

	handler := a.AdminJWT(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := AdminClaimsFromContext(r.Context())
		assert.True(t, ok)
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := map[string]struct {
		header string
		want   int
	}{
		"missing": {"", http.StatusUnauthorized},
		"garbage": {"Bearer nope", http.StatusUnauthorized},
		"basic":   {"Basic abc", http.StatusUnauthorized},
		"valid":   {"Bearer " + token, http.StatusNoContent},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), `"error":"unauthorized"`)
			}
		})
	}

	req := httptest.NewRequest(http.MethodPut, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.True(t, a.IsAdmin(req))
	assert.False(t, a.IsAdmin(httptest.NewRequest(http.MethodPut, "/", nil)))
}
