package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "a-long-enough-secret-for-hs256-tests"

func newTestIssuer(t *testing.T, ttl time.Duration) *Issuer {
	t.Helper()
	i, err := NewIssuer(testSecret, ttl)
	require.NoError(t, err)
	return i
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	_, err := NewIssuer("", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestIssueVerify(t *testing.T) {
	i := newTestIssuer(t, time.Hour)
	tok, err := i.Issue("user-123")
	require.NoError(t, err)

	user, err := i.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", user)

	_, err = i.Issue("")
	assert.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	i := newTestIssuer(t, time.Minute)
	base := time.Now()
	i.now = func() time.Time { return base }
	tok, err := i.Issue("u1")
	require.NoError(t, err)

	i.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = i.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired), "err = %v", err)
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, err := newTestIssuer(t, time.Hour).Issue("u1")
	require.NoError(t, err)

	other, err := NewIssuer("a-completely-different-secret-value", time.Hour)
	require.NoError(t, err)
	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{Issuer: issuer, Subject: "u1"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newTestIssuer(t, 0).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsForeignIssuer(t *testing.T) {
	claims := jwt.RegisteredClaims{Issuer: "someone-else", Subject: "u1"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newTestIssuer(t, 0).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	i := newTestIssuer(t, time.Hour)
	tok, err := i.Issue("u42")
	require.NoError(t, err)

	var seen string
	h := Middleware(i)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + tok, http.StatusNoContent},
		{"lowercase scheme", "bearer " + tok, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + tok, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/progress", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, "u42", seen)
			} else {
				assert.Empty(t, seen)
				assert.Contains(t, rec.Body.String(), `"code":"unauthorized"`)
			}
		})
	}
}
