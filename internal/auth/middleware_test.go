package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "unit-test-secret"
	testIssuer = "i5e.identity"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestMiddlewareRejectsMissingTokenWithJSONEnvelope(t *testing.T) {
	mw := NewMiddleware(Config{Secret: testSecret, Issuer: testIssuer}, nil)
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/plans/active", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "unauthorized", body["type"])
	require.NotEmpty(t, body["detail"])
}

func TestMiddlewareSkipperBypassesAuth(t *testing.T) {
	mw := NewMiddleware(Config{Secret: testSecret, Issuer: testIssuer}, func(r *http.Request) bool {
		return r.URL.Path == "/healthz"
	})

	called := false
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddlewarePassesClaimsToHandler(t *testing.T) {
	mw := NewMiddleware(Config{Secret: testSecret, Issuer: testIssuer}, nil)
	token := signToken(t, jwt.MapClaims{
		"sub":    "ath-42",
		"iss":    testIssuer,
		"exp":    time.Now().Add(time.Hour).Unix(),
		"scopes": []string{ScopeTrainingRead, ScopeTrainingWrite},
	})

	var got *Claims
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/plans/active", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	require.Equal(t, "ath-42", got.Subject)
	require.True(t, got.HasScope(ScopeTrainingWrite))
}

func TestMiddlewareRejectsWrongIssuer(t *testing.T) {
	mw := NewMiddleware(Config{Secret: testSecret, Issuer: testIssuer}, nil)
	token := signToken(t, jwt.MapClaims{
		"sub": "ath-42",
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/plans/active", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run with a foreign issuer")
	})).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
