package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func protected() http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := GetSubjectFromContext(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Write([]byte(subject))
	})
	return Authenticate(testSecret)(Authorize(RoleOrganizer, RoleAdmin)(next))
}

func serve(t *testing.T, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/events", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	protected().ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateAcceptsOrganizerToken(t *testing.T) {
	token, err := IssueToken(testSecret, "mesa-1", RoleOrganizer, time.Hour)
	require.NoError(t, err)

	rec := serve(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mesa-1", rec.Body.String())
}

func TestAuthenticateRejects(t *testing.T) {
	expired, err := IssueToken(testSecret, "mesa-1", RoleOrganizer, -time.Minute)
	require.NoError(t, err)
	foreign, err := IssueToken("other-secret", "mesa-1", RoleOrganizer, time.Hour)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "x", "role": RoleOrganizer}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]string{
		"missing":      "",
		"not bearer":   "Basic dXNlcjpwYXNz",
		"expired":      "Bearer " + expired,
		"wrong secret": "Bearer " + foreign,
		"unsigned":     "Bearer " + none,
		"garbage":      "Bearer not-a-token",
		"empty bearer": "Bearer ",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(t, header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthorizeRejectsUnknownRole(t *testing.T) {
	token, err := IssueToken(testSecret, "fan", "player", time.Hour)
	require.NoError(t, err)

	rec := serve(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
