package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barzarena/backend/internal/auth"
	"github.com/barzarena/backend/internal/repos/contests"
	"github.com/barzarena/backend/internal/services/session"
)

func testRouter() http.Handler {
	catalog := contests.ActiveBattles()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	sess := session.New(nil, nil, nil, catalog, nil, 0)

	return NewRouter(sess, nil, tokens, catalog)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

// The contest listing must never include the predetermined winner.
func TestListContests_WinnerNeverSerialized(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contests", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 3)

	body := strings.ToLower(rec.Body.String())
	assert.NotContains(t, body, "winner")

	for _, c := range resp {
		assert.Contains(t, c, "sideA")
		assert.Contains(t, c, "sideB")
	}
}

func TestAuthedRoutes_RejectMissingOrBadToken(t *testing.T) {
	t.Parallel()

	router := testRouter()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/account/balance"},
		{http.MethodPost, "/account/recharge"},
		{http.MethodPost, "/wagers"},
		{http.MethodGet, "/wagers"},
		{http.MethodPost, "/checkout"},
		{http.MethodPost, "/auth/logout"},
	}

	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "no token: %s %s", p.method, p.path)

		req = httptest.NewRequest(p.method, p.path, nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "bad token: %s %s", p.method, p.path)
	}
}

// A valid token whose account has no live session is still unauthorized:
// the bearer token identifies the account, the session controller decides
// whether it is logged in.
func TestAuthedRoutes_TokenWithoutSession(t *testing.T) {
	t.Parallel()

	catalog := contests.ActiveBattles()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	sess := session.New(nil, nil, nil, catalog, nil, 0)
	router := NewRouter(sess, nil, tokens, catalog)

	token, err := tokens.Issue(7)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/account/balance", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
