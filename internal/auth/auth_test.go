package auth

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(nil, bytes.Repeat([]byte("h"), 32), bytes.Repeat([]byte("b"), 32))
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
}

func TestSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, store.SetSession(rec, req, Session{UserID: 7, Admin: true}))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "tablebook_session", c.Name)
	assert.True(t, c.HttpOnly)

	// The cookie must carry an explicit lifetime: without MaxAge the
	// browser drops it at the end of the session even though the encoded
	// value stays valid for two weeks.
	assert.Equal(t, int(sessionMaxAge.Seconds()), c.MaxAge)

	next := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	next.AddCookie(c)
	sess, ok := store.SessionFrom(next)
	require.True(t, ok)
	assert.Equal(t, int64(7), sess.UserID)
	assert.True(t, sess.Admin)
}

func TestSessionFromRejectsTampering(t *testing.T) {
	store := newTestStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := store.SessionFrom(req)
	assert.False(t, ok, "no cookie")

	req.AddCookie(&http.Cookie{Name: "tablebook_session", Value: "garbage"})
	_, ok = store.SessionFrom(req)
	assert.False(t, ok, "undecodable cookie")

	// A cookie minted under different keys must not decode.
	other := NewStore(nil, bytes.Repeat([]byte("x"), 32), bytes.Repeat([]byte("y"), 32))
	rec := httptest.NewRecorder()
	require.NoError(t, other.SetSession(rec, req, Session{UserID: 1}))
	forged := httptest.NewRequest(http.MethodGet, "/", nil)
	forged.AddCookie(rec.Result().Cookies()[0])
	_, ok = store.SessionFrom(forged)
	assert.False(t, ok, "foreign keys")
}

func TestClearSession(t *testing.T) {
	store := newTestStore(t)

	rec := httptest.NewRecorder()
	store.ClearSession(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}
