package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store for exercising the manager without MongoDB.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*Session)}
}

func (s *memStore) Find(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || time.Now().After(sess.ExpiresAt) {
		return nil, ErrNotFound
	}
	copied := *sess
	return &copied, nil
}

func (s *memStore) Save(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sess
	s.sessions[sess.ID] = &copied
	return nil
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func TestSignInAndLoad(t *testing.T) {
	store := newMemStore()
	mgr := NewManager(store, "test-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/login", nil)

	err := mgr.SignIn(rec, req, Identity{UserID: "user-1", FirstName: "Yaman", Email: "yaman@example.com"})
	require.NoError(t, err)

	cookie := sessionCookie(t, rec)
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookie)

	sess := mgr.Load(next)
	require.NotNil(t, sess)
	assert.True(t, sess.Authenticated())
	assert.Equal(t, "user-1", sess.User.UserID)
	assert.WithinDuration(t, time.Now().Add(TTL), sess.ExpiresAt, time.Minute)
}

func TestLoad_RejectsTamperedCookie(t *testing.T) {
	store := newMemStore()
	mgr := NewManager(store, "test-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/login", nil)
	require.NoError(t, mgr.SignIn(rec, req, Identity{UserID: "user-1"}))

	cookie := sessionCookie(t, rec)
	id, _, _ := strings.Cut(cookie.Value, ".")
	cookie.Value = id + ".deadbeef"

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookie)

	assert.Nil(t, mgr.Load(next))
}

func TestLoad_RejectsCookieSignedWithDifferentSecret(t *testing.T) {
	store := newMemStore()
	mgr := NewManager(store, "test-secret")
	other := NewManager(store, "other-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/login", nil)
	require.NoError(t, mgr.SignIn(rec, req, Identity{UserID: "user-1"}))

	cookie := sessionCookie(t, rec)
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookie)

	assert.Nil(t, other.Load(next))
}

func TestLoad_MissingCookieIsAnonymous(t *testing.T) {
	mgr := NewManager(newMemStore(), "test-secret")

	assert.Nil(t, mgr.Load(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestLoad_ExpiredSessionIsAnonymous(t *testing.T) {
	store := newMemStore()
	mgr := NewManager(store, "test-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/login", nil)
	require.NoError(t, mgr.SignIn(rec, req, Identity{UserID: "user-1"}))

	cookie := sessionCookie(t, rec)
	id, _, _ := strings.Cut(cookie.Value, ".")
	store.mu.Lock()
	store.sessions[id].ExpiresAt = time.Now().Add(-time.Minute)
	store.mu.Unlock()

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookie)

	assert.Nil(t, mgr.Load(next))
}

func TestSignOut_DeletesSessionAndExpiresCookie(t *testing.T) {
	store := newMemStore()
	mgr := NewManager(store, "test-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/login", nil)
	require.NoError(t, mgr.SignIn(rec, req, Identity{UserID: "user-1"}))

	outRec := httptest.NewRecorder()
	require.NoError(t, mgr.SignOut(outRec, req))

	cleared := sessionCookie(t, outRec)
	assert.Equal(t, -1, cleared.MaxAge)

	store.mu.Lock()
	assert.Empty(t, store.sessions)
	store.mu.Unlock()
}

func TestFlash_PoppedExactlyOnce(t *testing.T) {
	store := newMemStore()
	mgr := NewManager(store, "test-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	mgr.Flash(rec, req, "success", "saved")
	mgr.Flash(rec, req, "error", "oops")

	flashes := mgr.PopFlashes(req)
	require.Len(t, flashes, 2)
	assert.Equal(t, Flash{Type: "success", Message: "saved"}, flashes[0])
	assert.Equal(t, Flash{Type: "error", Message: "oops"}, flashes[1])

	assert.Empty(t, mgr.PopFlashes(req))

	// Cleared server-side too, not only on the request copy.
	cookie := sessionCookie(t, rec)
	id, _, _ := strings.Cut(cookie.Value, ".")
	store.mu.Lock()
	assert.Empty(t, store.sessions[id].Flashes)
	store.mu.Unlock()
}

func TestFlash_CreatesSessionLazily(t *testing.T) {
	store := newMemStore()
	mgr := NewManager(store, "test-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	store.mu.Lock()
	assert.Empty(t, store.sessions)
	store.mu.Unlock()

	mgr.Flash(rec, req, "error", "sign in first")

	store.mu.Lock()
	assert.Len(t, store.sessions, 1)
	store.mu.Unlock()
	sessionCookie(t, rec)
}

func TestAuthenticated(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.Authenticated())
	assert.False(t, (&Session{}).Authenticated())
	assert.True(t, (&Session{User: &Identity{UserID: "user-1"}}).Authenticated())
}
