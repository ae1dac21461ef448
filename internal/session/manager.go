package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Manager loads, creates and writes sessions. Sessions are created lazily:
// anonymous browsing without flashes never touches the store.
type Manager struct {
	store  Store
	secret []byte
}

func NewManager(store Store, secret string) *Manager {
	return &Manager{store: store, secret: []byte(secret)}
}

type contextKey struct{}

// Load resolves the request's session from its cookie. A missing, forged or
// expired cookie yields nil (anonymous), never an error the caller must act
// on.
func (m *Manager) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}
	id, ok := m.verify(cookie.Value)
	if !ok {
		return nil
	}
	sess, err := m.store.Find(r.Context(), id)
	if err != nil {
		return nil
	}
	return sess
}

// WithSession stashes the loaded session on the request context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session loaded by the middleware, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}

// ensure returns the request's session, creating and registering a fresh one
// when the request is anonymous.
func (m *Manager) ensure(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if sess := FromContext(r.Context()); sess != nil {
		return sess, nil
	}
	now := time.Now()
	sess := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		ExpiresAt: now.Add(TTL),
	}
	if err := m.store.Save(r.Context(), sess); err != nil {
		return nil, err
	}
	m.setCookie(w, sess)
	*r = *r.WithContext(WithSession(r.Context(), sess))
	return sess, nil
}

// SignIn binds an identity to the session, issuing one if needed. The expiry
// is reset so a fresh login always gets the full 24 hours.
func (m *Manager) SignIn(w http.ResponseWriter, r *http.Request, identity Identity) error {
	sess, err := m.ensure(w, r)
	if err != nil {
		return err
	}
	sess.User = &identity
	sess.ExpiresAt = time.Now().Add(TTL)
	if err := m.store.Save(r.Context(), sess); err != nil {
		return err
	}
	m.setCookie(w, sess)
	return nil
}

// SignOut invalidates the session server-side and clears the cookie.
func (m *Manager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess := FromContext(r.Context())
	if sess == nil {
		return nil
	}
	if err := m.store.Delete(r.Context(), sess.ID); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	*r = *r.WithContext(WithSession(r.Context(), nil))
	return nil
}

// Flash queues a one-shot notice for the next rendered page.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, kind, message string) {
	sess, err := m.ensure(w, r)
	if err != nil {
		return
	}
	sess.Flashes = append(sess.Flashes, Flash{Type: kind, Message: message})
	_ = m.store.Save(r.Context(), sess)
}

// PopFlashes drains the queue: returned once, cleared in the store.
func (m *Manager) PopFlashes(r *http.Request) []Flash {
	sess := FromContext(r.Context())
	if sess == nil || len(sess.Flashes) == 0 {
		return nil
	}
	flashes := sess.Flashes
	sess.Flashes = nil
	_ = m.store.Save(r.Context(), sess)
	return flashes
}

func (m *Manager) setCookie(w http.ResponseWriter, sess *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    m.sign(sess.ID),
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// sign produces "<id>.<hex hmac>" so a tampered cookie never reaches the
// store.
func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	return id + "." + hex.EncodeToString(mac.Sum(nil))
}

func (m *Manager) verify(value string) (string, bool) {
	id, sig, found := strings.Cut(value, ".")
	if !found {
		return "", false
	}
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	expected := hex.EncodeToString(mac.Sum(nil))
	if subtle.ConstantTimeCompare([]byte(sig), []byte(expected)) != 1 {
		return "", false
	}
	return id, true
}
