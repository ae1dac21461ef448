// Package handler contains the HTTP request handlers. Each handler is a
// thin composition: extract input, run the guard checks, call the usecase,
// then render, redirect or emit JSON.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/YamanTakala/Cars-Seller/internal/session"
	"go.uber.org/zap"
)

// Flash kinds used across handlers.
const (
	flashSuccess = "success"
	flashError   = "error"
)

// Base carries what every handler needs: sessions, rendering, logging and
// the runtime-mode switch controlling error verbosity.
type Base struct {
	Sessions *session.Manager
	Renderer *Renderer
	Logger   *zap.Logger
	Dev      bool
}

// view assembles the template envelope, draining the flash queue so each
// notice renders exactly once.
func (b *Base) view(r *http.Request, title string, data any) View {
	var user *session.Identity
	if sess := session.FromContext(r.Context()); sess.Authenticated() {
		user = sess.User
	}
	return View{
		Title:   title,
		User:    user,
		Flashes: b.Sessions.PopFlashes(r),
		Data:    data,
	}
}

// ServerError is the outermost catch for unexpected failures: logged, then
// rendered as the generic error page. Internal detail reaches the response
// only in development mode.
func (b *Base) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	b.Logger.Error("Unhandled server error",
		zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))

	var detail any
	if b.Dev && err != nil {
		detail = err.Error()
	}
	b.Renderer.Render(w, http.StatusInternalServerError, "error", b.view(r, "Server error", detail))
}

func (b *Base) NotFound(w http.ResponseWriter, r *http.Request) {
	b.Renderer.Render(w, http.StatusNotFound, "not_found", b.view(r, "Page not found", nil))
}

// redirect sends the browser elsewhere after a form post.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// identity returns the signed-in user, which the auth guard has already
// ensured exists on guarded routes.
func identity(r *http.Request) *session.Identity {
	sess := session.FromContext(r.Context())
	if !sess.Authenticated() {
		return nil
	}
	return sess.User
}
