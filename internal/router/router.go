// Package router wires the middleware chain and the full route table.
package router

import (
	"net/http"

	"github.com/YamanTakala/Cars-Seller/internal/handler"
	"github.com/YamanTakala/Cars-Seller/internal/middleware"
	"github.com/YamanTakala/Cars-Seller/internal/platform/metrics"
	"github.com/YamanTakala/Cars-Seller/internal/session"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Deps bundles everything the route table needs.
type Deps struct {
	Logger   *zap.Logger
	Sessions *session.Manager
	Base     *handler.Base
	Home     *handler.HomeHandler
	Listings *handler.ListingHandler
	Users    *handler.UserHandler
	Health   *handler.HealthHandler

	// UploadDir is served under /uploads when the local image store is
	// active; empty means images live on remote object storage.
	UploadDir string

	// StaticDir holds the site assets (css, images) served under /static.
	StaticDir string
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(d.Logger, d.Base.ServerError))
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Tracing)
	r.Use(metrics.Middleware)
	r.Use(middleware.MethodOverride)
	r.Use(middleware.SessionLoader(d.Sessions))

	r.Get("/", d.Home.Home)
	r.Get("/search", d.Home.Search)
	r.Get("/about", d.Home.About)
	r.Get("/contact", d.Home.Contact)

	r.Route("/cars", func(r chi.Router) {
		r.Get("/", d.Listings.Index)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(d.Sessions))
			r.Get("/new/add", d.Listings.NewForm)
			r.Post("/", d.Listings.Create)
			r.Post("/new", d.Listings.Create)
			r.Get("/{id}/edit", d.Listings.EditForm)
			r.Put("/{id}", d.Listings.Update)
			r.Delete("/{id}", d.Listings.Delete)
		})

		r.Get("/{id}", d.Listings.Show)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/login", d.Users.LoginForm)
		r.Post("/login", d.Users.Login)
		r.Get("/register", d.Users.RegisterForm)
		r.Post("/register", d.Users.Register)
		r.Get("/logout", d.Users.Logout)
		r.Post("/logout", d.Users.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(d.Sessions))
			r.Get("/profile", d.Users.Profile)
			r.Get("/profile/edit", d.Users.EditProfileForm)
			r.Put("/profile/edit", d.Users.UpdateProfile)
		})

		r.Get("/{id}", d.Users.Show)
	})

	r.Get("/health", d.Health.Health)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if d.UploadDir != "" {
		fs := http.StripPrefix("/uploads/cars/", http.FileServer(http.Dir(d.UploadDir)))
		r.Get("/uploads/cars/*", fs.ServeHTTP)
	}
	if d.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(d.StaticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	r.NotFound(d.Base.NotFound)

	return r
}
