package handler

import (
	"errors"
	"net/http"

	listingdomain "github.com/YamanTakala/Cars-Seller/internal/listing/domain"
	listingusecase "github.com/YamanTakala/Cars-Seller/internal/listing/usecase"
	"github.com/YamanTakala/Cars-Seller/internal/session"
	"github.com/YamanTakala/Cars-Seller/internal/user/domain"
	userusecase "github.com/YamanTakala/Cars-Seller/internal/user/usecase"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	*Base
	users    *userusecase.UserUsecase
	listings *listingusecase.ListingUsecase
}

func NewUserHandler(base *Base, users *userusecase.UserUsecase, listings *listingusecase.ListingUsecase) *UserHandler {
	return &UserHandler{Base: base, users: users, listings: listings}
}

func (h *UserHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if identity(r) != nil {
		redirect(w, r, "/")
		return
	}
	h.Renderer.Render(w, http.StatusOK, "login", h.view(r, "Sign in", nil))
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Sessions.Flash(w, r, flashError, "Could not read the form")
		redirect(w, r, "/users/login")
		return
	}

	user, err := h.users.Login(r.Context(), domain.NormalizeEmail(r.FormValue("email")), r.FormValue("password"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.Sessions.Flash(w, r, flashError, "Invalid email or password")
			redirect(w, r, "/users/login")
			return
		}
		h.ServerError(w, r, err)
		return
	}

	if err := h.signIn(w, r, user); err != nil {
		h.ServerError(w, r, err)
		return
	}
	h.Sessions.Flash(w, r, flashSuccess, "Welcome back, "+user.FirstName)
	redirect(w, r, "/")
}

func (h *UserHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if identity(r) != nil {
		redirect(w, r, "/")
		return
	}
	h.Renderer.Render(w, http.StatusOK, "register", h.view(r, "Create account", nil))
}

// Register creates the account and signs the new user straight in. Failed
// validation sends the visitor back to the form; entered values are not
// carried across that redirect.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Sessions.Flash(w, r, flashError, "Could not read the form")
		redirect(w, r, "/users/register")
		return
	}

	reg := domain.Registration{
		FirstName:       r.FormValue("firstName"),
		LastName:        r.FormValue("lastName"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirmPassword"),
		Phone:           r.FormValue("phone"),
		City:            r.FormValue("city"),
		Country:         r.FormValue("country"),
	}

	user, err := h.users.Register(r.Context(), reg)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrPasswordMismatch):
			h.Sessions.Flash(w, r, flashError, "Passwords do not match")
		case errors.Is(err, domain.ErrDuplicateEmail):
			h.Sessions.Flash(w, r, flashError, "An account with this email already exists")
		case errors.As(err, &verr):
			h.Sessions.Flash(w, r, flashError, "Invalid data: "+verr.Error())
		default:
			h.ServerError(w, r, err)
			return
		}
		redirect(w, r, "/users/register")
		return
	}

	if err := h.signIn(w, r, user); err != nil {
		h.ServerError(w, r, err)
		return
	}
	h.Sessions.Flash(w, r, flashSuccess, "Welcome, "+user.FirstName)
	redirect(w, r, "/")
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Logger.Warn("Failed to sign out", zap.Error(err))
	}
	redirect(w, r, "/")
}

type profileData struct {
	Profile *domain.User
	Cars    []*listingdomain.Listing
}

// Profile shows the signed-in user's own page with all their listings,
// whatever the status.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := identity(r)

	profile, err := h.users.Get(r.Context(), user.UserID)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	cars, err := h.listings.BySeller(r.Context(), user.UserID, false)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}

	h.Renderer.Render(w, http.StatusOK, "profile", h.view(r, "My profile", profileData{
		Profile: profile,
		Cars:    cars,
	}))
}

func (h *UserHandler) EditProfileForm(w http.ResponseWriter, r *http.Request) {
	user := identity(r)

	profile, err := h.users.Get(r.Context(), user.UserID)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	h.Renderer.Render(w, http.StatusOK, "profile_edit", h.view(r, "Edit profile", profileData{Profile: profile}))
}

// UpdateProfile applies the edit form and refreshes the session identity so
// the navigation reflects a renamed user immediately.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := identity(r)

	if err := r.ParseForm(); err != nil {
		h.Sessions.Flash(w, r, flashError, "Could not read the form")
		redirect(w, r, "/users/profile/edit")
		return
	}

	update := domain.ProfileUpdate{
		FirstName: r.FormValue("firstName"),
		LastName:  r.FormValue("lastName"),
		Phone:     r.FormValue("phone"),
		WhatsApp:  r.FormValue("whatsapp"),
		Location: domain.Location{
			City:    r.FormValue("city"),
			Country: r.FormValue("country"),
		},
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.UserID, update)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.NotFound(w, r)
			return
		}
		h.ServerError(w, r, err)
		return
	}

	if err := h.signIn(w, r, updated); err != nil {
		h.ServerError(w, r, err)
		return
	}
	h.Sessions.Flash(w, r, flashSuccess, "Your profile has been updated")
	redirect(w, r, "/users/profile")
}

// Show is the public seller page: profile plus available listings only.
func (h *UserHandler) Show(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	profile, err := h.users.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.NotFound(w, r)
			return
		}
		h.ServerError(w, r, err)
		return
	}
	cars, err := h.listings.BySeller(r.Context(), id, true)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}

	h.Renderer.Render(w, http.StatusOK, "user_show", h.view(r, profile.FullName(), profileData{
		Profile: profile,
		Cars:    cars,
	}))
}

func (h *UserHandler) signIn(w http.ResponseWriter, r *http.Request, user *domain.User) error {
	return h.Sessions.SignIn(w, r, session.Identity{
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	})
}
