package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/YamanTakala/Cars-Seller/internal/adapter/storage"
	"github.com/YamanTakala/Cars-Seller/internal/listing/domain"
	listingusecase "github.com/YamanTakala/Cars-Seller/internal/listing/usecase"
	userdomain "github.com/YamanTakala/Cars-Seller/internal/user/domain"
	userusecase "github.com/YamanTakala/Cars-Seller/internal/user/usecase"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxUploadMemory = 32 << 20

type ListingHandler struct {
	*Base
	listings *listingusecase.ListingUsecase
	users    *userusecase.UserUsecase
}

func NewListingHandler(base *Base, listings *listingusecase.ListingUsecase, users *userusecase.UserUsecase) *ListingHandler {
	return &ListingHandler{Base: base, listings: listings, users: users}
}

type carsIndexData struct {
	Cars        []*domain.Listing
	CurrentPage int
	TotalPages  int
	TotalCars   int64
}

// Index lists available cars, paginated, newest first.
func (h *ListingHandler) Index(w http.ResponseWriter, r *http.Request) {
	filter := domain.ParseFilter(r.URL.Query())
	// Only pagination applies here; /search owns the filter form.
	filter = domain.Filter{Page: filter.Page}

	cars, total, totalPages, err := h.listings.Search(r.Context(), filter)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}

	h.Renderer.Render(w, http.StatusOK, "cars_index", h.view(r, "All cars", carsIndexData{
		Cars:        cars,
		CurrentPage: filter.Page,
		TotalPages:  totalPages,
		TotalCars:   total,
	}))
}

type carShowData struct {
	Car     *domain.Listing
	Similar []*domain.Listing
	Seller  *userdomain.User
}

// Show renders the detail page. Every view increments the counter, the
// owner's included, and up to four same-brand listings are suggested.
func (h *ListingHandler) Show(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	car, similar, err := h.listings.View(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			h.NotFound(w, r)
			return
		}
		h.ServerError(w, r, err)
		return
	}

	seller, err := h.users.Get(r.Context(), car.SellerID)
	if err != nil {
		// A dangling seller reference should not hide the listing.
		h.Logger.Warn("Failed to load seller for listing",
			zap.String("listingID", id), zap.Error(err))
		seller = nil
	}

	h.Renderer.Render(w, http.StatusOK, "car_show", h.view(r, car.Title, carShowData{
		Car:     car,
		Similar: similar,
		Seller:  seller,
	}))
}

type carFormData struct {
	Car           *domain.Listing
	Brands        []string
	Currencies    []string
	Conditions    []string
	Transmissions []string
	FuelTypes     []string
}

func formEnums(car *domain.Listing) carFormData {
	return carFormData{
		Car:           car,
		Brands:        domain.Brands,
		Currencies:    domain.Currencies,
		Conditions:    domain.Conditions,
		Transmissions: domain.Transmissions,
		FuelTypes:     domain.FuelTypes,
	}
}

func (h *ListingHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, http.StatusOK, "car_new", h.view(r, "Add a car", formEnums(nil)))
}

// Create handles the multipart creation form. Upload validation failures and
// the zero-image case are user-facing notices that send the seller back to
// the form; already-entered fields are not preserved across that redirect.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := identity(r)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.Sessions.Flash(w, r, flashError, "Could not read the upload")
		redirect(w, r, "/cars/new/add")
		return
	}

	uploads, cleanup, err := uploadsFromRequest(r, "images")
	if err != nil {
		h.Sessions.Flash(w, r, flashError, uploadErrorMessage(err))
		redirect(w, r, "/cars/new/add")
		return
	}
	defer cleanup()

	car, err := h.listings.Create(r.Context(), user.UserID, parseListingInput(r), uploads)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoImages):
			h.Sessions.Flash(w, r, flashError, "You must upload at least one image")
		case domain.IsValidation(err):
			h.Sessions.Flash(w, r, flashError, "Invalid data: "+err.Error())
		default:
			h.ServerError(w, r, err)
			return
		}
		redirect(w, r, "/cars/new/add")
		return
	}

	h.Sessions.Flash(w, r, flashSuccess, "Your car has been listed")
	redirect(w, r, "/cars/"+car.ID)
}

func (h *ListingHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user := identity(r)

	car, err := h.listings.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			h.NotFound(w, r)
			return
		}
		h.ServerError(w, r, err)
		return
	}

	if car.SellerID != user.UserID {
		h.Sessions.Flash(w, r, flashError, "You are not allowed to edit this car")
		redirect(w, r, "/cars/"+car.ID)
		return
	}

	h.Renderer.Render(w, http.StatusOK, "car_edit", h.view(r, "Edit car", formEnums(car)))
}

// Update applies the edit form. Newly uploaded images are appended to the
// existing sequence; nothing removes prior images through this path.
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user := identity(r)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.Sessions.Flash(w, r, flashError, "Could not read the upload")
		redirect(w, r, "/cars/"+id+"/edit")
		return
	}

	uploads, cleanup, err := uploadsFromRequest(r, "newImages")
	if err != nil {
		h.Sessions.Flash(w, r, flashError, uploadErrorMessage(err))
		redirect(w, r, "/cars/"+id+"/edit")
		return
	}
	defer cleanup()

	_, err = h.listings.Update(r.Context(), id, user.UserID, parseListingInput(r), uploads)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrListingNotFound):
			h.NotFound(w, r)
			return
		case errors.Is(err, domain.ErrForbidden):
			h.Sessions.Flash(w, r, flashError, "You are not allowed to edit this car")
			redirect(w, r, "/cars/"+id)
			return
		case domain.IsValidation(err):
			h.Sessions.Flash(w, r, flashError, "Invalid data: "+err.Error())
			redirect(w, r, "/cars/"+id+"/edit")
			return
		default:
			h.ServerError(w, r, err)
			return
		}
	}

	h.Sessions.Flash(w, r, flashSuccess, "Your car has been updated")
	redirect(w, r, "/cars/"+id)
}

// Delete is the API-style flow: it answers JSON with a distinct status per
// failure class instead of redirecting.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user := identity(r)

	err := h.listings.Delete(r.Context(), id, user.UserID)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Car deleted",
		})
	case errors.Is(err, domain.ErrListingNotFound):
		respondJSON(w, http.StatusNotFound, map[string]any{"error": "Car not found"})
	case errors.Is(err, domain.ErrForbidden):
		respondJSON(w, http.StatusForbidden, map[string]any{"error": "You are not allowed to delete this car"})
	default:
		h.Logger.Error("Failed to delete listing", zap.String("listingID", id), zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Failed to delete car"})
	}
}

// parseListingInput reads the shared creation/edit form fields. Malformed
// numbers become zero values and fail domain validation rather than being
// request errors.
func parseListingInput(r *http.Request) listingusecase.ListingInput {
	year, _ := strconv.Atoi(r.FormValue("year"))
	mileage, _ := strconv.Atoi(r.FormValue("mileage"))
	price, _ := strconv.ParseFloat(r.FormValue("price"), 64)

	var features []string
	if r.MultipartForm != nil {
		features = r.MultipartForm.Value["features"]
	} else {
		features = r.Form["features"]
	}

	return listingusecase.ListingInput{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		Brand:        r.FormValue("brand"),
		Model:        r.FormValue("model"),
		Year:         year,
		Mileage:      mileage,
		Price:        price,
		Currency:     r.FormValue("currency"),
		Condition:    r.FormValue("condition"),
		Transmission: r.FormValue("transmission"),
		FuelType:     r.FormValue("fuelType"),
		EngineSize:   r.FormValue("engineSize"),
		Color:        r.FormValue("color"),
		City:         r.FormValue("city"),
		District:     r.FormValue("district"),
		Country:      r.FormValue("country"),
		Features:     features,
	}
}

// uploadsFromRequest validates the batch and opens each file. The returned
// cleanup closes every opened file and must run after the usecase consumed
// the streams.
func uploadsFromRequest(r *http.Request, field string) ([]domain.Upload, func(), error) {
	noop := func() {}
	if r.MultipartForm == nil {
		return nil, noop, nil
	}

	headers := r.MultipartForm.File[field]
	if err := storage.ValidateBatch(headers); err != nil {
		return nil, noop, err
	}

	uploads := make([]domain.Upload, 0, len(headers))
	closers := make([]io.Closer, 0, len(headers))
	cleanup := func() {
		for _, c := range closers {
			c.Close()
		}
	}

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			cleanup()
			return nil, noop, err
		}
		closers = append(closers, file)
		uploads = append(uploads, domain.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     file,
		})
	}
	return uploads, cleanup, nil
}

// uploadErrorMessage maps each upload failure cause to its user-facing
// notice.
func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		return "File too large. The maximum size is 5MB"
	case errors.Is(err, storage.ErrTooManyFiles):
		return "Too many files. The maximum is 10 images"
	case errors.Is(err, storage.ErrUnsupportedType):
		return "Only JPEG, JPG, PNG and GIF images are allowed"
	default:
		return "Failed to upload the file"
	}
}
