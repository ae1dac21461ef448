package handler

import (
	"net/http"

	"github.com/YamanTakala/Cars-Seller/internal/listing/domain"
	listingusecase "github.com/YamanTakala/Cars-Seller/internal/listing/usecase"
)

type HomeHandler struct {
	*Base
	listings *listingusecase.ListingUsecase
}

func NewHomeHandler(base *Base, listings *listingusecase.ListingUsecase) *HomeHandler {
	return &HomeHandler{Base: base, listings: listings}
}

// Home renders the landing page: latest and featured available listings plus
// the aggregate counts.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := h.listings.Home(r.Context())
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	h.Renderer.Render(w, http.StatusOK, "home", h.view(r, "Car marketplace", page))
}

type searchData struct {
	Cars        []*domain.Listing
	Filter      domain.Filter
	CurrentPage int
	TotalPages  int
	TotalCars   int64
	Brands      []string
}

// Search runs the filtered, paginated listing search.
func (h *HomeHandler) Search(w http.ResponseWriter, r *http.Request) {
	filter := domain.ParseFilter(r.URL.Query())

	cars, total, totalPages, err := h.listings.Search(r.Context(), filter)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}

	h.Renderer.Render(w, http.StatusOK, "search", h.view(r, "Search cars", searchData{
		Cars:        cars,
		Filter:      filter,
		CurrentPage: filter.Page,
		TotalPages:  totalPages,
		TotalCars:   total,
		Brands:      domain.Brands,
	}))
}

func (h *HomeHandler) About(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, http.StatusOK, "about", h.view(r, "About", nil))
}

func (h *HomeHandler) Contact(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, http.StatusOK, "contact", h.view(r, "Contact", nil))
}
