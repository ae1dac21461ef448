package usecase

import (
	"context"
	"time"

	"github.com/YamanTakala/Cars-Seller/internal/adapter/messaging/nats"
	"github.com/YamanTakala/Cars-Seller/internal/listing/domain"
	"go.uber.org/zap"
)

const similarLimit = 4

// ListingInput carries the seller-editable fields of a listing form.
type ListingInput struct {
	Title        string
	Description  string
	Brand        string
	Model        string
	Year         int
	Mileage      int
	Price        float64
	Currency     string
	Condition    string
	Transmission string
	FuelType     string
	EngineSize   string
	Color        string
	City         string
	District     string
	Country      string
	Features     []string
}

// ListingEvent is the payload published on listing lifecycle subjects.
type ListingEvent struct {
	ListingID string    `json:"listing_id"`
	SellerID  string    `json:"seller_id"`
	Title     string    `json:"title"`
	At        time.Time `json:"at"`
}

type ListingUsecase struct {
	repo   domain.ListingRepository
	store  domain.ImageStore
	events domain.EventPublisher
	cache  domain.HomeCache
	logger *zap.Logger
}

// NewListingUsecase wires the listing flows. events and cache may be nil
// when the corresponding backends are not configured.
func NewListingUsecase(repo domain.ListingRepository, store domain.ImageStore, events domain.EventPublisher, cache domain.HomeCache, logger *zap.Logger) *ListingUsecase {
	return &ListingUsecase{
		repo:   repo,
		store:  store,
		events: events,
		cache:  cache,
		logger: logger.Named("ListingUsecase"),
	}
}

// Create validates and persists a new listing. At least one image is
// required; nothing is written anywhere before that check passes. Uploads
// are stored before the data-layer write, and any upload failure
// short-circuits the whole operation.
func (uc *ListingUsecase) Create(ctx context.Context, sellerID string, input ListingInput, uploads []domain.Upload) (*domain.Listing, error) {
	if len(uploads) == 0 {
		return nil, domain.ErrNoImages
	}

	listing := buildListing(sellerID, input)
	listing.Status = domain.StatusAvailable
	if err := listing.Validate(); err != nil {
		return nil, err
	}

	images, err := uc.storeUploads(ctx, uploads)
	if err != nil {
		return nil, err
	}
	listing.Images = images

	if err := uc.repo.Create(ctx, listing); err != nil {
		return nil, err
	}

	uc.logger.Info("Listing created",
		zap.String("listingID", listing.ID), zap.String("sellerID", sellerID))
	uc.publish(ctx, nats.SubjectListingCreated, listing)
	uc.invalidateHome(ctx)
	return listing, nil
}

// Update applies the form fields and appends any newly uploaded images to
// the existing sequence; prior images are never replaced or removed through
// this path. Only the owning seller may update.
func (uc *ListingUsecase) Update(ctx context.Context, id, sellerID string, input ListingInput, uploads []domain.Upload) (*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, domain.ErrForbidden
	}

	applyInput(listing, input)
	if err := listing.Validate(); err != nil {
		return nil, err
	}

	if len(uploads) > 0 {
		images, err := uc.storeUploads(ctx, uploads)
		if err != nil {
			return nil, err
		}
		listing.Images = append(listing.Images, images...)
	}

	if err := uc.repo.Update(ctx, listing); err != nil {
		return nil, err
	}

	uc.logger.Info("Listing updated",
		zap.String("listingID", id), zap.String("sellerID", sellerID))
	uc.publish(ctx, nats.SubjectListingUpdated, listing)
	uc.invalidateHome(ctx)
	return listing, nil
}

// Delete removes the listing after the ownership check. The read-then-delete
// sequence is not atomic; a concurrent delete surfaces as not-found.
func (uc *ListingUsecase) Delete(ctx context.Context, id, sellerID string) error {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.SellerID != sellerID {
		return domain.ErrForbidden
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.logger.Info("Listing deleted",
		zap.String("listingID", id), zap.String("sellerID", sellerID))
	uc.publish(ctx, nats.SubjectListingDeleted, listing)
	uc.invalidateHome(ctx)
	return nil
}

// Get fetches a listing without side effects (edit form, ownership checks).
func (uc *ListingUsecase) Get(ctx context.Context, id string) (*domain.Listing, error) {
	return uc.repo.FindByID(ctx, id)
}

// View fetches a listing for its detail page, bumps the view counter and
// loads up to four similar listings. The counter increments on every view,
// owner included; the rendered count is the pre-increment value, matching
// an atomic $inc issued after the read.
func (uc *ListingUsecase) View(ctx context.Context, id string) (*domain.Listing, []*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if err := uc.repo.IncrementViews(ctx, id); err != nil {
		uc.logger.Warn("Failed to increment view counter",
			zap.String("listingID", id), zap.Error(err))
	}

	similar, err := uc.repo.FindSimilar(ctx, listing.Brand, listing.ID, similarLimit)
	if err != nil {
		uc.logger.Warn("Failed to load similar listings",
			zap.String("listingID", id), zap.Error(err))
		similar = nil
	}

	return listing, similar, nil
}

// Search runs a filtered, paginated query over available listings.
func (uc *ListingUsecase) Search(ctx context.Context, filter domain.Filter) ([]*domain.Listing, int64, int, error) {
	listings, total, err := uc.repo.FindAvailable(ctx, filter)
	if err != nil {
		return nil, 0, 0, err
	}
	return listings, total, domain.TotalPages(total), nil
}

// Home assembles the homepage payload, served from the cache when one is
// configured and warm.
func (uc *ListingUsecase) Home(ctx context.Context) (*domain.HomePage, error) {
	if uc.cache != nil {
		if page, err := uc.cache.Get(ctx); err != nil {
			uc.logger.Warn("Homepage cache read failed", zap.Error(err))
		} else if page != nil {
			return page, nil
		}
	}

	latest, err := uc.repo.FindLatest(ctx, 8)
	if err != nil {
		return nil, err
	}
	featured, err := uc.repo.FindFeatured(ctx, 6)
	if err != nil {
		return nil, err
	}
	stats, err := uc.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	page := &domain.HomePage{Latest: latest, Featured: featured, Stats: *stats}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, page); err != nil {
			uc.logger.Warn("Homepage cache write failed", zap.Error(err))
		}
	}
	return page, nil
}

// BySeller lists a seller's own listings (profile page shows every status,
// public profiles only available ones).
func (uc *ListingUsecase) BySeller(ctx context.Context, sellerID string, availableOnly bool) ([]*domain.Listing, error) {
	return uc.repo.FindBySeller(ctx, sellerID, availableOnly)
}

func (uc *ListingUsecase) storeUploads(ctx context.Context, uploads []domain.Upload) ([]domain.Image, error) {
	images := make([]domain.Image, 0, len(uploads))
	for _, upload := range uploads {
		img, err := uc.store.Store(ctx, upload)
		if err != nil {
			uc.logger.Error("Image upload failed",
				zap.String("filename", upload.Filename), zap.Error(err))
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func (uc *ListingUsecase) publish(ctx context.Context, subject string, listing *domain.Listing) {
	if uc.events == nil {
		return
	}
	event := ListingEvent{
		ListingID: listing.ID,
		SellerID:  listing.SellerID,
		Title:     listing.Title,
		At:        time.Now(),
	}
	if err := uc.events.Publish(ctx, subject, event); err != nil {
		uc.logger.Warn("Failed to publish listing event",
			zap.String("subject", subject), zap.Error(err))
	}
}

func (uc *ListingUsecase) invalidateHome(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("Failed to invalidate homepage cache", zap.Error(err))
	}
}

func buildListing(sellerID string, input ListingInput) *domain.Listing {
	listing := &domain.Listing{SellerID: sellerID}
	applyInput(listing, input)
	return listing
}

func applyInput(listing *domain.Listing, input ListingInput) {
	listing.Title = input.Title
	listing.Description = input.Description
	listing.Brand = input.Brand
	listing.Model = input.Model
	listing.Year = input.Year
	listing.Mileage = input.Mileage
	listing.Price = input.Price
	listing.Currency = input.Currency
	listing.Condition = input.Condition
	listing.Transmission = input.Transmission
	listing.FuelType = input.FuelType
	listing.EngineSize = input.EngineSize
	listing.Color = input.Color
	listing.Location = domain.Location{
		City:     input.City,
		District: input.District,
		Country:  input.Country,
	}
	listing.Features = domain.NormalizeFeatures(input.Features)
}
