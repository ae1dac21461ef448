package domain

import (
	"context"
	"io"
)

// ListingRepository is the persistence contract for listings.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	// FindAvailable returns one page of available listings, newest first,
	// plus the total match count.
	FindAvailable(ctx context.Context, filter Filter) ([]*Listing, int64, error)
	// FindBySeller returns a seller's listings, newest first. When
	// availableOnly is set, non-available listings are excluded.
	FindBySeller(ctx context.Context, sellerID string, availableOnly bool) ([]*Listing, error)
	// FindSimilar returns up to limit available listings of the same brand,
	// excluding the given id.
	FindSimilar(ctx context.Context, brand, excludeID string, limit int64) ([]*Listing, error)
	// FindLatest and FindFeatured feed the homepage.
	FindLatest(ctx context.Context, limit int64) ([]*Listing, error)
	FindFeatured(ctx context.Context, limit int64) ([]*Listing, error)
	// IncrementViews bumps the view counter atomically at the storage layer.
	IncrementViews(ctx context.Context, id string) error
	Stats(ctx context.Context) (*HomeStats, error)
}

// Upload is one inbound image file, already validated by the storage layer's
// batch checks before Store is called.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ImageStore stores an uploaded file and returns its public URL plus the
// identifier the backing store assigned. Implemented by the local-disk and
// remote object-store variants; selected once at startup.
type ImageStore interface {
	Store(ctx context.Context, upload Upload) (Image, error)
}

// EventPublisher emits listing lifecycle events. Best effort: publish
// failures are logged and never fail the originating request.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, event any) error
}

// HomeCache caches the homepage payload for a short period. Optional: when
// no cache is configured every homepage hit queries the repository.
type HomeCache interface {
	Get(ctx context.Context) (*HomePage, error)
	Set(ctx context.Context, page *HomePage) error
	Invalidate(ctx context.Context) error
}
