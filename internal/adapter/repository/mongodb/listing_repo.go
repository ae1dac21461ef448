package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/YamanTakala/Cars-Seller/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type ListingRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewListingRepository(db *mongo.Database, logger *zap.Logger) *ListingRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := db.Collection("listings")
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "brand", Value: 1}, {Key: "model", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "year", Value: -1}}},
		{Keys: bson.D{{Key: "location.city", Value: 1}}},
		{Keys: bson.D{{Key: "seller", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warn("Failed to create indexes for listings collection", zap.Error(err))
	}

	return &ListingRepository{
		collection: collection,
		logger:     logger.Named("ListingRepository"),
	}
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert listing", zap.Error(err))
		return err
	}
	listing.ID = doc.ID.Hex()
	return nil
}

// Update rewrites every seller-editable field. The view counter is left
// untouched so concurrent $inc operations are not lost, and created_at is
// immutable.
func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	listing.UpdatedAt = time.Now()
	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"title":        doc.Title,
			"description":  doc.Description,
			"brand":        doc.Brand,
			"model":        doc.Model,
			"year":         doc.Year,
			"mileage":      doc.Mileage,
			"price":        doc.Price,
			"currency":     doc.Currency,
			"condition":    doc.Condition,
			"transmission": doc.Transmission,
			"fuel_type":    doc.FuelType,
			"engine_size":  doc.EngineSize,
			"color":        doc.Color,
			"location":     doc.Location,
			"images":       doc.Images,
			"features":     doc.Features,
			"status":       doc.Status,
			"featured":     doc.Featured,
			"updated_at":   doc.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateByID(ctx, doc.ID, update)
	if err != nil {
		r.logger.Error("Failed to update listing", zap.String("listingID", listing.ID), zap.Error(err))
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		r.logger.Error("Failed to delete listing", zap.String("listingID", id), zap.Error(err))
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	var doc listingDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		r.logger.Error("Failed to fetch listing", zap.String("listingID", id), zap.Error(err))
		return nil, err
	}
	return toDomainListing(&doc), nil
}

// buildFilterQuery converts a parsed search filter into a MongoDB query.
// Every public query carries the available-status base constraint; the other
// clauses combine with AND. The free-text term expands to a case-insensitive
// substring match across title, description, brand and model.
func buildFilterQuery(filter domain.Filter) bson.M {
	query := bson.M{"status": string(domain.StatusAvailable)}

	if filter.Query != "" {
		regex := bson.M{"$regex": filter.Query, "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
			bson.M{"brand": regex},
			bson.M{"model": regex},
		}
	}
	if filter.Brand != "" {
		query["brand"] = filter.Brand
	}
	if filter.Condition != "" {
		query["condition"] = filter.Condition
	}
	if filter.Transmission != "" {
		query["transmission"] = filter.Transmission
	}
	if filter.FuelType != "" {
		query["fuel_type"] = filter.FuelType
	}
	if filter.City != "" {
		query["location.city"] = filter.City
	}

	price := bson.M{}
	if filter.MinPrice > 0 {
		price["$gte"] = filter.MinPrice
	}
	if filter.MaxPrice > 0 {
		price["$lte"] = filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}

	if filter.Year > 0 {
		query["year"] = filter.Year
	}

	return query
}

func (r *ListingRepository) FindAvailable(ctx context.Context, filter domain.Filter) ([]*domain.Listing, int64, error) {
	query := buildFilterQuery(filter)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		r.logger.Error("Failed to count listings", zap.Error(err))
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(filter.Skip()).
		SetLimit(domain.PageSize)

	listings, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *ListingRepository) FindBySeller(ctx context.Context, sellerID string, availableOnly bool) ([]*domain.Listing, error) {
	objectID, err := primitive.ObjectIDFromHex(sellerID)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	query := bson.M{"seller": objectID}
	if availableOnly {
		query["status"] = string(domain.StatusAvailable)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, query, opts)
}

func (r *ListingRepository) FindSimilar(ctx context.Context, brand, excludeID string, limit int64) ([]*domain.Listing, error) {
	objectID, err := primitive.ObjectIDFromHex(excludeID)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	query := bson.M{
		"_id":    bson.M{"$ne": objectID},
		"brand":  brand,
		"status": string(domain.StatusAvailable),
	}
	return r.find(ctx, query, options.Find().SetLimit(limit))
}

func (r *ListingRepository) FindLatest(ctx context.Context, limit int64) ([]*domain.Listing, error) {
	query := bson.M{"status": string(domain.StatusAvailable)}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	return r.find(ctx, query, opts)
}

func (r *ListingRepository) FindFeatured(ctx context.Context, limit int64) ([]*domain.Listing, error) {
	query := bson.M{
		"status":   string(domain.StatusAvailable),
		"featured": true,
	}
	return r.find(ctx, query, options.Find().SetLimit(limit))
}

func (r *ListingRepository) IncrementViews(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}
	_, err = r.collection.UpdateByID(ctx, objectID, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

func (r *ListingRepository) Stats(ctx context.Context) (*domain.HomeStats, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{"status": string(domain.StatusAvailable)})
	if err != nil {
		return nil, err
	}
	brands, err := r.collection.Distinct(ctx, "brand", bson.M{})
	if err != nil {
		return nil, err
	}
	return &domain.HomeStats{TotalCars: total, TotalBrands: len(brands)}, nil
}

func (r *ListingRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*domain.Listing, error) {
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		r.logger.Error("Failed to query listings", zap.Error(err))
		return nil, err
	}
	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toDomainListings(docs), nil
}
