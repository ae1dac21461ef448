package mongodb

import (
	"fmt"
	"time"

	listingdomain "github.com/YamanTakala/Cars-Seller/internal/listing/domain"
	userdomain "github.com/YamanTakala/Cars-Seller/internal/user/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type imageDocument struct {
	URL       string `bson:"url"`
	StorageID string `bson:"storage_id"`
}

type listingLocationDocument struct {
	City     string `bson:"city"`
	District string `bson:"district"`
	Country  string `bson:"country"`
}

type listingDocument struct {
	ID           primitive.ObjectID      `bson:"_id,omitempty"`
	Title        string                  `bson:"title"`
	Description  string                  `bson:"description"`
	Brand        string                  `bson:"brand"`
	Model        string                  `bson:"model"`
	Year         int                     `bson:"year"`
	Mileage      int                     `bson:"mileage"`
	Price        float64                 `bson:"price"`
	Currency     string                  `bson:"currency"`
	Condition    string                  `bson:"condition"`
	Transmission string                  `bson:"transmission"`
	FuelType     string                  `bson:"fuel_type"`
	EngineSize   string                  `bson:"engine_size"`
	Color        string                  `bson:"color"`
	Location     listingLocationDocument `bson:"location"`
	Images       []imageDocument         `bson:"images"`
	Features     []string                `bson:"features"`
	SellerID     primitive.ObjectID      `bson:"seller"`
	Status       string                  `bson:"status"`
	Views        int64                   `bson:"views"`
	Featured     bool                    `bson:"featured"`
	CreatedAt    time.Time               `bson:"created_at"`
	UpdatedAt    time.Time               `bson:"updated_at"`
}

func toListingDocument(l *listingdomain.Listing) (*listingDocument, error) {
	var docID primitive.ObjectID
	if l.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid listing id %q: %w", l.ID, err)
		}
	}
	sellerID, err := primitive.ObjectIDFromHex(l.SellerID)
	if err != nil {
		return nil, fmt.Errorf("invalid seller id %q: %w", l.SellerID, err)
	}

	images := make([]imageDocument, 0, len(l.Images))
	for _, img := range l.Images {
		images = append(images, imageDocument{URL: img.URL, StorageID: img.StorageID})
	}

	return &listingDocument{
		ID:           docID,
		Title:        l.Title,
		Description:  l.Description,
		Brand:        l.Brand,
		Model:        l.Model,
		Year:         l.Year,
		Mileage:      l.Mileage,
		Price:        l.Price,
		Currency:     l.Currency,
		Condition:    l.Condition,
		Transmission: l.Transmission,
		FuelType:     l.FuelType,
		EngineSize:   l.EngineSize,
		Color:        l.Color,
		Location: listingLocationDocument{
			City:     l.Location.City,
			District: l.Location.District,
			Country:  l.Location.Country,
		},
		Images:    images,
		Features:  l.Features,
		SellerID:  sellerID,
		Status:    string(l.Status),
		Views:     l.Views,
		Featured:  l.Featured,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}, nil
}

func toDomainListing(d *listingDocument) *listingdomain.Listing {
	images := make([]listingdomain.Image, 0, len(d.Images))
	for _, img := range d.Images {
		images = append(images, listingdomain.Image{URL: img.URL, StorageID: img.StorageID})
	}

	return &listingdomain.Listing{
		ID:           d.ID.Hex(),
		Title:        d.Title,
		Description:  d.Description,
		Brand:        d.Brand,
		Model:        d.Model,
		Year:         d.Year,
		Mileage:      d.Mileage,
		Price:        d.Price,
		Currency:     d.Currency,
		Condition:    d.Condition,
		Transmission: d.Transmission,
		FuelType:     d.FuelType,
		EngineSize:   d.EngineSize,
		Color:        d.Color,
		Location: listingdomain.Location{
			City:     d.Location.City,
			District: d.Location.District,
			Country:  d.Location.Country,
		},
		Images:    images,
		Features:  d.Features,
		SellerID:  d.SellerID.Hex(),
		Status:    listingdomain.Status(d.Status),
		Views:     d.Views,
		Featured:  d.Featured,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toDomainListings(docs []*listingDocument) []*listingdomain.Listing {
	listings := make([]*listingdomain.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, toDomainListing(doc))
	}
	return listings
}

type userLocationDocument struct {
	City    string `bson:"city"`
	Country string `bson:"country"`
}

type userDocument struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	FirstName  string               `bson:"first_name"`
	LastName   string               `bson:"last_name"`
	Email      string               `bson:"email"`
	Password   string               `bson:"password"`
	Phone      string               `bson:"phone"`
	WhatsApp   string               `bson:"whatsapp,omitempty"`
	Location   userLocationDocument `bson:"location"`
	Avatar     string               `bson:"avatar"`
	IsVerified bool                 `bson:"is_verified"`
	JoinedAt   time.Time            `bson:"joined_at"`
	UpdatedAt  time.Time            `bson:"updated_at"`
}

func toUserDocument(u *userdomain.User) (*userDocument, error) {
	var docID primitive.ObjectID
	if u.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", u.ID, err)
		}
	}

	return &userDocument{
		ID:        docID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Phone:     u.Phone,
		WhatsApp:  u.WhatsApp,
		Location: userLocationDocument{
			City:    u.Location.City,
			Country: u.Location.Country,
		},
		Avatar:     u.AvatarURL,
		IsVerified: u.IsVerified,
		JoinedAt:   u.JoinedAt,
		UpdatedAt:  u.UpdatedAt,
	}, nil
}

func toDomainUser(d *userDocument) *userdomain.User {
	return &userdomain.User{
		ID:           d.ID.Hex(),
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.Password,
		Phone:        d.Phone,
		WhatsApp:     d.WhatsApp,
		Location: userdomain.Location{
			City:    d.Location.City,
			Country: d.Location.Country,
		},
		AvatarURL:  d.Avatar,
		IsVerified: d.IsVerified,
		JoinedAt:   d.JoinedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}
