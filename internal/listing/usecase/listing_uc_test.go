package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/YamanTakala/Cars-Seller/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockListingRepo struct {
	mock.Mock
}

func (m *mockListingRepo) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *mockListingRepo) Update(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *mockListingRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockListingRepo) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if l := args.Get(0); l != nil {
		return l.(*domain.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockListingRepo) FindAvailable(ctx context.Context, filter domain.Filter) ([]*domain.Listing, int64, error) {
	args := m.Called(ctx, filter)
	var listings []*domain.Listing
	if l := args.Get(0); l != nil {
		listings = l.([]*domain.Listing)
	}
	return listings, args.Get(1).(int64), args.Error(2)
}

func (m *mockListingRepo) FindBySeller(ctx context.Context, sellerID string, availableOnly bool) ([]*domain.Listing, error) {
	args := m.Called(ctx, sellerID, availableOnly)
	var listings []*domain.Listing
	if l := args.Get(0); l != nil {
		listings = l.([]*domain.Listing)
	}
	return listings, args.Error(1)
}

func (m *mockListingRepo) FindSimilar(ctx context.Context, brand, excludeID string, limit int64) ([]*domain.Listing, error) {
	args := m.Called(ctx, brand, excludeID, limit)
	var listings []*domain.Listing
	if l := args.Get(0); l != nil {
		listings = l.([]*domain.Listing)
	}
	return listings, args.Error(1)
}

func (m *mockListingRepo) FindLatest(ctx context.Context, limit int64) ([]*domain.Listing, error) {
	args := m.Called(ctx, limit)
	var listings []*domain.Listing
	if l := args.Get(0); l != nil {
		listings = l.([]*domain.Listing)
	}
	return listings, args.Error(1)
}

func (m *mockListingRepo) FindFeatured(ctx context.Context, limit int64) ([]*domain.Listing, error) {
	args := m.Called(ctx, limit)
	var listings []*domain.Listing
	if l := args.Get(0); l != nil {
		listings = l.([]*domain.Listing)
	}
	return listings, args.Error(1)
}

func (m *mockListingRepo) IncrementViews(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockListingRepo) Stats(ctx context.Context) (*domain.HomeStats, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.(*domain.HomeStats), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockImageStore struct {
	mock.Mock
}

func (m *mockImageStore) Store(ctx context.Context, upload domain.Upload) (domain.Image, error) {
	args := m.Called(ctx, upload)
	return args.Get(0).(domain.Image), args.Error(1)
}

func validInput() ListingInput {
	return ListingInput{
		Title:        "Toyota Corolla 2020",
		Description:  "Single owner, full service history.",
		Brand:        "toyota",
		Model:        "Corolla",
		Year:         2020,
		Mileage:      45000,
		Price:        52000,
		Currency:     "SAR",
		Condition:    "excellent",
		Transmission: "automatic",
		FuelType:     "petrol",
		EngineSize:   "1.6L",
		Color:        "white",
		City:         "Riyadh",
		District:     "Al Olaya",
		Country:      "Saudi Arabia",
		Features:     []string{" sunroof ", ""},
	}
}

func uploadFixture(name string) domain.Upload {
	return domain.Upload{
		Filename:    name,
		ContentType: "image/jpeg",
		Size:        1024,
		Content:     strings.NewReader("img"),
	}
}

func newTestUsecase(repo *mockListingRepo, store *mockImageStore) *ListingUsecase {
	return NewListingUsecase(repo, store, nil, nil, zap.NewNop())
}

func TestCreate_RejectsZeroImagesBeforeAnySideEffect(t *testing.T) {
	repo := new(mockListingRepo)
	store := new(mockImageStore)
	uc := newTestUsecase(repo, store)

	_, err := uc.Create(context.Background(), "seller-1", validInput(), nil)

	assert.ErrorIs(t, err, domain.ErrNoImages)
	store.AssertNotCalled(t, "Store")
	repo.AssertNotCalled(t, "Create")
}

func TestCreate_ValidationFailureBeforeStorage(t *testing.T) {
	repo := new(mockListingRepo)
	store := new(mockImageStore)
	uc := newTestUsecase(repo, store)

	input := validInput()
	input.Title = ""

	_, err := uc.Create(context.Background(), "seller-1", input, []domain.Upload{uploadFixture("a.jpg")})

	assert.True(t, domain.IsValidation(err))
	store.AssertNotCalled(t, "Store")
	repo.AssertNotCalled(t, "Create")
}

func TestCreate_StoresEveryUploadAndPersists(t *testing.T) {
	repo := new(mockListingRepo)
	store := new(mockImageStore)
	uc := newTestUsecase(repo, store)

	uploads := []domain.Upload{uploadFixture("a.jpg"), uploadFixture("b.jpg"), uploadFixture("c.jpg")}
	for _, u := range uploads {
		store.On("Store", mock.Anything, u).Return(domain.Image{URL: "/uploads/cars/" + u.Filename, StorageID: u.Filename}, nil).Once()
	}
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Listing")).Return(nil).Once()

	listing, err := uc.Create(context.Background(), "seller-1", validInput(), uploads)

	require.NoError(t, err)
	require.Len(t, listing.Images, 3)
	assert.Equal(t, "a.jpg", listing.Images[0].StorageID)
	assert.Equal(t, "c.jpg", listing.Images[2].StorageID)
	assert.Equal(t, domain.StatusAvailable, listing.Status)
	assert.Equal(t, []string{"sunroof"}, listing.Features)
	store.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestCreate_UploadFailureShortCircuits(t *testing.T) {
	repo := new(mockListingRepo)
	store := new(mockImageStore)
	uc := newTestUsecase(repo, store)

	storeErr := errors.New("disk full")
	store.On("Store", mock.Anything, mock.Anything).Return(domain.Image{}, storeErr).Once()

	_, err := uc.Create(context.Background(), "seller-1", validInput(), []domain.Upload{uploadFixture("a.jpg")})

	assert.ErrorIs(t, err, storeErr)
	repo.AssertNotCalled(t, "Create")
}

func TestUpdate_ForbiddenForNonOwner(t *testing.T) {
	repo := new(mockListingRepo)
	store := new(mockImageStore)
	uc := newTestUsecase(repo, store)

	repo.On("FindByID", mock.Anything, "car-1").Return(&domain.Listing{ID: "car-1", SellerID: "owner"}, nil).Once()

	_, err := uc.Update(context.Background(), "car-1", "intruder", validInput(), nil)

	assert.ErrorIs(t, err, domain.ErrForbidden)
	repo.AssertNotCalled(t, "Update")
}

func TestUpdate_AppendsNewImagesAfterExisting(t *testing.T) {
	repo := new(mockListingRepo)
	store := new(mockImageStore)
	uc := newTestUsecase(repo, store)

	existing := &domain.Listing{
		ID:       "car-1",
		SellerID: "seller-1",
		Status:   domain.StatusAvailable,
		Images:   []domain.Image{{URL: "/uploads/cars/old.jpg", StorageID: "old.jpg"}},
	}
	repo.On("FindByID", mock.Anything, "car-1").Return(existing, nil).Once()
	store.On("Store", mock.Anything, mock.Anything).Return(domain.Image{URL: "/uploads/cars/new.jpg", StorageID: "new.jpg"}, nil).Once()
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Listing")).Return(nil).Once()

	listing, err := uc.Update(context.Background(), "car-1", "seller-1", validInput(), []domain.Upload{uploadFixture("new.jpg")})

	require.NoError(t, err)
	require.Len(t, listing.Images, 2)
	assert.Equal(t, "old.jpg", listing.Images[0].StorageID)
	assert.Equal(t, "new.jpg", listing.Images[1].StorageID)
}

func TestUpdate_NoUploadsKeepsImages(t *testing.T) {
	repo := new(mockListingRepo)
	store := new(mockImageStore)
	uc := newTestUsecase(repo, store)

	existing := &domain.Listing{
		ID:       "car-1",
		SellerID: "seller-1",
		Status:   domain.StatusAvailable,
		Images:   []domain.Image{{StorageID: "old.jpg"}},
	}
	repo.On("FindByID", mock.Anything, "car-1").Return(existing, nil).Once()
	repo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

	listing, err := uc.Update(context.Background(), "car-1", "seller-1", validInput(), nil)

	require.NoError(t, err)
	assert.Len(t, listing.Images, 1)
	store.AssertNotCalled(t, "Store")
}

func TestDelete_ForbiddenForNonOwner(t *testing.T) {
	repo := new(mockListingRepo)
	uc := newTestUsecase(repo, new(mockImageStore))

	repo.On("FindByID", mock.Anything, "car-1").Return(&domain.Listing{ID: "car-1", SellerID: "owner"}, nil).Once()

	err := uc.Delete(context.Background(), "car-1", "intruder")

	assert.ErrorIs(t, err, domain.ErrForbidden)
	repo.AssertNotCalled(t, "Delete")
}

func TestDelete_Owner(t *testing.T) {
	repo := new(mockListingRepo)
	uc := newTestUsecase(repo, new(mockImageStore))

	repo.On("FindByID", mock.Anything, "car-1").Return(&domain.Listing{ID: "car-1", SellerID: "seller-1"}, nil).Once()
	repo.On("Delete", mock.Anything, "car-1").Return(nil).Once()

	assert.NoError(t, uc.Delete(context.Background(), "car-1", "seller-1"))
	repo.AssertExpectations(t)
}

func TestView_IncrementsCounterAndLoadsSimilar(t *testing.T) {
	repo := new(mockListingRepo)
	uc := newTestUsecase(repo, new(mockImageStore))

	car := &domain.Listing{ID: "car-1", Brand: "toyota", SellerID: "seller-1"}
	similar := []*domain.Listing{{ID: "car-2"}, {ID: "car-3"}}
	repo.On("FindByID", mock.Anything, "car-1").Return(car, nil).Once()
	repo.On("IncrementViews", mock.Anything, "car-1").Return(nil).Once()
	repo.On("FindSimilar", mock.Anything, "toyota", "car-1", int64(4)).Return(similar, nil).Once()

	got, gotSimilar, err := uc.View(context.Background(), "car-1")

	require.NoError(t, err)
	assert.Equal(t, car, got)
	assert.Len(t, gotSimilar, 2)
	repo.AssertExpectations(t)
}

func TestView_CounterFailureDoesNotFailThePage(t *testing.T) {
	repo := new(mockListingRepo)
	uc := newTestUsecase(repo, new(mockImageStore))

	car := &domain.Listing{ID: "car-1", Brand: "toyota"}
	repo.On("FindByID", mock.Anything, "car-1").Return(car, nil).Once()
	repo.On("IncrementViews", mock.Anything, "car-1").Return(errors.New("write failed")).Once()
	repo.On("FindSimilar", mock.Anything, "toyota", "car-1", int64(4)).Return(nil, errors.New("query failed")).Once()

	got, similar, err := uc.View(context.Background(), "car-1")

	require.NoError(t, err)
	assert.Equal(t, car, got)
	assert.Nil(t, similar)
}

func TestSearch_DerivesTotalPages(t *testing.T) {
	repo := new(mockListingRepo)
	uc := newTestUsecase(repo, new(mockImageStore))

	filter := domain.Filter{Page: 2}
	repo.On("FindAvailable", mock.Anything, filter).Return([]*domain.Listing{{ID: "car-13"}}, int64(13), nil).Once()

	listings, total, pages, err := uc.Search(context.Background(), filter)

	require.NoError(t, err)
	assert.Len(t, listings, 1)
	assert.Equal(t, int64(13), total)
	assert.Equal(t, 2, pages)
}

func TestHome_AssemblesSections(t *testing.T) {
	repo := new(mockListingRepo)
	uc := newTestUsecase(repo, new(mockImageStore))

	repo.On("FindLatest", mock.Anything, int64(8)).Return([]*domain.Listing{{ID: "a"}}, nil).Once()
	repo.On("FindFeatured", mock.Anything, int64(6)).Return([]*domain.Listing{{ID: "b"}}, nil).Once()
	repo.On("Stats", mock.Anything).Return(&domain.HomeStats{TotalCars: 42, TotalBrands: 7}, nil).Once()

	page, err := uc.Home(context.Background())

	require.NoError(t, err)
	assert.Len(t, page.Latest, 1)
	assert.Len(t, page.Featured, 1)
	assert.Equal(t, int64(42), page.Stats.TotalCars)
	repo.AssertExpectations(t)
}
