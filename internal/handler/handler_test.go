package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/YamanTakala/Cars-Seller/internal/listing/domain"
	listingusecase "github.com/YamanTakala/Cars-Seller/internal/listing/usecase"
	"github.com/YamanTakala/Cars-Seller/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSessionStore struct {
	sessions map[string]*session.Session
}

func (s *fakeSessionStore) Find(ctx context.Context, id string) (*session.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return sess, nil
}

func (s *fakeSessionStore) Save(ctx context.Context, sess *session.Session) error {
	s.sessions[sess.ID] = sess
	return nil
}

func (s *fakeSessionStore) Delete(ctx context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

// stubListingRepo satisfies the listing repository with overridable behavior
// for the handful of calls each handler test needs.
type stubListingRepo struct {
	findByID func(id string) (*domain.Listing, error)
	delete   func(id string) error
}

var errStubUnused = errors.New("unexpected repository call")

func (s *stubListingRepo) Create(ctx context.Context, l *domain.Listing) error { return errStubUnused }
func (s *stubListingRepo) Update(ctx context.Context, l *domain.Listing) error { return errStubUnused }

func (s *stubListingRepo) Delete(ctx context.Context, id string) error {
	if s.delete == nil {
		return errStubUnused
	}
	return s.delete(id)
}

func (s *stubListingRepo) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	if s.findByID == nil {
		return nil, errStubUnused
	}
	return s.findByID(id)
}

func (s *stubListingRepo) FindAvailable(ctx context.Context, f domain.Filter) ([]*domain.Listing, int64, error) {
	return nil, 0, errStubUnused
}

func (s *stubListingRepo) FindBySeller(ctx context.Context, sellerID string, availableOnly bool) ([]*domain.Listing, error) {
	return nil, errStubUnused
}

func (s *stubListingRepo) FindSimilar(ctx context.Context, brand, excludeID string, limit int64) ([]*domain.Listing, error) {
	return nil, errStubUnused
}

func (s *stubListingRepo) FindLatest(ctx context.Context, limit int64) ([]*domain.Listing, error) {
	return nil, errStubUnused
}

func (s *stubListingRepo) FindFeatured(ctx context.Context, limit int64) ([]*domain.Listing, error) {
	return nil, errStubUnused
}

func (s *stubListingRepo) IncrementViews(ctx context.Context, id string) error { return errStubUnused }
func (s *stubListingRepo) Stats(ctx context.Context) (*domain.HomeStats, error) {
	return nil, errStubUnused
}

type nopImageStore struct{}

func (nopImageStore) Store(ctx context.Context, u domain.Upload) (domain.Image, error) {
	return domain.Image{}, errors.New("unexpected store call")
}

func newTestBase(t *testing.T) *Base {
	t.Helper()
	renderer, err := NewRenderer(zap.NewNop())
	require.NoError(t, err)
	return &Base{
		Sessions: session.NewManager(&fakeSessionStore{sessions: make(map[string]*session.Session)}, "test-secret"),
		Renderer: renderer,
		Logger:   zap.NewNop(),
		Dev:      false,
	}
}

func authedRequest(method, target, listingID string) *http.Request {
	req := httptest.NewRequest(method, target, nil)

	sess := &session.Session{ID: "s1", User: &session.Identity{UserID: "seller-1", FirstName: "Yaman"}}
	ctx := session.WithSession(req.Context(), sess)

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", listingID)
	ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)

	return req.WithContext(ctx)
}

func newListingHandler(t *testing.T, repo *stubListingRepo) *ListingHandler {
	t.Helper()
	uc := listingusecase.NewListingUsecase(repo, nopImageStore{}, nil, nil, zap.NewNop())
	return NewListingHandler(newTestBase(t), uc, nil)
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler(time.Now().Add(-3 * time.Second))

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
	assert.NotEmpty(t, body["uptime"])
}

func TestNotFound_RendersErrorPage(t *testing.T) {
	base := newTestBase(t)

	rec := httptest.NewRecorder()
	base.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestServerError_HidesDetailInProduction(t *testing.T) {
	base := newTestBase(t)

	rec := httptest.NewRecorder()
	base.ServerError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("db exploded"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db exploded")
}

func TestServerError_ShowsDetailInDevelopment(t *testing.T) {
	base := newTestBase(t)
	base.Dev = true

	rec := httptest.NewRecorder()
	base.ServerError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("db exploded"))

	assert.Contains(t, rec.Body.String(), "db exploded")
}

func TestDelete_Success(t *testing.T) {
	repo := &stubListingRepo{
		findByID: func(id string) (*domain.Listing, error) {
			return &domain.Listing{ID: id, SellerID: "seller-1"}, nil
		},
		delete: func(id string) error { return nil },
	}
	h := newListingHandler(t, repo)

	rec := httptest.NewRecorder()
	h.Delete(rec, authedRequest(http.MethodDelete, "/cars/car-1", "car-1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
}

func TestDelete_ForbiddenForNonOwner(t *testing.T) {
	repo := &stubListingRepo{
		findByID: func(id string) (*domain.Listing, error) {
			return &domain.Listing{ID: id, SellerID: "someone-else"}, nil
		},
	}
	h := newListingHandler(t, repo)

	rec := httptest.NewRecorder()
	h.Delete(rec, authedRequest(http.MethodDelete, "/cars/car-1", "car-1"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDelete_NotFound(t *testing.T) {
	repo := &stubListingRepo{
		findByID: func(id string) (*domain.Listing, error) {
			return nil, domain.ErrListingNotFound
		},
	}
	h := newListingHandler(t, repo)

	rec := httptest.NewRecorder()
	h.Delete(rec, authedRequest(http.MethodDelete, "/cars/car-1", "car-1"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDelete_RepositoryFailure(t *testing.T) {
	repo := &stubListingRepo{
		findByID: func(id string) (*domain.Listing, error) {
			return nil, errors.New("connection reset")
		},
	}
	h := newListingHandler(t, repo)

	rec := httptest.NewRecorder()
	h.Delete(rec, authedRequest(http.MethodDelete, "/cars/car-1", "car-1"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
