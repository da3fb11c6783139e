package services_test

import (
	"context"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/saunabooking/internal/domain/entities"
	"github.com/zatekoja/saunabooking/internal/domain/providers"
	"github.com/zatekoja/saunabooking/internal/domain/repositories"
)

// Repositories

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) ListByDay(ctx context.Context, saunaID, date string) ([]*entities.Booking, error) {
	args := m.Called(ctx, saunaID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Booking), args.Error(1)
}

// Reserve hands the configured day's bookings to guard, like the real
// adapter does inside its transaction
func (m *MockBookingRepository) Reserve(ctx context.Context, booking *entities.Booking, guard repositories.ReserveGuard) error {
	args := m.Called(ctx, booking)
	if err := args.Error(1); err != nil {
		return err
	}
	existing, _ := args.Get(0).([]*entities.Booking)
	return guard(existing)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetView(ctx context.Context, id string) (*entities.BookingView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BookingView), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *entities.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *MockBookingRepository) List(ctx context.Context, filter repositories.BookingFilter) ([]*entities.BookingView, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BookingView), args.Error(1)
}

type MockSaunaRepository struct {
	mock.Mock
}

func (m *MockSaunaRepository) Create(ctx context.Context, sauna *entities.Sauna) error {
	return m.Called(ctx, sauna).Error(0)
}

func (m *MockSaunaRepository) GetByID(ctx context.Context, id string) (*entities.Sauna, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Sauna), args.Error(1)
}

func (m *MockSaunaRepository) Update(ctx context.Context, sauna *entities.Sauna) error {
	return m.Called(ctx, sauna).Error(0)
}

func (m *MockSaunaRepository) List(ctx context.Context, filter repositories.SaunaFilter) ([]*entities.Sauna, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Sauna), args.Error(1)
}

func (m *MockSaunaRepository) AddImage(ctx context.Context, image *entities.SaunaImage) error {
	return m.Called(ctx, image).Error(0)
}

func (m *MockSaunaRepository) DeleteImage(ctx context.Context, saunaID, imageID string) error {
	return m.Called(ctx, saunaID, imageID).Error(0)
}

func (m *MockSaunaRepository) SetOperatingHours(ctx context.Context, saunaID string, hours []entities.OperatingHours) error {
	return m.Called(ctx, saunaID, hours).Error(0)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entities.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *MockReviewRepository) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) ListBySauna(ctx context.Context, saunaID string) ([]*entities.ReviewView, error) {
	args := m.Called(ctx, saunaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ReviewView), args.Error(1)
}

func (m *MockReviewRepository) Summary(ctx context.Context, saunaID string) (*entities.ReviewSummary, error) {
	args := m.Called(ctx, saunaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ReviewSummary), args.Error(1)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

// Providers

type MockCacheProvider struct {
	mu      sync.RWMutex
	data    map[string][]byte
	deleted []string
}

func NewMockCacheProvider() *MockCacheProvider {
	return &MockCacheProvider{data: make(map[string][]byte)}
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if val, ok := m.data[key]; ok {
		return val, nil
	}
	return nil, providers.ErrCacheMiss
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCacheProvider) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
		m.deleted = append(m.deleted, key)
	}
	return nil
}

func (m *MockCacheProvider) DeleteMatching(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.data {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.data, key)
			m.deleted = append(m.deleted, key)
		}
	}
	return nil
}

func (m *MockCacheProvider) Increment(ctx context.Context, key string, windowSeconds int) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, _ := strconv.ParseInt(string(m.data[key]), 10, 64)
	n++
	m.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, time.Duration(windowSeconds) * time.Second, nil
}

func (m *MockCacheProvider) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok
}

func (m *MockCacheProvider) Deleted() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.deleted...)
}

type MockEventBus struct {
	mu          sync.Mutex
	subscribers map[string][]chan *entities.DomainEvent
	published   []*entities.DomainEvent
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{subscribers: make(map[string][]chan *entities.DomainEvent)}
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, event)
	for _, ch := range m.subscribers[channel] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DomainEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan *entities.DomainEvent, 10)
	m.subscribers[channel] = append(m.subscribers[channel], ch)
	return ch, nil
}

func (m *MockEventBus) Close() error {
	return nil
}

func (m *MockEventBus) Published() []*entities.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entities.DomainEvent(nil), m.published...)
}

func (m *MockEventBus) SubscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers)
}

type MockTokenProvider struct {
	mock.Mock
}

func (m *MockTokenProvider) Issue(userID string) (string, time.Time, error) {
	args := m.Called(userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenProvider) Verify(token string) (*providers.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.TokenClaims), args.Error(1)
}

// plainHasher treats "hashed:"+password as the hash of password
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) bool { return hash == "hashed:"+password }

// Fixtures

func strPtr(s string) *string { return &s }

func customer(id string) *entities.User {
	return &entities.User{ID: id, Email: id + "@example.com", FullName: "Customer " + id, Role: entities.RoleCustomer}
}

func admin() *entities.User {
	return &entities.User{ID: "admin-1", Email: "admin@example.com", FullName: "Admin", Role: entities.RoleAdmin}
}

func testSauna() *entities.Sauna {
	return &entities.Sauna{
		ID:         "sauna-1",
		Name:       "Birch Room",
		Capacity:   6,
		HourlyRate: 80000,
		IsActive:   true,
		OpenTime:   "10:00",
		CloseTime:  "22:00",
	}
}

func confirmedBooking(id, start, end string, owner *string) *entities.Booking {
	return &entities.Booking{
		ID:          id,
		SaunaID:     "sauna-1",
		UserID:      owner,
		BookingDate: "2024-06-01",
		StartTime:   start,
		EndTime:     end,
		GuestCount:  2,
		Status:      entities.BookingStatusConfirmed,
	}
}
