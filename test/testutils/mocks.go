// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/alchemorsel/mealplan/internal/domain/recipe"
	"github.com/alchemorsel/mealplan/internal/domain/shared"
	"github.com/alchemorsel/mealplan/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher records published domain events
type MockEventPublisher struct {
	mock.Mock
	published []shared.DomainEvent
	mu        sync.RWMutex
}

// NewMockEventPublisher creates a publisher that accepts every event
func NewMockEventPublisher() *MockEventPublisher {
	m := &MockEventPublisher{}
	m.On("Publish", mock.Anything, mock.Anything).Return()
	return m
}

// Publish records the events
func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) {
	m.Called(ctx, events)

	m.mu.Lock()
	m.published = append(m.published, events...)
	m.mu.Unlock()
}

// Published returns all published events
func (m *MockEventPublisher) Published() []shared.DomainEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]shared.DomainEvent, len(m.published))
	copy(events, m.published)
	return events
}

// Names returns the names of all published events in order
func (m *MockEventPublisher) Names() []string {
	events := m.Published()
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.EventName()
	}
	return names
}

// MockCacheRepository is a mock implementation of the cache repository
type MockCacheRepository struct {
	mock.Mock
}

var _ outbound.CacheRepository = (*MockCacheRepository)(nil)

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) Increment(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

// MockRecipeRepository is a mock implementation of the recipe repository
type MockRecipeRepository struct {
	mock.Mock
}

var _ outbound.RecipeRepository = (*MockRecipeRepository)(nil)

func (m *MockRecipeRepository) Create(ctx context.Context, r *recipe.Recipe) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecipeRepository) FindByID(ctx context.Context, id uint) (*recipe.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recipe.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) FindByIDs(ctx context.Context, ids []uint) ([]*recipe.Recipe, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*recipe.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) List(ctx context.Context, offset, limit int) ([]*recipe.Recipe, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*recipe.Recipe), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeRepository) Candidates(ctx context.Context) ([]recipe.Candidate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recipe.Candidate), args.Error(1)
}
