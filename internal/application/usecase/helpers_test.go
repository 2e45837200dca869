package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/waste3d/lootshop-api/internal/application"
	"github.com/waste3d/lootshop-api/internal/domain"
	"github.com/waste3d/lootshop-api/internal/infrastructure/repository"
	"github.com/waste3d/lootshop-api/internal/testdb"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type memoryCache struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]domain.Profile
}

func newMemoryCache() *memoryCache {
	return &memoryCache{profiles: map[uuid.UUID]domain.Profile{}}
}

func (c *memoryCache) Get(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *memoryCache) Set(_ context.Context, p *domain.Profile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.profiles[p.UserID]; ok && cur.Version >= p.Version {
		return nil
	}
	c.profiles[p.UserID] = *p
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) kinds() []domain.EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventKind, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	uc        *application.UseCases
	store     *repository.Store
	db        *gorm.DB
	cache     *memoryCache
	publisher *recordingPublisher
	clock     *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t, repository.AutoMigrate)
	f := &fixture{
		store:     repository.NewStore(db),
		db:        db,
		cache:     newMemoryCache(),
		publisher: &recordingPublisher{},
		clock:     &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
	}
	f.uc = application.NewUseCases(f.store, f.cache, f.publisher, zap.NewNop(), f.clock.Now)
	return f
}

func (f *fixture) product(t *testing.T, slug, price string, skus ...domain.SKU) *domain.Product {
	t.Helper()
	p := domain.Product{
		Slug:       slug,
		Title:      slug,
		Price:      decimal.RequireFromString(price),
		RarityTier: domain.RarityRare,
		SKUs:       skus,
	}
	n, err := f.uc.Catalog.Seed(context.Background(), []domain.Product{p})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	stored, err := f.uc.Catalog.GetProduct(context.Background(), slug)
	require.NoError(t, err)
	return stored
}

func (f *fixture) user(t *testing.T) uuid.UUID {
	t.Helper()
	userID := uuid.New()
	_, err := f.uc.Progression.CreateProfile(context.Background(), userID)
	require.NoError(t, err)
	return userID
}

var errBrokerDown = errors.New("broker down")
