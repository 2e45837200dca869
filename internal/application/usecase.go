package application

import (
	"time"

	"github.com/waste3d/lootshop-api/internal/application/usecase"
	"github.com/waste3d/lootshop-api/internal/infrastructure/lock"
	"github.com/waste3d/lootshop-api/internal/infrastructure/repository"

	"go.uber.org/zap"
)

// UseCases is the wired set of application services handed to transports.
type UseCases struct {
	Progression *usecase.ProgressionUseCase
	Unlocks     *usecase.UnlockUseCase
	Cart        *usecase.CartUseCase
	Checkout    *usecase.CheckoutUseCase
	Catalog     *usecase.CatalogUseCase
}

// NewUseCases wires every use case around one store and one per-user lock
// table, so all writes for a user go through a single writer.
func NewUseCases(
	store *repository.Store,
	cache usecase.ProfileCache,
	publisher usecase.EventPublisher,
	log *zap.Logger,
	clock func() time.Time,
) *UseCases {
	locks := lock.NewKeyedMutex()
	if clock == nil {
		clock = time.Now
	}

	progression := usecase.NewProgressionUseCase(store, cache, publisher, locks, log, clock)
	unlocks := usecase.NewUnlockUseCase(store, publisher, locks, log, clock)

	return &UseCases{
		Progression: progression,
		Unlocks:     unlocks,
		Cart:        usecase.NewCartUseCase(store, unlocks, locks, log, clock),
		Checkout:    usecase.NewCheckoutUseCase(store, progression, unlocks, locks, log, clock),
		Catalog:     usecase.NewCatalogUseCase(store, log),
	}
}
