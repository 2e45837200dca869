package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/waste3d/lootshop-api/internal/domain"
	"github.com/waste3d/lootshop-api/internal/infrastructure/lock"
	"github.com/waste3d/lootshop-api/internal/infrastructure/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type UnlockSummary struct {
	UnlockedIDs   []string        `json:"unlocked_ids"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	FastAddStreak int             `json:"fast_add_streak"`
}

// UnlockUseCase tracks the behavioural signals behind bonus characters.
// Spend is fed by checkout and adds by the cart; both run inside the
// caller's transaction.
type UnlockUseCase struct {
	store     *repository.Store
	publisher EventPublisher
	locks     *lock.KeyedMutex
	log       *zap.Logger
	now       func() time.Time
}

func NewUnlockUseCase(
	store *repository.Store,
	publisher EventPublisher,
	locks *lock.KeyedMutex,
	log *zap.Logger,
	now func() time.Time,
) *UnlockUseCase {
	return &UnlockUseCase{
		store:     store,
		publisher: publisher,
		locks:     locks,
		log:       log,
		now:       now,
	}
}

func (uc *UnlockUseCase) GetUnlocks(ctx context.Context, userID uuid.UUID) (*UnlockSummary, error) {
	unlock := uc.locks.Lock(userID.String())
	defer unlock()

	state, err := uc.store.Unlocks.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get unlocks: %w", err)
	}
	return &UnlockSummary{
		UnlockedIDs:   state.UnlockedIDs(),
		TotalSpent:    state.TotalSpent,
		FastAddStreak: state.FastAddStreak,
	}, nil
}

func (uc *UnlockUseCase) recordSpend(ctx context.Context, tx *repository.Store, userID uuid.UUID, amount decimal.Decimal, at time.Time) ([]string, error) {
	state, err := tx.Unlocks.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlocked, err := state.RecordSpend(amount, at)
	if err != nil {
		return nil, err
	}
	if err := tx.Unlocks.Save(ctx, state, unlocked); err != nil {
		return nil, err
	}
	return unlocked, nil
}

func (uc *UnlockUseCase) recordAdd(ctx context.Context, tx *repository.Store, userID uuid.UUID, at time.Time) ([]string, error) {
	state, err := tx.Unlocks.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlocked := state.RecordAdd(at)
	if err := tx.Unlocks.Save(ctx, state, unlocked); err != nil {
		return nil, err
	}
	return unlocked, nil
}

func (uc *UnlockUseCase) publish(ctx context.Context, events ...domain.Event) {
	if len(events) == 0 {
		return
	}
	if err := uc.publisher.Publish(ctx, events...); err != nil {
		uc.log.Error("publish unlock events", zap.Int("count", len(events)), zap.Error(err))
	}
	for _, e := range events {
		uc.log.Info("achievement unlocked",
			zap.String("user_id", e.UserID.String()),
			zap.String("achievement", e.AchievementID))
	}
}
