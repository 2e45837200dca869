package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/waste3d/lootshop-api/internal/domain"
	"github.com/waste3d/lootshop-api/internal/infrastructure/lock"
	"github.com/waste3d/lootshop-api/internal/infrastructure/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProfileCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Set(ctx context.Context, p *domain.Profile) error
}

type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

// ProgressionUseCase owns XP, level and title. It is the only writer of
// profiles.
type ProgressionUseCase struct {
	store     *repository.Store
	cache     ProfileCache
	publisher EventPublisher
	locks     *lock.KeyedMutex
	log       *zap.Logger
	now       func() time.Time
}

func NewProgressionUseCase(
	store *repository.Store,
	cache ProfileCache,
	publisher EventPublisher,
	locks *lock.KeyedMutex,
	log *zap.Logger,
	now func() time.Time,
) *ProgressionUseCase {
	return &ProgressionUseCase{
		store:     store,
		cache:     cache,
		publisher: publisher,
		locks:     locks,
		log:       log,
		now:       now,
	}
}

// CreateProfile sets up progression and unlock state for a new account.
// Calling it again for the same user returns the existing profile.
func (uc *ProgressionUseCase) CreateProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	unlock := uc.locks.Lock(userID.String())
	defer unlock()

	var profile *domain.Profile
	err := uc.store.InTx(ctx, func(tx *repository.Store) error {
		var err error
		profile, err = tx.Profiles.Create(ctx, userID)
		if err != nil {
			return err
		}
		_, err = tx.Unlocks.GetOrCreate(ctx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	uc.log.Info("profile ready", zap.String("user_id", userID.String()), zap.Int("level", profile.Level))
	return profile, nil
}

// AwardXP adds amount to the user's XP and persists the derived level and
// title.
func (uc *ProgressionUseCase) AwardXP(ctx context.Context, userID uuid.UUID, amount int64) (domain.XPAward, error) {
	if amount < 0 {
		return domain.XPAward{}, fmt.Errorf("%w: xp amount must be non-negative, got %d", domain.ErrInvalidArgument, amount)
	}

	unlock := uc.locks.Lock(userID.String())
	defer unlock()

	var (
		award   domain.XPAward
		profile *domain.Profile
	)
	err := uc.store.InTx(ctx, func(tx *repository.Store) error {
		var err error
		award, profile, err = uc.award(ctx, tx, userID, amount)
		return err
	})
	if err != nil {
		return domain.XPAward{}, fmt.Errorf("award xp: %w", err)
	}

	uc.committed(ctx, profile)
	if award.LeveledUp {
		uc.publish(ctx, domain.LevelUpEvent(userID, award, uc.now()))
	}
	return award, nil
}

// GetProgress is a read; it never changes stored state.
func (uc *ProgressionUseCase) GetProgress(ctx context.Context, userID uuid.UUID) (domain.Progress, error) {
	cached, err := uc.cache.Get(ctx, userID)
	if err != nil {
		uc.log.Warn("profile cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
	if cached != nil {
		return cached.Progress(), nil
	}

	profile, err := uc.store.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		return domain.Progress{}, fmt.Errorf("get progress: %w", err)
	}
	uc.committed(ctx, profile)
	return profile.Progress(), nil
}

// award runs the read-modify-write of one XP grant inside tx. Callers hold
// the user's lock.
func (uc *ProgressionUseCase) award(ctx context.Context, tx *repository.Store, userID uuid.UUID, amount int64) (domain.XPAward, *domain.Profile, error) {
	profile, err := tx.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		return domain.XPAward{}, nil, err
	}
	award, err := profile.ApplyXP(amount)
	if err != nil {
		return domain.XPAward{}, nil, err
	}
	if err := tx.Profiles.UpdateProgression(ctx, profile); err != nil {
		return domain.XPAward{}, nil, err
	}
	return award, profile, nil
}

// committed refreshes the read cache after a successful write.
func (uc *ProgressionUseCase) committed(ctx context.Context, profile *domain.Profile) {
	if err := uc.cache.Set(ctx, profile); err != nil {
		uc.log.Warn("profile cache write failed", zap.String("user_id", profile.UserID.String()), zap.Error(err))
	}
}

// publish is best effort: the state change is already durable and the
// events are also returned to the caller.
func (uc *ProgressionUseCase) publish(ctx context.Context, events ...domain.Event) {
	if len(events) == 0 {
		return
	}
	if err := uc.publisher.Publish(ctx, events...); err != nil {
		uc.log.Error("publish progression events", zap.Int("count", len(events)), zap.Error(err))
	}
}
