package repository

import (
	"context"

	"github.com/waste3d/lootshop-api/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UnlockRepository struct {
	db *gorm.DB
}

func NewUnlockRepository(db *gorm.DB) *UnlockRepository {
	return &UnlockRepository{db: db}
}

// GetOrCreate loads the unlock state with its achievements, creating an empty
// state on first use.
func (r *UnlockRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.UnlockState, error) {
	fresh := domain.NewUnlockState(userID)
	var state domain.UnlockState
	err := r.db.WithContext(ctx).
		Where(domain.UnlockState{UserID: userID}).
		Attrs(domain.UnlockState{TotalSpent: fresh.TotalSpent}).
		FirstOrCreate(&state).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("unlocked_at asc").
		Find(&state.Achievements).Error
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Save persists counters with a version check and inserts the newly unlocked
// achievements. Existing achievement rows are never touched.
func (r *UnlockRepository) Save(ctx context.Context, state *domain.UnlockState, unlocked []string) error {
	result := r.db.WithContext(ctx).Model(&domain.UnlockState{}).
		Where("user_id = ? AND version = ?", state.UserID, state.Version).
		Updates(map[string]interface{}{
			"total_spent":     state.TotalSpent,
			"fast_add_streak": state.FastAddStreak,
			"last_add_at":     state.LastAddAt,
			"version":         state.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrConflict
	}
	state.Version++

	if len(unlocked) == 0 {
		return nil
	}
	rows := make([]domain.UnlockedAchievement, 0, len(unlocked))
	for _, a := range state.Achievements {
		for _, id := range unlocked {
			if a.AchievementID == id {
				rows = append(rows, a)
			}
		}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}
