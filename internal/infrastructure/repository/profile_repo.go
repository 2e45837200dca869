package repository

import (
	"context"
	"errors"

	"github.com/waste3d/lootshop-api/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a fresh profile unless one already exists and returns the
// stored row either way.
func (r *ProfileRepository) Create(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	fresh := domain.NewProfile(userID)
	var profile domain.Profile
	err := r.db.WithContext(ctx).
		Where(domain.Profile{UserID: userID}).
		Attrs(domain.Profile{
			Level:        fresh.Level,
			CurrentTitle: fresh.CurrentTitle,
		}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpdateProgression writes XP, level and title only if nobody else has written
// since profile was read. On success profile.Version is advanced.
func (r *ProfileRepository) UpdateProgression(ctx context.Context, profile *domain.Profile) error {
	result := r.db.WithContext(ctx).Model(&domain.Profile{}).
		Where("user_id = ? AND version = ?", profile.UserID, profile.Version).
		Updates(map[string]interface{}{
			"xp":            profile.XP,
			"level":         profile.Level,
			"current_title": profile.CurrentTitle,
			"version":       profile.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrConflict
	}
	profile.Version++
	return nil
}
