package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// Bonus shopkeepers.
	AchievementGojo = "gojo"
	AchievementAnya = "anya"

	StreakTarget = 5
	StreakWindow = 5 * time.Second
)

// SpendThreshold unlocks AchievementGojo once cumulative spend reaches it.
var SpendThreshold = decimal.NewFromInt(10000)

// StarterCharacters are available to everyone and are never stored.
var StarterCharacters = []string{"luffy", "naruto", "goku"}

type UnlockState struct {
	UserID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TotalSpent    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	FastAddStreak int             `gorm:"not null;default:0"`
	LastAddAt     time.Time

	Version int64 `gorm:"not null;default:0"`

	Achievements []UnlockedAchievement `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UnlockedAchievement rows are only ever inserted.
type UnlockedAchievement struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	AchievementID string    `gorm:"primaryKey;size:32"`
	UnlockedAt    time.Time
}

func NewUnlockState(userID uuid.UUID) *UnlockState {
	return &UnlockState{UserID: userID, TotalSpent: decimal.Zero}
}

func (s *UnlockState) Has(id string) bool {
	for _, a := range s.Achievements {
		if a.AchievementID == id {
			return true
		}
	}
	return false
}

// unlock reports whether id was newly added.
func (s *UnlockState) unlock(id string, at time.Time) bool {
	if s.Has(id) {
		return false
	}
	s.Achievements = append(s.Achievements, UnlockedAchievement{
		UserID:        s.UserID,
		AchievementID: id,
		UnlockedAt:    at,
	})
	return true
}

// RecordSpend adds a completed payment to the running total and returns the
// achievements it unlocked.
func (s *UnlockState) RecordSpend(amount decimal.Decimal, at time.Time) ([]string, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: spend amount must be non-negative, got %s", ErrInvalidArgument, amount)
	}
	s.TotalSpent = s.TotalSpent.Add(amount)

	var unlocked []string
	if s.TotalSpent.GreaterThanOrEqual(SpendThreshold) && s.unlock(AchievementGojo, at) {
		unlocked = append(unlocked, AchievementGojo)
	}
	return unlocked, nil
}

// RecordAdd registers a cart add at now. A gap longer than StreakWindow since
// the previous add restarts the streak.
func (s *UnlockState) RecordAdd(now time.Time) []string {
	if s.LastAddAt.IsZero() || now.Sub(s.LastAddAt) > StreakWindow {
		s.FastAddStreak = 1
	} else {
		s.FastAddStreak++
	}
	s.LastAddAt = now

	var unlocked []string
	if s.FastAddStreak >= StreakTarget && s.unlock(AchievementAnya, now) {
		unlocked = append(unlocked, AchievementAnya)
	}
	return unlocked
}

// UnlockedIDs lists starter characters followed by earned achievements.
func (s *UnlockState) UnlockedIDs() []string {
	ids := make([]string, 0, len(StarterCharacters)+len(s.Achievements))
	ids = append(ids, StarterCharacters...)
	for _, a := range s.Achievements {
		ids = append(ids, a.AchievementID)
	}
	return ids
}
