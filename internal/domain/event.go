package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventLevelUp             EventKind = "level_up"
	EventAchievementUnlocked EventKind = "achievement_unlocked"
)

// Event is what the core hands to whoever renders notifications.
type Event struct {
	Kind          EventKind `json:"kind"`
	UserID        uuid.UUID `json:"user_id"`
	Level         int       `json:"level,omitempty"`
	Title         string    `json:"title,omitempty"`
	XP            int64     `json:"xp,omitempty"`
	AchievementID string    `json:"achievement_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func LevelUpEvent(userID uuid.UUID, award XPAward, at time.Time) Event {
	return Event{
		Kind:       EventLevelUp,
		UserID:     userID,
		Level:      award.NewLevel,
		Title:      award.NewTitle,
		XP:         award.NewXP,
		OccurredAt: at,
	}
}

func UnlockEvents(userID uuid.UUID, ids []string, at time.Time) []Event {
	events := make([]Event, 0, len(ids))
	for _, id := range ids {
		events = append(events, Event{
			Kind:          EventAchievementUnlocked,
			UserID:        userID,
			AchievementID: id,
			OccurredAt:    at,
		})
	}
	return events
}
