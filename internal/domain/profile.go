package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LevelThresholds[i] is the XP floor of level i+1.
var LevelThresholds = []int64{0, 100, 250, 500, 1000, 2000, 3500, 5000, 7500, 10000}

var levelTitles = map[int]string{
	1:  "Newbie Shopper",
	2:  "Apprentice Collector",
	3:  "Rising Otaku",
	4:  "Seasoned Buyer",
	5:  "Elite Collector",
	6:  "Master Otaku",
	7:  "Grandmaster",
	8:  "Legendary Collector",
	9:  "Mythical Shopper",
	10: "God of Loot",
}

const StartingLevel = 1

type Profile struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	XP           int64     `gorm:"not null;default:0"`
	Level        int       `gorm:"not null;default:1"`
	CurrentTitle string    `gorm:"not null"`

	// Optimistic concurrency token, bumped on every write.
	Version int64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewProfile(userID uuid.UUID) *Profile {
	title, _ := TitleForLevel(StartingLevel)
	return &Profile{
		UserID:       userID,
		Level:        StartingLevel,
		CurrentTitle: title,
	}
}

type XPAward struct {
	NewXP     int64  `json:"new_xp"`
	NewLevel  int    `json:"new_level"`
	LeveledUp bool   `json:"leveled_up"`
	NewTitle  string `json:"new_title"`
}

type Progress struct {
	Level              int     `json:"level"`
	XP                 int64   `json:"xp"`
	XPForNextLevel     int64   `json:"xp_for_next_level"`
	XPFromCurrentLevel int64   `json:"xp_from_current_level"`
	XPNeeded           int64   `json:"xp_needed"`
	Progress           float64 `json:"progress"`
	CurrentTitle       string  `json:"current_title"`
}

func TitleForLevel(level int) (string, bool) {
	t, ok := levelTitles[level]
	return t, ok
}

// LevelForXP derives the level from XP alone.
func LevelForXP(xp int64) int {
	level := StartingLevel
	for level < len(LevelThresholds) && xp >= LevelThresholds[level] {
		level++
	}
	return level
}

// ApplyXP adds amount to the profile and climbs levels from the stored one.
// The level stops at the top of the threshold table while XP keeps growing.
func (p *Profile) ApplyXP(amount int64) (XPAward, error) {
	if amount < 0 {
		return XPAward{}, fmt.Errorf("%w: xp amount must be non-negative, got %d", ErrInvalidArgument, amount)
	}
	newXP := p.XP + amount
	if newXP < p.XP {
		return XPAward{}, fmt.Errorf("%w: xp overflow", ErrInvalidArgument)
	}

	level := p.Level
	if level < StartingLevel {
		level = StartingLevel
	}
	leveledUp := false
	for level < len(LevelThresholds) && newXP >= LevelThresholds[level] {
		level++
		leveledUp = true
	}

	title := p.CurrentTitle
	if t, ok := TitleForLevel(level); ok {
		title = t
	}

	p.XP = newXP
	p.Level = level
	p.CurrentTitle = title

	return XPAward{
		NewXP:     newXP,
		NewLevel:  level,
		LeveledUp: leveledUp,
		NewTitle:  title,
	}, nil
}

func (p *Profile) Progress() Progress {
	return ComputeProgress(p.Level, p.XP, p.CurrentTitle)
}

// ComputeProgress is a pure function of (level, xp). Title is passed through.
func ComputeProgress(level int, xp int64, title string) Progress {
	floor := thresholdAt(level - 1)
	next := floor
	if level >= StartingLevel && level < len(LevelThresholds) {
		next = LevelThresholds[level]
	}

	percent := 100.0
	if next > floor {
		percent = float64(xp-floor) / float64(next-floor) * 100
	}
	switch {
	case percent < 0:
		percent = 0
	case percent > 100:
		percent = 100
	}

	needed := next - xp
	if needed < 0 {
		needed = 0
	}

	return Progress{
		Level:              level,
		XP:                 xp,
		XPForNextLevel:     next,
		XPFromCurrentLevel: xp - floor,
		XPNeeded:           needed,
		Progress:           percent,
		CurrentTitle:       title,
	}
}

func thresholdAt(i int) int64 {
	if i < 0 || i >= len(LevelThresholds) {
		return 0
	}
	return LevelThresholds[i]
}
