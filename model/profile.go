package model

import "time"

const (
	XPChatMessage      = 2
	XPCardLearned      = 5
	XPHabitCompleted   = 10
	XPFocusSession     = 25
	XPPerLevel         = 100
	DefaultDailyGoal   = 4
	DefaultTimezone    = "UTC"
	MaxDailyGoal       = 50
	activityDateLayout = "2006-01-02"
)

type Profile struct {
	UserID         string    `bson:"user_id" json:"user_id"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	Streak         int       `bson:"streak" json:"streak"`
	Level          int       `bson:"level" json:"level"`
	TotalXP        int       `bson:"total_xp" json:"total_xp"`
	DailyGoal      int       `bson:"daily_goal" json:"daily_goal"`
	Timezone       string    `bson:"timezone" json:"timezone"`
	LastActiveDate string    `bson:"last_active_date,omitempty" json:"last_active_date,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

func NewProfile(userID, name, email string, now time.Time) *Profile {
	return &Profile{
		UserID:    userID,
		Name:      name,
		Email:     email,
		Level:     1,
		DailyGoal: DefaultDailyGoal,
		Timezone:  DefaultTimezone,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// LevelFor maps accumulated XP to a level starting at 1.
func LevelFor(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return totalXP/XPPerLevel + 1
}

// Location resolves the profile timezone, falling back to UTC.
func (p *Profile) Location() *time.Location {
	if p == nil || p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TouchActivity updates the daily study streak for activity at now and
// reports whether anything changed.
func (p *Profile) TouchActivity(now time.Time) bool {
	local := now.In(p.Location())
	today := local.Format(activityDateLayout)
	if p.LastActiveDate == today {
		return false
	}
	yesterday := local.AddDate(0, 0, -1).Format(activityDateLayout)
	if p.LastActiveDate == yesterday {
		p.Streak++
	} else {
		p.Streak = 1
	}
	p.LastActiveDate = today
	return true
}
