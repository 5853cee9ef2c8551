package model

import "time"

const (
	WeekDays        = 7
	MonthDays       = 30
	habitDateLayout = "2006-01-02"
)

type Habit struct {
	ID                string    `bson:"_id,omitempty" json:"id"`
	UserID            string    `bson:"user_id" json:"user_id"`
	Title             string    `bson:"title" json:"title"`
	Description       string    `bson:"description" json:"description"`
	CurrentStreak     int       `bson:"current_streak" json:"current_streak"`
	TodayCompleted    bool      `bson:"today_completed" json:"today_completed"`
	WeeklyProgress    []bool    `bson:"weekly_progress" json:"weekly_progress"`
	MonthlyProgress   []bool    `bson:"monthly_progress" json:"monthly_progress"`
	LastCompletedDate string    `bson:"last_completed_date,omitempty" json:"last_completed_date,omitempty"`
	LastRolledDate    string    `bson:"last_rolled_date,omitempty" json:"-"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at" json:"updated_at"`
}

func NewHabit(userID, title, description string, now time.Time) *Habit {
	h := &Habit{
		UserID:      userID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	h.ensureProgress()
	h.LastRolledDate = now.Format(habitDateLayout)
	return h
}

// WeekdayIndex maps a weekday onto the weekly progress slot, Monday first.
func WeekdayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % WeekDays
}

// MonthDayIndex maps a day of month onto the monthly progress slot. The 31st
// shares the last slot with the 30th.
func MonthDayIndex(day int) int {
	if day > MonthDays {
		day = MonthDays
	}
	if day < 1 {
		day = 1
	}
	return day - 1
}

func (h *Habit) ensureProgress() {
	if len(h.WeeklyProgress) != WeekDays {
		weekly := make([]bool, WeekDays)
		copy(weekly, h.WeeklyProgress)
		h.WeeklyProgress = weekly
	}
	if len(h.MonthlyProgress) != MonthDays {
		monthly := make([]bool, MonthDays)
		copy(monthly, h.MonthlyProgress)
		h.MonthlyProgress = monthly
	}
}

// Roll clears the periods that have ended since the habit was last touched.
// now must already be in the user's location.
func (h *Habit) Roll(now time.Time) {
	h.ensureProgress()
	today := now.Format(habitDateLayout)
	if h.LastRolledDate == today {
		return
	}

	if last, err := time.ParseInLocation(habitDateLayout, h.LastRolledDate, now.Location()); err == nil {
		ly, lw := last.ISOWeek()
		ny, nw := now.ISOWeek()
		if ly != ny || lw != nw {
			h.WeeklyProgress = make([]bool, WeekDays)
		}
		if last.Year() != now.Year() || last.Month() != now.Month() {
			h.MonthlyProgress = make([]bool, MonthDays)
		}
	}
	h.TodayCompleted = false

	yesterday := now.AddDate(0, 0, -1).Format(habitDateLayout)
	if h.LastCompletedDate != today && h.LastCompletedDate != yesterday {
		h.CurrentStreak = 0
	}
	h.LastRolledDate = today
}

// Toggle flips today's completion and reports the new state.
func (h *Habit) Toggle(now time.Time) bool {
	h.Roll(now)
	if h.TodayCompleted {
		h.undo(now)
		return false
	}
	h.complete(now)
	return true
}

// MarkCompleted completes today if it is not already; it reports whether a
// change was made.
func (h *Habit) MarkCompleted(now time.Time) bool {
	h.Roll(now)
	if h.TodayCompleted {
		return false
	}
	h.complete(now)
	return true
}

func (h *Habit) complete(now time.Time) {
	h.TodayCompleted = true
	h.CurrentStreak++
	h.WeeklyProgress[WeekdayIndex(now.Weekday())] = true
	h.MonthlyProgress[MonthDayIndex(now.Day())] = true
	h.LastCompletedDate = now.Format(habitDateLayout)
}

func (h *Habit) undo(now time.Time) {
	h.TodayCompleted = false
	if h.CurrentStreak > 0 {
		h.CurrentStreak--
	}
	h.WeeklyProgress[WeekdayIndex(now.Weekday())] = false
	h.MonthlyProgress[MonthDayIndex(now.Day())] = false
	if h.CurrentStreak > 0 {
		h.LastCompletedDate = now.AddDate(0, 0, -1).Format(habitDateLayout)
	} else {
		h.LastCompletedDate = ""
	}
}
