package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"studyflow/model"
	"studyflow/repository"
	"studyflow/services"
	"studyflow/services/events"
	"studyflow/utils"
)

var ErrProfileBusy = errors.New("profile is being updated, try again")

type ProfileService struct {
	profiles ProfileStore
	events   events.Publisher
	locker   Locker
	now      func() time.Time
}

func NewProfileService(profiles ProfileStore, publisher events.Publisher, locker Locker) *ProfileService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if locker == nil {
		locker = services.NewLocker(nil)
	}
	return &ProfileService{profiles: profiles, events: publisher, locker: locker, now: time.Now}
}

// lock serialises read-modify-write cycles on one profile.
func (svc *ProfileService) lock(ctx context.Context, userID string) (func(), error) {
	release, err := acquireWithRetry(ctx, svc.locker, "profile:"+userID)
	if errors.Is(err, services.ErrLocked) {
		return nil, ErrProfileBusy
	}
	return release, err
}

// GetProfile returns the user's profile, creating a default one for users
// that predate profiles.
func (svc *ProfileService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := svc.profiles.GetProfile(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		p = model.NewProfile(userID, "", "", svc.now().UTC())
		if err := svc.profiles.SaveProfile(ctx, p); err != nil {
			return nil, fmt.Errorf("creating profile: %w", err)
		}
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

type ProfileUpdate struct {
	Name      *string
	DailyGoal *int
	Timezone  *string
}

func (svc *ProfileService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*model.Profile, error) {
	if upd.DailyGoal != nil && (*upd.DailyGoal < 1 || *upd.DailyGoal > model.MaxDailyGoal) {
		return nil, ErrInvalidDailyGoal
	}
	if upd.Timezone != nil {
		if _, err := time.LoadLocation(*upd.Timezone); err != nil || *upd.Timezone == "" {
			return nil, ErrInvalidTimezone
		}
	}

	release, err := svc.lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	p, err := svc.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		p.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.DailyGoal != nil {
		p.DailyGoal = *upd.DailyGoal
	}
	if upd.Timezone != nil {
		p.Timezone = *upd.Timezone
	}
	p.UpdatedAt = svc.now().UTC()

	if err := svc.profiles.SaveProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RecordActivity awards xp for a study action of the given kind, updates the
// level and the daily streak.
func (svc *ProfileService) RecordActivity(ctx context.Context, userID string, xp int, kind string) (*model.Profile, error) {
	release, err := svc.lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	p, err := svc.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := svc.now()
	before := p.Level
	p.TotalXP += xp
	p.Level = model.LevelFor(p.TotalXP)
	p.TouchActivity(now)
	p.UpdatedAt = now.UTC()

	if err := svc.profiles.SaveProfile(ctx, p); err != nil {
		return nil, err
	}
	utils.TrackStudyActivity(kind)

	if p.Level > before {
		publish(ctx, svc.events, events.New(events.LevelUp, userID,
			map[string]any{"level": p.Level, "total_xp": p.TotalXP}))
	}
	return p, nil
}

// award is RecordActivity for callers that must not fail on it.
func (svc *ProfileService) award(ctx context.Context, userID string, xp int, kind string) {
	if svc == nil {
		return
	}
	if _, err := svc.RecordActivity(ctx, userID, xp, kind); err != nil {
		slog.Warn("failed to record study activity", "user_id", userID, "kind", kind, "error", err)
	}
}

// Location returns the user's configured timezone.
func (svc *ProfileService) Location(ctx context.Context, userID string) *time.Location {
	if svc == nil {
		return time.UTC
	}
	p, err := svc.profiles.GetProfile(ctx, userID)
	if err != nil {
		return time.UTC
	}
	return p.Location()
}

func publish(ctx context.Context, publisher events.Publisher, e events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, e); err != nil {
		slog.Warn("failed to publish event", "type", e.Type, "error", err)
	}
}
