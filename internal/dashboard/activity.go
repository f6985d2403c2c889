package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/EasterCompany/package-builder-service/internal/fuel"
	"github.com/EasterCompany/package-builder-service/internal/remote"
)

// Event kinds accepted by ActivityLog.Record.
const (
	EventLogin      = "login"
	EventStreak     = "streak"
	EventConnection = "connection"
	EventReferral   = "referral"
	EventView       = "profile-view"
	EventEngagement = "engagement"
	EventAttended   = "event"
	EventUpgrade    = "upgrade"
)

// ActivityLog keeps per-user activity counters in a KV store.
type ActivityLog struct {
	mu sync.Mutex
	kv remote.KV
}

func NewActivityLog(kv remote.KV) *ActivityLog {
	return &ActivityLog{kv: kv}
}

// activityUsersKey lists every user with recorded activity.
const activityUsersKey = "activity_users"

func activityKey(userID string) string { return "activity_" + userID }

func (l *ActivityLog) Get(ctx context.Context, userID string) (fuel.Activity, error) {
	var a fuel.Activity
	data, ok, err := l.kv.Get(ctx, activityKey(userID))
	if err != nil || !ok {
		return a, err
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return fuel.Activity{}, fmt.Errorf("decode activity for %s: %w", userID, err)
	}
	return a, nil
}

// Record adds count occurrences of kind for userID and returns the updated
// counters.
func (l *ActivityLog) Record(ctx context.Context, userID, kind string, count int) (fuel.Activity, error) {
	if count <= 0 {
		count = 1
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.Get(ctx, userID)
	if err != nil {
		return fuel.Activity{}, err
	}
	switch kind {
	case EventLogin:
		a.WeeklyLogins += count
	case EventStreak:
		a.StreakDays += count
	case EventConnection:
		a.Connections += count
	case EventReferral:
		a.Referrals += count
	case EventView:
		a.ProfileViews += count
	case EventEngagement:
		a.CommunityEngagement += count
	case EventAttended:
		a.EventsAttended += count
	case EventUpgrade:
		a.PackageUpgrades += count
	default:
		return fuel.Activity{}, fmt.Errorf("unknown activity kind %q", kind)
	}

	if err := l.put(ctx, userID, a); err != nil {
		return fuel.Activity{}, err
	}
	if err := l.index(ctx, userID); err != nil {
		return fuel.Activity{}, err
	}
	return a, nil
}

// Users returns every user id with recorded activity.
func (l *ActivityLog) Users(ctx context.Context) ([]string, error) {
	data, ok, err := l.kv.Get(ctx, activityUsersKey)
	if err != nil || !ok {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode activity index: %w", err)
	}
	return ids, nil
}

// ResetWeek clears the weekly login counter for userID.
func (l *ActivityLog) ResetWeek(ctx context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resetWeek(ctx, userID)
}

// ResetAllWeeks clears the weekly login counter of every known user and
// returns how many were reset.
func (l *ActivityLog) ResetAllWeeks(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids, err := l.Users(ctx)
	if err != nil {
		return 0, err
	}
	var errs []error
	reset := 0
	for _, id := range ids {
		if err := l.resetWeek(ctx, id); err != nil {
			errs = append(errs, err)
			continue
		}
		reset++
	}
	return reset, errors.Join(errs...)
}

func (l *ActivityLog) resetWeek(ctx context.Context, userID string) error {
	a, err := l.Get(ctx, userID)
	if err != nil {
		return err
	}
	if a.WeeklyLogins == 0 {
		return nil
	}
	a.WeeklyLogins = 0
	return l.put(ctx, userID, a)
}

func (l *ActivityLog) put(ctx context.Context, userID string, a fuel.Activity) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	if err := l.kv.Set(ctx, activityKey(userID), data); err != nil {
		return fmt.Errorf("store activity for %s: %w", userID, err)
	}
	return nil
}

func (l *ActivityLog) index(ctx context.Context, userID string) error {
	ids, err := l.Users(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(ids, userID) {
		return nil
	}
	data, err := json.Marshal(append(ids, userID))
	if err != nil {
		return err
	}
	if err := l.kv.Set(ctx, activityUsersKey, data); err != nil {
		return fmt.Errorf("store activity index: %w", err)
	}
	return nil
}
