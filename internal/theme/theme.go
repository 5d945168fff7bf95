// Package theme picks the console color scheme from the time of day, unless the operator
// recently chose one by hand.
package theme

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/swiftstay/admin/internal/storage"
)

// Theme is a color scheme
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// OverrideKey is the storage key holding the manual override
const OverrideKey = storage.KeyThemeOverride

// DefaultOverrideTTL is how long a manual choice beats the clock
const DefaultOverrideTTL = 10 * time.Minute

// Day starts at 06:00 and night at 18:00, local time
const (
	dayStart   = "0 6 * * *"
	nightStart = "0 18 * * *"
)

// Override is a manual theme choice. Timestamp is milliseconds since the Unix epoch.
type Override struct {
	Theme     Theme `json:"theme"`
	Timestamp int64 `json:"timestamp"`
}

// Active reports whether the override is younger than ttl at now
func (o Override) Active(now time.Time, ttl time.Duration) bool {
	return now.Sub(time.UnixMilli(o.Timestamp)) < ttl
}

// Result is the theme in effect
type Result struct {
	Theme          Theme `json:"theme"`
	IsDayTime      bool  `json:"isDayTime"`
	OverrideActive bool  `json:"overrideActive"`
}

// IsDayTime is true from 06:00 (inclusive) to 18:00 (exclusive) in now's location
func IsDayTime(now time.Time) bool {
	h := now.Hour()
	return h >= 6 && h < 18
}

// Resolve returns the theme for now. An active override wins and also decides IsDayTime.
func Resolve(now time.Time, override *Override, ttl time.Duration) Result {
	if override != nil && override.Active(now, ttl) {
		return Result{
			Theme:          override.Theme,
			IsDayTime:      override.Theme == Light,
			OverrideActive: true,
		}
	}

	if IsDayTime(now) {
		return Result{Theme: Light, IsDayTime: true}
	}
	return Result{Theme: Dark}
}

// Toggle returns an override switching away from current
func Toggle(current Theme, now time.Time) Override {
	next := Light
	if current == Light {
		next = Dark
	}
	return Override{Theme: next, Timestamp: now.UnixMilli()}
}

// NextSwitch returns the next 06:00 or 18:00 boundary after now
func NextSwitch(now time.Time) time.Time {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

	var next time.Time
	for _, expr := range []string{dayStart, nightStart} {
		schedule, err := parser.Parse(expr)
		if err != nil {
			panic(fmt.Sprintf("theme: bad schedule %q: %v", expr, err))
		}
		if t := schedule.Next(now); next.IsZero() || t.Before(next) {
			next = t
		}
	}
	return next
}

// LoadOverride reads the stored override. A missing entry returns nil. An entry that cannot
// be parsed or has expired is removed and nil is returned.
func LoadOverride(ctx context.Context, store storage.Store, now time.Time, ttl time.Duration) (*Override, error) {
	raw, err := storage.Lookup(ctx, store, OverrideKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme override: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	var o Override
	if err := json.Unmarshal([]byte(raw), &o); err != nil || (o.Theme != Light && o.Theme != Dark) || !o.Active(now, ttl) {
		if err := store.Delete(ctx, OverrideKey); err != nil {
			return nil, fmt.Errorf("failed to remove theme override: %w", err)
		}
		return nil, nil
	}
	return &o, nil
}

// SaveOverride stores o
func SaveOverride(ctx context.Context, store storage.Store, o Override) error {
	raw, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to marshal theme override: %w", err)
	}
	if err := store.Set(ctx, OverrideKey, string(raw)); err != nil {
		return fmt.Errorf("failed to save theme override: %w", err)
	}
	return nil
}
