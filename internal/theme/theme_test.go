package theme

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftstay/admin/internal/storage"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 1, hour, minute, 0, 0, time.UTC)
}

func TestResolve_ByClock(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want Theme
		day  bool
	}{
		{"before dawn", at(5, 59), Dark, false},
		{"dawn", at(6, 0), Light, true},
		{"afternoon", at(17, 59), Light, true},
		{"dusk", at(18, 0), Dark, false},
		{"midnight", at(0, 0), Dark, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.now, nil, DefaultOverrideTTL)
			assert.Equal(t, tt.want, got.Theme)
			assert.Equal(t, tt.day, got.IsDayTime)
			assert.False(t, got.OverrideActive)
		})
	}
}

func TestResolve_Override(t *testing.T) {
	now := at(12, 0)
	override := Toggle(Light, now.Add(-9*time.Minute))
	require.Equal(t, Dark, override.Theme)

	got := Resolve(now, &override, DefaultOverrideTTL)
	assert.Equal(t, Dark, got.Theme)
	assert.False(t, got.IsDayTime)
	assert.True(t, got.OverrideActive)

	got = Resolve(now.Add(time.Minute), &override, DefaultOverrideTTL)
	assert.Equal(t, Light, got.Theme)
	assert.False(t, got.OverrideActive)
}

func TestToggle(t *testing.T) {
	now := at(20, 0)
	assert.Equal(t, Light, Toggle(Dark, now).Theme)
	assert.Equal(t, Dark, Toggle(Light, now).Theme)
	assert.Equal(t, now.UnixMilli(), Toggle(Light, now).Timestamp)
}

func TestNextSwitch(t *testing.T) {
	assert.Equal(t, at(6, 0), NextSwitch(at(0, 30)))
	assert.Equal(t, at(18, 0), NextSwitch(at(6, 0)))
	assert.Equal(t, at(6, 0).AddDate(0, 0, 1), NextSwitch(at(18, 0)))
}

func TestOverridePersistence(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	now := at(12, 0)

	o, err := LoadOverride(ctx, store, now, DefaultOverrideTTL)
	require.NoError(t, err)
	assert.Nil(t, o)

	require.NoError(t, SaveOverride(ctx, store, Toggle(Light, now)))
	o, err = LoadOverride(ctx, store, now.Add(time.Minute), DefaultOverrideTTL)
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, Dark, o.Theme)

	raw, err := store.Get(ctx, OverrideKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark","timestamp":1714564800000}`, raw)

	// Expired entries are removed
	o, err = LoadOverride(ctx, store, now.Add(DefaultOverrideTTL), DefaultOverrideTTL)
	require.NoError(t, err)
	assert.Nil(t, o)
	_, err = store.Get(ctx, OverrideKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// So are corrupt ones
	require.NoError(t, store.Set(ctx, OverrideKey, "{not json"))
	o, err = LoadOverride(ctx, store, now, DefaultOverrideTTL)
	require.NoError(t, err)
	assert.Nil(t, o)
	_, err = store.Get(ctx, OverrideKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
