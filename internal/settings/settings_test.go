package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/dupepanel/internal/kvstore"
)

func TestLoad_DefaultsWhenMissingOrCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()

	s, err := Load(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)

	require.NoError(t, kv.Set(ctx, kvstore.KeySettings, []byte(`[1,2,3]`)))
	s, err = Load(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoad_NullAndPartialKeepDefaults(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()

	require.NoError(t, kv.Set(ctx, kvstore.KeySettings, []byte(`null`)))
	s, err := Load(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)

	require.NoError(t, kv.Set(ctx, kvstore.KeySettings, []byte(`{}`)))
	s, err = Load(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)

	require.NoError(t, kv.Set(ctx, kvstore.KeySettings, []byte(`{"notificationsEnabled":true,"notifyOneSlot":false}`)))
	s, err = Load(ctx, kv)
	require.NoError(t, err)
	want := Default()
	want.NotifyOneSlot = false
	assert.Equal(t, want, s)

	require.NoError(t, kv.Set(ctx, kvstore.KeySettings, []byte(`{"theme":"neon","notifyPriceReset":false}`)))
	s, err = Load(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, ThemeSystem, s.Theme)
	assert.False(t, s.NotifyPriceReset)
	assert.True(t, s.NotificationsEnabled)
}

func TestOverlay(t *testing.T) {
	base := Default()
	base.NotifyTwoSlots = false

	got, err := base.Overlay([]byte(`{"theme":"dark"}`))
	require.NoError(t, err)
	want := base
	want.Theme = ThemeDark
	assert.Equal(t, want, got)

	got, err = base.Overlay(nil)
	require.NoError(t, err)
	assert.Equal(t, base, got)

	_, err = base.Overlay([]byte(`{"notifyOneSlot":"yes"}`))
	assert.Error(t, err)
}

func TestStore_SaveNotifiesAndPersists(t *testing.T) {
	ctx := context.Background()
	st := NewStore(kvstore.NewMemoryStore())

	calls := 0
	st.OnChange(func(context.Context) { calls++ })

	v := Default()
	v.NotifyOneSlot = false
	v.Theme = ThemeDark
	require.NoError(t, st.Save(ctx, v))

	got, err := st.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, v, got)
	assert.Equal(t, 1, calls)

	require.ErrorIs(t, st.Save(ctx, Settings{Theme: "neon"}), ErrUnknownTheme)
	assert.Equal(t, 1, calls)

	require.NoError(t, st.Reset(ctx))
	got, err = st.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}
