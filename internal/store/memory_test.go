package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkmagico/chatbot/internal/model"
)

func TestMemoryStore_PutGet(t *testing.T) {
	m := NewMemory(time.Hour)
	ctx := context.Background()

	rec := model.DefaultRecord("https://example.com")
	rec.Title = "Oferta Especial"
	require.NoError(t, m.Put(ctx, "https://example.com", rec))

	got, ok, err := m.Get(ctx, "https://example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Oferta Especial", got.Title)

	_, ok, err = m.Get(ctx, "https://example.com/other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base

	m := NewMemory(time.Hour)
	m.now = func() time.Time { return current }
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "u", model.DefaultRecord("u")))

	current = base.Add(59 * time.Minute)
	_, ok, err := m.Get(ctx, "u")
	require.NoError(t, err)
	assert.True(t, ok)

	current = base.Add(time.Hour)
	_, ok, err = m.Get(ctx, "u")
	require.NoError(t, err)
	assert.False(t, ok, "entry at the TTL boundary is expired")
}

func TestMemoryStore_LastWriteWins(t *testing.T) {
	m := NewMemory(time.Hour)
	ctx := context.Background()

	first := model.DefaultRecord("u")
	first.Price = "R$ 100,00"
	require.NoError(t, m.Put(ctx, "u", first))

	second := model.DefaultRecord("u")
	second.Price = "R$ 200,00"
	require.NoError(t, m.Put(ctx, "u", second))

	got, ok, err := m.Get(ctx, "u")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "R$ 200,00", got.Price)
}

func TestMemoryStore_ClonesOnBoundary(t *testing.T) {
	m := NewMemory(time.Hour)
	ctx := context.Background()

	rec := model.DefaultRecord("u")
	rec.Benefits = []string{"original"}
	require.NoError(t, m.Put(ctx, "u", rec))

	// Mutating the caller's record after Put must not leak in.
	rec.Benefits[0] = "mutated"

	got, _, err := m.Get(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Benefits[0])

	// Mutating a returned record must not leak back either.
	got.Benefits[0] = "mutated again"
	again, _, err := m.Get(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, "original", again.Benefits[0])
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base

	m := NewMemory(time.Hour)
	m.now = func() time.Time { return current }
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "old", model.DefaultRecord("old")))

	current = base.Add(30 * time.Minute)
	require.NoError(t, m.Put(ctx, "fresh", model.DefaultRecord("fresh")))

	current = base.Add(90 * time.Minute)
	removed, err := m.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, ok, _ := m.Get(ctx, "fresh")
	assert.True(t, ok)
}
