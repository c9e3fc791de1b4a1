package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkmagico/chatbot/internal/model"
)

func newTestSQLite(t *testing.T, ttl time.Duration) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "cache.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	s := newTestSQLite(t, time.Hour)
	ctx := context.Background()

	rec := model.DefaultRecord("https://example.com/oferta")
	rec.Title = "Curso Completo"
	rec.Benefits = []string{"Acesso vitalício", "Suporte dedicado"}
	require.NoError(t, s.Put(ctx, "https://example.com/oferta", rec))

	got, ok, err := s.Get(ctx, "https://example.com/oferta")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Curso Completo", got.Title)
	assert.Equal(t, []string{"Acesso vitalício", "Suporte dedicado"}, got.Benefits)

	_, ok, err = s.Get(ctx, "https://example.com/unknown")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_TTLExpiry(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base

	s := newTestSQLite(t, time.Hour)
	s.now = func() time.Time { return current }
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "u", model.DefaultRecord("u")))

	current = base.Add(59 * time.Minute)
	_, ok, err := s.Get(ctx, "u")
	require.NoError(t, err)
	assert.True(t, ok)

	current = base.Add(61 * time.Minute)
	_, ok, err = s.Get(ctx, "u")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_LastWriteWins(t *testing.T) {
	s := newTestSQLite(t, time.Hour)
	ctx := context.Background()

	first := model.DefaultRecord("u")
	first.Price = "R$ 100,00"
	require.NoError(t, s.Put(ctx, "u", first))

	second := model.DefaultRecord("u")
	second.Price = "R$ 200,00"
	require.NoError(t, s.Put(ctx, "u", second))

	got, ok, err := s.Get(ctx, "u")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "R$ 200,00", got.Price)
}

func TestSQLiteStore_DeleteExpired(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base

	s := newTestSQLite(t, time.Hour)
	s.now = func() time.Time { return current }
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "old", model.DefaultRecord("old")))

	current = base.Add(30 * time.Minute)
	require.NoError(t, s.Put(ctx, "fresh", model.DefaultRecord("fresh")))

	current = base.Add(90 * time.Minute)
	removed, err := s.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, ok, err := s.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, ok)
}
