package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func at(s *Store, ts time.Time) {
	s.now = func() time.Time { return ts }
}

func TestHashIPIsStableAndOpaque(t *testing.T) {
	s := newTestStore(t)

	a := s.HashIP("203.0.113.7")
	assert.Len(t, a, 16)
	assert.Equal(t, a, s.HashIP("203.0.113.7"))
	assert.NotEqual(t, a, s.HashIP("203.0.113.8"))
	assert.NotContains(t, a, "203")
}

func TestRecordAndStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	at(s, now.Add(-10*24*time.Hour))
	require.NoError(t, s.Record(ctx, "10.0.0.1", "old", "/"))
	at(s, now.Add(-3*24*time.Hour))
	require.NoError(t, s.Record(ctx, "10.0.0.2", "ua", "/"))
	at(s, now.Add(-time.Hour))
	require.NoError(t, s.Record(ctx, "10.0.0.1", "ua", "/"))
	require.NoError(t, s.Record(ctx, "10.0.0.3", "ua", "/contact-form"))
	at(s, now)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalVisitors)
	assert.Equal(t, int64(3), stats.UniqueVisitors)
	assert.Equal(t, int64(2), stats.VisitorsToday)
	assert.Equal(t, int64(3), stats.VisitorsThisWeek)
	require.Len(t, stats.TopPaths, 2)
	assert.Equal(t, PathStat{Path: "/", Views: 3}, stats.TopPaths[0])
	require.Len(t, stats.RecentVisitors, 4)
	assert.Equal(t, "old", stats.RecentVisitors[3].UserAgent)
	assert.Equal(t, now.Add(-10*24*time.Hour), stats.RecentVisitors[3].Timestamp)
}

func TestCleanupRemovesExpiredRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	at(s, now.Add(-Retention-time.Hour))
	require.NoError(t, s.Record(ctx, "10.0.0.1", "ua", "/"))
	at(s, now.Add(-time.Hour))
	require.NoError(t, s.Record(ctx, "10.0.0.2", "ua", "/"))
	at(s, now)

	n, err := s.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	visitors, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, visitors, 1)
}

func TestRecordAsync(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		s.RecordAsync("10.0.0.1", "ua", "/")
	}
	s.Wait()

	visitors, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, visitors, 5)
}
