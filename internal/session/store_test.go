package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/barber-portal/internal/domain"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, ttl), mr
}

func TestStoreRecordRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, 24*time.Hour)
	ctx := context.Background()

	created := time.Date(2026, time.July, 15, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveRecord(ctx, "sess-1", Record{StaffID: "staff-1", CreatedAt: created}))

	record, err := store.LoadRecord(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "staff-1", record.StaffID)
	assert.True(t, record.CreatedAt.Equal(created))
}

func TestStoreLoadAbsentRecord(t *testing.T) {
	store, _ := newTestStore(t, 24*time.Hour)

	record, err := store.LoadRecord(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestStoreDeleteRecord(t *testing.T) {
	store, _ := newTestStore(t, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, store.SaveRecord(ctx, "sess-1", Record{StaffID: "staff-1", CreatedAt: time.Now()}))
	require.NoError(t, store.DeleteRecord(ctx, "sess-1"))

	record, err := store.LoadRecord(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, record)

	// Deleting again is a no-op.
	require.NoError(t, store.DeleteRecord(ctx, "sess-1"))
}

func TestStoreRecordCarriesTTL(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)

	require.NoError(t, store.SaveRecord(context.Background(), "sess-1", Record{StaffID: "staff-1", CreatedAt: time.Now()}))
	assert.Equal(t, time.Hour, mr.TTL("session:sess-1"))
}

func TestStoreRecordExpiry(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.SaveRecord(ctx, "sess-1", Record{StaffID: "staff-1", CreatedAt: time.Now()}))
	mr.FastForward(2 * time.Hour)

	record, err := store.LoadRecord(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestStoreLiveRegistry(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	sess := New("sess-1", domain.StaffMember{ID: "staff-1"}, time.Now())
	store.PutLive(sess)

	got, ok := store.GetLive("sess-1")
	require.True(t, ok)
	assert.Same(t, sess, got)

	store.DropLive("sess-1")
	_, ok = store.GetLive("sess-1")
	assert.False(t, ok)
}

func TestRecordExpired(t *testing.T) {
	now := time.Date(2026, time.July, 15, 12, 0, 0, 0, time.UTC)
	record := Record{CreatedAt: now.Add(-23 * time.Hour)}

	assert.False(t, record.Expired(24*time.Hour, now))
	assert.True(t, record.Expired(24*time.Hour, now.Add(2*time.Hour)))
	assert.True(t, Record{CreatedAt: now.Add(-24 * time.Hour)}.Expired(24*time.Hour, now))
}
