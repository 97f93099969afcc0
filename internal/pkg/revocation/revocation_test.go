package revocation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
}

func TestRedisStore_Revoke(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := &redisStore{rdb: rdb, now: fixedNow}

	mock.ExpectSet(Key("jti-1"), "1", time.Hour).SetVal("OK")

	err := store.Revoke(context.Background(), "jti-1", fixedNow().Add(time.Hour))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_RevokeExpiredTokenIsNoop(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := &redisStore{rdb: rdb, now: fixedNow}

	err := store.Revoke(context.Background(), "jti-1", fixedNow().Add(-time.Minute))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_IsRevoked(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := &redisStore{rdb: rdb, now: fixedNow}

	mock.ExpectGet(Key("revoked")).SetVal("1")
	mock.ExpectGet(Key("fresh")).RedisNil()
	mock.ExpectGet(Key("broken")).SetErr(errors.New("connection refused"))

	revoked, err := store.IsRevoked(context.Background(), "revoked")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(context.Background(), "fresh")
	require.NoError(t, err)
	assert.False(t, revoked)

	_, err = store.IsRevoked(context.Background(), "broken")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryStore(t *testing.T) {
	now := fixedNow()
	store := &memoryStore{revoked: map[string]time.Time{}, now: func() time.Time { return now }}
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "a", now.Add(time.Hour)))
	revoked, _ := store.IsRevoked(ctx, "a")
	assert.True(t, revoked)

	revoked, _ = store.IsRevoked(ctx, "b")
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, _ = store.IsRevoked(ctx, "a")
	assert.False(t, revoked)
}
