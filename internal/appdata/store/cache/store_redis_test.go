package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasquest/internal/appdata/models"
	"tasquest/internal/appdata/store/document"
	"tasquest/internal/platform/logger"
	id "tasquest/pkg/domain"
)

func TestReadThrough_FallsBackWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	backing := document.NewInMemoryStore()
	cache := NewReadThrough(backing, client, time.Minute, logger.Discard())
	ctx := context.Background()
	accountID := id.NewAccountID()

	data, err := models.NewAppData("Jane", "Todo")
	require.NoError(t, err)
	_, err = cache.Save(ctx, accountID, data)
	require.NoError(t, err, "writes succeed without the cache")

	loaded, err := cache.Load(ctx, accountID)
	require.NoError(t, err, "reads fall through to the document store")
	assert.Equal(t, "Jane", loaded.Username)
}
