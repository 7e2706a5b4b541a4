package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"tasquest/internal/appdata/models"
	id "tasquest/pkg/domain"
)

const keyPrefix = "tasquest:appdata:"

// Store is the document store being cached.
type Store interface {
	Load(ctx context.Context, accountID id.AccountID) (*models.AppData, error)
	Save(ctx context.Context, accountID id.AccountID, data *models.AppData) (int64, error)
	Execute(ctx context.Context, accountID id.AccountID, mutate func(*models.AppData) error) (*models.AppData, error)
}

// putIfNewer stores a document under KEYS[1] unless the entry already holds
// the same or a later version. ARGV: version, payload, ttl in milliseconds.
var putIfNewer = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'version')
if current and tonumber(current) >= tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'document', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

// ReadThrough serves Load from Redis and falls back to the wrapped store on a
// miss or a Redis error. Entries carry the document version and are only
// ever replaced by a later one, so a slow fill cannot overwrite the result of
// a newer write.
type ReadThrough struct {
	next   Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewReadThrough(next Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *ReadThrough {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ReadThrough{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *ReadThrough) Load(ctx context.Context, accountID id.AccountID) (*models.AppData, error) {
	raw, err := c.client.HGet(ctx, cacheKey(accountID), "document").Bytes()
	switch {
	case err == nil:
		var data models.AppData
		if err := json.Unmarshal(raw, &data); err == nil {
			return &data, nil
		}
		c.logger.WarnContext(ctx, "dropping undecodable cache entry", "account_id", accountID.String())
		c.invalidate(ctx, accountID)
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "app data cache read failed", "error", err, "account_id", accountID.String())
	}

	data, err := c.next.Load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	c.put(ctx, accountID, data)
	return data, nil
}

func (c *ReadThrough) Save(ctx context.Context, accountID id.AccountID, data *models.AppData) (int64, error) {
	version, err := c.next.Save(ctx, accountID, data)
	if err != nil {
		return 0, err
	}
	stored := *data
	stored.Version = version
	c.put(ctx, accountID, &stored)
	return version, nil
}

func (c *ReadThrough) Execute(ctx context.Context, accountID id.AccountID, mutate func(*models.AppData) error) (*models.AppData, error) {
	data, err := c.next.Execute(ctx, accountID, mutate)
	if err != nil {
		return nil, err
	}
	c.put(ctx, accountID, data)
	return data, nil
}

// put writes data unless Redis already holds a later version. If the write
// fails the entry is dropped so readers go back to the document store.
func (c *ReadThrough) put(ctx context.Context, accountID id.AccountID, data *models.AppData) {
	payload, err := json.Marshal(data)
	if err != nil {
		c.invalidate(ctx, accountID)
		return
	}
	keys := []string{cacheKey(accountID)}
	if err := putIfNewer.Run(ctx, c.client, keys, data.Version, payload, c.ttl.Milliseconds()).Err(); err != nil {
		c.logger.WarnContext(ctx, "app data cache write failed", "error", fmt.Errorf("put: %w", err), "account_id", accountID.String())
		c.invalidate(ctx, accountID)
	}
}

func (c *ReadThrough) invalidate(ctx context.Context, accountID id.AccountID) {
	if err := c.client.Del(ctx, cacheKey(accountID)).Err(); err != nil {
		c.logger.WarnContext(ctx, "app data cache invalidation failed", "error", err, "account_id", accountID.String())
	}
}

func cacheKey(accountID id.AccountID) string {
	return keyPrefix + accountID.String()
}
