package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Musharaf05/HabitFlow/config"
	"github.com/Musharaf05/HabitFlow/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// How long a cached per-user token list is trusted before the next read
// goes back to Postgres.
const tokenCacheTTL = 60 * time.Second

// ConnectRedis opens the Redis connection and verifies it with a ping.
func ConnectRedis(cfg config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// CachedTokenStore wraps the Postgres token store with a per-user Redis
// cache. The dispatch loop reads token lists every tick; the cache keeps
// those reads off the primary table. Writes go through to Postgres and
// invalidate the affected user's entry; anything the invalidation cannot
// reach ages out within tokenCacheTTL.
type CachedTokenStore struct {
	store *GormTokenStore
	rdb   *redis.Client
}

func NewCachedTokenStore(store *GormTokenStore, rdb *redis.Client) *CachedTokenStore {
	return &CachedTokenStore{store: store, rdb: rdb}
}

func tokenCacheKey(owner uuid.UUID) string {
	return fmt.Sprintf("tokens:user:%s", owner)
}

// cachedToken is the Redis wire form. The model hides the token string
// from API JSON, so the cache needs its own serialization.
type cachedToken struct {
	ID      uuid.UUID  `json:"id"`
	OwnerID *uuid.UUID `json:"owner_id"`
	Token   string     `json:"token"`
}

func toCache(rows []models.DeliveryToken) []cachedToken {
	out := make([]cachedToken, len(rows))
	for i, r := range rows {
		out[i] = cachedToken{ID: r.ID, OwnerID: r.OwnerID, Token: r.Token}
	}
	return out
}

func fromCache(entries []cachedToken) []models.DeliveryToken {
	out := make([]models.DeliveryToken, len(entries))
	for i, e := range entries {
		out[i] = models.DeliveryToken{ID: e.ID, OwnerID: e.OwnerID, Token: e.Token}
	}
	return out
}

func (c *CachedTokenStore) Upsert(owner *uuid.UUID, token string) (*models.DeliveryToken, error) {
	// A re-registration can move a token between users, so the previous
	// owner's cache entry needs invalidating along with the new one's.
	var prev *uuid.UUID
	if rows, err := c.store.byTokens([]string{token}); err == nil && len(rows) == 1 {
		prev = rows[0].OwnerID
	}

	row, err := c.store.Upsert(owner, token)
	if err != nil {
		return nil, err
	}
	if prev != nil && owner != nil && *prev != *owner {
		c.invalidate(*prev)
	}
	if owner != nil {
		c.invalidate(*owner)
	}
	return row, nil
}

func (c *CachedTokenStore) ByOwner(owner uuid.UUID) ([]models.DeliveryToken, error) {
	ctx := context.Background()
	key := tokenCacheKey(owner)

	cached, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		var entries []cachedToken
		if err := json.Unmarshal([]byte(cached), &entries); err == nil {
			return fromCache(entries), nil
		}
		log.Warn().Str("key", key).Msg("dropping unreadable token cache entry")
		c.rdb.Del(ctx, key)
	} else if err != redis.Nil {
		log.Warn().Err(err).Msg("token cache read failed, falling back to postgres")
	}

	tokens, err := c.store.ByOwner(owner)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(toCache(tokens))
	if err == nil {
		if err := c.rdb.Set(ctx, key, data, tokenCacheTTL).Err(); err != nil {
			log.Warn().Err(err).Msg("token cache write failed")
		}
	}
	return tokens, nil
}

func (c *CachedTokenStore) DeleteTokens(tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	rows, err := c.store.byTokens(tokens)
	if err != nil {
		return err
	}
	if err := c.store.DeleteTokens(tokens); err != nil {
		return err
	}
	seen := make(map[uuid.UUID]bool)
	for _, row := range rows {
		if row.OwnerID != nil && !seen[*row.OwnerID] {
			seen[*row.OwnerID] = true
			c.invalidate(*row.OwnerID)
		}
	}
	return nil
}

func (c *CachedTokenStore) invalidate(owner uuid.UUID) {
	if err := c.rdb.Del(context.Background(), tokenCacheKey(owner)).Err(); err != nil {
		log.Warn().Err(err).Str("owner", owner.String()).Msg("token cache invalidation failed")
	}
}
