package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/waste3d/lootshop-api/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const profileTTL = 10 * time.Minute

// setIfNewer stores a profile snapshot unless the cached one carries the same
// or a later version, so a slow reader cannot overwrite a fresher write.
// KEYS[1] = profile key
// ARGV[1] = version, ARGV[2] = json payload, ARGV[3] = ttl in ms
var setIfNewer = redis.NewScript(`
local cur = redis.call("HGET", KEYS[1], "version")
if cur and tonumber(cur) >= tonumber(ARGV[1]) then
    return 0
end
redis.call("HSET", KEYS[1], "version", ARGV[1], "data", ARGV[2])
redis.call("PEXPIRE", KEYS[1], ARGV[3])
return 1
`)

// ProfileCache keeps read-only copies of profiles for progress queries.
// The database stays authoritative.
type ProfileCache struct {
	client *redis.Client
}

func NewProfileCache(client *redis.Client) *ProfileCache {
	return &ProfileCache{client: client}
}

func profileKey(userID uuid.UUID) string {
	return "profile:" + userID.String()
}

// Get returns (nil, nil) on a miss.
func (c *ProfileCache) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	val, err := c.client.HGet(ctx, profileKey(userID), "data").Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var p domain.Profile
	if err := json.Unmarshal(val, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *ProfileCache) Set(ctx context.Context, p *domain.Profile) error {
	val, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return setIfNewer.Run(ctx, c.client, []string{profileKey(p.UserID)},
		p.Version, val, profileTTL.Milliseconds()).Err()
}
