package redis

import (
	"context"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rmax-ai/partnermap/pkg/store"
)

const (
	keyPrefix   = "partnermap:query:"
	keysSet     = "partnermap:queries"
	generations = "partnermap:generations"
)

// setIfGeneration sums the counters of the key's prefixes and writes the
// value only when the sum still matches the caller's generation.
//
// KEYS: value key, generations hash, index set.
// ARGV: generation, value, ttl in ms (0 for none), cache key, prefixes...
var setIfGeneration = redis.NewScript(`
local gen = 0
for i = 5, #ARGV do
	gen = gen + tonumber(redis.call('HGET', KEYS[2], ARGV[i]) or '0')
end
if gen ~= tonumber(ARGV[1]) then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
redis.call('SADD', KEYS[3], ARGV[4])
return 1
`)

// RedisResultStore keeps query results in Redis so several processes
// (daemon, TUI, CLI) can share one cache. Invalidation generations are kept
// in Redis too, so one process's invalidation also rejects another
// process's in-flight write. Failures are logged and treated as a miss; the
// cache is never a source of errors for callers.
type RedisResultStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ store.ResultStore = (*RedisResultStore)(nil)

// NewRedisResultStore returns a store on client. A ttl of zero keeps entries
// until they are invalidated.
func NewRedisResultStore(client *redis.Client, ttl time.Duration) *RedisResultStore {
	return &RedisResultStore{client: client, ttl: ttl}
}

func (s *RedisResultStore) makeKey(key string) string {
	return keyPrefix + key
}

func (s *RedisResultStore) Set(key string, value []byte) {
	ctx := context.Background()
	if err := s.client.Set(ctx, s.makeKey(key), value, s.ttl).Err(); err != nil {
		log.Printf("Failed to SET key %s: %v", key, err)
		return
	}
	if err := s.client.SAdd(ctx, keysSet, key).Err(); err != nil {
		log.Printf("Failed to SADD key %s to set: %v", key, err)
	}
}

func (s *RedisResultStore) Get(key string) ([]byte, bool) {
	data, err := s.client.Get(context.Background(), s.makeKey(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Failed to GET key %s: %v", key, err)
		}
		return nil, false
	}
	return data, true
}

// Keys lists live keys. Index entries whose value has expired are skipped.
func (s *RedisResultStore) Keys() []string {
	ctx := context.Background()
	members, err := s.client.SMembers(ctx, keysSet).Result()
	if err != nil {
		log.Printf("Failed to SMEMBERS %s: %v", keysSet, err)
		return nil
	}
	if len(members) == 0 {
		return []string{}
	}
	redisKeys := make([]string, len(members))
	for i, m := range members {
		redisKeys[i] = s.makeKey(m)
	}
	values, err := s.client.MGet(ctx, redisKeys...).Result()
	if err != nil {
		log.Printf("Failed to MGET keys: %v", err)
		return nil
	}
	keys := make([]string, 0, len(members))
	for i, val := range values {
		if val == nil {
			continue
		}
		keys = append(keys, members[i])
	}
	sort.Strings(keys)
	return keys
}

// Generation sums the invalidation counters of key and its prefixes. When
// Redis cannot be read it returns a generation no write can match.
func (s *RedisResultStore) Generation(key string) uint64 {
	fields := store.Ancestors(key)
	values, err := s.client.HMGet(context.Background(), generations, fields...).Result()
	if err != nil {
		log.Printf("Failed to HMGET generations for %s: %v", key, err)
		return ^uint64(0)
	}
	var gen uint64
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(str, 10, 64)
		if err != nil {
			log.Printf("Invalid generation %q for %s: %v", str, key, err)
			return ^uint64(0)
		}
		gen += n
	}
	return gen
}

func (s *RedisResultStore) SetIfGeneration(key string, gen uint64, value []byte) bool {
	args := []interface{}{strconv.FormatUint(gen, 10), value, s.ttl.Milliseconds(), key}
	for _, p := range store.Ancestors(key) {
		args = append(args, p)
	}
	stored, err := setIfGeneration.Run(context.Background(), s.client,
		[]string{s.makeKey(key), generations, keysSet}, args...).Int()
	if err != nil {
		log.Printf("Failed to SET key %s at generation %d: %v", key, gen, err)
		return false
	}
	return stored == 1
}

// Invalidate bumps the generation before deleting so a write that passes
// its generation check can only land before the delete.
func (s *RedisResultStore) Invalidate(prefix string) []string {
	ctx := context.Background()
	if err := s.client.HIncrBy(ctx, generations, prefix, 1).Err(); err != nil {
		log.Printf("Failed to HINCRBY generation of %s: %v", prefix, err)
	}
	members, err := s.client.SMembers(ctx, keysSet).Result()
	if err != nil {
		log.Printf("Failed to SMEMBERS %s during delete: %v", keysSet, err)
		return nil
	}
	var removed, redisKeys []string
	var index []interface{}
	for _, m := range members {
		if !store.UnderPrefix(m, prefix) {
			continue
		}
		removed = append(removed, m)
		redisKeys = append(redisKeys, s.makeKey(m))
		index = append(index, m)
	}
	if len(removed) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, redisKeys...).Err(); err != nil {
		log.Printf("Failed to DEL keys under %s: %v", prefix, err)
	}
	if err := s.client.SRem(ctx, keysSet, index...).Err(); err != nil {
		log.Printf("Failed to SREM keys under %s: %v", prefix, err)
	}
	sort.Strings(removed)
	return removed
}

// Clear drops every entry. Generations are bumped, never reset, so a write
// pending from before the clear still fails its check.
func (s *RedisResultStore) Clear() {
	ctx := context.Background()
	if err := s.client.HIncrBy(ctx, generations, "", 1).Err(); err != nil {
		log.Printf("Failed to HINCRBY root generation: %v", err)
	}
	members, err := s.client.SMembers(ctx, keysSet).Result()
	if err != nil {
		log.Printf("Failed to SMEMBERS %s during clear: %v", keysSet, err)
		return
	}
	if len(members) > 0 {
		redisKeys := make([]string, len(members))
		for i, m := range members {
			redisKeys[i] = s.makeKey(m)
		}
		if err := s.client.Del(ctx, redisKeys...).Err(); err != nil {
			log.Printf("Failed to DEL keys: %v", err)
		}
	}
	if err := s.client.Del(ctx, keysSet).Err(); err != nil {
		log.Printf("Failed to DEL set %s: %v", keysSet, err)
	}
}
