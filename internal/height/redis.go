package height

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	id "consentgate/pkg/domain"
)

// Redis reads the height the host publishes under a key. A missing key reads
// as height 0.
type Redis struct {
	client redis.Cmdable
	key    string
	mono   monotonic
}

func NewRedis(client redis.Cmdable, key string) *Redis {
	return &Redis{client: client, key: key}
}

func (r *Redis) CurrentHeight(ctx context.Context) (id.Height, error) {
	raw, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return r.mono.observe(0), nil
	}
	if err != nil {
		return 0, fmt.Errorf("read height from redis: %w", err)
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse height %q: %w", raw, err)
	}
	return r.mono.observe(id.Height(v)), nil
}

// setMax raises the key to ARGV[1] unless it already holds a higher value.
// Values are compared as decimal strings so heights above 2^53 stay exact.
var setMax = redis.NewScript(`
local cur = redis.call("GET", KEYS[1]) or "0"
local want = ARGV[1]
if #want > #cur or (#want == #cur and want > cur) then
  redis.call("SET", KEYS[1], want)
  return want
end
return cur
`)

// Set publishes h for every process reading the key. Lower values are ignored.
func (r *Redis) Set(ctx context.Context, h id.Height) (id.Height, error) {
	raw, err := setMax.Run(ctx, r.client, []string{r.key}, strconv.FormatUint(uint64(h), 10)).Text()
	if err != nil {
		return 0, fmt.Errorf("publish height to redis: %w", err)
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse height %q: %w", raw, err)
	}
	return r.mono.observe(id.Height(v)), nil
}

// Advance moves the published height forward by n.
func (r *Redis) Advance(ctx context.Context, n uint64) (id.Height, error) {
	if n > id.MaxValue {
		return 0, fmt.Errorf("advance height by %d: exceeds maximum", n)
	}
	v, err := r.client.IncrBy(ctx, r.key, int64(n)).Result()
	if err != nil {
		return 0, fmt.Errorf("advance height in redis: %w", err)
	}
	return r.mono.observe(id.Height(v)), nil
}
