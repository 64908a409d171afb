package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Option func(*redis.Options)

func WithPassword(password string) Option {
	return func(o *redis.Options) {
		o.Password = password
	}
}

func WithDB(db int) Option {
	return func(o *redis.Options) {
		o.DB = db
	}
}

func WithPoolSize(poolSize int) Option {
	return func(o *redis.Options) {
		o.PoolSize = poolSize
	}
}

func NewRedisClient(addr string, opts ...Option) *redis.Client {
	o := &redis.Options{Addr: addr}
	for _, opt := range opts {
		opt(o)
	}
	return redis.NewClient(o)
}

// Limiter is a fixed-window counter: at most Limit hits per key inside each Window.
type Limiter struct {
	client redis.Scripter
	prefix string
	limit  int64
	window time.Duration
}

func NewLimiter(client redis.Scripter, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
	}
}

const incrScript = `
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`

// Allow counts one hit for key and reports whether it is still inside the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Eval(ctx, incrScript, []string{l.prefix + ":" + key}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("ratelimit: %w", err)
	}
	return n <= l.limit, nil
}
