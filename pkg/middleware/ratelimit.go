package middleware

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/simple-lms/console/pkg/composables"
	"github.com/simple-lms/console/pkg/httpapi"
)

type RateLimitConfig struct {
	RequestsPerPeriod int
	Period            time.Duration
	Store             limiter.Store
}

func NewMemoryStore() limiter.Store {
	return memory.NewStore()
}

// NewRedisStore shares counters across instances through Redis.
func NewRedisStore(redisURL string) (limiter.Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	store, err := sredis.NewStoreWithOptions(redis.NewClient(opts), limiter.StoreOptions{
		Prefix: "console_rate_limit",
	})
	if err != nil {
		return nil, errors.Wrap(err, "create redis store")
	}
	return store, nil
}

// RateLimit rejects requests above the configured rate with a 429 envelope.
// Clients are keyed by the real IP resolved by WithLogger, falling back to
// the remote address.
func RateLimit(cfg RateLimitConfig) mux.MiddlewareFunc {
	period := cfg.Period
	if period == 0 {
		period = time.Second
	}
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}
	rate := limiter.Rate{Period: period, Limit: int64(cfg.RequestsPerPeriod)}
	lim := limiter.New(store, rate)
	mw := stdlib.NewMiddleware(
		lim,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			_ = httpapi.WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
		}),
		stdlib.WithKeyGetter(func(r *http.Request) string {
			if ip, ok := composables.UseIP(r.Context()); ok && ip != "" {
				return ip
			}
			return lim.GetIPKey(r)
		}),
	)
	return mw.Handler
}
