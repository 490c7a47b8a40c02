package errx

import (
	"context"
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// WrapRedis classifies an error from the collaborator cache. Every Redis
// failure is an adapter failure: the caller falls through to the live adapter.
func WrapRedis(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.Nil):
		return New(err, http.StatusNotFound, RedisNotFoundMessage).WithClass(ClassAdapterFailure)
	case errors.Is(err, context.DeadlineExceeded):
		return New(err, http.StatusGatewayTimeout, RedisTimeoutMessage).WithClass(ClassAdapterFailure)
	default:
		return New(err, http.StatusBadGateway, RedisErrorMessage).WithClass(ClassAdapterFailure)
	}
}

// IsCacheMiss reports whether err is a Redis miss, wrapped or not.
func IsCacheMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
