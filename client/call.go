package client

import (
	"context"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/miyatoshi624/gote/client/internal/backend"
	"github.com/miyatoshi624/gote/client/internal/faults"
	"github.com/miyatoshi624/gote/pkg/result"
)

// Result is the outcome of a Client operation.
type Result[T any] = result.Result[T, Error]

func success[T any](v T) Result[T] { return result.Success[T, Error](v) }

func failure[T any](err error) Result[T] { return result.Failure[T](AsError(err)) }

type retryPolicy struct {
	attempts    int
	base        time.Duration
	maxInterval time.Duration
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{attempts: 3, base: 200 * time.Millisecond, maxInterval: 5 * time.Second}
}

func (p retryPolicy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.base
	exp.Multiplier = 2
	exp.MaxInterval = p.maxInterval
	exp.Reset()
	retries := 0
	if p.attempts > 1 {
		retries = p.attempts - 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}

// callKind says whether an operation may be repeated after a transient fault.
type callKind int

const (
	idempotent callKind = iota
	once
)

// run resolves the backend and executes fn with panic recovery, retries for
// idempotent calls, metrics and logging. Every fault comes back as an Error.
func run[T any](ctx context.Context, c *Client, op string, kind callKind, fn func(context.Context, backend.Backend) (T, error)) Result[T] {
	start := time.Now()
	var out T

	be, err := c.backend(ctx)
	if err == nil {
		attempt := func() error {
			v, err := protect(op, func() (T, error) { return fn(ctx, be) })
			if err == nil {
				out = v
				return nil
			}
			if kind == once || faults.IsIrrecoverable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		err = backoff.RetryNotify(attempt, c.retry.backOff(ctx), func(err error, wait time.Duration) {
			c.log.Debug().Err(err).Str("op", op).Dur("wait", wait).Msg("retrying after recoverable fault")
		})
	}

	elapsed := time.Since(start)
	callDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	if err != nil {
		e := AsError(err)
		callsTotal.WithLabelValues(op, outcomeFailure).Inc()
		c.log.Warn().Str("op", op).Str("code", e.Code).Dur("elapsed", elapsed).Msg(e.Message)
		return result.Failure[T](e)
	}
	callsTotal.WithLabelValues(op, outcomeSuccess).Inc()
	c.log.Debug().Str("op", op).Dur("elapsed", elapsed).Msg("call completed")
	return success(out)
}

// protect turns a panic inside a driver into an internal Error.
func protect[T any](op string, fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Error{Code: CodeInternal, Message: fmt.Sprintf("%s: panic: %v", op, r)}
		}
	}()
	return fn()
}

// owned runs fn with the signed-in user's ID, or fails with
// ErrUnauthenticated when there is no session. Expiry is not checked here.
func owned[T any](c *Client, fn func(uuid.UUID) Result[T]) Result[T] {
	uid, ok := c.currentUser()
	if !ok {
		return result.Failure[T](ErrUnauthenticated)
	}
	return fn(uid)
}
