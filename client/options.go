package client

// Functional options that configure the Client during construction.

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/miyatoshi624/gote/client/internal/backend"
)

// Option configures a Client during construction in New. An option that
// returns an error makes New panic.
type Option func(*Client) error

// WithBackend injects a ready driver and skips driver selection; Init then
// never fails.
func WithBackend(b backend.Backend) Option {
	return func(c *Client) error {
		if b == nil {
			return errors.New("backend must not be nil")
		}
		c.be = b
		return nil
	}
}

// WithHTTPTimeout sets the http.Client timeout used by the supabase driver's
// auth calls. The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithDebugLogging wraps the HTTP transport so each request/response is
// logged at debug level when enabled is true. Do not enable in production:
// dumps include tokens.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			if _, ok := c.http.Transport.(*debugTransport); !ok {
				c.http.Transport = &debugTransport{base: c.http.Transport, log: &c.log}
			}
		}
		return nil
	}
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) error {
		c.log = l
		return nil
	}
}

// WithClock replaces time.Now for timestamps and session expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) error {
		if now == nil {
			return errors.New("clock must not be nil")
		}
		c.now = now
		return nil
	}
}

// WithLocation sets the zone SessionExpiry reports in, overriding
// Settings.TimeZone.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) error {
		if loc == nil {
			return errors.New("location must not be nil")
		}
		c.loc = loc
		return nil
	}
}

// WithRetry bounds retries of idempotent calls after recoverable faults.
// attempts counts the first try; 1 disables retries.
func WithRetry(attempts int, base time.Duration) Option {
	return func(c *Client) error {
		if attempts < 1 {
			return fmt.Errorf("retry attempts must be >= 1")
		}
		if base <= 0 {
			return fmt.Errorf("retry interval must be > 0")
		}
		c.retry.attempts = attempts
		c.retry.base = base
		if c.retry.maxInterval < base {
			c.retry.maxInterval = base
		}
		return nil
	}
}
