package recordsync

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client during construction in New.
//
// Options are applied before the store and queue are built, so transport
// and queue tuning both take effect. Options must be deterministic and
// side-effect free.
type Option func(*Client) error

// WithHTTPTimeout sets the underlying http.Client Timeout used by the SDK.
//
// Prefer per-request context deadlines where possible; this timeout is a
// coarse safety net that bounds the total time spent on a single HTTP
// request. The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// logged when enabled is true.
//
// Do not enable this option in production environments: dumps include
// headers and full bodies.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			c.http.Transport = &debugTransport{base: transportOrDefault(c.http.Transport)}
		}
		return nil
	}
}

// WithLogger replaces the client's structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) error {
		c.log = l
		return nil
	}
}

// WithQueueSize sets the per-shard FIFO capacity of the write queue.
func WithQueueSize(n int) Option {
	return func(c *Client) error {
		if n <= 0 {
			return fmt.Errorf("queue size must be > 0")
		}
		c.queueCfg.QueueSize = n
		return nil
	}
}

// WithMaxAttempts sets the total write attempts per operation (first try
// plus retries).
func WithMaxAttempts(n int) Option {
	return func(c *Client) error {
		if n <= 0 {
			return fmt.Errorf("max attempts must be > 0")
		}
		c.queueCfg.MaxAttempts = n
		return nil
	}
}

// WithBaseBackoff sets the first retry delay; subsequent delays double up
// to the queue's cap.
func WithBaseBackoff(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("base backoff must be > 0")
		}
		c.queueCfg.BaseBackoff = d
		return nil
	}
}
