package writequeue

import (
	"context"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config tunes the queue. Zero values take defaults in New. Fields load
// from WQ_* environment variables via LoadConfig.
type Config struct {
	// Shards is the number of worker goroutines; record ids hash onto them.
	Shards int `envconfig:"SHARDS"`
	// QueueSize is the buffered capacity of each shard's FIFO.
	QueueSize int `envconfig:"QUEUE_SIZE"`
	// EnqueueTimeout bounds how long Enqueue waits for space before
	// reporting back-pressure.
	EnqueueTimeout time.Duration `envconfig:"ENQUEUE_TIMEOUT"`
	// MaxAttempts is the total write attempts per operation (first try
	// plus retries).
	MaxAttempts int `envconfig:"MAX_ATTEMPTS"`
	// BaseBackoff is the first retry delay; subsequent delays double.
	BaseBackoff time.Duration `envconfig:"BASE_BACKOFF"`
	// MaxInterval caps the backoff delay.
	MaxInterval time.Duration `envconfig:"MAX_INTERVAL"`

	// ErrorHandler, when set, observes every terminal operation error.
	ErrorHandler func(error) `ignored:"true"`
	// Sleep waits between retries; tests inject a virtual clock here.
	Sleep func(ctx context.Context, d time.Duration) error `ignored:"true"`
}

// LoadConfig reads queue tuning from WQ_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("wq", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
