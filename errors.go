package recordsync

import (
	"errors"

	"github.com/studyvault/recordsync/internal/types"
	"github.com/studyvault/recordsync/internal/writequeue"
)

// ErrBackPressure is returned when the client's internal write queue is full.
var ErrBackPressure = errors.New("back-pressure (queue full)")

// IsBackPressure reports whether err is a back-pressure rejection.
func IsBackPressure(err error) bool {
	return errors.Is(err, ErrBackPressure) || errors.Is(err, writequeue.ErrQueueFull)
}

// ErrNotFound is re-exported so callers compare against a single symbol.
var ErrNotFound = types.ErrNotFound
