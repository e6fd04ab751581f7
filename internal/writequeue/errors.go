package writequeue

import (
	"errors"
	"fmt"
)

// ErrQueueClosed is returned by Enqueue after Stop.
var ErrQueueClosed = errors.New("write queue closed")

// ErrQueueFull is the sentinel matched by errors.Is for back-pressure.
var ErrQueueFull = errors.New("write queue full")

// QueueFullError carries shard detail for a back-pressure rejection.
type QueueFullError struct {
	Shard    int
	Length   int
	Capacity int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("write queue full: shard %d at %d/%d", e.Shard, e.Length, e.Capacity)
}

// Is lets errors.Is(err, ErrQueueFull) match the detailed error.
func (e *QueueFullError) Is(target error) bool { return target == ErrQueueFull }
