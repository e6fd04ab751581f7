// Package writequeue serializes all writes to a record document. Operations
// for the same record run strictly FIFO on one worker, so no two writes for
// a record are ever in flight at once from this process; records hash onto
// independent shards so unrelated records don't queue behind each other.
//
// Each operation optionally preserves remote fields it does not set, skips
// the write entirely when only the timestamp would change, and retries
// transient failures with bounded exponential backoff.
package writequeue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	errs "github.com/studyvault/recordsync/internal/errors"
	"github.com/studyvault/recordsync/internal/types"
)

// OpKind names the logical save an operation performs.
type OpKind string

const (
	OpCards  OpKind = "cards"
	OpColors OpKind = "colors"
	OpTopics OpKind = "topics"
	OpFull   OpKind = "full"
)

// WriteOp is one logical save request.
type WriteOp struct {
	Kind     OpKind
	RecordID string
	// Fields holds the record fields this operation explicitly sets,
	// keyed by wire name.
	Fields map[string]any
	// PreserveFields copies every field the operation does not set from
	// the current remote record into the payload before writing. If the
	// preservation fetch fails the write proceeds unpreserved: a degraded
	// save that risks clobbering concurrently-written fields, accepted in
	// preference to blocking the queue.
	PreserveFields bool
}

// RecordStore is the remote collaborator the queue writes through.
type RecordStore interface {
	FetchRecord(ctx context.Context, recordID string) (*types.Record, error)
	WriteRecord(ctx context.Context, recordID string, fields map[string]any) error
}

// Receipt resolves exactly once with the operation's terminal outcome.
type Receipt struct {
	ch   chan error
	once sync.Once
}

func newReceipt() *Receipt { return &Receipt{ch: make(chan error, 1)} }

func (r *Receipt) resolve(err error) {
	r.once.Do(func() { r.ch <- err })
}

// Wait blocks until the operation succeeds or exhausts its retries.
// Abandoning a receipt never blocks the worker.
func (r *Receipt) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-r.ch:
		return err
	}
}

type queuedOp struct {
	ctx     context.Context
	op      WriteOp
	receipt *Receipt
	barrier bool
}

// Queue executes WriteOps on worker goroutines partitioned by a stable
// hash of the record id. FIFO ordering is preserved within a shard.
type Queue struct {
	cfg    Config
	store  RecordStore
	queues []chan queuedOp // len == cfg.Shards

	done   chan struct{} // closed in Stop()
	closed uint32        // 0 → running, 1 → closed

	now func() time.Time
	log zerolog.Logger

	wg sync.WaitGroup
}

// New constructs the queue and starts its shard workers.
func New(store RecordStore, cfg Config) *Queue {
	// Apply zero-value defaults.
	if cfg.Shards <= 0 {
		cfg.Shards = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 128
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = 100 * time.Millisecond
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 4 // first attempt + 3 retries
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 100 * time.Millisecond
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = 20 * time.Second
	}

	q := &Queue{
		cfg:    cfg,
		store:  store,
		queues: make([]chan queuedOp, cfg.Shards),
		done:   make(chan struct{}),
		now:    func() time.Time { return time.Now().UTC() },
		log:    log.With().Str("component", "writequeue").Logger(),
	}
	if q.cfg.Sleep == nil {
		q.cfg.Sleep = q.sleep
	}
	for i := 0; i < cfg.Shards; i++ {
		ch := make(chan queuedOp, cfg.QueueSize)
		q.queues[i] = ch
		q.wg.Add(1)
		go q.runWorker(i, ch)
	}
	return q
}

// Enqueue accepts op for the shard derived from its record id.
//
//   - Returns the op's Receipt on success.
//   - Returns ErrQueueClosed if the queue is stopped.
//   - Returns ErrQueueFull (wrapped in *QueueFullError) if the shard is
//     still full after EnqueueTimeout.
//   - Returns ctx.Err() if the caller's context is cancelled first.
func (q *Queue) Enqueue(ctx context.Context, op WriteOp) (*Receipt, error) {
	if err := types.ValidateIDPresent(op.RecordID, "recordId"); err != nil {
		return nil, err
	}
	return q.push(queuedOp{ctx: ctx, op: op, receipt: newReceipt()})
}

// Barrier enqueues a no-op on the record's shard and waits until it runs,
// ensuring all previously enqueued operations for that record completed.
func (q *Queue) Barrier(ctx context.Context, recordID string) error {
	r, err := q.push(queuedOp{ctx: ctx, op: WriteOp{RecordID: recordID}, receipt: newReceipt(), barrier: true})
	if err != nil {
		return err
	}
	return r.Wait(ctx)
}

func (q *Queue) push(qo queuedOp) (*Receipt, error) {
	// Fast check so no work is accepted after Stop(), plus the
	// complementary check in case the flag change was missed.
	if atomic.LoadUint32(&q.closed) == 1 {
		return nil, ErrQueueClosed
	}
	select {
	case <-q.done:
		return nil, ErrQueueClosed
	default:
	}

	shard := q.shardFor(qo.op.RecordID)
	ch := q.queues[shard]

	timer := time.NewTimer(q.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- qo:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return qo.receipt, nil

	case <-q.done: // Stop() may be called while waiting for space
		return nil, ErrQueueClosed

	case <-qo.ctx.Done():
		return nil, qo.ctx.Err()

	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil, &QueueFullError{
			Shard:    shard,
			Length:   len(ch),
			Capacity: cap(ch),
		}
	}
}

// Stop signals every worker to finish draining its queue, waits for them
// to terminate, and returns. Idempotent and safe for concurrent use.
func (q *Queue) Stop() {
	if !atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		return // already closed
	}
	q.log.Info().Int("shards", q.cfg.Shards).Msg("stopping queue, draining shards")
	close(q.done)
	q.wg.Wait()
	q.log.Info().Msg("queue stopped, all shards drained")
}

// Close lets Queue satisfy io.Closer.
func (q *Queue) Close() error {
	q.Stop()
	return nil
}

// ------------------------- internals -------------------------

func (q *Queue) runWorker(idx int, ch <-chan queuedOp) {
	defer q.wg.Done()

	// Protect the worker from crashing the whole queue.
	defer func() {
		if r := recover(); r != nil {
			q.log.Error().Int("shard", idx).Interface("panic", r).Msg("worker panic")
		}
	}()

	label := labelFor(idx)

	for {
		select {
		case qo := <-ch:
			q.serve(qo, label)
			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-q.done:
			// Drain remaining operations, preserving FIFO, then exit.
			if n := len(ch); n > 0 {
				q.log.Info().Int("shard", idx).Int("remaining", n).Msg("draining remaining operations")
			}
			for {
				select {
				case qo := <-ch:
					q.serve(qo, label)
				default:
					queueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		}
	}
}

// serve runs one queued operation to its terminal outcome and resolves the
// receipt exactly once. A failed operation never blocks later ones.
func (q *Queue) serve(qo queuedOp, label string) {
	if qo.barrier {
		qo.receipt.resolve(nil)
		return
	}
	// Honour caller context so a cancelled op doesn't stall the shard.
	if err := qo.ctx.Err(); err != nil {
		qo.receipt.resolve(err)
		q.safeHandleError(err)
		return
	}
	err := q.process(qo.ctx, qo.op, label)
	qo.receipt.resolve(err)
	if err != nil {
		q.safeHandleError(err)
	}
}

// process implements the per-operation pipeline: preservation fetch, merge,
// timestamp-only skip, then the bounded retry loop around the write.
func (q *Queue) process(ctx context.Context, op WriteOp, label string) error {
	fields := make(map[string]any, len(op.Fields)+1)
	for k, v := range op.Fields {
		fields[k] = v
	}

	if op.PreserveFields {
		current, err := q.store.FetchRecord(ctx, op.RecordID)
		switch {
		case err == nil:
			for k, v := range current.FieldMap() {
				if _, set := fields[k]; !set {
					fields[k] = v
				}
			}
		case errors.Is(err, types.ErrNotFound):
			// Nothing to preserve for a record that does not exist yet.
		default:
			degradedWritesTotal.Inc()
			q.log.Warn().Err(err).Str("recordId", op.RecordID).Str("kind", string(op.Kind)).
				Msg("preservation fetch failed, continuing with degraded save")
		}
	}

	fields[types.FieldLastSavedAt] = q.now()
	if len(fields) == 1 {
		skippedWritesTotal.Inc()
		q.log.Debug().Str("recordId", op.RecordID).Msg("payload holds only the timestamp, write skipped")
		return nil
	}
	fields = sanitizeFields(fields)

	return q.writeWithRetry(ctx, op, fields, label)
}

func (q *Queue) writeWithRetry(ctx context.Context, op WriteOp, fields map[string]any, label string) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = q.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = q.cfg.MaxInterval
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0 // attempts are bounded by MaxAttempts, not wall clock
	exp.Reset()

	var err error
	for attempt := 0; ; attempt++ {
		start := time.Now()
		err = q.store.WriteRecord(ctx, op.RecordID, fields)
		runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

		if err == nil {
			return nil
		}
		if errs.IsIrrecoverable(err) {
			return err // fail fast, no retry
		}
		if attempt >= q.cfg.MaxAttempts-1 {
			return err // retries exhausted
		}

		retriesTotal.WithLabelValues(label).Inc()
		q.log.Debug().Err(err).Str("recordId", op.RecordID).Int("attempt", attempt+1).
			Msg("write failed, backing off")
		if serr := q.cfg.Sleep(ctx, exp.NextBackOff()); serr != nil {
			return err // stopped or cancelled mid-backoff; report the write error
		}
	}
}

// sleep is the default retry delay: interruptible by queue shutdown and by
// the operation's context.
func (q *Queue) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) safeHandleError(err error) {
	if err == nil || q.cfg.ErrorHandler == nil {
		return
	}
	func() {
		// Guard against panics in the user-supplied handler.
		defer func() {
			if r := recover(); r != nil {
				q.log.Error().Interface("panic", r).Msg("error handler panic")
			}
		}()
		q.cfg.ErrorHandler(err)
	}()
}

func (q *Queue) shardFor(recordID string) int {
	h := fnv.New32a() // fast and sufficient at our scale
	_, _ = h.Write([]byte(recordID))
	return int(h.Sum32()) % q.cfg.Shards
}
