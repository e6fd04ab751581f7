package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	errs "github.com/studyvault/recordsync/internal/errors"
	"github.com/studyvault/recordsync/internal/types"
)

// fakeStore records writes and scripts fetch/write outcomes.
type fakeStore struct {
	mu        sync.Mutex
	record    *types.Record
	fetchErr  error
	writeErrs []error // consumed one per write; nil entry means success
	writes    []map[string]any

	inFlight int32
	overlap  int32
}

func (f *fakeStore) FetchRecord(ctx context.Context, id string) (*types.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if f.record == nil {
		return nil, types.ErrNotFound
	}
	return f.record, nil
}

func (f *fakeStore) WriteRecord(ctx context.Context, id string, fields map[string]any) error {
	if atomic.AddInt32(&f.inFlight, 1) > 1 {
		atomic.StoreInt32(&f.overlap, 1)
	}
	defer atomic.AddInt32(&f.inFlight, -1)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, fields)
	if len(f.writeErrs) > 0 {
		err := f.writeErrs[0]
		f.writeErrs = f.writeErrs[1:]
		return err
	}
	return nil
}

func (f *fakeStore) writtenFields() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.writes...)
}

// noSleep makes retries immediate so tests never wait on real backoff.
func noSleep(context.Context, time.Duration) error { return nil }

func newTestQueue(store RecordStore, cfg Config) *Queue {
	if cfg.Sleep == nil {
		cfg.Sleep = noSleep
	}
	return New(store, cfg)
}

func TestQueue_WriteSucceeds(t *testing.T) {
	t.Parallel()
	fs := &fakeStore{}
	q := newTestQueue(fs, Config{Shards: 1, QueueSize: 4})
	defer q.Stop()

	r, err := q.Enqueue(context.Background(), WriteOp{
		Kind: OpFull, RecordID: "r1",
		Fields: map[string]any{types.FieldColorMap: types.ColorMap{}},
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := r.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}

	writes := fs.writtenFields()
	if len(writes) != 1 {
		t.Fatalf("expected 1 write, got %d", len(writes))
	}
	if _, ok := writes[0][types.FieldLastSavedAt]; !ok {
		t.Error("timestamp not refreshed on write")
	}
}

func TestQueue_FIFOOrderingAndNoOverlap(t *testing.T) {
	t.Parallel()
	fs := &fakeStore{}
	q := newTestQueue(fs, Config{Shards: 4, QueueSize: 16})
	defer q.Stop()

	const n = 5
	receipts := make([]*Receipt, n)
	for i := 0; i < n; i++ {
		r, err := q.Enqueue(context.Background(), WriteOp{
			Kind: OpFull, RecordID: "r1",
			Fields: map[string]any{types.FieldTopicLists: i},
		})
		if err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
		receipts[i] = r
	}
	for i, r := range receipts {
		if err := r.Wait(context.Background()); err != nil {
			t.Fatalf("op %d failed: %v", i, err)
		}
	}

	writes := fs.writtenFields()
	if len(writes) != n {
		t.Fatalf("expected %d writes, got %d", n, len(writes))
	}
	for i, w := range writes {
		if w[types.FieldTopicLists] != i {
			t.Fatalf("writes out of order: %v at position %d", w[types.FieldTopicLists], i)
		}
	}
	if atomic.LoadInt32(&fs.overlap) == 1 {
		t.Fatal("two writes for the same record were in flight simultaneously")
	}
}

func TestQueue_RetriesTransientThenSucceeds(t *testing.T) {
	t.Parallel()
	fs := &fakeStore{writeErrs: []error{
		errs.NewHTTPError(500, "", "write record"),
		errs.NewNetworkError("write record", errors.New("conn reset")),
		nil,
	}}
	q := newTestQueue(fs, Config{Shards: 1, QueueSize: 4, MaxAttempts: 4})
	defer q.Stop()

	r, _ := q.Enqueue(context.Background(), WriteOp{
		Kind: OpFull, RecordID: "r1", Fields: map[string]any{types.FieldColorMap: 1},
	})
	if err := r.Wait(context.Background()); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if got := len(fs.writtenFields()); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestQueue_RejectsAfterRetriesExhausted(t *testing.T) {
	t.Parallel()
	boom := errs.NewHTTPError(503, "", "write record")
	fs := &fakeStore{writeErrs: []error{boom, boom, boom}}
	q := newTestQueue(fs, Config{Shards: 1, QueueSize: 4, MaxAttempts: 3})
	defer q.Stop()

	r, _ := q.Enqueue(context.Background(), WriteOp{
		Kind: OpFull, RecordID: "r1", Fields: map[string]any{types.FieldColorMap: 1},
	})
	if err := r.Wait(context.Background()); err == nil {
		t.Fatal("expected terminal error after exhausted retries")
	}
	if got := len(fs.writtenFields()); got != 3 {
		t.Fatalf("expected exactly MaxAttempts writes, got %d", got)
	}
}

func TestQueue_IrrecoverableFailsFast(t *testing.T) {
	t.Parallel()
	fs := &fakeStore{writeErrs: []error{errs.NewHTTPError(403, "", "write record")}}
	q := newTestQueue(fs, Config{Shards: 1, QueueSize: 4, MaxAttempts: 5})
	defer q.Stop()

	r, _ := q.Enqueue(context.Background(), WriteOp{
		Kind: OpFull, RecordID: "r1", Fields: map[string]any{types.FieldColorMap: 1},
	})
	if err := r.Wait(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got := len(fs.writtenFields()); got != 1 {
		t.Fatalf("irrecoverable error retried: %d attempts", got)
	}
}

func TestQueue_FailedOpDoesNotBlockNext(t *testing.T) {
	t.Parallel()
	boom := errs.NewHTTPError(400, "", "write record")
	fs := &fakeStore{writeErrs: []error{boom}}
	q := newTestQueue(fs, Config{Shards: 1, QueueSize: 4, MaxAttempts: 1})
	defer q.Stop()

	bad, _ := q.Enqueue(context.Background(), WriteOp{
		Kind: OpFull, RecordID: "r1", Fields: map[string]any{types.FieldColorMap: 1},
	})
	good, _ := q.Enqueue(context.Background(), WriteOp{
		Kind: OpFull, RecordID: "r1", Fields: map[string]any{types.FieldColorMap: 2},
	})

	if err := bad.Wait(context.Background()); err == nil {
		t.Fatal("first op should fail")
	}
	if err := good.Wait(context.Background()); err != nil {
		t.Fatalf("second op blocked by first: %v", err)
	}
}

func TestQueue_PreservationCopiesUntouchedFields(t *testing.T) {
	t.Parallel()
	fs := &fakeStore{record: &types.Record{
		TopicLists: []types.TopicList{{Subject: "Bio"}},
		ColorMap:   types.ColorMap{"Bio": {Base: "#111111"}},
	}}
	q := newTestQueue(fs, Config{Shards: 1, QueueSize: 4})
	defer q.Stop()

	r, _ := q.Enqueue(context.Background(), WriteOp{
		Kind: OpColors, RecordID: "r1",
		Fields:         map[string]any{types.FieldColorMap: types.ColorMap{"Bio": {Base: "#222222"}}},
		PreserveFields: true,
	})
	if err := r.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}

	w := fs.writtenFields()[0]
	cm, ok := w[types.FieldColorMap].(types.ColorMap)
	if !ok || cm["Bio"].Base != "#222222" {
		t.Fatalf("explicit field not written: %v", w[types.FieldColorMap])
	}
	if _, ok := w[types.FieldTopicLists]; !ok {
		t.Fatal("untouched field not preserved")
	}
}

func TestQueue_PreservationFetchFailureDegrades(t *testing.T) {
	t.Parallel()
	fs := &fakeStore{fetchErr: errs.NewNetworkError("fetch record", errors.New("offline"))}
	q := newTestQueue(fs, Config{Shards: 1, QueueSize: 4})
	defer q.Stop()

	r, _ := q.Enqueue(context.Background(), WriteOp{
		Kind: OpFull, RecordID: "r1",
		Fields:         map[string]any{types.FieldColorMap: 1},
		PreserveFields: true,
	})
	if err := r.Wait(context.Background()); err != nil {
		t.Fatalf("degraded save should still succeed: %v", err)
	}
	if got := len(fs.writtenFields()); got != 1 {
		t.Fatalf("expected 1 write, got %d", got)
	}
}

func TestQueue_TimestampOnlyPayloadSkipsWrite(t *testing.T) {
	t.Parallel()
	fs := &fakeStore{}
	q := newTestQueue(fs, Config{Shards: 1, QueueSize: 4})
	defer q.Stop()

	r, _ := q.Enqueue(context.Background(), WriteOp{Kind: OpFull, RecordID: "r1"})
	if err := r.Wait(context.Background()); err != nil {
		t.Fatalf("no-op should resolve successfully: %v", err)
	}
	if got := len(fs.writtenFields()); got != 0 {
		t.Fatalf("no-op payload was written: %d writes", got)
	}
}

func TestQueue_Barrier(t *testing.T) {
	t.Parallel()
	fs := &fakeStore{}
	q := newTestQueue(fs, Config{Shards: 1, QueueSize: 8})
	defer q.Stop()

	if _, err := q.Enqueue(context.Background(), WriteOp{
		Kind: OpFull, RecordID: "r1", Fields: map[string]any{types.FieldColorMap: 1},
	}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := q.Barrier(context.Background(), "r1"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	if len(fs.writtenFields()) != 1 {
		t.Fatal("barrier returned before earlier op completed")
	}
}

func TestQueue_EnqueueAfterStop(t *testing.T) {
	t.Parallel()
	q := newTestQueue(&fakeStore{}, Config{Shards: 2, QueueSize: 2})
	q.Stop()

	_, err := q.Enqueue(context.Background(), WriteOp{Kind: OpFull, RecordID: "r1"})
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}

func TestQueue_QueueFull(t *testing.T) {
	t.Parallel()
	fs := &fakeStore{}
	blockCtx, unblock := context.WithCancel(context.Background())
	defer unblock()

	// A fetch that blocks keeps the single worker busy.
	blocking := &blockingStore{fakeStore: fs, gate: blockCtx, started: make(chan struct{})}
	q := newTestQueue(blocking, Config{Shards: 1, QueueSize: 1, EnqueueTimeout: 10 * time.Millisecond})
	defer q.Stop()

	first, _ := q.Enqueue(context.Background(), WriteOp{
		Kind: OpFull, RecordID: "r1", PreserveFields: true,
		Fields: map[string]any{types.FieldColorMap: 1},
	})
	<-blocking.started

	// Fill the buffer, then overflow it.
	_, _ = q.Enqueue(context.Background(), WriteOp{Kind: OpFull, RecordID: "r1", Fields: map[string]any{types.FieldColorMap: 2}})
	_, err := q.Enqueue(context.Background(), WriteOp{Kind: OpFull, RecordID: "r1", Fields: map[string]any{types.FieldColorMap: 3}})
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	unblock()
	_ = first.Wait(context.Background())
}

func TestQueue_MissingRecordIDRejectedSynchronously(t *testing.T) {
	t.Parallel()
	q := newTestQueue(&fakeStore{}, Config{Shards: 1, QueueSize: 2})
	defer q.Stop()

	if _, err := q.Enqueue(context.Background(), WriteOp{Kind: OpFull}); err == nil {
		t.Fatal("expected precondition error for missing record id")
	}
}

// blockingStore parks the first FetchRecord until its gate context is
// cancelled, exposing a started channel for synchronization.
type blockingStore struct {
	*fakeStore
	gate    context.Context
	once    sync.Once
	started chan struct{}
}

func (b *blockingStore) FetchRecord(ctx context.Context, id string) (*types.Record, error) {
	b.once.Do(func() { close(b.started) })
	<-b.gate.Done()
	return b.fakeStore.FetchRecord(ctx, id)
}
