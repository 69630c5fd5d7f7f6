package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue[string](WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if err := q.Enqueue(ctx, "job-1"); err != nil {
		t.Fatalf("expected enqueue to succeed: %v", err)
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	if got := <-q.Dequeue(ctx); got != "job-1" {
		t.Errorf("expected job-1, got %q", got)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue[int](WithCapacity(2))
	ctx := context.Background()

	if q.Cap() != 2 {
		t.Fatalf("expected capacity 2, got %d", q.Cap())
	}
	for i := 0; i < 2; i++ {
		if err := q.Enqueue(ctx, i); err != nil {
			t.Fatalf("expected enqueue %d to succeed: %v", i, err)
		}
	}
	if err := q.Enqueue(ctx, 3); !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	const producers, perProducer = 10, 100
	q := NewInMemoryQueue[int](WithCapacity(producers * perProducer))
	ctx := context.Background()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				if err := q.Enqueue(ctx, p*perProducer+j); err != nil {
					t.Errorf("enqueue: %v", err)
				}
			}
		}(p)
	}
	wg.Wait()
	_ = q.Close()

	seen := make(map[int]bool)
	var mu sync.Mutex
	var consumers sync.WaitGroup
	for c := 0; c < 4; c++ {
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			for v := range q.Dequeue(ctx) {
				mu.Lock()
				seen[v] = true
				mu.Unlock()
			}
		}()
	}
	consumers.Wait()

	if len(seen) != producers*perProducer {
		t.Errorf("expected %d distinct items, got %d", producers*perProducer, len(seen))
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue[string](WithCapacity(10))
	ctx := context.Background()

	_ = q.Enqueue(ctx, "a")
	_ = q.Enqueue(ctx, "b")

	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed")
	}
	if err := q.Enqueue(ctx, "c"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	var drained []string
	for v := range q.Dequeue(ctx) {
		drained = append(drained, v)
	}
	if len(drained) != 2 || drained[0] != "a" || drained[1] != "b" {
		t.Errorf("expected queued items to drain in order, got %v", drained)
	}
}

func TestInMemoryQueue_EnqueueAll(t *testing.T) {
	ctx := context.Background()

	t.Run("fits", func(t *testing.T) {
		q := NewInMemoryQueue[int](WithCapacity(3))
		if err := q.EnqueueAll(ctx, []int{1, 2, 3}); err != nil {
			t.Fatalf("expected enqueue to succeed: %v", err)
		}
		for want := 1; want <= 3; want++ {
			if got := <-q.Dequeue(ctx); got != want {
				t.Errorf("expected %d, got %d", want, got)
			}
		}
	})

	t.Run("does not fit", func(t *testing.T) {
		q := NewInMemoryQueue[int](WithCapacity(3))
		if err := q.Enqueue(ctx, 0); err != nil {
			t.Fatalf("expected enqueue to succeed: %v", err)
		}
		if err := q.EnqueueAll(ctx, []int{1, 2, 3}); !errors.Is(err, ErrFull) {
			t.Errorf("expected ErrFull, got %v", err)
		}
		if l := q.Len(ctx); l != 1 {
			t.Errorf("expected nothing from the refused batch to be queued, length %d", l)
		}
	})

	t.Run("larger than capacity", func(t *testing.T) {
		q := NewInMemoryQueue[int](WithCapacity(2))
		if err := q.EnqueueAll(ctx, []int{1, 2, 3}); !errors.Is(err, ErrFull) {
			t.Errorf("expected ErrFull, got %v", err)
		}
		if l := q.Len(ctx); l != 0 {
			t.Errorf("expected length 0, got %d", l)
		}
	})

	t.Run("closed", func(t *testing.T) {
		q := NewInMemoryQueue[int](WithCapacity(2))
		_ = q.Close()
		if err := q.EnqueueAll(ctx, []int{1}); !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		q := NewInMemoryQueue[int](WithCapacity(2))
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if err := q.EnqueueAll(cctx, []int{1}); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
