package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func testPool(t *testing.T, maxWorkers, queueSize int) *Pool {
	t.Helper()
	p := New(&Config{MaxWorkers: maxWorkers, QueueSize: queueSize}, nil)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = p.Shutdown(ctx)
	})
	return p
}

func TestPool_SubmitReturnsTaskError(t *testing.T) {
	p := testPool(t, 2, 4)

	wantErr := errors.New("task failed")

	if err := p.Submit(context.Background(), func(ctx context.Context) error {
		return wantErr
	}); !errors.Is(err, wantErr) {
		t.Errorf("Expected task error %v, got %v", wantErr, err)
	}

	if err := p.Submit(context.Background(), func(ctx context.Context) error {
		return nil
	}); err != nil {
		t.Errorf("Submit failed: %v", err)
	}
}

func TestPool_SubmitAsyncExecutesTask(t *testing.T) {
	p := testPool(t, 2, 4)

	done := make(chan struct{})
	if err := p.SubmitAsync(context.Background(), func(ctx context.Context) error {
		close(done)
		return nil
	}); err != nil {
		t.Fatalf("SubmitAsync failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Async task was not executed within 1s")
	}
}

func TestPool_SubmitAsyncFullQueue(t *testing.T) {
	p := testPool(t, 1, 1)

	release := make(chan struct{})
	block := func(ctx context.Context) error {
		<-release
		return nil
	}
	defer close(release)

	// 占住唯一 worker，再填满队列
	if err := p.SubmitAsync(context.Background(), block); err != nil {
		t.Fatalf("SubmitAsync (worker) failed: %v", err)
	}

	// worker 取走首个任务后队列才有空位，轮询到队列被第二个任务占满
	deadline := time.After(time.Second)
	for {
		if err := p.SubmitAsync(context.Background(), block); err == nil && p.QueuedCount() > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("Queue did not fill within 1s")
		case <-time.After(time.Millisecond):
		}
	}

	if err := p.SubmitAsync(context.Background(), block); !errors.Is(err, ErrWorkerPoolFull) {
		t.Errorf("Expected ErrWorkerPoolFull, got %v", err)
	}
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if !p.IsClosed() {
		t.Error("Expected pool to be closed after Shutdown")
	}

	noop := func(ctx context.Context) error { return nil }
	if err := p.Submit(context.Background(), noop); !errors.Is(err, ErrWorkerPoolClosed) {
		t.Errorf("Expected ErrWorkerPoolClosed from Submit, got %v", err)
	}
	if err := p.SubmitAsync(context.Background(), noop); !errors.Is(err, ErrWorkerPoolClosed) {
		t.Errorf("Expected ErrWorkerPoolClosed from SubmitAsync, got %v", err)
	}

	// 重复关闭幂等
	if err := p.Shutdown(ctx); err != nil {
		t.Errorf("Second Shutdown failed: %v", err)
	}
}

func TestPool_ShutdownWaitsForTasks(t *testing.T) {
	p := New(&Config{MaxWorkers: 2, QueueSize: 4}, nil)

	var completed atomic.Int64
	for i := 0; i < 4; i++ {
		if err := p.SubmitAsync(context.Background(), func(ctx context.Context) error {
			time.Sleep(10 * time.Millisecond)
			completed.Add(1)
			return nil
		}); err != nil {
			t.Fatalf("SubmitAsync failed: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	if got := completed.Load(); got != 4 {
		t.Errorf("Expected 4 completed tasks after Shutdown, got %d", got)
	}
}
