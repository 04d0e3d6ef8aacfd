package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestGo_ResolvesWithValue(t *testing.T) {
	r := NewRunner(2)

	p := Go(context.Background(), r, "answer", func(ctx context.Context) (int, error) {
		return 42, nil
	})

	v, err := p.Wait(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if v != 42 {
		t.Errorf("expected 42, got %d", v)
	}
	if p.ID == "" {
		t.Error("expected task id")
	}
}

func TestGo_RejectsWithError(t *testing.T) {
	r := NewRunner(1)
	boom := errors.New("boom")

	p := Go(context.Background(), r, "fail", func(ctx context.Context) (string, error) {
		return "", boom
	})

	if _, err := p.Wait(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestGo_RecoversPanic(t *testing.T) {
	r := NewRunner(1)

	p := Go(context.Background(), r, "panic", func(ctx context.Context) (struct{}, error) {
		panic("nil tag")
	})

	if _, err := p.Wait(context.Background()); err == nil {
		t.Fatal("expected panic to be converted to an error")
	}
}

func TestGo_BoundsConcurrency(t *testing.T) {
	r := NewRunner(2)
	var running, peak int32
	release := make(chan struct{})

	pending := make([]*Pending[struct{}], 0, 5)
	for i := 0; i < 5; i++ {
		pending = append(pending, Go(context.Background(), r, "slow", func(ctx context.Context) (struct{}, error) {
			n := atomic.AddInt32(&running, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
					break
				}
			}
			<-release
			atomic.AddInt32(&running, -1)
			return struct{}{}, nil
		}))
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	for _, p := range pending {
		if _, err := p.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if peak > 2 {
		t.Errorf("expected at most 2 concurrent tasks, saw %d", peak)
	}
}

func TestPending_SettlesOnce(t *testing.T) {
	p := newPending[int]("x")

	if !p.resolve(1) {
		t.Fatal("first settlement should win")
	}
	if p.reject(errors.New("late")) {
		t.Error("second settlement should be ignored")
	}
	v, err := p.Wait(context.Background())
	if v != 1 || err != nil {
		t.Errorf("expected (1, nil), got (%d, %v)", v, err)
	}
}

func TestPending_WaitHonoursContext(t *testing.T) {
	p := newPending[int]("never")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := p.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestNewRunner_ClampsWorkers(t *testing.T) {
	if got := NewRunner(0).Workers(); got != 1 {
		t.Errorf("expected 1 worker, got %d", got)
	}
	if got := NewRunner(3).Workers(); got != 3 {
		t.Errorf("expected 3 workers, got %d", got)
	}
}
