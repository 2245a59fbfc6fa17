package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestForEach_VisitsEveryIndexOnce(t *testing.T) {
	const n = 257
	hits := make([]int32, n)

	err := ForEach(context.Background(), 8, n, func(i int) error {
		atomic.AddInt32(&hits[i], 1)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}

	for i, h := range hits {
		if h != 1 {
			t.Errorf("index %d visited %d times", i, h)
		}
	}
}

func TestForEach_DisjointWrites(t *testing.T) {
	out := make([]int, 100)
	err := ForEach(context.Background(), 4, len(out), func(i int) error {
		out[i] = i * i
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	for i, v := range out {
		if v != i*i {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*i)
		}
	}
}

func TestForEach_ReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	err := ForEach(context.Background(), 2, 50, func(i int) error {
		if i == 7 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("ForEach() = %v, want boom", err)
	}
}

func TestForEach_RecoversPanic(t *testing.T) {
	err := ForEach(context.Background(), 2, 4, func(i int) error {
		if i == 2 {
			panic("bad row")
		}
		return nil
	})
	if !errors.Is(err, ErrTaskPanic) {
		t.Errorf("ForEach() = %v, want ErrTaskPanic", err)
	}
}

func TestForEach_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	err := ForEach(ctx, 2, 10, func(i int) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ForEach() = %v, want context.Canceled", err)
	}
	if calls != 0 {
		t.Errorf("Expected no calls after cancellation, got %d", calls)
	}
}

func TestForEach_Empty(t *testing.T) {
	if err := ForEach(context.Background(), 4, 0, func(int) error { return nil }); err != nil {
		t.Errorf("ForEach(n=0) = %v", err)
	}
}
