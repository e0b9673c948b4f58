package pool

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"
)

func TestMapIsolatesFailedTasks(t *testing.T) {
	companies := []string{"acme", "broken-co", "zen"}
	jobs := map[string][]string{
		"acme": {"acme-1", "acme-2"},
		"zen":  {"zen-1"},
	}

	batch := Map(context.Background(), New(2), "test", companies,
		func(_ context.Context, company string) ([]string, error) {
			out, ok := jobs[company]
			if !ok {
				return nil, errors.New("host unreachable")
			}
			return out, nil
		})

	if batch.Attempted != 3 {
		t.Fatalf("unexpected attempted count: %d", batch.Attempted)
	}
	if batch.Succeeded != 2 {
		t.Fatalf("unexpected succeeded count: %d", batch.Succeeded)
	}
	got := append([]string(nil), batch.Results...)
	sort.Strings(got)
	want := []string{"acme-1", "acme-2", "zen-1"}
	if len(got) != len(want) {
		t.Fatalf("unexpected results: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected results: %v", got)
		}
	}
}

func TestMapRecoversPanics(t *testing.T) {
	keys := []int{1, 2, 3}

	batch := Map(context.Background(), New(1), "test", keys,
		func(_ context.Context, k int) ([]int, error) {
			if k == 2 {
				panic("bad parse")
			}
			return []int{k}, nil
		})

	if batch.Succeeded != 2 {
		t.Fatalf("unexpected succeeded count: %d", batch.Succeeded)
	}
	if len(batch.Results) != 2 {
		t.Fatalf("unexpected results: %v", batch.Results)
	}
}

func TestMapRespectsWidth(t *testing.T) {
	const width = 2
	var running, peak int64

	keys := make([]int, 8)
	Map(context.Background(), New(width), "test", keys,
		func(_ context.Context, _ int) ([]int, error) {
			n := atomic.AddInt64(&running, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt64(&running, -1)
			return nil, nil
		})

	if got := atomic.LoadInt64(&peak); got > width {
		t.Fatalf("observed %d concurrent tasks, width is %d", got, width)
	}
}

func TestMapEmptyKeys(t *testing.T) {
	batch := Map(context.Background(), New(4), "test", nil,
		func(_ context.Context, _ string) ([]string, error) {
			t.Fatal("task should not run")
			return nil, nil
		})
	if batch.Attempted != 0 || batch.Succeeded != 0 || len(batch.Results) != 0 {
		t.Fatalf("unexpected batch: %+v", batch)
	}
}
