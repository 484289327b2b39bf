package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/rule"
	"github.com/pratik-mahalle/voltcast-alerts/internal/testutil"
)

// blockingDispatcher holds every dispatch until release is closed
type blockingDispatcher struct {
	release chan struct{}
	count   atomic.Uint64
}

func (d *blockingDispatcher) Dispatch(ctx context.Context, r rule.Rule, v float64) {
	<-d.release
	d.count.Add(1)
}

type panickingDispatcher struct{}

func (panickingDispatcher) Dispatch(ctx context.Context, r rule.Rule, v float64) {
	panic("boom")
}

func violation(id int64, v float64) rule.Violation {
	return rule.Violation{
		Rule:        rule.Rule{ID: id, UserID: "user1", MetricType: "temperature", DeliveryChannel: rule.ChannelDashboard},
		ActualValue: v,
	}
}

func TestPool_DispatchesSubmitted(t *testing.T) {
	dispatcher := testutil.NewRecordingDispatcher()
	pool := NewPool(PoolConfig{Dispatcher: dispatcher, Workers: 2, QueueSize: 10, Logger: testutil.NewTestLogger()})
	pool.Start()

	for i := 0; i < 5; i++ {
		if !pool.Submit(violation(int64(i), 35)) {
			t.Fatalf("Submit(%d) = false on an empty queue", i)
		}
	}
	pool.Stop()

	if n := len(dispatcher.Calls()); n != 5 {
		t.Errorf("dispatched %d, want 5 after Stop drains", n)
	}
	if stats := pool.Stats(); stats.Dispatched != 5 {
		t.Errorf("Stats().Dispatched = %d, want 5", stats.Dispatched)
	}
}

func TestPool_SubmitDoesNotBlockWhenFull(t *testing.T) {
	dispatcher := &blockingDispatcher{release: make(chan struct{})}
	pool := NewPool(PoolConfig{Dispatcher: dispatcher, Workers: 1, QueueSize: 1, Logger: testutil.NewTestLogger()})
	pool.Start()

	accepted := 0
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			if pool.Submit(violation(int64(i), 1)) {
				accepted++
			}
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked on a full queue")
	}

	if accepted >= 10 {
		t.Errorf("accepted %d, want some rejections", accepted)
	}
	if pool.Stats().Rejected == 0 {
		t.Error("Stats().Rejected = 0, want > 0")
	}

	close(dispatcher.release)
	pool.Stop()

	if got := dispatcher.count.Load(); got != uint64(accepted) {
		t.Errorf("dispatched %d, want every accepted item (%d)", got, accepted)
	}
}

func TestPool_RecoversFromPanic(t *testing.T) {
	pool := NewPool(PoolConfig{Dispatcher: panickingDispatcher{}, Workers: 1, QueueSize: 4, Logger: testutil.NewTestLogger()})
	pool.Start()

	pool.Submit(violation(1, 1))
	pool.Submit(violation(2, 1))
	pool.Stop()

	if got := pool.Stats().Panicked; got != 2 {
		t.Errorf("Stats().Panicked = %d, want 2 with the worker surviving the first", got)
	}
}

func TestPool_SubmitAfterStop(t *testing.T) {
	pool := NewPool(PoolConfig{Dispatcher: testutil.NewRecordingDispatcher(), Workers: 1, QueueSize: 4, Logger: testutil.NewTestLogger()})
	pool.Start()
	pool.Stop()
	pool.Stop()

	if pool.Submit(violation(1, 1)) {
		t.Error("Submit() after Stop = true, want false")
	}
}
