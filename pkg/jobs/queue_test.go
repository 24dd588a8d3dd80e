package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesAndRetries(t *testing.T) {
	var attempts int32
	done := make(chan struct{})
	q := NewQueue("events", func(ctx context.Context, job Job) error {
		if atomic.AddInt32(&attempts, 1) < 2 {
			return errors.New("transient")
		}
		close(done)
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 3, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.True(t, q.TryEnqueue(Job{ID: "job-1", Type: "team.updated"}))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried")
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
	assert.Eventually(t, func() bool { return q.Stats().Processed == 1 }, time.Second, 5*time.Millisecond)
}

func TestQueueGivesUpAfterMaxRetries(t *testing.T) {
	var attempts int32
	q := NewQueue("events", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("broker down")
	}, QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: time.Millisecond})
	q.Start(context.Background())

	require.True(t, q.TryEnqueue(Job{ID: "job-1"}))
	assert.Eventually(t, func() bool { return q.Stats().Failed == 1 }, 2*time.Second, 5*time.Millisecond)
	q.Stop()
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestTryEnqueueNeverBlocks(t *testing.T) {
	block := make(chan struct{})
	q := NewQueue("events", func(ctx context.Context, job Job) error {
		<-block
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1, DrainTimeout: 50 * time.Millisecond})

	assert.False(t, q.TryEnqueue(Job{ID: "before-start"}))

	q.Start(context.Background())
	defer func() {
		close(block)
		q.Stop()
	}()

	accepted := 0
	for i := 0; i < 10; i++ {
		if q.TryEnqueue(Job{ID: "job"}) {
			accepted++
		}
	}
	assert.Less(t, accepted, 10)
	assert.Equal(t, int64(1+10-accepted), q.Stats().Dropped)
	assert.Equal(t, "events", q.Name())
}

func TestStopDrainsBacklog(t *testing.T) {
	var handled int32
	release := make(chan struct{})
	q := NewQueue("events", func(ctx context.Context, job Job) error {
		<-release
		atomic.AddInt32(&handled, 1)
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 8, DrainTimeout: 2 * time.Second})
	q.Start(context.Background())

	for i := 0; i < 5; i++ {
		require.True(t, q.TryEnqueue(Job{ID: "job"}))
	}
	close(release)
	q.Stop()

	assert.Equal(t, int32(5), atomic.LoadInt32(&handled))
	assert.False(t, q.TryEnqueue(Job{ID: "after-stop"}))
}
