package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogweb/blog-api/internal/core/domain"
)

type recordingNotifier struct {
	mu       sync.Mutex
	sent     []string
	failOn   string
	failures int
}

func (n *recordingNotifier) Send(_ context.Context, _, toAddress, subject, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if subject == n.failOn {
		n.failures++
		return errors.New("smtp down")
	}
	n.sent = append(n.sent, toAddress+"|"+subject)
	return nil
}

func (n *recordingNotifier) snapshot() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

func TestDispatcher_DeliversInOrderPerRecipient(t *testing.T) {
	next := &recordingNotifier{}
	d := NewDispatcher(3, 16, next, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for _, subject := range []string{"1", "2", "3"} {
		require.NoError(t, d.Send(context.Background(), "Ada", "ada@x.com", subject, "body"))
	}

	require.Eventually(t, func() bool { return len(next.snapshot()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"ada@x.com|1", "ada@x.com|2", "ada@x.com|3"}, next.snapshot())

	cancel()
	d.Wait()
}

func TestDispatcher_QueueFull(t *testing.T) {
	next := &recordingNotifier{}
	d := NewDispatcher(1, 1, next, zerolog.Nop())

	require.NoError(t, d.Send(context.Background(), "Ada", "ada@x.com", "1", "b"))
	err := d.Send(context.Background(), "Ada", "ada@x.com", "2", "b")
	assert.ErrorIs(t, err, domain.ErrNotify)
}

func TestDispatcher_DeliveryFailureDoesNotStopWorker(t *testing.T) {
	next := &recordingNotifier{failOn: "1"}
	d := NewDispatcher(1, 4, next, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	require.NoError(t, d.Send(context.Background(), "Ada", "ada@x.com", "1", "b"))
	require.NoError(t, d.Send(context.Background(), "Ada", "ada@x.com", "2", "b"))

	require.Eventually(t, func() bool { return len(next.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"ada@x.com|2"}, next.snapshot())
	next.mu.Lock()
	assert.Equal(t, 1, next.failures)
	next.mu.Unlock()

	cancel()
	d.Wait()
}

func TestDispatcher_StopsOnCancel(t *testing.T) {
	d := NewDispatcher(2, 4, &recordingNotifier{}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		d.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workers did not stop")
	}
}

func TestShardIndex_Deterministic(t *testing.T) {
	d := NewDispatcher(8, 1, &recordingNotifier{}, zerolog.Nop())
	first := d.shardIndex("ada@x.com")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.shardIndex("ada@x.com"))
	}
	assert.Less(t, first, 8)
	assert.GreaterOrEqual(t, first, 0)
}

func TestNewDispatcher_Defaults(t *testing.T) {
	d := NewDispatcher(0, 0, &recordingNotifier{}, zerolog.Nop())
	assert.Len(t, d.workers, defaultWorkers)
	assert.Equal(t, channelBuffer, cap(d.workers[0]))
}

type gatedNotifier struct {
	recordingNotifier
	gate chan struct{}
}

func (n *gatedNotifier) Send(ctx context.Context, toName, toAddress, subject, body string) error {
	<-n.gate
	return n.recordingNotifier.Send(ctx, toName, toAddress, subject, body)
}

func TestDispatcher_ShutdownDrainsQueue(t *testing.T) {
	next := &recordingNotifier{}
	d := NewDispatcher(2, 16, next, zerolog.Nop())

	for _, to := range []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com", "e@x.com"} {
		require.NoError(t, d.Send(context.Background(), "User", to, "welcome", "b"))
	}
	d.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))
	assert.Len(t, next.snapshot(), 5)
}

func TestDispatcher_ShutdownDeadlineDropsRemaining(t *testing.T) {
	next := &gatedNotifier{gate: make(chan struct{})}
	d := NewDispatcher(1, 16, next, zerolog.Nop())

	for _, subject := range []string{"1", "2", "3"} {
		require.NoError(t, d.Send(context.Background(), "Ada", "ada@x.com", subject, "b"))
	}
	d.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	release := time.AfterFunc(100*time.Millisecond, func() { close(next.gate) })
	defer release.Stop()

	err := d.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"ada@x.com|1"}, next.snapshot())
}

func TestDispatcher_SendAfterShutdown(t *testing.T) {
	d := NewDispatcher(1, 4, &recordingNotifier{}, zerolog.Nop())
	d.Start(context.Background())
	require.NoError(t, d.Shutdown(context.Background()))

	err := d.Send(context.Background(), "Ada", "ada@x.com", "late", "b")
	assert.ErrorIs(t, err, domain.ErrNotify)
	assert.NoError(t, d.Shutdown(context.Background()))
}
