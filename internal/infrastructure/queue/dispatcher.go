package queue

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/blogweb/blog-api/internal/core/domain"
	"github.com/blogweb/blog-api/internal/core/ports"
	"github.com/blogweb/blog-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

type message struct {
	toName    string
	toAddress string
	subject   string
	body      string
}

// Dispatcher delivers notifications asynchronously through a fixed set of
// workers. Messages are sharded by recipient so mail to one address is sent
// in order.
type Dispatcher struct {
	workers []chan message
	next    ports.Notifier
	log     zerolog.Logger
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
	stop   context.CancelFunc
}

// NewDispatcher creates a Dispatcher in front of next. Non-positive
// numWorkers or buffer fall back to the defaults.
func NewDispatcher(numWorkers, buffer int, next ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = channelBuffer
	}
	d := &Dispatcher{
		workers: make([]chan message, numWorkers),
		next:    next,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan message, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or Shutdown gives up; messages still queued at that point are dropped.
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, stop := context.WithCancel(ctx)
	d.mu.Lock()
	d.stop = stop
	d.mu.Unlock()

	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Shutdown stops accepting messages and waits for the workers to deliver
// what is queued. When ctx ends first the workers are stopped, the remaining
// messages are dropped and ctx.Err() is returned.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	stop := d.stop
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if stop != nil {
			stop()
		}
		<-done
		return ctx.Err()
	}
}

// Send queues the message and returns without waiting for delivery. A full
// worker queue or a shut down dispatcher yields domain.ErrNotify.
func (d *Dispatcher) Send(_ context.Context, toName, toAddress, subject, body string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.NotificationsTotal.WithLabelValues("queue_closed").Inc()
		return fmt.Errorf("%w: dispatcher shut down", domain.ErrNotify)
	}

	idx := d.shardIndex(toAddress)
	select {
	case d.workers[idx] <- message{toName: toName, toAddress: toAddress, subject: subject, body: body}:
		metrics.NotificationsTotal.WithLabelValues("queued").Inc()
		metrics.NotifyQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	default:
		metrics.NotificationsTotal.WithLabelValues("queue_full").Inc()
		return fmt.Errorf("%w: queue %d full", domain.ErrNotify, idx)
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan message) {
	defer d.wg.Done()
	gauge := metrics.NotifyQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		if ctx.Err() != nil {
			d.dropRemaining(id, ch)
			return
		}
		select {
		case <-ctx.Done():
			d.dropRemaining(id, ch)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			gauge.Set(float64(len(ch)))
			// in-flight delivery survives shutdown
			if err := d.next.Send(context.WithoutCancel(ctx), msg.toName, msg.toAddress, msg.subject, msg.body); err != nil {
				metrics.NotificationsTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Str("to", msg.toAddress).
					Int("worker_id", id).
					Msg("notification delivery failed")
				continue
			}
			metrics.NotificationsTotal.WithLabelValues("sent").Inc()
		}
	}
}

func (d *Dispatcher) dropRemaining(id int, ch <-chan message) {
	if n := len(ch); n > 0 {
		d.log.Warn().Int("worker_id", id).Int("dropped", n).Msg("notification queue dropped on shutdown")
	}
}
