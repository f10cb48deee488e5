package eventbus

import (
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"
)

const (
	defaultWorkers   = 10
	defaultQueueSize = 1000
)

// AsyncEventBus fans published events out to a bounded worker pool so a slow
// subscriber never stalls the publisher. When the queue is full the event is
// dropped rather than blocking the hot path.
type AsyncEventBus struct {
	bus     evbus.Bus
	workers int
	queue   chan queuedEvent
	done    chan struct{}
	wg      sync.WaitGroup
}

type queuedEvent struct {
	topic string
	args  []interface{}
}

func NewAsyncEventBus(workers int) *AsyncEventBus {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &AsyncEventBus{
		bus:     evbus.New(),
		workers: workers,
		queue:   make(chan queuedEvent, defaultQueueSize),
		done:    make(chan struct{}),
	}
}

func (b *AsyncEventBus) Start() {
	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go b.drain()
	}
}

func (b *AsyncEventBus) Stop() {
	close(b.done)
	b.wg.Wait()
}

func (b *AsyncEventBus) drain() {
	defer b.wg.Done()
	for {
		select {
		case <-b.done:
			return
		case ev := <-b.queue:
			b.dispatch(ev)
		}
	}
}

// dispatch delivers one event, isolating subscriber panics to the event.
func (b *AsyncEventBus) dispatch(ev queuedEvent) {
	defer func() {
		recover()
	}()
	b.bus.Publish(ev.topic, ev.args...)
}

// Publish delivers the event synchronously on the underlying bus.
func (b *AsyncEventBus) Publish(topic string, args ...interface{}) {
	b.bus.Publish(topic, args...)
}

// PublishAsync queues the event for the worker pool; full queue drops it.
func (b *AsyncEventBus) PublishAsync(topic string, args ...interface{}) {
	select {
	case b.queue <- queuedEvent{topic: topic, args: args}:
	default:
	}
}

func (b *AsyncEventBus) Subscribe(topic string, fn interface{}) error {
	return b.bus.Subscribe(topic, fn)
}

// SubscribeAsync registers a handler invoked by the worker pool for events
// queued via PublishAsync.
func (b *AsyncEventBus) SubscribeAsync(topic string, fn interface{}) error {
	return b.bus.Subscribe(topic, fn)
}

func (b *AsyncEventBus) Unsubscribe(topic string, fn interface{}) error {
	return b.bus.Unsubscribe(topic, fn)
}

func (b *AsyncEventBus) HasCallback(topic string) bool {
	return b.bus.HasCallback(topic)
}

// WaitAsync gives queued events a moment to drain. Test helper.
func (b *AsyncEventBus) WaitAsync() {
	time.Sleep(100 * time.Millisecond)
}
