package audit

import (
	"context"
	"maps"
	"sync"
	"sync/atomic"
)

// Config controls dispatcher buffering behavior.
type Config struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// queued pairs an event with the emitting request's values. Cancellation is stripped so a
// finished request cannot abort delivery, but request-scoped values (trace ids, client data)
// still reach the sink.
type queued struct {
	ctx   context.Context
	event Event
}

// Dispatcher relays events to a sink from one worker goroutine.
//
// A nil *Dispatcher is valid and discards everything, which is what NewDispatcher returns
// for a disabled config.
type Dispatcher struct {
	sink       Sink
	dropIfFull bool
	queue      chan queued
	worker     sync.WaitGroup

	// mu is held for reading while sending so Close never closes queue under a sender.
	mu     sync.RWMutex
	closed bool

	dropped       atomic.Uint64
	droppedMu     sync.Mutex
	droppedByType map[string]uint64
}

func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &Dispatcher{
		sink:          sink,
		dropIfFull:    cfg.DropIfFull,
		queue:         make(chan queued, max(cfg.BufferSize, 1)),
		droppedByType: make(map[string]uint64),
	}

	d.worker.Add(1)
	go func() {
		defer d.worker.Done()
		for q := range d.queue {
			d.sink.Emit(q.ctx, q.event)
		}
	}()

	return d
}

// Emit queues event. With DropIfFull it never blocks and counts the drop against the event
// type; otherwise it waits for buffer space or ctx cancellation. Events emitted after Close
// are ignored.
func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if d == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	q := queued{ctx: context.WithoutCancel(ctx), event: event}
	if d.dropIfFull {
		select {
		case d.queue <- q:
		default:
			d.recordDrop(event.EventType)
		}
		return
	}

	select {
	case d.queue <- q:
	case <-ctx.Done():
		d.recordDrop(event.EventType)
	}
}

func (d *Dispatcher) recordDrop(eventType string) {
	d.dropped.Add(1)
	d.droppedMu.Lock()
	d.droppedByType[eventType]++
	d.droppedMu.Unlock()
}

// Close stops accepting events, lets the worker deliver everything already queued and waits
// for it. Calling Close more than once is safe.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.worker.Wait()
}

// Dropped returns the total number of events that never reached the sink.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

// DroppedByType returns a copy of the drop counts keyed by event type.
func (d *Dispatcher) DroppedByType() map[string]uint64 {
	if d == nil {
		return map[string]uint64{}
	}
	d.droppedMu.Lock()
	defer d.droppedMu.Unlock()
	return maps.Clone(d.droppedByType)
}
