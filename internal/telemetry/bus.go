package telemetry

import (
	"log"
	"sync"
	"time"
)

// Publisher is what producers need from the bus.
type Publisher interface {
	Publish(e Event)
}

// Bus fans events out to subscribers synchronously, in subscription order.
// A panicking subscriber is logged and skipped; the rest still receive the
// event and the producer never sees the failure.
type Bus struct {
	mu     sync.Mutex
	subs   []subscription
	nextID int
	seq    int
	now    func() time.Time
	logger *log.Logger
}

type subscription struct {
	id int
	fn func(Event)
}

func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.Default()
	}
	return &Bus{logger: logger, now: time.Now}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish stamps e with a sequence number and time, then delivers it on the
// caller's goroutine. No lock is held during delivery, so a subscriber may
// publish in turn. Ordering holds per producer; events from concurrent
// producers can interleave.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	b.seq++
	e.Seq = b.seq
	if e.Timestamp.IsZero() {
		e.Timestamp = b.now()
	}
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		b.deliver(s, e)
	}
}

func (b *Bus) deliver(s subscription, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Printf("telemetry: subscriber %d panicked on %s: %v", s.id, e.Type, r)
		}
	}()
	e.Context = copyContext(e.Context)
	s.fn(e)
}

func copyContext(ctx map[string]any) map[string]any {
	if ctx == nil {
		return nil
	}
	out := make(map[string]any, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}

// Discard is a Publisher that drops everything.
type Discard struct{}

func (Discard) Publish(Event) {}

// Collector buffers events for tests and batch consumers.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *Collector) Publish(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

func (c *Collector) Types() []EventType {
	events := c.Events()
	out := make([]EventType, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}
