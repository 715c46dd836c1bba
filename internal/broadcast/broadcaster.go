package broadcast

import (
	"log/slog"
	"sync"

	"github.com/nmilosev/evalgate/internal/domain"
)

const defaultBuffer = 16

// Broadcaster fans completed evaluation records out to subscribers. Delivery
// is at-most-once per subscriber: events sent while a subscriber's buffer is
// full are dropped so a slow consumer never stalls evaluation throughput.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[*Subscription]struct{}
	buffer      int
	closed      bool
}

// Subscription is one consumer's feed of evaluation records.
type Subscription struct {
	C <-chan domain.EvalRecord

	ch     chan domain.EvalRecord
	parent *Broadcaster
	once   sync.Once
}

type Option func(*Broadcaster)

func WithBuffer(n int) Option {
	return func(b *Broadcaster) {
		if n > 0 {
			b.buffer = n
		}
	}
}

func New(opts ...Option) *Broadcaster {
	b := &Broadcaster{
		subscribers: make(map[*Subscription]struct{}),
		buffer:      defaultBuffer,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a new consumer. The caller must Close the subscription
// when done; there is no replay of events missed before subscribing.
func (b *Broadcaster) Subscribe() *Subscription {
	ch := make(chan domain.EvalRecord, b.buffer)
	sub := &Subscription{C: ch, ch: ch, parent: b}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return sub
	}
	b.subscribers[sub] = struct{}{}
	return sub
}

// Publish delivers a record to every subscriber without blocking.
func (b *Broadcaster) Publish(record domain.EvalRecord) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers {
		select {
		case sub.ch <- record:
		default:
			slog.Warn("Dropping update for slow subscriber", "record_id", record.ID)
		}
	}
}

// Close shuts the broadcaster down; all subscription channels are closed.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subscribers {
		close(sub.ch)
		delete(b.subscribers, sub)
	}
}

// Close deregisters the subscription and closes its channel. Safe to call
// more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.parent.mu.Lock()
		defer s.parent.mu.Unlock()
		if _, ok := s.parent.subscribers[s]; ok {
			delete(s.parent.subscribers, s)
			close(s.ch)
		}
	})
}
