package fetch

import "sync"

// State is an observable snapshot of a hook.
type State struct {
	// Data is the most recently adopted response body.
	Data any
	// Loading is true from a trigger until its exchange settles.
	Loading bool
	// Error is the last configuration or transport failure, "" after a success.
	Error string
	// Changed reports whether the last settled response differed from the
	// one before it. Always false while change tracking is off.
	Changed bool
	// Generation identifies the most recent trigger.
	Generation uint64
}

// broadcaster fans snapshots out to latest-value subscriber channels.
type broadcaster struct {
	mu     sync.Mutex
	subs   map[uint64]chan State
	next   uint64
	closed bool
}

func (b *broadcaster) subscribe(initial State) (<-chan State, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan State, 1)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	if b.subs == nil {
		b.subs = make(map[uint64]chan State)
	}
	id := b.next
	b.next++
	b.subs[id] = ch
	ch <- initial

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// publish replaces any unread snapshot with s.
func (b *broadcaster) publish(s State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
