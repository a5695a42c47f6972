package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"clock-radio/internal/domain"
	"clock-radio/internal/logging"
)

// Multi fans an event out to several publishers.
type Multi []domain.EventPublisher

func (m Multi) Publish(ctx context.Context, event domain.Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Async decouples the playback loop from slow brokers. Publish never blocks: when the
// buffer is full, or Run has already drained and returned, the event is dropped and logged.
type Async struct {
	next    domain.EventPublisher
	queue   chan domain.Event
	timeout time.Duration

	mu      sync.Mutex
	stopped bool

	once sync.Once
	done chan struct{}
}

// NewAsync wraps next with a queue of the given size.
func NewAsync(next domain.EventPublisher, size int) *Async {
	if size <= 0 {
		size = 16
	}
	return &Async{
		next:    next,
		queue:   make(chan domain.Event, size),
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}
}

// Publish enqueues the event.
func (a *Async) Publish(_ context.Context, event domain.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		logging.Warnf("notify: stopped, dropping %s event", event.Kind)
		return nil
	}
	select {
	case a.queue <- event:
	default:
		logging.Warnf("notify: queue full, dropping %s event", event.Kind)
	}
	return nil
}

// Run forwards queued events until ctx is cancelled, then drains what is left.
func (a *Async) Run(ctx context.Context) {
	defer a.once.Do(func() { close(a.done) })
	for {
		select {
		case ev := <-a.queue:
			a.forward(ev)
		case <-ctx.Done():
			for {
				select {
				case ev := <-a.queue:
					a.forward(ev)
				default:
					if a.stop() {
						return
					}
				}
			}
		}
	}
}

// stop marks the queue closed for new events unless one slipped in after the last drain.
func (a *Async) stop() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.queue) > 0 {
		return false
	}
	a.stopped = true
	return true
}

// Done is closed once Run has returned.
func (a *Async) Done() <-chan struct{} {
	return a.done
}

func (a *Async) forward(ev domain.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if err := a.next.Publish(ctx, ev); err != nil {
		logging.Warnf("notify: publish %s: %v", ev.Kind, err)
	}
}
