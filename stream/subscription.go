package stream

import (
	"context"
	"sync"
	"time"
)

// Subscription is one subscriber's view of a stream.
type Subscription[T any] struct {
	out  chan T
	done chan struct{}

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []T
	stopped bool
	ended   bool

	workers sync.WaitGroup
	once    sync.Once
	detach  func(*Subscription[T])
}

func newSubscription[T any](detach func(*Subscription[T])) *Subscription[T] {
	s := &Subscription[T]{
		out:    make(chan T),
		done:   make(chan struct{}),
		detach: detach,
	}
	s.cond = sync.NewCond(&s.mu)

	s.workers.Add(1)
	go s.pump()

	return s
}

// C delivers the values. It is closed after Cancel or when the stream ends.
func (s *Subscription[T]) C() <-chan T {
	return s.out
}

// Done is closed once Cancel has been called.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Cancel detaches the subscriber and stops everything producing for it.
// Once Cancel returns no further value is delivered. Safe to call twice.
func (s *Subscription[T]) Cancel() {
	s.once.Do(func() {
		if s.detach != nil {
			s.detach(s)
		}

		s.mu.Lock()
		s.stopped = true
		s.queue = nil
		s.cond.Broadcast()
		s.mu.Unlock()

		close(s.done)
	})

	s.workers.Wait()
}

func (s *Subscription[T]) push(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || s.ended {
		return
	}

	s.queue = append(s.queue, v)
	s.cond.Signal()
}

func (s *Subscription[T]) end() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ended = true
	s.cond.Broadcast()
}

func (s *Subscription[T]) pump() {
	defer s.workers.Done()
	defer close(s.out)

	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.stopped && !s.ended {
			s.cond.Wait()
		}

		if s.stopped || len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}

		v := s.queue[0]
		var zero T
		s.queue[0] = zero
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- v:
		case <-s.done:
			return
		}
	}
}

// Ticker returns a subscription that samples a value every interval for as
// long as it is attached. Each subscription owns its timer, so cancelling one
// never affects another. Samples that fail are skipped.
func Ticker[T any](interval time.Duration, sample func(ctx context.Context) (T, error)) *Subscription[T] {
	s := newSubscription[T](nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-s.done
		cancel()
	}()

	s.workers.Add(1)
	go func() {
		defer s.workers.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				v, err := sample(ctx)
				if err != nil {
					continue
				}
				s.push(v)
			}
		}
	}()

	return s
}
