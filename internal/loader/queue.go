package loader

import "sync"

// DeliveryQueue runs posted closures on a single goroutine in FIFO order.
// Callbacks therefore never execute on a loader goroutine, and never
// concurrently with each other. Cancel drops closures that have been posted
// but not yet delivered.
type DeliveryQueue struct {
	mu      sync.Mutex
	pending []func()
	closed  bool

	wake chan struct{}
	done chan struct{}
	quit chan struct{}
}

// NewDeliveryQueue starts the delivery goroutine.
func NewDeliveryQueue() *DeliveryQueue {
	q := &DeliveryQueue{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		quit: make(chan struct{}),
	}
	go q.run()
	return q
}

// Post enqueues a closure for delivery. Posting to a closed queue drops the
// closure.
func (q *DeliveryQueue) Post(fn func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Cancel drops every closure that has not been delivered yet. Closures
// already executing are unaffected.
func (q *DeliveryQueue) Cancel() {
	q.mu.Lock()
	q.pending = nil
	q.mu.Unlock()
}

// Close stops the delivery goroutine after dropping undelivered closures.
func (q *DeliveryQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.pending = nil
	q.mu.Unlock()

	close(q.quit)
	<-q.done
}

func (q *DeliveryQueue) run() {
	defer close(q.done)
	for {
		select {
		case <-q.quit:
			return
		case <-q.wake:
			for {
				q.mu.Lock()
				if len(q.pending) == 0 {
					q.mu.Unlock()
					break
				}
				fn := q.pending[0]
				q.pending = q.pending[1:]
				q.mu.Unlock()

				fn()
			}
		}
	}
}
