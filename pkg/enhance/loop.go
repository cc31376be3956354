package enhance

import (
	"sync"
)

// Loop is the single-threaded executor all enhancement work runs on: scan
// flushes, timer fires and mutation handling are posted here and execute
// strictly sequentially. Posting from inside a running callback is legal;
// the work is queued and runs after the current callback returns.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// NewLoop creates a loop; call Start to begin executing posted work
func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Start launches the loop goroutine
func (l *Loop) Start() {
	go l.run()
}

// Post queues fn for execution on the loop. It never blocks the caller.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Call posts fn and waits for it to finish. It must not be called from the
// loop goroutine itself.
func (l *Loop) Call(fn func()) {
	finished := make(chan struct{})
	l.Post(func() {
		fn()
		close(finished)
	})
	<-finished
}

// Stop terminates the loop; queued work that has not started is discarded
func (l *Loop) Stop() {
	l.once.Do(func() {
		close(l.done)
	})
}

func (l *Loop) run() {
	for {
		select {
		case <-l.done:
			return
		case <-l.wake:
			l.drain()
		}
	}
}

// drain runs queued work until the queue is empty, taking one batch at a
// time so callbacks that post more work cannot starve the done check
func (l *Loop) drain() {
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			select {
			case <-l.done:
				return
			default:
			}
			fn()
		}
	}
}
