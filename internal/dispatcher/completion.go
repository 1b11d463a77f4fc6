package dispatcher

import (
	"context"
	"sync"
)

// waiter represents one caller blocked on cycle completion. An empty
// resource matches any cycle.
type waiter struct {
	resource string
	ch       chan Report
}

// completions releases callers awaiting completed dispatch cycles.
// Each waiter gets its own buffered channel, so signalling a cycle is
// atomic with respect to registration: a waiter either receives the
// report or was not yet registered, there is no missed-signal window.
type completions struct {
	mu      sync.Mutex
	waiters []*waiter
}

// await blocks until a matching cycle completes or ctx is done
func (c *completions) await(ctx context.Context, resource string) (Report, error) {
	w := &waiter{
		resource: resource,
		ch:       make(chan Report, 1),
	}

	c.mu.Lock()
	c.waiters = append(c.waiters, w)
	c.mu.Unlock()

	select {
	case report := <-w.ch:
		return report, nil
	case <-ctx.Done():
		c.remove(w)
		// The cycle may have signalled between ctx firing and removal
		select {
		case report := <-w.ch:
			return report, nil
		default:
			return Report{}, ctx.Err()
		}
	}
}

// signal delivers the report to every matching waiter and drops them
// from the wait set
func (c *completions) signal(report Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.waiters[:0]
	for _, w := range c.waiters {
		if w.resource == "" || w.resource == report.ResourceID {
			w.ch <- report
		} else {
			kept = append(kept, w)
		}
	}
	c.waiters = kept
}

func (c *completions) remove(target *waiter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, w := range c.waiters {
		if w == target {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return
		}
	}
}
