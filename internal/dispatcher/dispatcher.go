package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecarden/repo-indexer/internal/fetcher"
	"github.com/ecarden/repo-indexer/internal/indexer"
	"github.com/ecarden/repo-indexer/internal/message"
)

// Dispatcher reacts to repository change notifications and propagates
// each change to every registered indexer. It is safe for concurrent
// use: the transport may deliver notifications from multiple
// goroutines, each processed end-to-end independently.
type Dispatcher struct {
	baseURL  string
	fetch    fetcher.Fetcher
	indexers []indexer.Indexer
	logger   zerolog.Logger

	// Listeners are snapshotted copy-on-write so in-flight cycles
	// always iterate a consistent set
	listenersMu sync.RWMutex
	listeners   []Listener

	completions completions
}

// New creates a dispatcher. The indexer set is fixed at construction;
// listeners may be added before the transport starts delivering.
func New(baseURL string, fetch fetcher.Fetcher, indexers []indexer.Indexer, logger zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		baseURL:  baseURL,
		fetch:    fetch,
		indexers: append([]indexer.Indexer(nil), indexers...),
		logger:   logger,
	}
	d.logger.Debug().Int("indexers", len(d.indexers)).Msg("created dispatcher")
	return d
}

// AddListener registers a listener to be notified when an indexing
// round completes
func (d *Dispatcher) AddListener(l Listener) {
	if l == nil {
		return
	}
	d.listenersMu.Lock()
	listeners := make([]Listener, len(d.listeners), len(d.listeners)+1)
	copy(listeners, d.listeners)
	d.listeners = append(listeners, l)
	d.listenersMu.Unlock()
}

// snapshotListeners returns the current listener set for iteration
func (d *Dispatcher) snapshotListeners() []Listener {
	d.listenersMu.RLock()
	defer d.listenersMu.RUnlock()
	return d.listeners
}

// OnMessage is the single entry point the transport calls for each
// inbound notification. It blocks until the cycle completes and never
// panics or propagates an error: all failures are logged and folded
// into the cycle report, so the message-processing loop is never
// poisoned.
func (d *Dispatcher) OnMessage(ctx context.Context, msg *message.Notification) Report {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Interface("panic", r).Msg("recovered panic in dispatch cycle")
		}
	}()

	if msg == nil || len(msg.Payload) == 0 {
		// Unrecognized payload shape, ignored without a decode attempt
		d.logger.Debug().Msg("ignoring empty notification")
		cyclesTotal.WithLabelValues(string(OutcomeIgnored)).Inc()
		return Report{Outcome: OutcomeIgnored}
	}

	d.logger.Debug().Str("message_id", msg.ID).Msg("received notification")

	event, err := message.Decode(msg.Payload, d.baseURL)
	if err != nil {
		d.logger.Error().
			Err(err).
			Str("message_id", msg.ID).
			Msg("failed to decode notification")
		return d.finish(Report{
			MessageID: msg.ID,
			Outcome:   OutcomeDecodeError,
			Err:       err,
		})
	}

	d.logger.Debug().
		Str("message_id", msg.ID).
		Str("resource_id", event.ResourceID).
		Stringer("operation", event.Op).
		Msg("decoded notification")

	// Updates carry current content; removals never fetch
	var content string
	if event.Op == message.OpUpdate {
		start := time.Now()
		content, err = d.fetch.Fetch(ctx, event.ResourceID)
		fetchDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			d.logger.Error().
				Err(err).
				Str("message_id", msg.ID).
				Str("resource_id", event.ResourceID).
				Msg("failed to fetch resource content")
			return d.finish(Report{
				MessageID:  msg.ID,
				ResourceID: event.ResourceID,
				Op:         event.Op,
				Outcome:    OutcomeFetchError,
				Err:        err,
			})
		}
	}

	report := Report{
		MessageID:  msg.ID,
		ResourceID: event.ResourceID,
		Op:         event.Op,
		Outcome:    OutcomeIndexed,
		Indexers:   d.fanOut(ctx, *event, content),
	}
	if event.Op == message.OpRemoval {
		report.Outcome = OutcomeRemoved
	}

	d.notifyListeners(*event, msg)

	return d.finish(report)
}

// Await blocks until the next dispatch cycle completes, whatever
// resource it concerned, and returns its report.
func (d *Dispatcher) Await(ctx context.Context) (Report, error) {
	return d.completions.await(ctx, "")
}

// AwaitResource blocks until a cycle for the given resource completes
func (d *Dispatcher) AwaitResource(ctx context.Context, resourceID string) (Report, error) {
	return d.completions.await(ctx, resourceID)
}

// fanOut invokes every registered indexer concurrently and waits for
// all of them before returning. A failing or panicking indexer never
// prevents the others from running.
func (d *Dispatcher) fanOut(ctx context.Context, event message.ChangeEvent, content string) []IndexerResult {
	results := make([]IndexerResult, len(d.indexers))

	var wg sync.WaitGroup
	for i, idx := range d.indexers {
		wg.Add(1)
		go func(i int, idx indexer.Indexer) {
			defer wg.Done()
			err := d.invokeIndexer(ctx, idx, event, content)
			results[i] = IndexerResult{Indexer: idx.Name(), Err: err}
			if err != nil {
				indexerErrorsTotal.WithLabelValues(idx.Name()).Inc()
				d.logger.Error().
					Err(err).
					Str("resource_id", event.ResourceID).
					Str("indexer", idx.Name()).
					Msg("indexer call failed")
			}
		}(i, idx)
	}
	wg.Wait()

	return results
}

// invokeIndexer calls one indexer, converting a panic into an error so
// the failure stays isolated to this call
func (d *Dispatcher) invokeIndexer(ctx context.Context, idx indexer.Indexer, event message.ChangeEvent, content string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("indexer panic: %v", r)
		}
	}()

	if event.Op == message.OpRemoval {
		return idx.Remove(ctx, event.ResourceID)
	}
	return idx.Update(ctx, event.ResourceID, content)
}

// notifyListeners informs every registered listener of the completed
// round. Listener failures are isolated the same way indexer failures
// are.
func (d *Dispatcher) notifyListeners(event message.ChangeEvent, msg *message.Notification) {
	for _, l := range d.snapshotListeners() {
		d.notifyListener(l, event, msg)
	}
}

func (d *Dispatcher) notifyListener(l Listener, event message.ChangeEvent, msg *message.Notification) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().
				Interface("panic", r).
				Str("resource_id", event.ResourceID).
				Msg("listener panicked")
		}
	}()

	if event.Op == message.OpRemoval {
		l.NotifyRemove(event, msg)
	} else {
		l.NotifyUpdate(event, msg)
	}
}

// finish records the cycle outcome and releases any waiters
func (d *Dispatcher) finish(report Report) Report {
	cyclesTotal.WithLabelValues(string(report.Outcome)).Inc()
	d.completions.signal(report)
	return report
}
