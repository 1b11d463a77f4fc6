package dispatcher

import "github.com/ecarden/repo-indexer/internal/message"

// Outcome classifies how a dispatch cycle terminated
type Outcome string

const (
	OutcomeIndexed     Outcome = "indexed"
	OutcomeRemoved     Outcome = "removed"
	OutcomeIgnored     Outcome = "ignored"
	OutcomeDecodeError Outcome = "decode_error"
	OutcomeFetchError  Outcome = "fetch_error"
)

// IndexerResult captures the outcome of one indexer call within a cycle
type IndexerResult struct {
	Indexer string
	Err     error
}

// Report is the aggregated outcome of one dispatch cycle. Indexer and
// listener failures are collected here instead of being surfaced only
// through logs.
type Report struct {
	MessageID  string
	ResourceID string
	Op         message.Operation
	Outcome    Outcome

	// Err is set when the cycle aborted before fan-out
	Err error

	// Indexers holds one result per registered indexer, in
	// registration order
	Indexers []IndexerResult
}

// Failed reports whether the cycle aborted before reaching fan-out
func (r Report) Failed() bool {
	return r.Err != nil
}

// IndexerErrors returns the subset of indexer results that failed
func (r Report) IndexerErrors() []IndexerResult {
	var failed []IndexerResult
	for _, res := range r.Indexers {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}
