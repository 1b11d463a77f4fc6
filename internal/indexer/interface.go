package indexer

import "context"

// Indexer defines the capability interface content indexers implement.
// Both operations are independently failable; callers are expected to
// isolate failures rather than propagate them.
type Indexer interface {
	// Name identifies the indexer in logs and metrics
	Name() string

	// Update indexes the current content of a resource
	Update(ctx context.Context, resourceID, content string) error

	// Remove deletes a resource from the index
	Remove(ctx context.Context, resourceID string) error

	// HealthCheck verifies the backing store is reachable
	HealthCheck(ctx context.Context) error

	// Close releases the indexer's resources
	Close() error
}
