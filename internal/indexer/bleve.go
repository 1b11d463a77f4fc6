package indexer

import (
	"context"
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// BleveIndexer implements the Indexer interface on a bleve full-text index
type BleveIndexer struct {
	mu     sync.RWMutex
	index  bleve.Index
	closed bool
}

// BleveDocument is the document shape stored in the index
type BleveDocument struct {
	Content string `json:"content"`
}

// NewBleveIndexer opens or creates a bleve index at path.
// If path is empty an in-memory index is created.
func NewBleveIndexer(path string) (*BleveIndexer, error) {
	mapping := bleve.NewIndexMapping()

	var idx bleve.Index
	var err error
	if path == "" {
		idx, err = bleve.NewMemOnly(mapping)
	} else {
		idx, err = bleve.Open(path)
		if err == bleve.ErrorIndexPathDoesNotExist {
			idx, err = bleve.New(path, mapping)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open bleve index: %w", err)
	}

	return &BleveIndexer{index: idx}, nil
}

// Name identifies this indexer
func (bi *BleveIndexer) Name() string {
	return "bleve"
}

// Update indexes the resource content for full-text search
func (bi *BleveIndexer) Update(ctx context.Context, resourceID, content string) error {
	bi.mu.RLock()
	defer bi.mu.RUnlock()

	if bi.closed {
		return fmt.Errorf("bleve index is closed")
	}

	if err := bi.index.Index(resourceID, BleveDocument{Content: content}); err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	return nil
}

// Remove deletes the resource from the index. Deleting an unknown
// document is a no-op in bleve.
func (bi *BleveIndexer) Remove(ctx context.Context, resourceID string) error {
	bi.mu.RLock()
	defer bi.mu.RUnlock()

	if bi.closed {
		return fmt.Errorf("bleve index is closed")
	}

	if err := bi.index.Delete(resourceID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// HealthCheck verifies the index is open and readable
func (bi *BleveIndexer) HealthCheck(ctx context.Context) error {
	bi.mu.RLock()
	defer bi.mu.RUnlock()

	if bi.closed {
		return fmt.Errorf("bleve index is closed")
	}

	_, err := bi.index.DocCount()
	return err
}

// DocCount returns the number of indexed documents
func (bi *BleveIndexer) DocCount() (uint64, error) {
	bi.mu.RLock()
	defer bi.mu.RUnlock()

	if bi.closed {
		return 0, fmt.Errorf("bleve index is closed")
	}
	return bi.index.DocCount()
}

// Close closes the underlying index
func (bi *BleveIndexer) Close() error {
	bi.mu.Lock()
	defer bi.mu.Unlock()

	if bi.closed {
		return nil
	}
	bi.closed = true
	return bi.index.Close()
}
