package storage

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	config "github.com/curachain/claimscan/configs"
)

// MemoryCursorStore keeps cursors in an in-process LRU. Suitable for
// development and single-instance deployments; cursors do not survive a
// restart.
type MemoryCursorStore struct {
	cache *lru.Cache[string, uint64]
}

func NewMemoryCursorStore(cfg *config.MemoryConfig) (*MemoryCursorStore, error) {
	maxItems := 1000
	if cfg != nil && cfg.MaxItems > 0 {
		maxItems = cfg.MaxItems
	}

	cache, err := lru.New[string, uint64](maxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}

	return &MemoryCursorStore{cache: cache}, nil
}

func (m *MemoryCursorStore) GetCursor(key string) (uint64, bool, error) {
	block, ok := m.cache.Get(key)
	return block, ok, nil
}

func (m *MemoryCursorStore) SetCursor(key string, block uint64) error {
	m.cache.Add(key, block)
	return nil
}
