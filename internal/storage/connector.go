package storage

import (
	"fmt"

	config "github.com/curachain/claimscan/configs"
)

// CursorKeyPrefix namespaces persisted scan cursors in whatever store backs
// them. Cursors are keyed per provider.
const CursorKeyPrefix = "claim_scan_cursor"

// ICursorStore persists the "highest block already scanned, plus one" boundary
// between scans. Injected into the scanner so tests can use fakes and
// deployments can pick a backend.
type ICursorStore interface {
	// GetCursor returns the persisted cursor for key, and whether one exists.
	GetCursor(key string) (uint64, bool, error)
	// SetCursor overwrites the cursor for key.
	SetCursor(key string, block uint64) error
}

// CursorKey builds the store key for one provider's scan cursor.
func CursorKey(provider string) string {
	return fmt.Sprintf("%s:%s", CursorKeyPrefix, provider)
}

func NewCursorStore(cfg *config.CursorStorageConfig) (ICursorStore, error) {
	if cfg != nil && cfg.Redis != nil && cfg.Redis.Addr != "" {
		return NewRedisCursorStore(cfg.Redis)
	}
	if cfg != nil && cfg.Memory != nil {
		return NewMemoryCursorStore(cfg.Memory)
	}
	// no driver configured, keep cursors in process memory
	return NewMemoryCursorStore(&config.MemoryConfig{})
}
