package db

import (
	"context"
	"sync"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

// MemoryDefaults is the in-process fallback for saved filter defaults, used
// when no DATABASE_URL is configured. Contents do not survive a restart.
type MemoryDefaults struct {
	mu    sync.RWMutex
	saved map[string]types.SavedFilters
}

// NewMemoryDefaults creates an empty in-memory defaults store.
func NewMemoryDefaults() *MemoryDefaults {
	return &MemoryDefaults{saved: make(map[string]types.SavedFilters)}
}

// Save stores the saved filter defaults for profile.
func (m *MemoryDefaults) Save(ctx context.Context, profile string, saved types.SavedFilters) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[profile] = saved
	return nil
}

// Load retrieves the saved filter defaults for profile.
func (m *MemoryDefaults) Load(ctx context.Context, profile string) (types.SavedFilters, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	saved, ok := m.saved[profile]
	return saved, ok, nil
}

// Delete removes the saved filter defaults for profile.
func (m *MemoryDefaults) Delete(ctx context.Context, profile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved, profile)
	return nil
}
